package usecase

import (
	"context"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/rs/zerolog"

	"discord-guild-economy/internal/domain/economy"
	"discord-guild-economy/internal/domain/model"
	"discord-guild-economy/internal/domain/ports/repository"
	"discord-guild-economy/internal/infra/logging"
	"discord-guild-economy/internal/infra/metrics"
)

// lockTTL bounds how long a wedged unit of work can hold a user's record.
const lockTTL = 10 * time.Second

func recordLockKey(userID string) string { return "lock:record:" + userID }

// Compile-time check
var _ ActivityUseCase = (*activityUC)(nil)

// ActivityUseCase turns inbound message events into buffer and rank updates.
type ActivityUseCase interface {
	// RecordMessage applies one message by userID. The message count always
	// moves; buffer accrues only when the listener marked the channel
	// eligible. The updated record is returned for display purposes.
	RecordMessage(ctx context.Context, userID, text string, booster, eligible bool) (*model.UserRecord, error)
}

type activityUC struct {
	records repository.RecordRepository
	txm     repository.TransactionManager
	locks   repository.Locker
	log     *zerolog.Logger
}

func NewActivityUseCase(records repository.RecordRepository, txm repository.TransactionManager, locks repository.Locker, logger *zerolog.Logger) *activityUC {
	return &activityUC{records: records, txm: txm, locks: locks, log: logger}
}

func (u *activityUC) RecordMessage(ctx context.Context, userID, text string, booster, eligible bool) (*model.UserRecord, error) {
	defer logging.TraceDuration(u.log, "ActivityUC.RecordMessage")()

	// The whole load-modify-store cycle runs under the user's lock to keep
	// a racing purchase from losing the update.
	token, err := u.locks.TryLock(ctx, recordLockKey(userID), lockTTL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = u.locks.Unlock(ctx, recordLockKey(userID), token) }()

	var rec *model.UserRecord
	err = u.txm.WithTx(ctx, pgx.TxOptions{IsoLevel: pgx.Serializable}, func(ctx context.Context, tx repository.Tx) error {
		var err error
		rec, err = u.records.FindByUserID(ctx, tx, userID)
		if err != nil {
			return err
		}
		if rec == nil {
			rec = model.NewUserRecord()
		}
		rec.Normalize()

		var accrual float64
		if eligible {
			accrual = economy.ComputeAccrual(text, booster)
		}

		before := rec.UserClass
		economy.ApplyActivity(rec, accrual)
		metrics.ObserveActivity(accrual, eligible)

		if rec.UserClass != before {
			metrics.IncRankChange(string(before), string(rec.UserClass))
			u.log.Info().
				Str("user_id", userID).
				Str("from", string(before)).
				Str("to", string(rec.UserClass)).
				Float64("buffer", rec.Buffer).
				Int64("messages", rec.MessageCount).
				Msg("user class changed")
		}

		return u.records.Save(ctx, tx, userID, rec)
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}
