package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"discord-guild-economy/internal/domain/model"
	"discord-guild-economy/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.RecordRepository = (*PostgresRecordRepo)(nil)

// PostgresRecordRepo keeps one JSONB stats document per user, the same
// shape the legacy bot stored, keyed by the Discord snowflake. Writes are
// last-write-wins; the per-user lock upstream keeps cycles from racing.
type PostgresRecordRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresRecordRepo(pool *pgxpool.Pool) *PostgresRecordRepo {
	return &PostgresRecordRepo{pool: pool}
}

func (r *PostgresRecordRepo) FindByUserID(ctx context.Context, tx repository.Tx, userID string) (*model.UserRecord, error) {
	const q = `SELECT stats FROM records WHERE user_id = $1;`
	var raw []byte
	if err := pickRow(ctx, r.pool, tx, q, userID).Scan(&raw); err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("query record: %w", err)
	}
	var rec model.UserRecord
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &rec, nil
}

func (r *PostgresRecordRepo) Save(ctx context.Context, tx repository.Tx, userID string, rec *model.UserRecord) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	const q = `
INSERT INTO records (user_id, stats, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (user_id) DO UPDATE SET stats = $2, updated_at = now();
`
	if err := pickExec(ctx, r.pool, tx, q, userID, raw); err != nil {
		return fmt.Errorf("save record: %w", err)
	}
	return nil
}
