package repository

import (
	"context"

	"discord-guild-economy/internal/domain/model"
)

// RecordRepository persists one UserRecord per Discord user ID with
// last-write-wins semantics. FindByUserID returns (nil, nil) when the user
// has no record yet; records are created lazily by the callers.
type RecordRepository interface {
	FindByUserID(ctx context.Context, tx Tx, userID string) (*model.UserRecord, error)
	Save(ctx context.Context, tx Tx, userID string, rec *model.UserRecord) error
}
