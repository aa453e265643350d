package repository

import (
	"context"
	"time"
)

// ModLogEntry is one recorded moderation action.
type ModLogEntry struct {
	ID        string
	UserID    string
	ModID     string
	Action    string // "mute" | "unmute"
	Reason    string
	CreatedAt time.Time
}

// ModLogRepository is the append-only moderation audit log.
type ModLogRepository interface {
	Append(ctx context.Context, tx Tx, entry *ModLogEntry) error
	ListByUser(ctx context.Context, tx Tx, userID string, limit int) ([]*ModLogEntry, error)
}
