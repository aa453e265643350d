package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"
)

// schema is applied idempotently on startup. The stats document keeps the
// legacy field names, so rows migrated from the old bot load as-is.
const schema = `
CREATE TABLE IF NOT EXISTS records (
    user_id    TEXT PRIMARY KEY,
    stats      JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS mod_logs (
    id         TEXT PRIMARY KEY,
    user_id    TEXT NOT NULL,
    mod_id     TEXT NOT NULL,
    action     TEXT NOT NULL,
    reason     TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS mod_logs_user_idx ON mod_logs (user_id);
`

// EnsureSchema creates the tables when they do not exist yet.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}
