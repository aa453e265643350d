package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"discord-guild-economy/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.ModLogRepository = (*PostgresModLogRepo)(nil)

// PostgresModLogRepo is the append-only moderation audit log. Entry IDs are
// ULIDs, so primary-key order is also time order.
type PostgresModLogRepo struct {
	pool *pgxpool.Pool
}

func NewPostgresModLogRepo(pool *pgxpool.Pool) *PostgresModLogRepo {
	return &PostgresModLogRepo{pool: pool}
}

func (r *PostgresModLogRepo) Append(ctx context.Context, tx repository.Tx, e *repository.ModLogEntry) error {
	const q = `
INSERT INTO mod_logs (id, user_id, mod_id, action, reason, created_at)
VALUES ($1, $2, $3, $4, $5, $6);
`
	if err := pickExec(ctx, r.pool, tx, q, e.ID, e.UserID, e.ModID, e.Action, e.Reason, e.CreatedAt); err != nil {
		return fmt.Errorf("append mod log: %w", err)
	}
	return nil
}

func (r *PostgresModLogRepo) ListByUser(ctx context.Context, tx repository.Tx, userID string, limit int) ([]*repository.ModLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	const q = `
SELECT id, user_id, mod_id, action, reason, created_at
  FROM mod_logs
 WHERE user_id = $1
 ORDER BY id DESC
 LIMIT $2;
`
	rows, err := pickQuery(ctx, r.pool, tx, q, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list mod logs: %w", err)
	}
	defer rows.Close()

	var out []*repository.ModLogEntry
	for rows.Next() {
		var e repository.ModLogEntry
		if err := rows.Scan(&e.ID, &e.UserID, &e.ModID, &e.Action, &e.Reason, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan mod log: %w", err)
		}
		out = append(out, &e)
	}
	return out, rows.Err()
}
