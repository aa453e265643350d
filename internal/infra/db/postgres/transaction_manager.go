package postgres

import (
	"context"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"discord-guild-economy/internal/domain"
	"discord-guild-economy/internal/domain/ports/repository"
)

// Compile-time check
var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager implements repository.TransactionManager for Postgres (pgx).
// It begins a transaction, invokes the callback, and commits/rolls back.
// The tx handle reaches the repositories through their `tx` argument.
type TxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return &TxManager{pool: pool}
}

func (m *TxManager) WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx repository.Tx) error) error {
	tx, err := m.pool.BeginTx(ctx, txOpt)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(ctx, tx); err != nil {
		return err // rollback in defer
	}
	return tx.Commit(ctx)
}

// pickRow routes a query to the tx handle when one is present, otherwise
// to the pool. Repositories gracefully accept a nil handle for the
// non-transactional path.
func pickRow(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...interface{}) pgx.Row {
	switch v := tx.(type) {
	case pgx.Tx:
		return v.QueryRow(ctx, sql, args...)
	case *pgxpool.Conn:
		return v.QueryRow(ctx, sql, args...)
	default:
		return pool.QueryRow(ctx, sql, args...)
	}
}

func pickExec(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...interface{}) error {
	switch v := tx.(type) {
	case pgx.Tx:
		_, err := v.Exec(ctx, sql, args...)
		return err
	case *pgxpool.Conn:
		_, err := v.Exec(ctx, sql, args...)
		return err
	case nil:
		_, err := pool.Exec(ctx, sql, args...)
		return err
	default:
		return domain.ErrInvalidExecContext
	}
}

func pickQuery(ctx context.Context, pool *pgxpool.Pool, tx repository.Tx, sql string, args ...interface{}) (pgx.Rows, error) {
	switch v := tx.(type) {
	case pgx.Tx:
		return v.Query(ctx, sql, args...)
	case *pgxpool.Conn:
		return v.Query(ctx, sql, args...)
	default:
		return pool.Query(ctx, sql, args...)
	}
}
