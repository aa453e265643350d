package repository

import (
	"context"

	"github.com/jackc/pgx/v4"
)

type Tx interface{}

var NoTX interface{}

// TransactionManager executes a function within a database transaction,
// passing the underlying handle through the repositories' `tx` argument.
// Keeps use-case interfaces clean: the concrete handle type (pgx.Tx) is an
// infra detail, and repositories must gracefully accept a nil handle for
// the non-transactional path.
type TransactionManager interface {
	WithTx(ctx context.Context, txOpt pgx.TxOptions, fn func(ctx context.Context, tx Tx) error) error
}
