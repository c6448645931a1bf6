package database

import "context"

// Transactor runs fn atomically. Repositories called with txCtx join the transaction;
// any error returned by fn, or a panic, rolls everything back.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(txCtx context.Context) error) error
}
