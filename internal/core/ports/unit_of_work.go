package ports

import (
	"context"
)

// UnitOfWorkFactory hands every command its own UnitOfWork.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is the transaction boundary of one order command.
//
// Changes staged through OrderRepository become visible only on Commit. An
// order update staged against a stale version makes Update or Commit fail with
// errs.ErrVersionIsInvalid, and nothing of the unit of work is applied.
// Handlers defer Rollback right after Begin and ignore its error once Commit
// has succeeded.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	// OrderRepository is bound to the transaction opened by Begin; orders and
	// their history entries are written together.
	OrderRepository() OrderRepository
}
