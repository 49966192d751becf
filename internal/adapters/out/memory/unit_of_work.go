package memory

import (
	"context"
	"errors"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/ports"
)

var (
	ErrTransactionNotStarted = errors.New("transaction not started")
	ErrTransactionActive     = errors.New("transaction already active")
)

// UnitOfWorkFactory creates units of work over one Store.
type UnitOfWorkFactory struct {
	store *Store
}

func NewUnitOfWorkFactory(store *Store) *UnitOfWorkFactory {
	return &UnitOfWorkFactory{store: store}
}

func (f *UnitOfWorkFactory) Create() ports.UnitOfWork {
	return &UnitOfWork{store: f.store}
}

// UnitOfWork stages writes and applies them on Commit. Updates are
// compare-and-set on the version the order was loaded with.
type UnitOfWork struct {
	mu     sync.Mutex
	store  *Store
	active bool
	writes []write
}

func (u *UnitOfWork) Begin(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.active {
		return ErrTransactionActive
	}
	u.active = true
	u.writes = nil
	return nil
}

func (u *UnitOfWork) Commit(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return ErrTransactionNotStarted
	}
	err := u.store.apply(u.writes)
	u.active = false
	u.writes = nil
	return err
}

// Rollback discards staged writes. It is a no-op after Commit.
func (u *UnitOfWork) Rollback(_ context.Context) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.active = false
	u.writes = nil
	return nil
}

func (u *UnitOfWork) OrderRepository() ports.OrderRepository {
	return &orderRepository{uow: u}
}

func (u *UnitOfWork) stage(w write) error {
	u.mu.Lock()
	defer u.mu.Unlock()
	if !u.active {
		return ErrTransactionNotStarted
	}
	u.writes = append(u.writes, w)
	return nil
}

type orderRepository struct {
	uow *UnitOfWork
}

func (r *orderRepository) Add(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}
	return r.uow.stage(write{snapshot: aggregate.Snapshot(), changes: aggregate.PendingChanges()})
}

// Update fails fast with a version error when the committed order has moved on,
// and the check is repeated atomically on Commit.
func (r *orderRepository) Update(_ context.Context, aggregate *order.Order) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	w := write{
		snapshot:        aggregate.Snapshot(),
		expectedVersion: aggregate.Version(),
		changes:         aggregate.PendingChanges(),
	}
	w.snapshot.Version = aggregate.Version() + 1

	r.uow.store.mu.RLock()
	err := r.uow.store.check(w)
	r.uow.store.mu.RUnlock()
	if err != nil {
		return err
	}
	return r.uow.stage(w)
}

func (r *orderRepository) Get(_ context.Context, id kernel.UUID) (*order.Order, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}
	return r.uow.store.get(id)
}

func (r *orderRepository) GetByPaymentReference(_ context.Context, reference string) (*order.Order, error) {
	return r.uow.store.getByPaymentReference(reference)
}

func (r *orderRepository) FindAwaitingPaymentSession(
	_ context.Context,
	createdBefore time.Time,
	limit int,
) ([]*order.Order, error) {
	return r.uow.store.findAwaitingPaymentSession(createdBefore, limit)
}
