// Package memory provides an in-process implementation of the order unit of work
// and the restaurant catalog. It honours the same optimistic concurrency contract
// as the postgres adapter and backs the concurrency tests of the command handlers.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/pkg/errs"
)

// Store holds committed order snapshots and their history.
type Store struct {
	mu      sync.RWMutex
	orders  map[kernel.UUID]order.Snapshot
	history map[kernel.UUID][]order.Change
}

func NewStore() *Store {
	return &Store{
		orders:  make(map[kernel.UUID]order.Snapshot),
		history: make(map[kernel.UUID][]order.Change),
	}
}

// History returns the committed history of an order.
func (s *Store) History(id kernel.UUID) []order.Change {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]order.Change(nil), s.history[id]...)
}

func (s *Store) get(id kernel.UUID) (*order.Order, error) {
	s.mu.RLock()
	snapshot, ok := s.orders[id]
	s.mu.RUnlock()
	if !ok {
		return nil, errs.NewObjectNotFoundError("order", id.String())
	}
	return order.RestoreOrder(snapshot)
}

func (s *Store) getByPaymentReference(reference string) (*order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, snapshot := range s.orders {
		if snapshot.PaymentReference != "" && snapshot.PaymentReference == reference {
			return order.RestoreOrder(snapshot)
		}
	}
	return nil, errs.NewObjectNotFoundError("order", reference)
}

func (s *Store) findAwaitingPaymentSession(createdBefore time.Time, limit int) ([]*order.Order, error) {
	s.mu.RLock()
	var matches []order.Snapshot
	for _, snapshot := range s.orders {
		if snapshot.PaymentMethod == order.Online &&
			snapshot.PaymentStatus == order.Unpaid &&
			snapshot.Status == order.Pending &&
			snapshot.PaymentReference == "" &&
			!snapshot.CreatedAt.After(createdBefore) {
			matches = append(matches, snapshot)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool { return matches[i].CreatedAt.Before(matches[j].CreatedAt) })
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	orders := make([]*order.Order, 0, len(matches))
	for _, snapshot := range matches {
		o, err := order.RestoreOrder(snapshot)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}

// write is one staged insert or compare-and-set update.
type write struct {
	snapshot        order.Snapshot
	expectedVersion int // 0 for inserts
	changes         []order.Change
}

// apply commits staged writes atomically: all succeed or none is applied.
func (s *Store) apply(writes []write) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, w := range writes {
		if err := s.check(w); err != nil {
			return err
		}
	}
	for _, w := range writes {
		s.orders[w.snapshot.ID] = w.snapshot
		s.history[w.snapshot.ID] = append(s.history[w.snapshot.ID], w.changes...)
	}
	return nil
}

// check must be called with mu held.
func (s *Store) check(w write) error {
	current, exists := s.orders[w.snapshot.ID]
	if w.expectedVersion == 0 {
		if exists {
			return errs.NewValueIsInvalidErrorWithCause("order",
				fmt.Errorf("order %s already exists", w.snapshot.ID))
		}
		return s.checkUniqueReference(w.snapshot)
	}
	if !exists {
		return errs.NewObjectNotFoundError("order", w.snapshot.ID.String())
	}
	if current.Version != w.expectedVersion {
		return errs.NewVersionIsInvalidError("order",
			fmt.Errorf("order %s is at version %d, expected %d", w.snapshot.ID, current.Version, w.expectedVersion))
	}
	return s.checkUniqueReference(w.snapshot)
}

func (s *Store) checkUniqueReference(snapshot order.Snapshot) error {
	if snapshot.PaymentReference == "" {
		return nil
	}
	for id, other := range s.orders {
		if !id.IsEqual(snapshot.ID) && other.PaymentReference == snapshot.PaymentReference {
			return errs.NewValueIsInvalidErrorWithCause("payment reference",
				fmt.Errorf("%s is already used by order %s", snapshot.PaymentReference, id))
		}
	}
	return nil
}

// Catalog is a fixed in-memory restaurant catalog.
type Catalog struct {
	mu          sync.RWMutex
	restaurants map[kernel.UUID]*restaurant.Restaurant
}

func NewCatalog(restaurants ...*restaurant.Restaurant) *Catalog {
	c := &Catalog{restaurants: make(map[kernel.UUID]*restaurant.Restaurant, len(restaurants))}
	for _, r := range restaurants {
		c.Put(r)
	}
	return c
}

// Put adds or replaces a restaurant.
func (c *Catalog) Put(r *restaurant.Restaurant) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.restaurants[r.ID()] = r
}

func (c *Catalog) Get(_ context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.restaurants[id]
	if !ok {
		return nil, errs.NewObjectNotFoundError("restaurant", id.String())
	}
	return r, nil
}
