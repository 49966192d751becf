// Package ports defines the contracts between the order lifecycle core and its
// infrastructure: persistence, the restaurant catalog and the payment provider.
// These interfaces enable dependency inversion and testability.
package ports

import (
	"context"
	"time"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate together with its pending history entries.
	// The order must be valid and not already exist in the repository.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes to an existing order aggregate with a compare-and-set
	// on its version. When another writer got there first the update is refused with
	// an error wrapping errs.ErrVersionIsInvalid and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order aggregate by its unique identifier.
	// Returns an error wrapping errs.ErrObjectNotFound when it does not exist.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetByPaymentReference retrieves the order correlated to a payment provider session.
	// Returns an error wrapping errs.ErrObjectNotFound when no order carries the reference.
	GetByPaymentReference(ctx context.Context, reference string) (*order.Order, error)

	// FindAwaitingPaymentSession lists online orders, created before createdBefore,
	// that are still pending and unpaid without a payment reference. Oldest first.
	FindAwaitingPaymentSession(ctx context.Context, createdBefore time.Time, limit int) ([]*order.Order, error)
}
