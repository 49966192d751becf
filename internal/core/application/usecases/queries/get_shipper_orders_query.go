package queries

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrGetShipperOrdersQueryIsNotConstructed = errors.New(
	"GetShipperOrdersQuery must be created via NewGetShipperOrdersQuery constructor",
)

// GetShipperOrdersQuery lists the orders assigned to a shipper, optionally
// narrowed to one fulfillment status (typically outForDelivery).
//
// Example:
//
//	status := order.OutForDelivery
//	query, err := NewGetShipperOrdersQuery(caller.UserID(), &status)
type GetShipperOrdersQuery struct { //nolint:recvcheck //using for validation
	shipperID kernel.UUID
	status    *order.Status

	guard guard.ConstructorGuard
}

// NewGetShipperOrdersQuery accepts a nil status to list every assigned order.
func NewGetShipperOrdersQuery(shipperID kernel.UUID, status *order.Status) (GetShipperOrdersQuery, error) {
	if err := shipperID.Validate(); err != nil {
		return GetShipperOrdersQuery{}, err
	}
	q := GetShipperOrdersQuery{shipperID: shipperID, guard: guard.NewConstructorGuard()}
	if status != nil {
		if err := status.Validate(); err != nil {
			return GetShipperOrdersQuery{}, err
		}
		s := *status
		q.status = &s
	}
	return q, nil
}

func (q GetShipperOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetShipperOrdersQueryIsNotConstructed)
}

func (q GetShipperOrdersQuery) ShipperID() kernel.UUID { return q.shipperID }

// Status returns the status filter, or false when there is none.
func (q GetShipperOrdersQuery) Status() (order.Status, bool) {
	if q.status == nil {
		return order.Unknown, false
	}
	return *q.status, true
}
