package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrAssignShipperCommandIsNotConstructed = errors.New(
	"AssignShipperCommand must be created via NewAssignShipperCommand constructor",
)

// AssignShipperCommand records which shipper delivers an order. Choosing the
// shipper happens outside this service; the command only stores the decision.
type AssignShipperCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	shipperID kernel.UUID
	caller    kernel.Caller

	guard guard.ConstructorGuard
}

func NewAssignShipperCommand(orderID, shipperID kernel.UUID, caller kernel.Caller) (AssignShipperCommand, error) {
	if err := errors.Join(orderID.Validate(), shipperID.Validate(), caller.Validate()); err != nil {
		return AssignShipperCommand{}, err
	}
	return AssignShipperCommand{
		orderID:   orderID,
		shipperID: shipperID,
		caller:    caller,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AssignShipperCommand) Validate() error {
	return c.guard.Validate(ErrAssignShipperCommandIsNotConstructed)
}

func (c AssignShipperCommand) OrderID() kernel.UUID   { return c.orderID }
func (c AssignShipperCommand) ShipperID() kernel.UUID { return c.shipperID }
func (c AssignShipperCommand) Caller() kernel.Caller  { return c.caller }
