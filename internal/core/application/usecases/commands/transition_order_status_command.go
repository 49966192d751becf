package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrTransitionOrderStatusCommandIsNotConstructed = errors.New(
	"TransitionOrderStatusCommand must be created via NewTransitionOrderStatusCommand constructor",
)

// TransitionOrderStatusCommand asks to move an order to the next fulfillment status.
//
// Example:
//
//	cmd, err := NewTransitionOrderStatusCommand(orderID, caller, order.Confirmed)
//	if err != nil {
//	    return err
//	}
//	updated, err := handler.Handle(ctx, cmd)
type TransitionOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	caller  kernel.Caller
	target  order.Status

	guard guard.ConstructorGuard
}

func NewTransitionOrderStatusCommand(
	orderID kernel.UUID,
	caller kernel.Caller,
	target order.Status,
) (TransitionOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), caller.Validate(), target.Validate()); err != nil {
		return TransitionOrderStatusCommand{}, err
	}
	return TransitionOrderStatusCommand{
		orderID: orderID,
		caller:  caller,
		target:  target,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderStatusCommandIsNotConstructed)
}

func (c TransitionOrderStatusCommand) OrderID() kernel.UUID  { return c.orderID }
func (c TransitionOrderStatusCommand) Caller() kernel.Caller { return c.caller }
func (c TransitionOrderStatusCommand) Target() order.Status  { return c.target }
