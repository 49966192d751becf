package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's checkout: a cart placed at one
// restaurant, where to deliver it and how it will be paid.
//
// Example:
//
//	cmd, err := NewCreateOrderCommand(caller.UserID(), restaurantID, lines, details, order.Online)
//	if err != nil {
//	    return fmt.Errorf("invalid checkout: %w", err)
//	}
//
//	result, err := handler.Handle(ctx, cmd)
//	// redirect the customer to result.RedirectURL
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	customerID      kernel.UUID
	restaurantID    kernel.UUID
	lines           []order.CartLine
	deliveryDetails order.DeliveryDetails
	paymentMethod   order.PaymentMethod

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identifiers, delivery details and payment method.
// Cart lines are validated by the handler against the restaurant menu.
func NewCreateOrderCommand(
	customerID kernel.UUID,
	restaurantID kernel.UUID,
	lines []order.CartLine,
	deliveryDetails order.DeliveryDetails,
	paymentMethod order.PaymentMethod,
) (CreateOrderCommand, error) {
	if err := errors.Join(
		customerID.Validate(),
		restaurantID.Validate(),
		deliveryDetails.Validate(),
		paymentMethod.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		customerID:      customerID,
		restaurantID:    restaurantID,
		lines:           append([]order.CartLine(nil), lines...),
		deliveryDetails: deliveryDetails,
		paymentMethod:   paymentMethod,
		guard:           guard.NewConstructorGuard(),
	}, nil
}

// Validate ensures the command was created through the constructor.
func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) CustomerID() kernel.UUID                { return c.customerID }
func (c CreateOrderCommand) RestaurantID() kernel.UUID              { return c.restaurantID }
func (c CreateOrderCommand) Lines() []order.CartLine                { return append([]order.CartLine(nil), c.lines...) }
func (c CreateOrderCommand) DeliveryDetails() order.DeliveryDetails { return c.deliveryDetails }
func (c CreateOrderCommand) PaymentMethod() order.PaymentMethod     { return c.paymentMethod }
