package commands

import (
	"errors"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/guard"
)

var ErrRetryPaymentSessionCommandIsNotConstructed = errors.New(
	"RetryPaymentSessionCommand must be created via NewRetryPaymentSessionCommand constructor",
)

// RetryPaymentSessionCommand asks for the payment session of an existing online
// order again, after checkout reported that payment setup failed.
type RetryPaymentSessionCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customerID kernel.UUID

	guard guard.ConstructorGuard
}

func NewRetryPaymentSessionCommand(orderID, customerID kernel.UUID) (RetryPaymentSessionCommand, error) {
	if err := errors.Join(orderID.Validate(), customerID.Validate()); err != nil {
		return RetryPaymentSessionCommand{}, err
	}
	return RetryPaymentSessionCommand{
		orderID:    orderID,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c RetryPaymentSessionCommand) Validate() error {
	return c.guard.Validate(ErrRetryPaymentSessionCommandIsNotConstructed)
}

func (c RetryPaymentSessionCommand) OrderID() kernel.UUID    { return c.orderID }
func (c RetryPaymentSessionCommand) CustomerID() kernel.UUID { return c.customerID }
