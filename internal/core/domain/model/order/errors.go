package order

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTransition is the sentinel behind InvalidTransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrPaymentSessionConflict is returned when an order already carries a different payment reference.
	ErrPaymentSessionConflict = errors.New("order already has a payment session")

	// ErrNotAwaitingPayment is returned for payment operations on orders that cannot take them.
	ErrNotAwaitingPayment = errors.New("order is not awaiting online payment")
)

// InvalidTransitionError carries both ends of a rejected fulfillment edge.
type InvalidTransitionError struct {
	From Status
	To   Status
}

func NewInvalidTransitionError(from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("%s: %s -> %s", ErrInvalidTransition, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error {
	return ErrInvalidTransition
}
