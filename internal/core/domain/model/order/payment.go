package order

import (
	"fmt"

	"fooddelivery/internal/pkg/errs"
)

// PaymentMethod is how the customer settles the order. It never changes after creation.
type PaymentMethod string

const (
	CashOnDelivery PaymentMethod = "cod"
	Online         PaymentMethod = "online"
)

// ParsePaymentMethod accepts the wire names "cod" and "online".
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if err := m.Validate(); err != nil {
		return "", err
	}
	return m, nil
}

func (m PaymentMethod) Validate() error {
	if m != CashOnDelivery && m != Online {
		return errs.NewValueIsInvalidErrorWithCause("payment method is invalid",
			fmt.Errorf("%q is not a supported payment method", string(m)))
	}
	return nil
}

func (m PaymentMethod) String() string {
	return string(m)
}

// PaymentStatus moves from Unpaid to Paid exactly once.
type PaymentStatus string

const (
	Unpaid PaymentStatus = "unpaid"
	Paid   PaymentStatus = "paid"
)

func (s PaymentStatus) Validate() error {
	if s != Unpaid && s != Paid {
		return errs.NewValueIsInvalidErrorWithCause("payment status is invalid",
			fmt.Errorf("%q is not a supported payment status", string(s)))
	}
	return nil
}

func (s PaymentStatus) String() string {
	return string(s)
}

// PaymentOutcome is what applying a provider-confirmed charge did to the order.
type PaymentOutcome int

const (
	// PaymentRecorded marks the order paid.
	PaymentRecorded PaymentOutcome = iota + 1
	// PaymentDuplicate means the order was already settled or flagged, nothing changed.
	PaymentDuplicate
	// PaymentAmountMismatch means the charge differs from the total and the order was flagged for review.
	PaymentAmountMismatch
)

func (o PaymentOutcome) String() string {
	switch o {
	case PaymentRecorded:
		return "paid"
	case PaymentDuplicate:
		return "duplicate"
	case PaymentAmountMismatch:
		return "amountMismatch"
	default:
		return "unknown"
	}
}
