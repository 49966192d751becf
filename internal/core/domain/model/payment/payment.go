// Package payment describes the conversation with the external payment provider:
// the checkout session the service requests and the events the provider sends back.
package payment

import (
	"errors"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/pkg/errs"
)

// ErrInvalidSignature is returned when a webhook payload fails signature verification.
var ErrInvalidSignature = errors.New("invalid payment event signature")

// Event types that can settle an order. A session paid by a delayed method
// completes unpaid and is settled later by EventAsyncPaymentSucceeded.
const (
	EventCheckoutCompleted     = "checkout.session.completed"
	EventAsyncPaymentSucceeded = "checkout.session.async_payment_succeeded"
)

// LineItem is one line shown on the provider's checkout page.
type LineItem struct {
	Name      string
	UnitPrice kernel.Money
	Quantity  int
}

// SessionRequest asks the provider for a checkout session charging exactly Amount.
type SessionRequest struct {
	OrderID      kernel.UUID
	RestaurantID kernel.UUID
	Amount       kernel.Money
	LineItems    []LineItem
	SuccessURL   string
	CancelURL    string
	// IdempotencyKey makes repeated requests for the same order return the same session.
	IdempotencyKey string
}

func (r SessionRequest) Validate() error {
	var errList []error
	if err := r.OrderID.Validate(); err != nil {
		errList = append(errList, err)
	}
	if err := r.Amount.Validate(); err != nil {
		errList = append(errList, err)
	}
	if strings.TrimSpace(r.SuccessURL) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("success url"))
	}
	if strings.TrimSpace(r.CancelURL) == "" {
		errList = append(errList, errs.NewValueIsRequiredError("cancel url"))
	}
	return errors.Join(errList...)
}

// Metadata is the correlation data attached to the session and echoed back in events.
func (r SessionRequest) Metadata() map[string]string {
	return map[string]string{
		"orderId":      r.OrderID.String(),
		"restaurantId": r.RestaurantID.String(),
	}
}

// Session is the provider's answer to a SessionRequest.
type Session struct {
	Reference   string
	RedirectURL string
}

// Event is a verified provider event reduced to what reconciliation needs.
type Event struct {
	ID        string
	Type      string
	Reference string
	// OrderID is the orderId metadata value, empty when absent.
	OrderID string
	Charged *kernel.Money
}

// SettlesCheckout reports whether the event can mark a checkout session paid.
func (e Event) SettlesCheckout() bool {
	return e.Type == EventCheckoutCompleted || e.Type == EventAsyncPaymentSucceeded
}
