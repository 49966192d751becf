package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/ports"
)

// ErrPaymentSetupFailed is the sentinel behind PaymentSetupFailedError.
var ErrPaymentSetupFailed = errors.New("payment setup failed, order retained")

// PaymentSetupFailedError means the order exists but no payment session could be
// attached to it. The customer should retry the session, not resubmit the cart.
type PaymentSetupFailedError struct {
	OrderID kernel.UUID
	Cause   error
}

func NewPaymentSetupFailedError(orderID kernel.UUID, cause error) *PaymentSetupFailedError {
	return &PaymentSetupFailedError{OrderID: orderID, Cause: cause}
}

func (e *PaymentSetupFailedError) Error() string {
	return fmt.Sprintf("%s: order %s (cause: %v)", ErrPaymentSetupFailed, e.OrderID, e.Cause)
}

func (e *PaymentSetupFailedError) Unwrap() error {
	return ErrPaymentSetupFailed
}

// CheckoutResult is returned to the customer after checkout or a session retry.
// RedirectURL and PaymentReference are empty for cash-on-delivery orders.
type CheckoutResult struct {
	OrderID          kernel.UUID
	RedirectURL      string
	PaymentReference string
}

// RedirectURLs builds the pages the payment provider sends the customer back to.
type RedirectURLs struct {
	frontendURL string
}

func NewRedirectURLs(frontendURL string) (RedirectURLs, error) {
	frontendURL = strings.TrimRight(strings.TrimSpace(frontendURL), "/")
	u, err := url.Parse(frontendURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return RedirectURLs{}, fmt.Errorf("frontend url %q must be absolute", frontendURL)
	}
	return RedirectURLs{frontendURL: frontendURL}, nil
}

// Success is where the customer lands after paying.
func (r RedirectURLs) Success() string {
	return r.frontendURL + "/order-status?success=true"
}

// Cancel sends the customer back to the restaurant page.
func (r RedirectURLs) Cancel(restaurantID kernel.UUID) string {
	return r.frontendURL + "/detail/" + restaurantID.String() + "?cancelled=true"
}

// PaymentSessionOpener creates a provider session for an online order and
// stores the reference on it. It is shared by checkout, session retries and the
// recovery job, and is safe to call repeatedly for the same order.
type PaymentSessionOpener struct {
	uowFactory  OrderUoWFactory
	provider    ports.PaymentProvider
	urls        RedirectURLs
	maxAttempts int
}

func NewPaymentSessionOpener(uowFactory OrderUoWFactory, provider ports.PaymentProvider, urls RedirectURLs) PaymentSessionOpener {
	return PaymentSessionOpener{
		uowFactory:  uowFactory,
		provider:    provider,
		urls:        urls,
		maxAttempts: defaultMaxAttempts,
	}
}

// Open requests a session charging exactly the order total and attaches it.
// Any failure is reported as *PaymentSetupFailedError; the order itself is kept.
func (s PaymentSessionOpener) Open(ctx context.Context, o *order.Order) (CheckoutResult, error) {
	session, err := s.provider.CreateSession(ctx, s.sessionRequest(o))
	if err != nil {
		return CheckoutResult{}, NewPaymentSetupFailedError(o.ID(), err)
	}

	result, err := retryOnConflict(s.maxAttempts, func() (CheckoutResult, error) {
		return s.attach(ctx, o.ID(), session)
	})
	if err != nil {
		return CheckoutResult{}, NewPaymentSetupFailedError(o.ID(), err)
	}
	return result, nil
}

func (s PaymentSessionOpener) attach(ctx context.Context, orderID kernel.UUID, session payment.Session) (CheckoutResult, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return CheckoutResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, orderID)
	if err != nil {
		return CheckoutResult{}, err
	}

	if o.PaymentReference() != session.Reference {
		if err = o.AttachPaymentSession(session.Reference, session.RedirectURL); err != nil {
			return CheckoutResult{}, err
		}
		if err = repo.Update(ctx, o); err != nil {
			return CheckoutResult{}, err
		}
		if err = uow.Commit(ctx); err != nil {
			return CheckoutResult{}, err
		}
	}

	return CheckoutResult{
		OrderID:          o.ID(),
		RedirectURL:      o.PaymentRedirectURL(),
		PaymentReference: o.PaymentReference(),
	}, nil
}

func (s PaymentSessionOpener) sessionRequest(o *order.Order) payment.SessionRequest {
	items := o.Items()
	lines := make([]payment.LineItem, 0, len(items))
	for _, item := range items {
		// Toppings are charged per line, so each line is sent as a single unit priced at its total.
		lines = append(lines, payment.LineItem{
			Name:      fmt.Sprintf("%d x %s", item.Quantity(), item.Name()),
			UnitPrice: item.LineTotal(),
			Quantity:  1,
		})
	}

	return payment.SessionRequest{
		OrderID:        o.ID(),
		RestaurantID:   o.RestaurantID(),
		Amount:         o.TotalAmount(),
		LineItems:      lines,
		SuccessURL:     s.urls.Success(),
		CancelURL:      s.urls.Cancel(o.RestaurantID()),
		IdempotencyKey: "checkout-" + o.ID().String(),
	}
}
