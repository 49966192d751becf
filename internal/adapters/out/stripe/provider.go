// Package stripe implements ports.PaymentProvider with Stripe Checkout.
package stripe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/ports"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
	"github.com/stripe/stripe-go/v76/webhook"
)

// SignatureHeader carries the webhook signature.
const SignatureHeader = "Stripe-Signature"

var _ ports.PaymentProvider = (*Provider)(nil)

type Provider struct {
	api           *client.API
	webhookSecret string
	logger        *slog.Logger
}

func NewProvider(api *client.API, webhookSecret string, logger *slog.Logger) *Provider {
	return &Provider{
		api:           api,
		webhookSecret: webhookSecret,
		logger:        logger.With("component", "stripe"),
	}
}

// CreateSession opens a Checkout session in payment mode. The session carries
// the order and restaurant ids as metadata so webhook events can be correlated.
func (p *Provider) CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error) {
	if err := req.Validate(); err != nil {
		return payment.Session{}, err
	}
	currency := req.Amount.Currency()

	var sum int64
	lines := make([]*stripe.CheckoutSessionLineItemParams, 0, len(req.LineItems))
	for _, item := range req.LineItems {
		if item.UnitPrice.Currency() != currency {
			return payment.Session{}, fmt.Errorf("line %q: %w", item.Name, kernel.ErrCurrencyMismatch)
		}
		sum += item.UnitPrice.Amount() * int64(item.Quantity)
		lines = append(lines, &stripe.CheckoutSessionLineItemParams{
			PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
				Currency: stripe.String(currency),
				ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
					Name: stripe.String(item.Name),
				},
				UnitAmount: stripe.Int64(item.UnitPrice.Amount()),
			},
			Quantity: stripe.Int64(int64(item.Quantity)),
		})
	}
	if sum != req.Amount.Amount() {
		return payment.Session{}, fmt.Errorf("line items add up to %d, order total is %d", sum, req.Amount.Amount())
	}

	params := &stripe.CheckoutSessionParams{
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		ClientReferenceID: stripe.String(req.OrderID.String()),
		LineItems:         lines,
		Metadata:          req.Metadata(),
		SuccessURL:        stripe.String(req.SuccessURL),
		CancelURL:         stripe.String(req.CancelURL),
	}
	params.Context = ctx
	if req.IdempotencyKey != "" {
		params.SetIdempotencyKey(req.IdempotencyKey)
	}

	session, err := p.api.CheckoutSessions.New(params)
	if err != nil {
		return payment.Session{}, fmt.Errorf("create checkout session: %w", err)
	}

	p.logger.InfoContext(ctx, "checkout session created", "orderId", req.OrderID.String(), "sessionId", session.ID)
	return payment.Session{Reference: session.ID, RedirectURL: session.URL}, nil
}

// ParseEvent verifies the Stripe-Signature header against the raw payload.
// Only events that can settle a session are decoded further. Charged stays nil
// while the session is not paid yet, as when a delayed payment method completes
// checkout before async_payment_succeeded arrives.
func (p *Provider) ParseEvent(payload []byte, signature string) (payment.Event, error) {
	event, err := webhook.ConstructEventWithOptions(payload, signature, p.webhookSecret, webhook.ConstructEventOptions{
		Tolerance:                webhook.DefaultTolerance,
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return payment.Event{}, fmt.Errorf("%w: %w", payment.ErrInvalidSignature, err)
	}

	result := payment.Event{ID: event.ID, Type: string(event.Type)}
	if !result.SettlesCheckout() {
		return result, nil
	}

	var session stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
		return payment.Event{}, fmt.Errorf("decode checkout session: %w", err)
	}
	result.Reference = session.ID
	result.OrderID = session.Metadata["orderId"]

	if session.PaymentStatus == stripe.CheckoutSessionPaymentStatusUnpaid {
		return result, nil
	}
	charged, err := kernel.NewMoney(session.AmountTotal, string(session.Currency))
	if err != nil {
		return payment.Event{}, errors.Join(errors.New("checkout session amount"), err)
	}
	result.Charged = &charged
	return result, nil
}
