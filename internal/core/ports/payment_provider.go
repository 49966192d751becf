package ports

import (
	"context"

	"fooddelivery/internal/core/domain/model/payment"
)

// PaymentProvider is the external payment processor.
type PaymentProvider interface {
	// CreateSession opens a checkout session for exactly req.Amount. Providers honour
	// req.IdempotencyKey so retries for the same order return the same session.
	CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error)

	// ParseEvent verifies signature against the raw, unmodified payload and decodes it.
	// A verification failure returns an error wrapping payment.ErrInvalidSignature.
	ParseEvent(payload []byte, signature string) (payment.Event, error)
}
