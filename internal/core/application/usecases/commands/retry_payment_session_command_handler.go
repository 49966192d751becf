package commands

import (
	"context"
	"fmt"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/pkg/errs"
)

// RetryPaymentSessionCommandHandler re-runs only the payment step of checkout.
// It is idempotent on the order id: an order that already has a session gets
// the stored one back, and the provider is asked with the same idempotency key.
type RetryPaymentSessionCommandHandler struct {
	uowFactory OrderUoWFactory
	sessions   PaymentSessionOpener
}

func NewRetryPaymentSessionCommandHandler(
	uowFactory OrderUoWFactory,
	sessions PaymentSessionOpener,
) RetryPaymentSessionCommandHandler {
	return RetryPaymentSessionCommandHandler{
		uowFactory: uowFactory,
		sessions:   sessions,
	}
}

// Handle returns the session for the order, creating it when missing.
// Orders of other customers are reported as not found.
func (h *RetryPaymentSessionCommandHandler) Handle(
	ctx context.Context,
	cmd RetryPaymentSessionCommand,
) (CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	o, err := h.load(ctx, cmd)
	if err != nil {
		return CheckoutResult{}, err
	}

	if o.PaymentReference() != "" {
		return CheckoutResult{
			OrderID:          o.ID(),
			RedirectURL:      o.PaymentRedirectURL(),
			PaymentReference: o.PaymentReference(),
		}, nil
	}
	if !o.NeedsPaymentSession() {
		return CheckoutResult{}, fmt.Errorf("%w: %s order in %s status is %s",
			order.ErrNotAwaitingPayment, o.PaymentMethod(), o.Status(), o.PaymentStatus())
	}

	return h.sessions.Open(ctx, o)
}

func (h *RetryPaymentSessionCommandHandler) load(ctx context.Context, cmd RetryPaymentSessionCommand) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}
	if !o.IsPlacedBy(cmd.CustomerID()) {
		return nil, errs.NewObjectNotFoundError("order", cmd.OrderID().String())
	}
	return o, nil
}
