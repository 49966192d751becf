package commands

import (
	"context"
	"log/slog"
	"time"
)

// RecoverPaymentSessionsCommandHandler opens sessions for dangling online orders
// so the redirect URL is ready when the customer comes back to pay.
type RecoverPaymentSessionsCommandHandler struct {
	uowFactory OrderUoWFactory
	sessions   PaymentSessionOpener
	logger     *slog.Logger
	now        func() time.Time
}

func NewRecoverPaymentSessionsCommandHandler(
	uowFactory OrderUoWFactory,
	sessions PaymentSessionOpener,
	logger *slog.Logger,
) RecoverPaymentSessionsCommandHandler {
	return RecoverPaymentSessionsCommandHandler{
		uowFactory: uowFactory,
		sessions:   sessions,
		logger:     logger,
		now:        time.Now,
	}
}

// Handle returns how many orders received a session. A failure for one order is
// logged and does not stop the sweep.
func (h *RecoverPaymentSessionsCommandHandler) Handle(ctx context.Context, cmd RecoverPaymentSessionsCommand) (int, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	orders, err := uow.OrderRepository().FindAwaitingPaymentSession(ctx, h.now().Add(-cmd.Grace()), cmd.BatchSize())
	_ = uow.Rollback(ctx)
	if err != nil {
		return 0, err
	}

	recovered := 0
	for _, o := range orders {
		if ctx.Err() != nil {
			return recovered, ctx.Err()
		}
		if _, err = h.sessions.Open(ctx, o); err != nil {
			h.logger.WarnContext(ctx, "payment session recovery failed",
				"orderId", o.ID().String(), "error", err)
			continue
		}
		recovered++
	}
	return recovered, nil
}
