package commands

import (
	"context"
	"errors"
	"log/slog"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ReconcileResult tells the webhook endpoint how an event was handled. Every
// result is acknowledged to the provider; only errors make it redeliver.
type ReconcileResult int

const (
	ReconcilePaid ReconcileResult = iota + 1
	ReconcileDuplicate
	ReconcileIgnored
	ReconcileOrderNotFound
	ReconcileAmountMismatch
)

func (r ReconcileResult) String() string {
	switch r {
	case ReconcilePaid:
		return "paid"
	case ReconcileDuplicate:
		return "duplicate"
	case ReconcileIgnored:
		return "ignored"
	case ReconcileOrderNotFound:
		return "orderNotFound"
	case ReconcileAmountMismatch:
		return "amountMismatch"
	default:
		return "unknown"
	}
}

// ApplyPaymentEventCommandHandler reconciles payment provider webhooks with orders.
//
// Steps:
//  1. Verify the signature over the raw payload, rejecting forged events
//  2. Acknowledge event types other than checkout completion without acting
//  3. Find the order by payment reference
//  4. Skip orders that are already paid or flagged (duplicate delivery)
//  5. Mark paid, or flag for review when the charged amount differs from the total
//
// Updates use a compare-and-set on the order version. When two deliveries race,
// the loser reloads the order and hits the duplicate check in step 4.
type ApplyPaymentEventCommandHandler struct {
	uowFactory  OrderUoWFactory
	provider    ports.PaymentProvider
	logger      *slog.Logger
	maxAttempts int
}

func NewApplyPaymentEventCommandHandler(
	uowFactory OrderUoWFactory,
	provider ports.PaymentProvider,
	logger *slog.Logger,
) ApplyPaymentEventCommandHandler {
	return ApplyPaymentEventCommandHandler{
		uowFactory:  uowFactory,
		provider:    provider,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
}

// Handle returns an error wrapping payment.ErrInvalidSignature for forged or
// corrupted deliveries; nothing is applied in that case.
func (h *ApplyPaymentEventCommandHandler) Handle(ctx context.Context, cmd ApplyPaymentEventCommand) (ReconcileResult, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	event, err := h.provider.ParseEvent(cmd.Payload(), cmd.Signature())
	if err != nil {
		if errors.Is(err, payment.ErrInvalidSignature) {
			h.logger.WarnContext(ctx, "rejected payment event with invalid signature, possible forgery",
				"error", err, "payloadBytes", len(cmd.Payload()))
		}
		return 0, err
	}

	log := h.logger.With("eventId", event.ID, "eventType", event.Type, "paymentReference", event.Reference)

	if !event.SettlesCheckout() {
		log.DebugContext(ctx, "payment event ignored")
		return ReconcileIgnored, nil
	}
	if event.Reference == "" || event.Charged == nil {
		log.WarnContext(ctx, "settling event without session reference or amount")
		return ReconcileIgnored, nil
	}

	result, err := retryOnConflict(h.maxAttempts, func() (ReconcileResult, error) {
		return h.apply(ctx, event, log)
	})
	if err != nil {
		log.ErrorContext(ctx, "payment event not applied", "error", err)
		return 0, err
	}
	return result, nil
}

func (h *ApplyPaymentEventCommandHandler) apply(
	ctx context.Context,
	event payment.Event,
	log *slog.Logger,
) (ReconcileResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.GetByPaymentReference(ctx, event.Reference)
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			log.WarnContext(ctx, "payment event for unknown order", "metadataOrderId", event.OrderID)
			return ReconcileOrderNotFound, nil
		}
		return 0, err
	}
	log = log.With("orderId", o.ID().String())
	if event.OrderID != "" && event.OrderID != o.ID().String() {
		log.WarnContext(ctx, "payment event metadata names another order", "metadataOrderId", event.OrderID)
	}

	outcome, err := o.ApplyPayment(*event.Charged)
	if err != nil {
		return 0, err
	}
	if outcome == order.PaymentDuplicate {
		log.InfoContext(ctx, "duplicate payment event acknowledged", "paymentStatus", o.PaymentStatus().String())
		return ReconcileDuplicate, nil
	}

	if err = repo.Update(ctx, o); err != nil {
		return 0, err
	}
	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	if outcome == order.PaymentAmountMismatch {
		log.ErrorContext(ctx, "payment amount mismatch, order flagged for manual review",
			"charged", event.Charged.String(), "total", o.TotalAmount().String())
		return ReconcileAmountMismatch, nil
	}
	log.InfoContext(ctx, "order marked paid", "amount", o.TotalAmount().String())
	return ReconcilePaid, nil
}
