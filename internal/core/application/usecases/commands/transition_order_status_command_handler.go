package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
)

// TransitionOrderStatusCommandHandler is the status transition engine. It runs
// every request through services.TransitionPolicy and applies it as a single
// read-modify-write guarded by the order version.
//
// When the write loses a version race the order is reloaded. If its fulfillment
// status moved in the meantime the request was made against a state that no
// longer exists and is rejected with *order.InvalidTransitionError from the new
// status; two concurrent transitions from the same status never both succeed.
// If only other fields changed (payment, shipper) the request is retried.
type TransitionOrderStatusCommandHandler struct {
	uowFactory  OrderUoWFactory
	policy      services.TransitionPolicy
	maxAttempts int
}

func NewTransitionOrderStatusCommandHandler(uowFactory OrderUoWFactory) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		policy:      services.NewTransitionPolicy(),
		maxAttempts: defaultMaxAttempts,
	}
}

// Handle returns the updated order, or *services.ForbiddenError /
// *order.InvalidTransitionError with the order left unchanged.
func (h *TransitionOrderStatusCommandHandler) Handle(
	ctx context.Context,
	cmd TransitionOrderStatusCommand,
) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	var observed *order.Status
	return retryOnConflict(h.maxAttempts, func() (*order.Order, error) {
		return h.transition(ctx, cmd, &observed)
	})
}

func (h *TransitionOrderStatusCommandHandler) transition(
	ctx context.Context,
	cmd TransitionOrderStatusCommand,
	observed **order.Status,
) (*order.Order, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	current := o.Status()
	if *observed == nil {
		*observed = &current
	} else if **observed != current {
		return nil, order.NewInvalidTransitionError(current, cmd.Target())
	}

	if err = h.policy.Authorize(o, cmd.Caller(), cmd.Target()); err != nil {
		return nil, err
	}
	if err = o.AdvanceTo(cmd.Target(), cmd.Caller()); err != nil {
		return nil, err
	}
	if err = repo.Update(ctx, o); err != nil {
		return nil, err
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
