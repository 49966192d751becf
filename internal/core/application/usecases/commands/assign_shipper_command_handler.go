package commands

import (
	"context"

	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
)

// AssignShipperCommandHandler lets a manager or seller of the order's restaurant
// assign the shipper who will deliver it.
type AssignShipperCommandHandler struct {
	uowFactory  OrderUoWFactory
	policy      services.TransitionPolicy
	maxAttempts int
}

func NewAssignShipperCommandHandler(uowFactory OrderUoWFactory) AssignShipperCommandHandler {
	return AssignShipperCommandHandler{
		uowFactory:  uowFactory,
		policy:      services.NewTransitionPolicy(),
		maxAttempts: defaultMaxAttempts,
	}
}

func (h *AssignShipperCommandHandler) Handle(ctx context.Context, cmd AssignShipperCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	return retryOnConflict(h.maxAttempts, func() (*order.Order, error) {
		return h.assign(ctx, cmd)
	})
}

func (h *AssignShipperCommandHandler) assign(ctx context.Context, cmd AssignShipperCommand) (*order.Order, error) {
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

	if err = h.policy.AuthorizeShipperAssignment(o, cmd.Caller()); err != nil {
		return nil, err
	}
	if err = o.AssignShipper(cmd.ShipperID(), cmd.Caller()); err != nil {
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
