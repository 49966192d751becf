package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/pkg/errs"
)

// ErrRestaurantUnavailable is returned when the restaurant does not exist, is not
// approved, or is closed. No order is persisted.
var ErrRestaurantUnavailable = errors.New("restaurant is not accepting orders")

// CreateOrderCommandHandler is the checkout orchestrator.
//
// Steps:
//  1. Resolve the restaurant and check it is orderable
//  2. Price the cart against the menu and build the order
//  3. Persist the order pending and unpaid in its own transaction
//  4. For online payment, open a provider session and store its reference
//
// The order is always persisted before the provider is called. If the provider
// fails the order is kept without a reference and *PaymentSetupFailedError is
// returned, so the customer can retry the session for the same order.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.RestaurantCatalog
	pricer     services.CartPricer
	sessions   PaymentSessionOpener
	logger     *slog.Logger
}

// NewCreateOrderCommandHandler creates a handler for checkout operations.
func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.RestaurantCatalog,
	sessions PaymentSessionOpener,
	logger *slog.Logger,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		pricer:     services.NewCartPricer(),
		sessions:   sessions,
		logger:     logger,
	}
}

// Handle places the order and, for online payment, returns where to redirect the customer.
func (h *CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (CheckoutResult, error) {
	if err := cmd.Validate(); err != nil {
		return CheckoutResult{}, err
	}

	menu, err := h.catalog.Get(ctx, cmd.RestaurantID())
	if err != nil {
		if errors.Is(err, errs.ErrObjectNotFound) {
			return CheckoutResult{}, fmt.Errorf("%w: %w", ErrRestaurantUnavailable, err)
		}
		return CheckoutResult{}, err
	}
	if !menu.IsOrderable() {
		return CheckoutResult{}, fmt.Errorf("%w: %s is %s and open=%t",
			ErrRestaurantUnavailable, menu.ID(), menu.Approval(), menu.IsOpen())
	}

	items, err := h.pricer.Price(menu, cmd.Lines())
	if err != nil {
		return CheckoutResult{}, err
	}

	o, err := order.NewOrder(
		kernel.NewUUID(),
		cmd.CustomerID(),
		menu.ID(),
		items,
		cmd.DeliveryDetails(),
		cmd.PaymentMethod(),
	)
	if err != nil {
		return CheckoutResult{}, err
	}

	if err = h.persist(ctx, o); err != nil {
		return CheckoutResult{}, err
	}

	if o.PaymentMethod() == order.CashOnDelivery {
		return CheckoutResult{OrderID: o.ID()}, nil
	}

	result, err := h.sessions.Open(ctx, o)
	if err != nil {
		h.logger.WarnContext(ctx, "payment session not created, order kept pending",
			"orderId", o.ID().String(), "error", err)
		return CheckoutResult{}, err
	}
	return result, nil
}

func (h *CreateOrderCommandHandler) persist(ctx context.Context, o *order.Order) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err := uow.OrderRepository().Add(ctx, o); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
