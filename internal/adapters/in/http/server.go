package http

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
	"github.com/oapi-codegen/runtime"
)

// maxWebhookBody bounds the payload read from the payment provider. Larger
// bodies are refused with 413 rather than truncated.
const maxWebhookBody = 1 << 20

// Handler contracts, satisfied by the command and query handlers.
type (
	CheckoutHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CheckoutResult, error)
	}
	RetryPaymentSessionHandler interface {
		Handle(ctx context.Context, cmd commands.RetryPaymentSessionCommand) (commands.CheckoutResult, error)
	}
	ApplyPaymentEventHandler interface {
		Handle(ctx context.Context, cmd commands.ApplyPaymentEventCommand) (commands.ReconcileResult, error)
	}
	TransitionOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) (*order.Order, error)
	}
	AssignShipperHandler interface {
		Handle(ctx context.Context, cmd commands.AssignShipperCommand) (*order.Order, error)
	}
	CustomerOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetCustomerOrdersQuery) ([]queries.OrderView, error)
	}
	RestaurantOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetRestaurantOrdersQuery) ([]queries.OrderView, error)
	}
	ShipperOrdersHandler interface {
		Handle(ctx context.Context, query queries.GetShipperOrdersQuery) ([]queries.OrderView, error)
	}
	RestaurantStatsHandler interface {
		Handle(ctx context.Context, query queries.GetRestaurantStatsQuery) (queries.GetRestaurantStatsQueryResponse, error)
	}
)

// Handlers groups everything the Server delegates to.
type Handlers struct {
	Checkout            CheckoutHandler
	RetryPaymentSession RetryPaymentSessionHandler
	ApplyPaymentEvent   ApplyPaymentEventHandler
	TransitionStatus    TransitionOrderStatusHandler
	AssignShipper       AssignShipperHandler
	CustomerOrders      CustomerOrdersHandler
	RestaurantOrders    RestaurantOrdersHandler
	ShipperOrders       ShipperOrdersHandler
	RestaurantStats     RestaurantStatsHandler
}

// Server translates HTTP requests into commands and queries.
type Server struct {
	handlers        Handlers
	signatureHeader string
	logger          *slog.Logger
}

// NewServer creates a Server. signatureHeader names the header carrying the
// payment provider's webhook signature.
func NewServer(handlers Handlers, signatureHeader string, logger *slog.Logger) *Server {
	return &Server{
		handlers:        handlers,
		signatureHeader: signatureHeader,
		logger:          logger.With("component", "http"),
	}
}

// Checkout handles POST /api/v1/orders/checkout.
func (s *Server) Checkout(c echo.Context) error {
	var body CheckoutRequest
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, newError(http.StatusBadRequest, "Invalid request body"))
	}

	cmd, err := checkoutCommand(callerFrom(c), body)
	if err != nil {
		return s.writeError(c, err)
	}

	result, err := s.handlers.Checkout.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusCreated, checkoutResponse(result))
}

// RetryPaymentSession handles POST /api/v1/orders/{orderId}/payment-session.
func (s *Server) RetryPaymentSession(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewRetryPaymentSessionCommand(orderID, callerFrom(c).UserID())
	if err != nil {
		return s.writeError(c, err)
	}

	result, err := s.handlers.RetryPaymentSession.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, checkoutResponse(result))
}

// GetMyOrders handles GET /api/v1/orders/mine.
func (s *Server) GetMyOrders(c echo.Context) error {
	query, err := queries.NewGetCustomerOrdersQuery(callerFrom(c).UserID())
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.handlers.CustomerOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ordersFromViews(views))
}

// GetRestaurantOrders handles GET /api/v1/restaurant/orders.
func (s *Server) GetRestaurantOrders(c echo.Context) error {
	query, err := queries.NewGetRestaurantOrdersQuery(staffRestaurant(callerFrom(c)))
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.handlers.RestaurantOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ordersFromViews(views))
}

// GetRestaurantStats handles GET /api/v1/restaurant/stats.
func (s *Server) GetRestaurantStats(c echo.Context) error {
	query, err := queries.NewGetRestaurantStatsQuery(staffRestaurant(callerFrom(c)))
	if err != nil {
		return s.writeError(c, err)
	}

	stats, err := s.handlers.RestaurantStats.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, RestaurantStats{
		TotalOrders:      stats.TotalOrders,
		Revenue:          stats.Revenue,
		Currency:         stats.Currency,
		UniqueCustomers:  stats.UniqueCustomers,
		FlaggedForReview: stats.FlaggedForReview,
	})
}

// GetShipperOrders handles GET /api/v1/shipper/orders?status=.
func (s *Server) GetShipperOrders(c echo.Context) error {
	var rawStatus *string
	if err := runtime.BindQueryParameter("form", true, false, "status", c.QueryParams(), &rawStatus); err != nil {
		return c.JSON(http.StatusBadRequest, newError(http.StatusBadRequest, err.Error()))
	}

	var status *order.Status
	if rawStatus != nil {
		parsed, err := order.ParseStatus(*rawStatus)
		if err != nil {
			return s.writeError(c, err)
		}
		status = &parsed
	}

	query, err := queries.NewGetShipperOrdersQuery(callerFrom(c).UserID(), status)
	if err != nil {
		return s.writeError(c, err)
	}

	views, err := s.handlers.ShipperOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, ordersFromViews(views))
}

// TransitionOrderStatus handles PATCH /api/v1/orders/{orderId}/status.
func (s *Server) TransitionOrderStatus(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var body StatusUpdate
	if err = c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, newError(http.StatusBadRequest, "Invalid request body"))
	}
	target, err := order.ParseStatus(body.Status)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, callerFrom(c), target)
	if err != nil {
		return s.writeError(c, err)
	}

	updated, err := s.handlers.TransitionStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// AssignShipper handles PUT /api/v1/orders/{orderId}/shipper.
func (s *Server) AssignShipper(c echo.Context) error {
	orderID, err := bindOrderID(c)
	if err != nil {
		return s.writeError(c, err)
	}

	var body ShipperAssignment
	if err = c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, newError(http.StatusBadRequest, "Invalid request body"))
	}
	shipperID, err := kernel.UUIDFromString(body.ShipperID)
	if err != nil {
		return s.writeError(c, err)
	}

	cmd, err := commands.NewAssignShipperCommand(orderID, shipperID, callerFrom(c))
	if err != nil {
		return s.writeError(c, err)
	}

	updated, err := s.handlers.AssignShipper.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, orderFromDomain(updated))
}

// PaymentWebhook handles POST /api/v1/webhooks/payments. The body is passed on
// exactly as received so the signature can be verified.
func (s *Server) PaymentWebhook(c echo.Context) error {
	payload, err := io.ReadAll(http.MaxBytesReader(c.Response(), c.Request().Body, maxWebhookBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return c.JSON(http.StatusRequestEntityTooLarge,
				newError(http.StatusRequestEntityTooLarge, "Request body exceeds 1 MiB"))
		}
		return c.JSON(http.StatusBadRequest, newError(http.StatusBadRequest, "Invalid request body"))
	}

	cmd, err := commands.NewApplyPaymentEventCommand(payload, c.Request().Header.Get(s.signatureHeader))
	if err != nil {
		return s.writeError(c, err)
	}

	result, err := s.handlers.ApplyPaymentEvent.Handle(c.Request().Context(), cmd)
	if err != nil {
		return s.writeError(c, err)
	}
	return c.JSON(http.StatusOK, WebhookAck{Received: true, Result: result.String()})
}

// Health handles GET /health.
func (s *Server) Health(c echo.Context) error {
	return c.String(http.StatusOK, "Healthy")
}

func bindOrderID(c echo.Context) (kernel.UUID, error) {
	var raw string
	err := runtime.BindStyledParameterWithOptions("simple", "orderId", c.Param("orderId"), &raw,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return kernel.UUID{}, err
	}
	return kernel.UUIDFromString(raw)
}

// staffRestaurant returns the restaurant a staff caller is bound to. The zero
// UUID it returns for callers without one fails query validation.
func staffRestaurant(caller kernel.Caller) kernel.UUID {
	if id := caller.RestaurantID(); id != nil {
		return *id
	}
	return kernel.UUID{}
}

func checkoutCommand(caller kernel.Caller, body CheckoutRequest) (commands.CreateOrderCommand, error) {
	restaurantID, err := kernel.UUIDFromString(body.RestaurantID)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	method, err := order.ParsePaymentMethod(body.PaymentMethod)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	d := body.DeliveryDetails
	address, err := kernel.NewAddress(d.AddressLine1, d.Street, d.Ward, d.District, d.City, d.Country)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}
	details, err := order.NewDeliveryDetails(d.Name, d.Email, d.Phone, address)
	if err != nil {
		return commands.CreateOrderCommand{}, err
	}

	lines := make([]order.CartLine, 0, len(body.CartItems))
	for _, item := range body.CartItems {
		menuItemID, parseErr := kernel.UUIDFromString(item.MenuItemID)
		if parseErr != nil {
			return commands.CreateOrderCommand{}, parseErr
		}
		line := order.CartLine{
			MenuItemID:       menuItemID,
			Quantity:         item.Quantity,
			ClaimedUnitPrice: item.Price,
		}
		for _, t := range item.Toppings {
			line.Toppings = append(line.Toppings, order.ToppingSelection{Category: t.Category, Option: t.Option})
		}
		lines = append(lines, line)
	}

	return commands.NewCreateOrderCommand(caller.UserID(), restaurantID, lines, details, method)
}
