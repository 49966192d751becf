package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	fdhttp "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCheckoutHandler struct{ mock.Mock }

func (m *MockCheckoutHandler) Handle(ctx context.Context, cmd commands.CreateOrderCommand) (commands.CheckoutResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CheckoutResult), args.Error(1)
}

type MockRetryPaymentSessionHandler struct{ mock.Mock }

func (m *MockRetryPaymentSessionHandler) Handle(
	ctx context.Context,
	cmd commands.RetryPaymentSessionCommand,
) (commands.CheckoutResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.CheckoutResult), args.Error(1)
}

type MockApplyPaymentEventHandler struct{ mock.Mock }

func (m *MockApplyPaymentEventHandler) Handle(
	ctx context.Context,
	cmd commands.ApplyPaymentEventCommand,
) (commands.ReconcileResult, error) {
	args := m.Called(ctx, cmd)
	return args.Get(0).(commands.ReconcileResult), args.Error(1)
}

type MockTransitionHandler struct{ mock.Mock }

func (m *MockTransitionHandler) Handle(ctx context.Context, cmd commands.TransitionOrderStatusCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockAssignShipperHandler struct{ mock.Mock }

func (m *MockAssignShipperHandler) Handle(ctx context.Context, cmd commands.AssignShipperCommand) (*order.Order, error) {
	args := m.Called(ctx, cmd)
	if o := args.Get(0); o != nil {
		return o.(*order.Order), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockCustomerOrdersHandler struct{ mock.Mock }

func (m *MockCustomerOrdersHandler) Handle(ctx context.Context, query queries.GetCustomerOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.OrderView), args.Error(1)
}

type MockRestaurantOrdersHandler struct{ mock.Mock }

func (m *MockRestaurantOrdersHandler) Handle(ctx context.Context, query queries.GetRestaurantOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.OrderView), args.Error(1)
}

type MockShipperOrdersHandler struct{ mock.Mock }

func (m *MockShipperOrdersHandler) Handle(ctx context.Context, query queries.GetShipperOrdersQuery) ([]queries.OrderView, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]queries.OrderView), args.Error(1)
}

type MockRestaurantStatsHandler struct{ mock.Mock }

func (m *MockRestaurantStatsHandler) Handle(
	ctx context.Context,
	query queries.GetRestaurantStatsQuery,
) (queries.GetRestaurantStatsQueryResponse, error) {
	args := m.Called(ctx, query)
	return args.Get(0).(queries.GetRestaurantStatsQueryResponse), args.Error(1)
}

const signatureHeader = "Stripe-Signature"

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newRouter(t *testing.T, handlers fdhttp.Handlers) *echo.Echo {
	t.Helper()
	e, err := fdhttp.NewRouter(fdhttp.NewServer(handlers, signatureHeader, discardLogger()), discardLogger())
	require.NoError(t, err)
	return e
}

type identity struct {
	userID       kernel.UUID
	role         kernel.Role
	restaurantID *kernel.UUID
}

func customer() identity { return identity{userID: kernel.NewUUID(), role: kernel.RoleCustomer} }

func staff(role kernel.Role, restaurantID kernel.UUID) identity {
	return identity{userID: kernel.NewUUID(), role: role, restaurantID: &restaurantID}
}

func do(e *echo.Echo, method, target string, who *identity, body string) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if who != nil {
		req.Header.Set(fdhttp.HeaderUserID, who.userID.String())
		req.Header.Set(fdhttp.HeaderUserRole, who.role.String())
		if who.restaurantID != nil {
			req.Header.Set(fdhttp.HeaderRestaurantID, who.restaurantID.String())
		}
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func checkoutBody(restaurantID, menuItemID kernel.UUID, method string) string {
	return fmt.Sprintf(`{
		"restaurantId": %q,
		"paymentMethod": %q,
		"deliveryDetails": {
			"name": "Jane Doe", "email": "jane@example.com", "phone": "+44 20 7946 0000",
			"addressLine1": "Flat 2", "street": "1 Baker St", "ward": "Marylebone",
			"district": "Westminster", "city": "London", "country": "UK"
		},
		"cartItems": [
			{"menuItemId": %q, "quantity": 2, "price": 500, "toppings": [{"category": "Extras", "option": "Olives"}]}
		]
	}`, restaurantID, method, menuItemID)
}

func newOrder(t *testing.T, customerID, restaurantID kernel.UUID) *order.Order {
	t.Helper()
	price, err := kernel.NewMoney(500, "gbp")
	require.NoError(t, err)
	item, err := order.NewCartItem(kernel.NewUUID(), "Margherita", 2, price, nil)
	require.NoError(t, err)
	address, err := kernel.NewAddress("Flat 2", "1 Baker St", "Marylebone", "Westminster", "London", "UK")
	require.NoError(t, err)
	details, err := order.NewDeliveryDetails("Jane Doe", "jane@example.com", "+44 20 7946 0000", address)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), customerID, restaurantID, []order.CartItem{item}, details, order.CashOnDelivery)
	require.NoError(t, err)
	return o
}

func TestHealth(t *testing.T) {
	rec := do(newRouter(t, fdhttp.Handlers{}), http.MethodGet, "/health", nil, "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Healthy", rec.Body.String())
}

func TestSwaggerServesContract(t *testing.T) {
	rec := do(newRouter(t, fdhttp.Handlers{}), http.MethodGet, "/swagger/doc.json", nil, "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/api/v1/orders/checkout")
}

func TestGetSwagger_IsValid(t *testing.T) {
	doc, err := fdhttp.GetSwagger()

	require.NoError(t, err)
	assert.NotNil(t, doc.Paths.Find("/api/v1/orders/{orderId}/status"))
}

func TestAuthentication(t *testing.T) {
	e := newRouter(t, fdhttp.Handlers{})

	tests := []struct {
		name    string
		headers map[string]string
	}{
		{"no headers", nil},
		{"missing role", map[string]string{fdhttp.HeaderUserID: kernel.NewUUID().String()}},
		{"malformed user id", map[string]string{fdhttp.HeaderUserID: "42", fdhttp.HeaderUserRole: "user"}},
		{"unknown role", map[string]string{fdhttp.HeaderUserID: kernel.NewUUID().String(), fdhttp.HeaderUserRole: "admin"}},
		{"staff without restaurant", map[string]string{fdhttp.HeaderUserID: kernel.NewUUID().String(), fdhttp.HeaderUserRole: "seller"}},
		{"malformed restaurant", map[string]string{
			fdhttp.HeaderUserID: kernel.NewUUID().String(), fdhttp.HeaderUserRole: "seller", fdhttp.HeaderRestaurantID: "nope",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/v1/restaurant/orders", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestCheckout_Online(t *testing.T) {
	who := customer()
	restaurantID, menuItemID, orderID := kernel.NewUUID(), kernel.NewUUID(), kernel.NewUUID()

	checkout := &MockCheckoutHandler{}
	checkout.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.CreateOrderCommand) bool {
		lines := cmd.Lines()
		return cmd.CustomerID() == who.userID &&
			cmd.RestaurantID() == restaurantID &&
			cmd.PaymentMethod() == order.Online &&
			cmd.DeliveryDetails().Address().City() == "London" &&
			len(lines) == 1 &&
			lines[0].MenuItemID == menuItemID &&
			lines[0].Quantity == 2 &&
			lines[0].ClaimedUnitPrice != nil && *lines[0].ClaimedUnitPrice == 500 &&
			len(lines[0].Toppings) == 1 && lines[0].Toppings[0].Option == "Olives"
	})).Return(commands.CheckoutResult{
		OrderID:          orderID,
		RedirectURL:      "https://pay.example/cs_1",
		PaymentReference: "cs_1",
	}, nil).Once()

	rec := do(newRouter(t, fdhttp.Handlers{Checkout: checkout}), http.MethodPost, "/api/v1/orders/checkout",
		&who, checkoutBody(restaurantID, menuItemID, "online"))

	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	got := decode[fdhttp.CheckoutResponse](t, rec)
	assert.Equal(t, orderID.String(), got.OrderID)
	assert.Equal(t, "https://pay.example/cs_1", got.RedirectURL)
	checkout.AssertExpectations(t)
}

func TestCheckout_Errors(t *testing.T) {
	orderID := kernel.NewUUID()

	tests := []struct {
		name string
		err  error
		code int
	}{
		{"unknown restaurant", fmt.Errorf("%w: %w", commands.ErrRestaurantUnavailable,
			errs.NewObjectNotFoundError("restaurant", "r1")), http.StatusNotFound},
		{"closed restaurant", fmt.Errorf("%w: closed", commands.ErrRestaurantUnavailable), http.StatusUnprocessableEntity},
		{"invalid cart", order.NewInvalidCartItemError("m1", "not on the menu"), http.StatusUnprocessableEntity},
		{"provider failure", commands.NewPaymentSetupFailedError(orderID, errors.New("stripe down")), http.StatusBadGateway},
		{"unexpected", errors.New("disk full"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			who := customer()
			checkout := &MockCheckoutHandler{}
			checkout.On("Handle", mock.Anything, mock.Anything).Return(commands.CheckoutResult{}, tt.err).Once()

			rec := do(newRouter(t, fdhttp.Handlers{Checkout: checkout}), http.MethodPost, "/api/v1/orders/checkout",
				&who, checkoutBody(kernel.NewUUID(), kernel.NewUUID(), "online"))

			require.Equal(t, tt.code, rec.Code, rec.Body.String())
			body := decode[fdhttp.Error](t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.code == http.StatusBadGateway {
				require.NotNil(t, body.OrderID)
				assert.Equal(t, orderID.String(), *body.OrderID)
			}
			if tt.code == http.StatusInternalServerError {
				assert.NotContains(t, body.Message, "disk full")
			}
		})
	}
}

func TestCheckout_RejectedBeforeHandler(t *testing.T) {
	tests := []struct {
		name string
		who  identity
		body string
		code int
	}{
		{"seller cannot check out", staff(kernel.RoleSeller, kernel.NewUUID()),
			checkoutBody(kernel.NewUUID(), kernel.NewUUID(), "cod"), http.StatusForbidden},
		{"unknown payment method", customer(),
			checkoutBody(kernel.NewUUID(), kernel.NewUUID(), "crypto"), http.StatusBadRequest},
		{"missing delivery details", customer(),
			`{"restaurantId":"` + kernel.NewUUID().String() + `","paymentMethod":"cod","cartItems":[]}`, http.StatusBadRequest},
		{"zero quantity", customer(), strings.Replace(
			checkoutBody(kernel.NewUUID(), kernel.NewUUID(), "cod"), `"quantity": 2`, `"quantity": 0`, 1), http.StatusBadRequest},
		{"malformed restaurant id", customer(), strings.Replace(
			checkoutBody(kernel.NewUUID(), kernel.NewUUID(), "cod"), `"restaurantId": "`, `"restaurantId": "x`, 1), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkout := &MockCheckoutHandler{}
			who := tt.who

			rec := do(newRouter(t, fdhttp.Handlers{Checkout: checkout}), http.MethodPost, "/api/v1/orders/checkout", &who, tt.body)

			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			checkout.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
		})
	}
}

func TestRetryPaymentSession(t *testing.T) {
	who := customer()
	orderID := kernel.NewUUID()

	retry := &MockRetryPaymentSessionHandler{}
	retry.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.RetryPaymentSessionCommand) bool {
		return cmd.OrderID() == orderID && cmd.CustomerID() == who.userID
	})).Return(commands.CheckoutResult{OrderID: orderID, RedirectURL: "https://pay.example/cs_2"}, nil).Once()
	e := newRouter(t, fdhttp.Handlers{RetryPaymentSession: retry})

	rec := do(e, http.MethodPost, "/api/v1/orders/"+orderID.String()+"/payment-session", &who, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "https://pay.example/cs_2", decode[fdhttp.CheckoutResponse](t, rec).RedirectURL)

	rec = do(e, http.MethodPost, "/api/v1/orders/not-a-uuid/payment-session", &who, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetMyOrders(t *testing.T) {
	who := customer()
	shipperID := kernel.NewUUID()
	paid := int64(1000)
	view := queries.OrderView{
		ID:            kernel.NewUUID(),
		CustomerID:    who.userID,
		RestaurantID:  kernel.NewUUID(),
		ShipperID:     &shipperID,
		Status:        order.OutForDelivery,
		PaymentMethod: order.Online,
		PaymentStatus: order.Paid,
		Currency:      "gbp",
		TotalAmount:   1000,
		PaidAmount:    &paid,
		Delivery:      queries.DeliveryView{Name: "Jane Doe", City: "London"},
		Items: []queries.OrderItemView{{
			MenuItemID: kernel.NewUUID(), Name: "Margherita", Quantity: 2, UnitPrice: 500, LineTotal: 1000,
		}},
	}

	handler := &MockCustomerOrdersHandler{}
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetCustomerOrdersQuery) bool {
		return q.CustomerID() == who.userID
	})).Return([]queries.OrderView{view}, nil).Once()

	rec := do(newRouter(t, fdhttp.Handlers{CustomerOrders: handler}), http.MethodGet, "/api/v1/orders/mine", &who, "")

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[[]fdhttp.Order](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "outForDelivery", got[0].Status)
	assert.Equal(t, "paid", got[0].PaymentStatus)
	require.NotNil(t, got[0].ShipperID)
	assert.Equal(t, shipperID.String(), *got[0].ShipperID)
	assert.Equal(t, "London", got[0].DeliveryDetails.City)
	require.Len(t, got[0].Items, 1)
	assert.NotNil(t, got[0].Items[0].Toppings)
}

func TestRestaurantViews_UseCallerRestaurant(t *testing.T) {
	restaurantID := kernel.NewUUID()

	orders := &MockRestaurantOrdersHandler{}
	orders.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRestaurantOrdersQuery) bool {
		return q.RestaurantID() == restaurantID
	})).Return([]queries.OrderView{}, nil).Once()
	stats := &MockRestaurantStatsHandler{}
	stats.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetRestaurantStatsQuery) bool {
		return q.RestaurantID() == restaurantID
	})).Return(queries.GetRestaurantStatsQueryResponse{
		TotalOrders: 3, Revenue: 2300, Currency: "gbp", UniqueCustomers: 2, FlaggedForReview: 1,
	}, nil).Once()
	e := newRouter(t, fdhttp.Handlers{RestaurantOrders: orders, RestaurantStats: stats})

	seller := staff(kernel.RoleSeller, restaurantID)
	rec := do(e, http.MethodGet, "/api/v1/restaurant/orders", &seller, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.JSONEq(t, `[]`, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/restaurant/stats", &seller, "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	manager := staff(kernel.RoleManager, restaurantID)
	rec = do(e, http.MethodGet, "/api/v1/restaurant/stats", &manager, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[fdhttp.RestaurantStats](t, rec)
	assert.Equal(t, int64(2300), got.Revenue)
	assert.Equal(t, int64(1), got.FlaggedForReview)

	orders.AssertExpectations(t)
	stats.AssertExpectations(t)
}

func TestGetShipperOrders_StatusFilter(t *testing.T) {
	shipper := staff(kernel.RoleShipper, kernel.NewUUID())

	handler := &MockShipperOrdersHandler{}
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetShipperOrdersQuery) bool {
		status, ok := q.Status()
		return q.ShipperID() == shipper.userID && ok && status == order.OutForDelivery
	})).Return([]queries.OrderView{}, nil).Once()
	handler.On("Handle", mock.Anything, mock.MatchedBy(func(q queries.GetShipperOrdersQuery) bool {
		_, ok := q.Status()
		return !ok
	})).Return([]queries.OrderView{}, nil).Once()
	e := newRouter(t, fdhttp.Handlers{ShipperOrders: handler})

	rec := do(e, http.MethodGet, "/api/v1/shipper/orders?status=outForDelivery", &shipper, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/shipper/orders", &shipper, "")
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodGet, "/api/v1/shipper/orders?status=lost", &shipper, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	handler.AssertExpectations(t)
}

func TestTransitionOrderStatus(t *testing.T) {
	restaurantID := kernel.NewUUID()
	seller := staff(kernel.RoleSeller, restaurantID)
	o := newOrder(t, kernel.NewUUID(), restaurantID)
	caller, err := kernel.NewCaller(seller.userID, seller.role, seller.restaurantID)
	require.NoError(t, err)
	require.NoError(t, o.AdvanceTo(order.Confirmed, caller))

	transition := &MockTransitionHandler{}
	transition.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.TransitionOrderStatusCommand) bool {
		return cmd.OrderID() == o.ID() && cmd.Target() == order.Confirmed && cmd.Caller().UserID() == seller.userID
	})).Return(o, nil).Once()

	rec := do(newRouter(t, fdhttp.Handlers{TransitionStatus: transition}), http.MethodPatch,
		"/api/v1/orders/"+o.ID().String()+"/status", &seller, `{"status":"confirmed"}`)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	got := decode[fdhttp.Order](t, rec)
	assert.Equal(t, "confirmed", got.Status)
	assert.Equal(t, int64(1000), got.TotalAmount)
	assert.Equal(t, "gbp", got.Currency)
	transition.AssertExpectations(t)
}

func TestTransitionOrderStatus_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
	}{
		{"forbidden", services.NewForbiddenError(kernel.RoleShipper, order.Pending, "no edge"), http.StatusForbidden},
		{"invalid transition", order.NewInvalidTransitionError(order.Delivered, order.Confirmed), http.StatusConflict},
		{"not found", errs.NewObjectNotFoundError("order", "o1"), http.StatusNotFound},
		{"contention", commands.ErrTooManyConflicts, http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			shipper := staff(kernel.RoleShipper, kernel.NewUUID())
			transition := &MockTransitionHandler{}
			transition.On("Handle", mock.Anything, mock.Anything).Return(nil, tt.err).Once()

			rec := do(newRouter(t, fdhttp.Handlers{TransitionStatus: transition}), http.MethodPatch,
				"/api/v1/orders/"+kernel.NewUUID().String()+"/status", &shipper, `{"status":"delivered"}`)

			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
		})
	}
}

func TestTransitionOrderStatus_UnknownTargetRejected(t *testing.T) {
	seller := staff(kernel.RoleSeller, kernel.NewUUID())
	transition := &MockTransitionHandler{}

	rec := do(newRouter(t, fdhttp.Handlers{TransitionStatus: transition}), http.MethodPatch,
		"/api/v1/orders/"+kernel.NewUUID().String()+"/status", &seller, `{"status":"cancelled"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	transition.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestAssignShipper(t *testing.T) {
	restaurantID := kernel.NewUUID()
	manager := staff(kernel.RoleManager, restaurantID)
	shipperID := kernel.NewUUID()
	o := newOrder(t, kernel.NewUUID(), restaurantID)

	assign := &MockAssignShipperHandler{}
	assign.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.AssignShipperCommand) bool {
		return cmd.OrderID() == o.ID() && cmd.ShipperID() == shipperID
	})).Return(o, nil).Once()
	e := newRouter(t, fdhttp.Handlers{AssignShipper: assign})

	rec := do(e, http.MethodPut, "/api/v1/orders/"+o.ID().String()+"/shipper", &manager,
		`{"shipperId":"`+shipperID.String()+`"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(e, http.MethodPut, "/api/v1/orders/"+o.ID().String()+"/shipper", &manager, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assign.AssertExpectations(t)
}

func TestPaymentWebhook(t *testing.T) {
	payload := `{"id":"evt_1","type":"checkout.session.completed"}`

	apply := &MockApplyPaymentEventHandler{}
	apply.On("Handle", mock.Anything, mock.MatchedBy(func(cmd commands.ApplyPaymentEventCommand) bool {
		return string(cmd.Payload()) == payload && cmd.Signature() == "t=1,v1=abc"
	})).Return(commands.ReconcilePaid, nil).Once()
	e := newRouter(t, fdhttp.Handlers{ApplyPaymentEvent: apply})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(signatureHeader, "t=1,v1=abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	ack := decode[fdhttp.WebhookAck](t, rec)
	assert.True(t, ack.Received)
	assert.Equal(t, "paid", ack.Result)
	apply.AssertExpectations(t)
}

func TestPaymentWebhook_OversizeBody(t *testing.T) {
	apply := &MockApplyPaymentEventHandler{}
	e := newRouter(t, fdhttp.Handlers{ApplyPaymentEvent: apply})

	payload := `{"id":"evt_1","padding":"` + strings.Repeat("x", 1<<20) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(signatureHeader, "t=1,v1=abc")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code, rec.Body.String())
	apply.AssertNotCalled(t, "Handle", mock.Anything, mock.Anything)
}

func TestPaymentWebhook_Rejected(t *testing.T) {
	tests := []struct {
		name      string
		signature string
		err       error
		code      int
	}{
		{"forged", "t=1,v1=bad", fmt.Errorf("%w: no valid signature", payment.ErrInvalidSignature), http.StatusBadRequest},
		{"storage down", "t=1,v1=abc", errors.New("connection refused"), http.StatusInternalServerError},
		{"unsigned", "", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			apply := &MockApplyPaymentEventHandler{}
			if tt.err != nil {
				apply.On("Handle", mock.Anything, mock.Anything).Return(commands.ReconcileResult(0), tt.err).Once()
			}
			e := newRouter(t, fdhttp.Handlers{ApplyPaymentEvent: apply})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/webhooks/payments", strings.NewReader(`{"id":"evt_1"}`))
			if tt.signature != "" {
				req.Header.Set(signatureHeader, tt.signature)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)

			assert.Equal(t, tt.code, rec.Code, rec.Body.String())
			apply.AssertExpectations(t)
		})
	}
}
