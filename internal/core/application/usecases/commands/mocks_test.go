package commands_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/model/restaurant"
	"fooddelivery/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) GetByPaymentReference(ctx context.Context, reference string) (*order.Order, error) {
	args := m.Called(ctx, reference)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

func (m *MockOrderRepository) FindAwaitingPaymentSession(
	ctx context.Context,
	createdBefore time.Time,
	limit int,
) ([]*order.Order, error) {
	args := m.Called(ctx, createdBefore, limit)
	orders, _ := args.Get(0).([]*order.Order)
	return orders, args.Error(1)
}

type MockOrderUoW struct{ mock.Mock }

func (m *MockOrderUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
func (m *MockOrderUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockOrderUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	args := m.Called()
	return args.Get(0).(commands.OrderUoW)
}

type MockPaymentProvider struct{ mock.Mock }

func (m *MockPaymentProvider) CreateSession(ctx context.Context, req payment.SessionRequest) (payment.Session, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(payment.Session), args.Error(1)
}

func (m *MockPaymentProvider) ParseEvent(payload []byte, signature string) (payment.Event, error) {
	args := m.Called(payload, signature)
	return args.Get(0).(payment.Event), args.Error(1)
}

type MockRestaurantCatalog struct{ mock.Mock }

func (m *MockRestaurantCatalog) Get(ctx context.Context, id kernel.UUID) (*restaurant.Restaurant, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*restaurant.Restaurant)
	return r, args.Error(1)
}

// memoryFactory adapts the in-memory unit of work to the command handlers.
type memoryFactory struct {
	inner *memory.UnitOfWorkFactory
}

func (f memoryFactory) Create() commands.OrderUoW {
	return f.inner.Create()
}

func newMemoryFactory(store *memory.Store) memoryFactory {
	return memoryFactory{inner: memory.NewUnitOfWorkFactory(store)}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func gbp(t *testing.T, amount int64) kernel.Money {
	t.Helper()
	m, err := kernel.NewMoney(amount, "gbp")
	require.NoError(t, err)
	return m
}

func redirectURLs(t *testing.T) commands.RedirectURLs {
	t.Helper()
	urls, err := commands.NewRedirectURLs("https://shop.example/")
	require.NoError(t, err)
	return urls
}

func newDetails(t *testing.T) order.DeliveryDetails {
	t.Helper()
	addr, err := kernel.NewAddress("Flat 2", "1 Baker St", "Marylebone", "Westminster", "London", "UK")
	require.NoError(t, err)
	d, err := order.NewDeliveryDetails("Jane Doe", "jane@example.com", "+44 20 7946 0000", addr)
	require.NoError(t, err)
	return d
}

func newCaller(t *testing.T, role kernel.Role, restaurantID kernel.UUID) kernel.Caller {
	t.Helper()
	c, err := kernel.NewCaller(kernel.NewUUID(), role, &restaurantID)
	require.NoError(t, err)
	return c
}

// menuFixture is an approved, open restaurant selling item A at 500.
type menuFixture struct {
	restaurant *restaurant.Restaurant
	itemA      kernel.UUID
}

func newMenu(t *testing.T, approval restaurant.ApprovalStatus, isOpen bool) menuFixture {
	t.Helper()
	itemA := kernel.NewUUID()
	item, err := restaurant.NewMenuItem(itemA, "Item A", gbp(t, 500), true, nil)
	require.NoError(t, err)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Luigi's", approval, isOpen, []restaurant.MenuItem{item})
	require.NoError(t, err)
	return menuFixture{restaurant: r, itemA: itemA}
}

// newStoredOrder persists a pending order of 2 x 500 for restaurantID into store.
func newStoredOrder(t *testing.T, store *memory.Store, restaurantID kernel.UUID, method order.PaymentMethod) *order.Order {
	t.Helper()
	item, err := order.NewCartItem(kernel.NewUUID(), "Item A", 2, gbp(t, 500), nil)
	require.NoError(t, err)
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), restaurantID, []order.CartItem{item}, newDetails(t), method)
	require.NoError(t, err)
	saveNew(t, store, o)
	return o
}

func saveNew(t *testing.T, store *memory.Store, o *order.Order) {
	t.Helper()
	ctx := t.Context()
	uow := memory.NewUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(ctx))
	require.NoError(t, uow.OrderRepository().Add(ctx, o))
	require.NoError(t, uow.Commit(ctx))
}

func loadOrder(t *testing.T, store *memory.Store, id kernel.UUID) *order.Order {
	t.Helper()
	ctx := t.Context()
	uow := memory.NewUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	o, err := uow.OrderRepository().Get(ctx, id)
	require.NoError(t, err)
	return o
}

// mutate loads an order, applies fn and commits it, as another writer would.
func mutate(t *testing.T, store *memory.Store, id kernel.UUID, fn func(o *order.Order)) *order.Order {
	t.Helper()
	ctx := t.Context()
	uow := memory.NewUnitOfWorkFactory(store).Create()
	require.NoError(t, uow.Begin(ctx))
	o, err := uow.OrderRepository().Get(ctx, id)
	require.NoError(t, err)
	fn(o)
	require.NoError(t, uow.OrderRepository().Update(ctx, o))
	require.NoError(t, uow.Commit(ctx))
	return loadOrder(t, store, id)
}
