package cache_test

import (
	"context"
	"testing"
	"time"

	"fooddelivery/internal/adapters/out/cache"
	"fooddelivery/internal/adapters/out/memory"
	"fooddelivery/internal/adapters/out/postgres/catalogrepo"
	"fooddelivery/internal/adapters/out/postgres/pgtest"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/kernel"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/restaurant"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"
)

type orderUoWFactory struct {
	inner *memory.UnitOfWorkFactory
}

func (f orderUoWFactory) Create() commands.OrderUoW {
	return f.inner.Create()
}

// CheckoutThroughCacheTestSuite places orders through the Redis cache in front
// of the catalog tables, while the tables change underneath it.
type CheckoutThroughCacheTestSuite struct {
	suite.Suite
	redisContainer testcontainers.Container
	pgContainer    *postgres.PostgresContainer
	client         *redis.Client
	db             *gorm.DB
	tables         *catalogrepo.GormRestaurantCatalog
	store          *memory.Store
	handler        commands.CreateOrderCommandHandler
}

func (suite *CheckoutThroughCacheTestSuite) SetupSuite() {
	ctx := context.Background()
	redisContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	suite.redisContainer = redisContainer
	suite.Require().NoError(err)
	endpoint, err := redisContainer.Endpoint(ctx, "")
	suite.Require().NoError(err)
	suite.client = redis.NewClient(&redis.Options{Addr: endpoint})

	pgContainer, db, err := pgtest.Start(ctx)
	suite.pgContainer = pgContainer
	suite.Require().NoError(err)
	suite.db = db
	suite.tables = catalogrepo.NewGormRestaurantCatalog(db)
}

func (suite *CheckoutThroughCacheTestSuite) SetupTest() {
	suite.Require().NoError(suite.client.FlushAll(context.Background()).Err())
	suite.Require().NoError(pgtest.Truncate(suite.db))

	suite.store = memory.NewStore()
	factory := orderUoWFactory{inner: memory.NewUnitOfWorkFactory(suite.store)}
	urls, err := commands.NewRedirectURLs("https://shop.example/")
	suite.Require().NoError(err)

	catalog := cache.NewCatalogCache(suite.client, suite.tables, 5*time.Minute, discardLogger())
	sessions := commands.NewPaymentSessionOpener(factory, nil, urls)
	suite.handler = commands.NewCreateOrderCommandHandler(factory, catalog, sessions, discardLogger())
}

func (suite *CheckoutThroughCacheTestSuite) TearDownSuite() {
	if suite.client != nil {
		suite.Require().NoError(suite.client.Close())
	}
	if suite.redisContainer != nil {
		suite.Require().NoError(suite.redisContainer.Terminate(context.Background()))
	}
	if suite.pgContainer != nil {
		suite.Require().NoError(suite.pgContainer.Terminate(context.Background()))
	}
}

func (suite *CheckoutThroughCacheTestSuite) TestClosedAfterCacheWarm_RejectsCheckout() {
	ctx := context.Background()
	r, itemID := suite.saveRestaurant(restaurant.ApprovalApproved, true, 500)

	_, err := suite.handler.Handle(ctx, suite.checkout(r.ID(), itemID))
	suite.Require().NoError(err)

	closed, err := restaurant.NewRestaurant(r.ID(), r.Name(), r.Approval(), false, r.Menu())
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tables.Save(ctx, closed))

	_, err = suite.handler.Handle(ctx, suite.checkout(r.ID(), itemID))
	suite.Require().ErrorIs(err, commands.ErrRestaurantUnavailable)
}

func (suite *CheckoutThroughCacheTestSuite) TestRejectedAfterCacheWarm_RejectsCheckout() {
	ctx := context.Background()
	r, itemID := suite.saveRestaurant(restaurant.ApprovalApproved, true, 500)

	_, err := suite.handler.Handle(ctx, suite.checkout(r.ID(), itemID))
	suite.Require().NoError(err)

	suite.Require().NoError(suite.db.WithContext(ctx).
		Exec("UPDATE restaurants SET approval = ? WHERE id = ?", string(restaurant.ApprovalRejected), r.ID().Bytes()).Error)

	_, err = suite.handler.Handle(ctx, suite.checkout(r.ID(), itemID))
	suite.Require().ErrorIs(err, commands.ErrRestaurantUnavailable)
}

func (suite *CheckoutThroughCacheTestSuite) TestRepricedAfterCacheWarm_ChargesNewPrice() {
	ctx := context.Background()
	r, itemID := suite.saveRestaurant(restaurant.ApprovalApproved, true, 500)

	first, err := suite.handler.Handle(ctx, suite.checkout(r.ID(), itemID))
	suite.Require().NoError(err)
	suite.Equal(int64(1000), suite.loadOrder(first.OrderID).TotalAmount().Amount())

	suite.Require().NoError(suite.db.WithContext(ctx).
		Exec("UPDATE menu_items SET price = 650 WHERE id = ?", itemID.Bytes()).Error)

	second, err := suite.handler.Handle(ctx, suite.checkout(r.ID(), itemID))
	suite.Require().NoError(err)
	suite.Equal(int64(1300), suite.loadOrder(second.OrderID).TotalAmount().Amount())
}

func (suite *CheckoutThroughCacheTestSuite) saveRestaurant(
	approval restaurant.ApprovalStatus,
	isOpen bool,
	price int64,
) (*restaurant.Restaurant, kernel.UUID) {
	amount, err := kernel.NewMoney(price, "gbp")
	suite.Require().NoError(err)
	itemID := kernel.NewUUID()
	item, err := restaurant.NewMenuItem(itemID, "Margherita", amount, true, nil)
	suite.Require().NoError(err)
	r, err := restaurant.NewRestaurant(kernel.NewUUID(), "Napoli", approval, isOpen, []restaurant.MenuItem{item})
	suite.Require().NoError(err)
	suite.Require().NoError(suite.tables.Save(context.Background(), r))
	return r, itemID
}

// checkout is a cash order for two of the item.
func (suite *CheckoutThroughCacheTestSuite) checkout(restaurantID, itemID kernel.UUID) commands.CreateOrderCommand {
	addr, err := kernel.NewAddress("Flat 2", "1 Baker St", "Marylebone", "Westminster", "London", "UK")
	suite.Require().NoError(err)
	details, err := order.NewDeliveryDetails("Jane Doe", "jane@example.com", "+44 20 7946 0000", addr)
	suite.Require().NoError(err)

	cmd, err := commands.NewCreateOrderCommand(
		kernel.NewUUID(),
		restaurantID,
		[]order.CartLine{{MenuItemID: itemID, Quantity: 2}},
		details,
		order.CashOnDelivery,
	)
	suite.Require().NoError(err)
	return cmd
}

func (suite *CheckoutThroughCacheTestSuite) loadOrder(id kernel.UUID) *order.Order {
	ctx := context.Background()
	uow := memory.NewUnitOfWorkFactory(suite.store).Create()
	suite.Require().NoError(uow.Begin(ctx))
	defer func() { _ = uow.Rollback(ctx) }()
	o, err := uow.OrderRepository().Get(ctx, id)
	suite.Require().NoError(err)
	return o
}

func TestCheckoutThroughCacheTestSuite(t *testing.T) {
	suite.Run(t, new(CheckoutThroughCacheTestSuite))
}
