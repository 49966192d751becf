package cmd

import (
	"log/slog"

	httpin "fooddelivery/internal/adapters/in/http"
	"fooddelivery/internal/adapters/out/cache"
	"fooddelivery/internal/adapters/out/postgres"
	"fooddelivery/internal/adapters/out/postgres/catalogrepo"
	"fooddelivery/internal/adapters/out/stripe"
	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/application/usecases/queries"
	"fooddelivery/internal/core/ports"
	"fooddelivery/internal/jobs"

	"github.com/redis/go-redis/v9"
	"github.com/stripe/stripe-go/v76/client"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs    Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	catalog    ports.RestaurantCatalog
	payments   *stripe.Provider
	sessions   commands.PaymentSessionOpener
	logger     *slog.Logger
}

func NewCompositionRoot(configs Config, gormDB *gorm.DB, redisClient *redis.Client, logger *slog.Logger) (CompositionRoot, error) {
	urls, err := commands.NewRedirectURLs(configs.FrontendURL)
	if err != nil {
		return CompositionRoot{}, err
	}

	c := CompositionRoot{
		configs:    configs,
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		catalog: cache.NewCatalogCache(
			redisClient,
			catalogrepo.NewGormRestaurantCatalog(gormDB),
			configs.CatalogCacheTTL,
			logger,
		),
		payments: stripe.NewProvider(client.New(configs.StripeAPIKey, nil), configs.StripeWebhookSecret, logger),
		logger:   logger,
	}
	c.sessions = commands.NewPaymentSessionOpener(c.orderUoWFactory(), c.payments, urls)
	return c, nil
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.sessions, c.logger)
}

func (c *CompositionRoot) CreateRetryPaymentSessionCommandHandler() commands.RetryPaymentSessionCommandHandler {
	return commands.NewRetryPaymentSessionCommandHandler(c.orderUoWFactory(), c.sessions)
}

func (c *CompositionRoot) CreateApplyPaymentEventCommandHandler() commands.ApplyPaymentEventCommandHandler {
	return commands.NewApplyPaymentEventCommandHandler(c.orderUoWFactory(), c.payments, c.logger)
}

func (c *CompositionRoot) CreateTransitionOrderStatusCommandHandler() commands.TransitionOrderStatusCommandHandler {
	return commands.NewTransitionOrderStatusCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateAssignShipperCommandHandler() commands.AssignShipperCommandHandler {
	return commands.NewAssignShipperCommandHandler(c.orderUoWFactory())
}

func (c *CompositionRoot) CreateRecoverPaymentSessionsCommandHandler() commands.RecoverPaymentSessionsCommandHandler {
	return commands.NewRecoverPaymentSessionsCommandHandler(c.orderUoWFactory(), c.sessions, c.logger)
}

func (c *CompositionRoot) CreateGetCustomerOrdersQueryHandler() queries.GetCustomerOrdersQueryHandler {
	return queries.NewGetCustomerOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRestaurantOrdersQueryHandler() queries.GetRestaurantOrdersQueryHandler {
	return queries.NewGetRestaurantOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetShipperOrdersQueryHandler() queries.GetShipperOrdersQueryHandler {
	return queries.NewGetShipperOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRestaurantStatsQueryHandler() queries.GetRestaurantStatsQueryHandler {
	return queries.NewGetRestaurantStatsQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case behind the REST API.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	checkout := c.CreateCreateOrderCommandHandler()
	retry := c.CreateRetryPaymentSessionCommandHandler()
	applyEvent := c.CreateApplyPaymentEventCommandHandler()
	transition := c.CreateTransitionOrderStatusCommandHandler()
	assignShipper := c.CreateAssignShipperCommandHandler()

	return httpin.NewServer(httpin.Handlers{
		Checkout:            &checkout,
		RetryPaymentSession: &retry,
		ApplyPaymentEvent:   &applyEvent,
		TransitionStatus:    &transition,
		AssignShipper:       &assignShipper,
		CustomerOrders:      c.CreateGetCustomerOrdersQueryHandler(),
		RestaurantOrders:    c.CreateGetRestaurantOrdersQueryHandler(),
		ShipperOrders:       c.CreateGetShipperOrdersQueryHandler(),
		RestaurantStats:     c.CreateGetRestaurantStatsQueryHandler(),
	}, stripe.SignatureHeader, c.logger)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	recoverSessions := c.CreateRecoverPaymentSessionsCommandHandler()
	return jobs.NewJobManager(jobs.NewPaymentSessionRecoveryJob(
		&recoverSessions,
		c.configs.SessionRecoverySchedule,
		c.configs.SessionRecoveryGrace,
		c.configs.SessionRecoveryBatch,
		c.logger,
	))
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
