package http

import (
	"log/slog"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
)

const apiPrefix = "/api/v1"

// NewRouter builds the echo instance serving the API, the health check and the
// Swagger UI.
//
// The payment webhook is registered outside the authenticated group: it is
// called by the provider, carries no identity headers and is verified by its
// signature instead.
func NewRouter(server *Server, logger *slog.Logger) (*echo.Echo, error) {
	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	if err = registerDoc(doc); err != nil {
		return nil, err
	}
	validate, err := requestValidator(doc)
	if err != nil {
		return nil, err
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(requestLogger(logger))

	e.GET("/health", server.Health)
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.POST(apiPrefix+"/webhooks/payments", server.PaymentWebhook)

	api := e.Group(apiPrefix, authenticate(), validate)

	customer := requireRole(kernel.RoleCustomer)
	api.POST("/orders/checkout", server.Checkout, customer)
	api.POST("/orders/:orderId/payment-session", server.RetryPaymentSession, customer)
	api.GET("/orders/mine", server.GetMyOrders, customer)

	api.GET("/restaurant/orders", server.GetRestaurantOrders, requireRole(kernel.RoleSeller, kernel.RoleManager))
	api.GET("/restaurant/stats", server.GetRestaurantStats, requireRole(kernel.RoleManager))
	api.GET("/shipper/orders", server.GetShipperOrders, requireRole(kernel.RoleShipper))

	api.PATCH("/orders/:orderId/status", server.TransitionOrderStatus)
	api.PUT("/orders/:orderId/shipper", server.AssignShipper)

	return e, nil
}

func requestLogger(logger *slog.Logger) echo.MiddlewareFunc {
	logger = logger.With("component", "http")
	return middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:    true,
		LogURI:       true,
		LogMethod:    true,
		LogLatency:   true,
		LogError:     true,
		HandleError:  true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			attrs := []slog.Attr{
				slog.String("method", v.Method),
				slog.String("uri", v.URI),
				slog.Int("status", v.Status),
				slog.Duration("latency", v.Latency),
			}
			level := slog.LevelInfo
			if v.Error != nil {
				level = slog.LevelError
				attrs = append(attrs, slog.String("error", v.Error.Error()))
			}
			logger.LogAttrs(c.Request().Context(), level, "request", attrs...)
			return nil
		},
	})
}
