package http

import (
	"errors"
	"net/http"

	"fooddelivery/internal/core/application/usecases/commands"
	"fooddelivery/internal/core/domain/model/order"
	"fooddelivery/internal/core/domain/model/payment"
	"fooddelivery/internal/core/domain/services"
	"fooddelivery/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// writeError maps application errors to HTTP responses. Errors without a
// mapping are logged and reported as 500 without details.
func (s *Server) writeError(c echo.Context, err error) error {
	var setupFailed *commands.PaymentSetupFailedError
	if errors.As(err, &setupFailed) {
		body := newError(http.StatusBadGateway, "payment could not be set up, retry the payment session for this order")
		orderID := setupFailed.OrderID.String()
		body.OrderID = &orderID
		s.logger.WarnContext(c.Request().Context(), "payment setup failed", "orderId", orderID, "error", setupFailed.Cause)
		return c.JSON(http.StatusBadGateway, body)
	}

	code := statusCode(err)
	if code == http.StatusInternalServerError {
		s.logger.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(code, newError(code, http.StatusText(code)))
	}
	return c.JSON(code, newError(code, err.Error()))
}

func statusCode(err error) int {
	switch {
	case errors.Is(err, payment.ErrInvalidSignature):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, commands.ErrRestaurantUnavailable),
		errors.Is(err, order.ErrEmptyCart),
		errors.Is(err, order.ErrInvalidCartItem):
		return http.StatusUnprocessableEntity
	case errors.Is(err, order.ErrInvalidTransition),
		errors.Is(err, order.ErrNotAwaitingPayment),
		errors.Is(err, order.ErrPaymentSessionConflict),
		errors.Is(err, commands.ErrTooManyConflicts),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
