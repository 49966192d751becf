package http

import (
	"errors"
	"net/http"
	"strings"

	"fooddelivery/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// Identity headers set by the gateway after it has authenticated the user.
const (
	HeaderUserID       = "X-User-Id"
	HeaderUserRole     = "X-User-Role"
	HeaderRestaurantID = "X-Restaurant-Id"
)

const callerKey = "caller"

var errMissingIdentity = errors.New("missing identity headers")

// authenticate binds the gateway identity to the request as a kernel.Caller.
// Identifiers used by handlers always come from here, never from the request body.
func authenticate() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, err := callerFromHeaders(c.Request().Header)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, newError(http.StatusUnauthorized, err.Error()))
			}
			c.Set(callerKey, caller)
			return next(c)
		}
	}
}

func callerFromHeaders(h http.Header) (kernel.Caller, error) {
	rawUserID := strings.TrimSpace(h.Get(HeaderUserID))
	rawRole := strings.TrimSpace(h.Get(HeaderUserRole))
	if rawUserID == "" || rawRole == "" {
		return kernel.Caller{}, errMissingIdentity
	}

	userID, err := kernel.UUIDFromString(rawUserID)
	if err != nil {
		return kernel.Caller{}, err
	}
	role, err := kernel.ParseRole(rawRole)
	if err != nil {
		return kernel.Caller{}, err
	}

	var restaurantID *kernel.UUID
	if raw := strings.TrimSpace(h.Get(HeaderRestaurantID)); raw != "" && role != kernel.RoleCustomer {
		id, parseErr := kernel.UUIDFromString(raw)
		if parseErr != nil {
			return kernel.Caller{}, parseErr
		}
		restaurantID = &id
	}

	return kernel.NewCaller(userID, role, restaurantID)
}

// callerFrom returns the caller bound by authenticate.
func callerFrom(c echo.Context) kernel.Caller {
	caller, _ := c.Get(callerKey).(kernel.Caller)
	return caller
}

// requireRole answers 403 unless the caller has one of roles.
func requireRole(roles ...kernel.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller := callerFrom(c)
			for _, role := range roles {
				if caller.Role() == role {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden,
				newError(http.StatusForbidden, "role "+caller.Role().String()+" may not call this operation"))
		}
	}
}
