package http

import (
	_ "embed"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/legacy"
	"github.com/labstack/echo/v4"
	"github.com/swaggo/swag"
)

//go:embed openapi.yaml
var rawSpec []byte

var registerDocOnce sync.Once

// GetSwagger parses and validates the embedded API contract.
func GetSwagger() (*openapi3.T, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(rawSpec)
	if err != nil {
		return nil, fmt.Errorf("load openapi spec: %w", err)
	}
	if err = doc.Validate(loader.Context); err != nil {
		return nil, fmt.Errorf("validate openapi spec: %w", err)
	}
	return doc, nil
}

// jsonDoc serves the contract to echo-swagger through the swag registry.
type jsonDoc []byte

func (d jsonDoc) ReadDoc() string { return string(d) }

func registerDoc(doc *openapi3.T) error {
	raw, err := doc.MarshalJSON()
	if err != nil {
		return err
	}
	registerDocOnce.Do(func() {
		swag.Register(swag.Name, jsonDoc(raw))
	})
	return nil
}

// requestValidator rejects requests that do not match the contract before they
// reach a handler.
func requestValidator(doc *openapi3.T) (echo.MiddlewareFunc, error) {
	router, err := legacy.NewRouter(doc)
	if err != nil {
		return nil, err
	}
	options := &openapi3filter.Options{
		MultiError:         true,
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			route, pathParams, findErr := router.FindRoute(req)
			switch {
			case findErr == nil:
			case errors.Is(findErr, routers.ErrMethodNotAllowed):
				return c.JSON(http.StatusMethodNotAllowed, newError(http.StatusMethodNotAllowed, findErr.Error()))
			default:
				return c.JSON(http.StatusNotFound, newError(http.StatusNotFound, findErr.Error()))
			}

			input := &openapi3filter.RequestValidationInput{
				Request:    req,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			}
			if err := openapi3filter.ValidateRequest(req.Context(), input); err != nil {
				return c.JSON(http.StatusBadRequest, newError(http.StatusBadRequest, validationMessage(err)))
			}
			return next(c)
		}
	}, nil
}

func validationMessage(err error) string {
	var multi openapi3.MultiError
	if errors.As(err, &multi) && len(multi) > 0 {
		parts := make([]string, 0, len(multi))
		for _, e := range multi {
			parts = append(parts, firstLine(e.Error()))
		}
		return strings.Join(parts, "; ")
	}
	return firstLine(err.Error())
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
