package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/i18n"
)

// Locale resolves the Accept-Language header once per request and stores the
// matched locale in the request context for the error mapper and services.
func Locale() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tag := i18n.Resolve(c.Request().Header.Get("Accept-Language"))
			req := c.Request()
			c.SetRequest(req.WithContext(i18n.WithLocale(req.Context(), tag)))
			return next(c)
		}
	}
}
