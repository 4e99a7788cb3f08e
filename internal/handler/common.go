// Package handler exposes the HTTP surface. Handlers stay thin: bind,
// validate shape, delegate to a service, and hand any error back to echo so
// the central error handler can shape the response.
package handler

import (
	"context"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/i18n"
	"github.com/dromero/jsonkeep/internal/pagination"
)

const dbTimeout = 5 * time.Second

// reqCtx derives a bounded context for downstream DB work.
func reqCtx(c echo.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Request().Context(), dbTimeout)
}

// pathID parses the numeric :id path parameter.
func pathID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperr.New(apperr.InvalidField,
			i18n.Message(i18n.FromContext(c.Request().Context()), "error_invalid_body_field_detail"))
	}
	return id, nil
}

// pageOf reads the page/size/sort query parameters.
func pageOf(c echo.Context) pagination.Page {
	return pagination.Parse(c.QueryParam("page"), c.QueryParam("size"), c.QueryParam("sort"))
}

func invalidBody(c echo.Context) error {
	return apperr.New(apperr.InvalidField,
		i18n.Message(i18n.FromContext(c.Request().Context()), "error_invalid_body_field_detail"))
}
