// Package problem renders every failure crossing the HTTP boundary as a
// problem-detail body. It is the single place where internal error kinds
// meet wire status codes and localized text; handlers and services below it
// never shape responses themselves.
package problem

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/i18n"
)

// Detail is the wire error body. Hostname labels the node that produced the
// failure; Exception carries the original short message for debugging and is
// never localized.
type Detail struct {
	Status    int    `json:"status"`
	Title     string `json:"title"`
	Detail    string `json:"detail"`
	Hostname  string `json:"hostname"`
	Exception string `json:"exception,omitempty"`
}

// titleKeys maps each error kind to the catalog key of its title; the detail
// key is the same with a _detail suffix.
var titleKeys = map[apperr.Kind]string{
	apperr.BadCredentials:   "exception_auth_wrong_credentials",
	apperr.UserDisabled:     "exception_auth_user_disabled",
	apperr.UserLocked:       "exception_auth_user_locked",
	apperr.UnknownAuth:      "exception_auth_unknown_error",
	apperr.TokenInvalid:     "exception_jwt_revoked",
	apperr.Forbidden:        "exception_auth_permission_error",
	apperr.NotOwner:         "exception_not_the_owner",
	apperr.ForbiddenAction:  "exception_forbidden_action",
	apperr.IDNotFound:       "exception_id_not_found",
	apperr.UsernameNotFound: "exception_id_not_found",
	apperr.InvalidField:     "error_invalid_body_field",
	apperr.DataIntegrity:    "exception_data_integrity",
	apperr.Repository:       "exception_server_error",
	apperr.TokenProcessing:  "exception_jwt_processing",
}

// messageAsDetail lists the kinds whose thrower already localized a specific
// detail message, which then replaces the generic catalog detail.
var messageAsDetail = map[apperr.Kind]bool{
	apperr.IDNotFound:       true,
	apperr.UsernameNotFound: true,
	apperr.Repository:       true,
}

// ErrorHandler returns the echo error handler translating failures into
// problem-detail responses. The request locale drives title and detail
// lookup; hostname is echoed into every body.
func ErrorHandler(hostname string, log *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		loc := i18n.FromContext(c.Request().Context())

		var body Detail
		var ae *apperr.Error
		var he *echo.HTTPError
		switch {
		case errors.As(err, &ae):
			key := titleKeys[ae.Kind]
			body = Detail{
				Status:    ae.Status(),
				Title:     i18n.Message(loc, key),
				Detail:    i18n.Message(loc, key+"_detail"),
				Hostname:  hostname,
				Exception: ae.Error(),
			}
			if messageAsDetail[ae.Kind] && ae.Message != "" {
				body.Detail = ae.Message
			}
		case errors.As(err, &he):
			// routing-level failures: unknown path, bad method, oversized body
			body = Detail{
				Status:   he.Code,
				Title:    http.StatusText(he.Code),
				Hostname: hostname,
			}
			if msg, ok := he.Message.(string); ok {
				body.Detail = msg
			}
		default:
			body = Detail{
				Status:    http.StatusInternalServerError,
				Title:     i18n.Message(loc, "exception_server_error"),
				Detail:    i18n.Message(loc, "exception_server_error"),
				Hostname:  hostname,
				Exception: err.Error(),
			}
		}

		if body.Status >= http.StatusInternalServerError {
			log.Error("request failed", zap.Int("status", body.Status), zap.String("path", c.Path()), zap.Error(err))
		} else {
			log.Debug("request rejected", zap.Int("status", body.Status), zap.String("path", c.Path()), zap.Error(err))
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(body.Status)
		} else {
			writeErr = c.JSON(body.Status, body)
		}
		if writeErr != nil {
			log.Error("writing problem detail failed", zap.Error(writeErr))
		}
	}
}
