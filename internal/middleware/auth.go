package middleware // package middleware provides the request-processing chain shared by all routes

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/auth"
	"github.com/dromero/jsonkeep/internal/token"
)

// Authenticator validates the bearer token of each request and, when it
// checks out end to end, stamps the caller identity into the request
// context. A request without a usable bearer proceeds anonymously and is
// judged by the route's policy; a bearer whose session record is revoked or
// expired is rejected here with a dedicated kind so clients can tell a dead
// session from a malformed token.
func Authenticator(codec *token.Codec, users auth.PrincipalStore, sessions auth.SessionRegistry) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return next(c) // anonymous
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			// a token that cannot be decoded at all is fatal for the request
			username, err := codec.Subject(raw)
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			user, err := users.FindByUsername(ctx, username)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return next(c) // subject no longer exists
				}
				return apperr.Wrap(err, apperr.Repository, "principal lookup failed")
			}
			if !codec.Valid(raw, user.Username, time.Now().UTC()) {
				return next(c)
			}

			rec, err := sessions.FindByToken(ctx, raw)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					return next(c) // valid signature but never recorded here
				}
				return apperr.Wrap(err, apperr.Repository, "session lookup failed")
			}
			if rec.Revoked || rec.Expired {
				return apperr.New(apperr.TokenInvalid, "session revoked or expired")
			}

			caller := auditor.Caller{ID: user.ID, Role: user.Role}
			c.SetRequest(c.Request().WithContext(auditor.WithCaller(ctx, caller)))
			return next(c)
		}
	}
}

// RequireAuth rejects anonymous requests with Forbidden.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := auditor.FromContext(c.Request().Context()); !ok {
				return apperr.New(apperr.Forbidden, "authentication required")
			}
			return next(c)
		}
	}
}

// RequireRole rejects requests whose caller does not hold one of the given
// roles. Anonymous requests are rejected too.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			caller, ok := auditor.FromContext(c.Request().Context())
			if !ok || !allowed[caller.Role] {
				return apperr.New(apperr.Forbidden, "caller lacks a permitted role")
			}
			return next(c)
		}
	}
}
