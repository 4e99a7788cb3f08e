package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/auth"
	"github.com/dromero/jsonkeep/internal/i18n"
)

// AuthHandler bundles the session lifecycle endpoints.
type AuthHandler struct {
	Auth *auth.Service
}

func NewAuthHandler(svc *auth.Service) *AuthHandler {
	return &AuthHandler{Auth: svc}
}

type credentialsReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Authenticate handles POST /api/v1/auth/authenticate and returns a fresh
// token.
func (h *AuthHandler) Authenticate(c echo.Context) error {
	var req credentialsReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if req.Username == "" || req.Password == "" {
		return invalidBody(c)
	}

	ctx, cancel := reqCtx(c)
	defer cancel()

	tok, err := h.Auth.Login(ctx, req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"jwt": tok})
}

// Logout revokes the presented session.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.Logout(ctx, c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// LogoutAll revokes every live session of the presented token's owner.
func (h *AuthHandler) LogoutAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Auth.LogoutAll(ctx, c.Request().Header.Get(echo.HeaderAuthorization)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// InvalidJWT answers requests that present a dead session. Kept as a plain
// 403 endpoint; nothing redirects here anymore but external clients may
// still have the path bookmarked.
func (h *AuthHandler) InvalidJWT(c echo.Context) error {
	loc := i18n.FromContext(c.Request().Context())
	return apperr.New(apperr.TokenInvalid, i18n.Message(loc, "exception_jwt_revoked_detail"))
}
