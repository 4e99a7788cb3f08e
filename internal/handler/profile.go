package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/service"
)

// ProfileHandler serves the current-user endpoints under /authenticated/user.
type ProfileHandler struct {
	Users *service.UserService
}

func NewProfileHandler(svc *service.UserService) *ProfileHandler {
	return &ProfileHandler{Users: svc}
}

// Get handles GET /authenticated/user.
func (h *ProfileHandler) Get(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetProfile(ctx)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResp(u))
}

// Update handles PATCH /authenticated/user.
func (h *ProfileHandler) Update(c echo.Context) error {
	var reg service.Registration
	if err := c.Bind(&reg); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateOwnProfile(ctx, reg); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
