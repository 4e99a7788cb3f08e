package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/pagination"
	"github.com/dromero/jsonkeep/internal/service"
)

// ManagementHandler serves the /management/managers and /management/users
// trees. Both trees go through the same service; the service enforces which
// role tier each tree may touch.
type ManagementHandler struct {
	Users *service.UserService
}

func NewManagementHandler(svc *service.UserService) *ManagementHandler {
	return &ManagementHandler{Users: svc}
}

// ListManagers handles GET /management/managers.
func (h *ManagementHandler) ListManagers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page := pageOf(c)
	users, total, err := h.Users.ListManagers(ctx, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResult(toPrincipalResps(users), page, total))
}

// GetManager handles GET /management/managers/:id.
func (h *ManagementHandler) GetManager(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetManagerByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResp(u))
}

// CreateManager handles POST /management/managers.
func (h *ManagementHandler) CreateManager(c echo.Context) error {
	var reg service.Registration
	if err := c.Bind(&reg); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.CreateManager(ctx, reg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateManager handles PATCH /management/managers/:id.
func (h *ManagementHandler) UpdateManager(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var reg service.Registration
	if err := c.Bind(&reg); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateManager(ctx, id, reg); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteManager handles DELETE /management/managers/:id.
func (h *ManagementHandler) DeleteManager(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.DeleteManager(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeactivateManager handles PATCH /management/managers/deactivate/:id.
func (h *ManagementHandler) DeactivateManager(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.DeactivateManager(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}

// ListUsers handles GET /management/users.
func (h *ManagementHandler) ListUsers(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page := pageOf(c)
	users, total, err := h.Users.ListUsers(ctx, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResult(toPrincipalResps(users), page, total))
}

// GetUser handles GET /management/users/:id.
func (h *ManagementHandler) GetUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	u, err := h.Users.GetUserByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toPrincipalResp(u))
}

// CreateUser handles POST /management/users.
func (h *ManagementHandler) CreateUser(c echo.Context) error {
	var reg service.Registration
	if err := c.Bind(&reg); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Users.CreateUser(ctx, reg)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateUser handles PATCH /management/users/:id.
func (h *ManagementHandler) UpdateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var reg service.Registration
	if err := c.Bind(&reg); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.UpdateUser(ctx, id, reg); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteUser handles DELETE /management/users/:id.
func (h *ManagementHandler) DeleteUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.DeleteUser(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeactivateUser handles PATCH /management/users/deactivate/:id.
func (h *ManagementHandler) DeactivateUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Users.DeactivateUser(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusOK)
}
