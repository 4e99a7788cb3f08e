package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
	"github.com/dromero/jsonkeep/internal/service"
)

// JSONHandler serves the document trees: owner-scoped CRUD under
// /authenticated/json, unrestricted CRUD under /management/json and the
// anonymous reads under /public/json.
type JSONHandler struct {
	Docs *service.JSONService
}

func NewJSONHandler(svc *service.JSONService) *JSONHandler {
	return &JSONHandler{Docs: svc}
}

type documentResp struct {
	ID         int64     `json:"id"`
	Name       string    `json:"name"`
	JSON       string    `json:"json"`
	Path       string    `json:"path,omitempty"`
	CreatedBy  int64     `json:"createdBy"`
	CreatedAt  time.Time `json:"createdDate"`
	ModifiedAt time.Time `json:"modifiedDate"`
}

func toDocumentResp(d model.Document) documentResp {
	return documentResp{
		ID:         d.ID,
		Name:       d.Name,
		JSON:       d.JSON,
		Path:       d.Path,
		CreatedBy:  d.CreatedBy,
		CreatedAt:  d.CreatedAt,
		ModifiedAt: d.ModifiedAt,
	}
}

func toDocumentResps(docs []model.Document) []documentResp {
	out := make([]documentResp, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResp(d))
	}
	return out
}

// ----- /authenticated/json -----

// GetOwn handles GET /authenticated/json/:id.
func (h *JSONHandler) GetOwn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Docs.GetOwn(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDocumentResp(d))
}

// ListOwn handles GET /authenticated/json.
func (h *JSONHandler) ListOwn(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page := pageOf(c)
	docs, total, err := h.Docs.ListOwn(ctx, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResult(toDocumentResps(docs), page, total))
}

// Create handles POST /authenticated/json.
func (h *JSONHandler) Create(c echo.Context) error {
	var in service.DocumentInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	id, err := h.Docs.Create(ctx, in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, echo.Map{"id": id})
}

// UpdateOwn handles PATCH /authenticated/json/:id.
func (h *JSONHandler) UpdateOwn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in service.DocumentInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Docs.UpdateOwn(ctx, id, in); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteOwn handles DELETE /authenticated/json/:id.
func (h *JSONHandler) DeleteOwn(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Docs.DeleteOwn(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- /management/json -----

// GetAny handles GET /management/json/:id.
func (h *JSONHandler) GetAny(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDocumentResp(d))
}

// ListAll handles GET /management/json.
func (h *JSONHandler) ListAll(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page := pageOf(c)
	docs, total, err := h.Docs.ListAll(ctx, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResult(toDocumentResps(docs), page, total))
}

// ListByUser handles GET /management/json/by-user/:id.
func (h *JSONHandler) ListByUser(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	page := pageOf(c)
	docs, total, err := h.Docs.ListByUser(ctx, id, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResult(toDocumentResps(docs), page, total))
}

// UpdateAny handles PATCH /management/json/:id.
func (h *JSONHandler) UpdateAny(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var in service.DocumentInput
	if err := c.Bind(&in); err != nil {
		return invalidBody(c)
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Docs.UpdateAny(ctx, id, in); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteAny handles DELETE /management/json/:id.
func (h *JSONHandler) DeleteAny(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	if err := h.Docs.DeleteAny(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ----- /public/json -----

// GetPublic handles GET /public/json/:id.
func (h *JSONHandler) GetPublic(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	ctx, cancel := reqCtx(c)
	defer cancel()

	d, err := h.Docs.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toDocumentResp(d))
}

// SearchPublic handles GET /public/json/by-name/:name.
func (h *JSONHandler) SearchPublic(c echo.Context) error {
	ctx, cancel := reqCtx(c)
	defer cancel()

	page := pageOf(c)
	docs, total, err := h.Docs.SearchByName(ctx, c.Param("name"), page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResult(toDocumentResps(docs), page, total))
}
