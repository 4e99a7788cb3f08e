package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/auth"
	"github.com/dromero/jsonkeep/internal/i18n"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
	"github.com/dromero/jsonkeep/internal/repository"
)

// Bounds on the stored JSON payload, matching the column width.
const (
	jsonMinLen = 3
	jsonMaxLen = 2048
)

// DocumentStore is the document persistence surface the JSON service needs.
type DocumentStore interface {
	FindByID(ctx context.Context, id int64) (model.Document, error)
	FindAll(ctx context.Context, page pagination.Page) ([]model.Document, int64, error)
	FindAllByOwner(ctx context.Context, page pagination.Page, ownerID int64) ([]model.Document, int64, error)
	FindByNameContains(ctx context.Context, page pagination.Page, name string) ([]model.Document, int64, error)
	ExistsByNameAndOwner(ctx context.Context, name string, ownerID int64) (bool, error)
	Insert(ctx context.Context, d model.Document) (int64, error)
	Update(ctx context.Context, d model.Document) error
	Delete(ctx context.Context, id int64) error
}

// PrincipalChecker answers whether a principal id exists; satisfied by the
// user repository.
type PrincipalChecker interface {
	ExistsByID(ctx context.Context, id int64) (bool, error)
}

// the concrete repositories must keep satisfying the store surfaces
var (
	_ DocumentStore    = (*repository.DocumentRepo)(nil)
	_ PrincipalChecker = (*repository.UserRepo)(nil)
)

// DocumentInput is the payload for creating or updating a document. Empty
// fields are left unchanged on updates.
type DocumentInput struct {
	Name string `json:"name"`
	JSON string `json:"json"`
	Path string `json:"path"`
}

// JSONService manages the stored documents: public reads, owner-scoped CRUD
// for regular users, and unrestricted CRUD for managers.
type JSONService struct {
	docs  DocumentStore
	users PrincipalChecker
	log   *zap.Logger
}

func NewJSONService(docs DocumentStore, users PrincipalChecker, log *zap.Logger) *JSONService {
	return &JSONService{docs: docs, users: users, log: log}
}

// GetByID returns a document by id. No ownership restriction; this backs
// both the public and the authenticated read.
func (s *JSONService) GetByID(ctx context.Context, id int64) (model.Document, error) {
	d, err := s.docs.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Document{}, apperr.New(apperr.IDNotFound,
				i18n.Message(i18n.FromContext(ctx), "exception_id_not_found_json_detail", id))
		}
		return model.Document{}, apperr.Wrap(err, apperr.Repository, "document lookup failed")
	}
	return d, nil
}

// GetOwn returns one of the caller's documents; reading someone else's
// record is refused.
func (s *JSONService) GetOwn(ctx context.Context, id int64) (model.Document, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return model.Document{}, err
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return model.Document{}, err
	}
	if d.CreatedBy != caller.ID {
		return model.Document{}, apperr.New(apperr.NotOwner,
			i18n.Message(i18n.FromContext(ctx), "exception_not_the_owner_detail"))
	}
	return d, nil
}

// SearchByName returns one page of documents whose name contains the given
// fragment. Public.
func (s *JSONService) SearchByName(ctx context.Context, name string, page pagination.Page) ([]model.Document, int64, error) {
	docs, total, err := s.docs.FindByNameContains(ctx, page, name)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "document search failed")
	}
	return docs, total, nil
}

// ListOwn returns one page of the caller's own documents.
func (s *JSONService) ListOwn(ctx context.Context, page pagination.Page) ([]model.Document, int64, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return nil, 0, err
	}
	docs, total, err := s.docs.FindAllByOwner(ctx, page, caller.ID)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "listing documents failed")
	}
	return docs, total, nil
}

// ListAll returns one page over every stored document. Managers only.
func (s *JSONService) ListAll(ctx context.Context, page pagination.Page) ([]model.Document, int64, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return nil, 0, err
	}
	docs, total, err := s.docs.FindAll(ctx, page)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "listing documents failed")
	}
	return docs, total, nil
}

// ListByUser returns one page of documents owned by the given principal.
// Managers only; an unknown owner id is a not-found.
func (s *JSONService) ListByUser(ctx context.Context, userID int64, page pagination.Page) ([]model.Document, int64, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return nil, 0, err
	}
	exists, err := s.users.ExistsByID(ctx, userID)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "principal lookup failed")
	}
	if !exists {
		return nil, 0, apperr.New(apperr.IDNotFound,
			i18n.Message(i18n.FromContext(ctx), "exception_id_not_found_user_detail", userID))
	}
	docs, total, err := s.docs.FindAllByOwner(ctx, page, userID)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "listing documents failed")
	}
	return docs, total, nil
}

// Create stores a new document owned by the caller.
func (s *JSONService) Create(ctx context.Context, in DocumentInput) (int64, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.validate(ctx, in, true); err != nil {
		return 0, err
	}
	if err := s.checkUniqueName(ctx, in.Name, caller.ID); err != nil {
		return 0, err
	}
	id, err := s.docs.Insert(ctx, model.Document{Name: in.Name, JSON: in.JSON, Path: in.Path})
	if err != nil {
		return 0, apperr.Wrap(err, apperr.Repository, "storing document failed")
	}
	return id, nil
}

// UpdateOwn updates one of the caller's documents; touching someone else's
// record is refused.
func (s *JSONService) UpdateOwn(ctx context.Context, id int64, in DocumentInput) error {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return err
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.CreatedBy != caller.ID {
		return apperr.New(apperr.NotOwner, i18n.Message(i18n.FromContext(ctx), "error_update_not_the_owner"))
	}
	return s.apply(ctx, d, in, caller.ID)
}

// UpdateAny updates any document regardless of owner. Managers only.
func (s *JSONService) UpdateAny(ctx context.Context, id int64, in DocumentInput) error {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return err
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.apply(ctx, d, in, d.CreatedBy)
}

// DeleteOwn removes one of the caller's documents.
func (s *JSONService) DeleteOwn(ctx context.Context, id int64) error {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return err
	}
	d, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if d.CreatedBy != caller.ID {
		return apperr.New(apperr.NotOwner, i18n.Message(i18n.FromContext(ctx), "error_delete_not_the_owner"))
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, apperr.Repository, "deleting document failed")
	}
	return nil
}

// DeleteAny removes any document regardless of owner. Managers only.
func (s *JSONService) DeleteAny(ctx context.Context, id int64) error {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return err
	}
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.docs.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, apperr.Repository, "deleting document failed")
	}
	return nil
}

// apply merges the input into an existing record and persists it. A name
// change re-checks uniqueness within the owner's namespace.
func (s *JSONService) apply(ctx context.Context, d model.Document, in DocumentInput, ownerID int64) error {
	if in.JSON != "" {
		if err := s.validate(ctx, DocumentInput{Name: d.Name, JSON: in.JSON}, false); err != nil {
			return err
		}
		d.JSON = in.JSON
	}
	if in.Name != "" && in.Name != d.Name {
		if err := s.checkUniqueName(ctx, in.Name, ownerID); err != nil {
			return err
		}
		d.Name = in.Name
	}
	if in.Path != "" {
		d.Path = in.Path
	}
	if err := s.docs.Update(ctx, d); err != nil {
		return apperr.Wrap(err, apperr.Repository, "updating document failed")
	}
	return nil
}

// validate enforces the payload rules: a non-empty name on create, a JSON
// body within the column bounds that actually parses.
func (s *JSONService) validate(ctx context.Context, in DocumentInput, creating bool) error {
	loc := i18n.FromContext(ctx)
	if creating && in.Name == "" {
		return apperr.New(apperr.InvalidField, i18n.Message(loc, "error_invalid_body_field_detail"))
	}
	if len(in.JSON) < jsonMinLen || len(in.JSON) > jsonMaxLen {
		return apperr.New(apperr.InvalidField, i18n.Message(loc, "error_invalid_body_field_detail"))
	}
	if !json.Valid([]byte(in.JSON)) {
		return apperr.New(apperr.InvalidField, i18n.Message(loc, "exception_repository_save_error_invalid_json"))
	}
	return nil
}

func (s *JSONService) checkUniqueName(ctx context.Context, name string, ownerID int64) error {
	taken, err := s.docs.ExistsByNameAndOwner(ctx, name, ownerID)
	if err != nil {
		return apperr.Wrap(err, apperr.Repository, "document lookup failed")
	}
	if taken {
		return apperr.New(apperr.DataIntegrity,
			i18n.Message(i18n.FromContext(ctx), "exception_repository_save_error_unique_name_json"))
	}
	return nil
}
