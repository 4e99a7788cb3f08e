// Package service holds the operations behind the management and document
// endpoints. Role preconditions live here, at the operation entry points;
// the route layer only applies the coarse prefix policies.
package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/auth"
	"github.com/dromero/jsonkeep/internal/i18n"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/pagination"
	"github.com/dromero/jsonkeep/internal/repository"
	"github.com/dromero/jsonkeep/internal/utils"
)

// UserStore is the principal persistence surface the user service needs.
type UserStore interface {
	FindByID(ctx context.Context, id int64) (model.User, error)
	ExistsByID(ctx context.Context, id int64) (bool, error)
	FindByRoles(ctx context.Context, page pagination.Page, roles ...string) ([]model.User, int64, error)
	Insert(ctx context.Context, u model.User) (int64, error)
	Update(ctx context.Context, u model.User) error
	Delete(ctx context.Context, id int64) error
}

// SessionRevoker severs every session of a user; satisfied by auth.Service.
type SessionRevoker interface {
	RevokeAllForUser(ctx context.Context, targetUserID int64) error
}

var (
	_ UserStore      = (*repository.UserRepo)(nil)
	_ SessionRevoker = (*auth.Service)(nil)
)

// Registration is the input for creating or partially updating an account.
// On updates, empty fields are left unchanged.
type Registration struct {
	Names    string `json:"names"`
	Email    string `json:"email"`
	IDCard   string `json:"idCard"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// UserService manages principals on behalf of operators, plus the
// current-user profile operations.
type UserService struct {
	users      UserStore
	revoker    SessionRevoker
	bcryptCost int
	log        *zap.Logger
}

func NewUserService(users UserStore, revoker SessionRevoker, bcryptCost int, log *zap.Logger) *UserService {
	return &UserService{users: users, revoker: revoker, bcryptCost: bcryptCost, log: log}
}

// GetManagerByID returns a manager account. A matching id holding the USER
// role reads as not found so the two management surfaces stay disjoint.
func (s *UserService) GetManagerByID(ctx context.Context, id int64) (model.User, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return model.User{}, err
	}
	return s.findUser(ctx, id, true)
}

// GetUserByID returns a regular user account.
func (s *UserService) GetUserByID(ctx context.Context, id int64) (model.User, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return model.User{}, err
	}
	return s.findUser(ctx, id, false)
}

// ListManagers returns one page of ADMIN and SUPERVISOR accounts.
func (s *UserService) ListManagers(ctx context.Context, page pagination.Page) ([]model.User, int64, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.FindByRoles(ctx, page, model.RoleAdmin, model.RoleSupervisor)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "listing managers failed")
	}
	return users, total, nil
}

// ListUsers returns one page of USER accounts.
func (s *UserService) ListUsers(ctx context.Context, page pagination.Page) ([]model.User, int64, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return nil, 0, err
	}
	users, total, err := s.users.FindByRoles(ctx, page, model.RoleUser)
	if err != nil {
		return nil, 0, apperr.Wrap(err, apperr.Repository, "listing users failed")
	}
	return users, total, nil
}

// CreateManager creates an ADMIN or SUPERVISOR account. ADMIN only.
func (s *UserService) CreateManager(ctx context.Context, reg Registration) (int64, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin); err != nil {
		return 0, err
	}
	if !model.IsManager(reg.Role) {
		return 0, apperr.New(apperr.InvalidField, i18n.Message(i18n.FromContext(ctx), "error_invalid_role_manager"))
	}
	return s.create(ctx, reg)
}

// CreateUser creates a USER account.
func (s *UserService) CreateUser(ctx context.Context, reg Registration) (int64, error) {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return 0, err
	}
	if model.IsManager(reg.Role) {
		return 0, apperr.New(apperr.InvalidField, i18n.Message(i18n.FromContext(ctx), "error_invalid_role_user"))
	}
	reg.Role = model.RoleUser
	return s.create(ctx, reg)
}

// UpdateManager partially updates a manager account. ADMIN only.
func (s *UserService) UpdateManager(ctx context.Context, id int64, reg Registration) error {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin); err != nil {
		return err
	}
	if reg.Role != "" && !model.IsManager(reg.Role) {
		return apperr.New(apperr.InvalidField, i18n.Message(i18n.FromContext(ctx), "error_invalid_role_manager"))
	}
	return s.update(ctx, id, reg, true)
}

// UpdateUser partially updates a regular user account.
func (s *UserService) UpdateUser(ctx context.Context, id int64, reg Registration) error {
	if _, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return err
	}
	if reg.Role != "" && model.IsManager(reg.Role) {
		return apperr.New(apperr.InvalidField, i18n.Message(i18n.FromContext(ctx), "error_invalid_role_user"))
	}
	return s.update(ctx, id, reg, false)
}

// UpdateOwnProfile lets a USER-role caller update their own record.
func (s *UserService) UpdateOwnProfile(ctx context.Context, reg Registration) error {
	caller, err := auth.RequireRole(ctx, model.RoleUser)
	if err != nil {
		return err
	}
	if reg.Role != "" && model.IsManager(reg.Role) {
		return apperr.New(apperr.InvalidField, i18n.Message(i18n.FromContext(ctx), "error_invalid_role_user"))
	}
	return s.update(ctx, caller.ID, reg, false)
}

// GetProfile returns the caller's own account.
func (s *UserService) GetProfile(ctx context.Context) (model.User, error) {
	caller, err := auth.RequireCaller(ctx)
	if err != nil {
		return model.User{}, err
	}
	u, err := s.users.FindByID(ctx, caller.ID)
	if err != nil {
		return model.User{}, s.notFoundOrRepo(ctx, err, caller.ID)
	}
	return u, nil
}

// DeleteManager removes a manager account. ADMIN only; an account can never
// delete itself.
func (s *UserService) DeleteManager(ctx context.Context, id int64) error {
	caller, err := auth.RequireRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	target, err := s.findUser(ctx, id, true)
	if err != nil {
		return err
	}
	if target.ID == caller.ID {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(i18n.FromContext(ctx), "error_delete_own_user"))
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, apperr.Repository, "deleting manager failed")
	}
	return nil
}

// DeleteUser removes a USER account; manager accounts are off limits here.
func (s *UserService) DeleteUser(ctx context.Context, id int64) error {
	caller, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor)
	if err != nil {
		return err
	}
	target, err := s.findAny(ctx, id)
	if err != nil {
		return err
	}
	loc := i18n.FromContext(ctx)
	if target.ID == caller.ID {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(loc, "error_delete_own_user"))
	}
	if model.IsManager(target.Role) {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(loc, "error_delete_user"))
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return apperr.Wrap(err, apperr.Repository, "deleting user failed")
	}
	return nil
}

// DeactivateManager disables a manager account and severs its sessions.
// ADMIN only; self-deactivation is refused.
func (s *UserService) DeactivateManager(ctx context.Context, id int64) error {
	caller, err := auth.RequireRole(ctx, model.RoleAdmin)
	if err != nil {
		return err
	}
	target, err := s.findAny(ctx, id)
	if err != nil {
		return err
	}
	loc := i18n.FromContext(ctx)
	if target.ID == caller.ID {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(loc, "error_deactivate_own_user"))
	}
	if !model.IsManager(target.Role) {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(loc, "error_deactivate_manager"))
	}
	return s.deactivate(ctx, target)
}

// DeactivateUser disables a USER account and severs its sessions.
func (s *UserService) DeactivateUser(ctx context.Context, id int64) error {
	caller, err := auth.RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor)
	if err != nil {
		return err
	}
	target, err := s.findAny(ctx, id)
	if err != nil {
		return err
	}
	loc := i18n.FromContext(ctx)
	if target.ID == caller.ID {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(loc, "error_deactivate_own_user"))
	}
	if model.IsManager(target.Role) {
		return apperr.New(apperr.ForbiddenAction, i18n.Message(loc, "error_deactivate_user"))
	}
	return s.deactivate(ctx, target)
}

func (s *UserService) deactivate(ctx context.Context, target model.User) error {
	target.Active = false
	if err := s.users.Update(ctx, target); err != nil {
		return apperr.Wrap(err, apperr.Repository, "deactivating account failed")
	}
	// a deactivated account must not keep live sessions; no sessions at all
	// is fine
	if err := s.revoker.RevokeAllForUser(ctx, target.ID); err != nil &&
		!errors.Is(err, apperr.New(apperr.IDNotFound, "")) {
		return err
	}
	return nil
}

func (s *UserService) create(ctx context.Context, reg Registration) (int64, error) {
	loc := i18n.FromContext(ctx)
	if reg.Names == "" || reg.Username == "" || reg.Password == "" {
		return 0, apperr.New(apperr.InvalidField, i18n.Message(loc, "error_invalid_body_field_detail"))
	}
	hash, err := utils.HashPassword(reg.Password, s.bcryptCost)
	if err != nil {
		return 0, apperr.Wrap(err, apperr.Repository, "hashing password failed")
	}
	id, err := s.users.Insert(ctx, model.User{
		Names:        reg.Names,
		Email:        reg.Email,
		IDCard:       reg.IDCard,
		Username:     reg.Username,
		PasswordHash: hash,
		Role:         reg.Role,
		Active:       true,
	})
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return 0, apperr.New(apperr.DataIntegrity, "username, email or idCard already exists")
		}
		return 0, apperr.Wrap(err, apperr.Repository, "creating account failed")
	}
	return id, nil
}

func (s *UserService) update(ctx context.Context, id int64, reg Registration, managersOnly bool) error {
	u, err := s.findUser(ctx, id, managersOnly)
	if err != nil {
		return err
	}
	if reg.Names != "" {
		u.Names = reg.Names
	}
	if reg.Email != "" {
		u.Email = reg.Email
	}
	if reg.IDCard != "" {
		u.IDCard = reg.IDCard
	}
	if reg.Username != "" {
		u.Username = reg.Username
	}
	if reg.Role != "" {
		u.Role = reg.Role
	}
	if reg.Password != "" {
		hash, err := utils.HashPassword(reg.Password, s.bcryptCost)
		if err != nil {
			return apperr.Wrap(err, apperr.Repository, "hashing password failed")
		}
		u.PasswordHash = hash
	}
	if err := s.users.Update(ctx, u); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperr.New(apperr.DataIntegrity, "username, email or idCard already exists")
		}
		return apperr.Wrap(err, apperr.Repository, "updating account failed")
	}
	return nil
}

// findAny loads an account regardless of tier; delete and deactivate need
// the real record so they can refuse the wrong tier explicitly instead of
// hiding it behind a not-found.
func (s *UserService) findAny(ctx context.Context, id int64) (model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, s.notFoundOrRepo(ctx, err, id)
	}
	return u, nil
}

// findUser loads an account and verifies its tier: managersOnly restricts
// the match to ADMIN/SUPERVISOR, otherwise to USER. A tier mismatch reads
// as not found.
func (s *UserService) findUser(ctx context.Context, id int64, managersOnly bool) (model.User, error) {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, s.notFoundOrRepo(ctx, err, id)
	}
	if managersOnly != model.IsManager(u.Role) {
		return model.User{}, apperr.New(apperr.IDNotFound,
			i18n.Message(i18n.FromContext(ctx), "exception_id_not_found_user_detail", id))
	}
	return u, nil
}

func (s *UserService) notFoundOrRepo(ctx context.Context, err error, id int64) error {
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.New(apperr.IDNotFound,
			i18n.Message(i18n.FromContext(ctx), "exception_id_not_found_user_detail", id))
	}
	return apperr.Wrap(err, apperr.Repository, "principal lookup failed")
}
