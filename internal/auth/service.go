// Package auth implements the session lifecycle: credential login, bearer
// revocation and the background reaper. All state lives in the session
// registry; the service itself is stateless and safe for concurrent use.
package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/i18n"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/queue"
	"github.com/dromero/jsonkeep/internal/token"
)

// PrincipalStore looks up principals by case-insensitive username. Absence
// is reported as sql.ErrNoRows.
type PrincipalStore interface {
	FindByUsername(ctx context.Context, username string) (model.User, error)
}

// SessionRegistry is the server-side record of every issued token. All
// mutations are single-field, idempotent transitions.
type SessionRegistry interface {
	Insert(ctx context.Context, ownerID int64, tok string, now time.Time) error
	FindByToken(ctx context.Context, tok string) (model.Session, error)
	FindByOwner(ctx context.Context, ownerID int64) ([]model.Session, error)
	FindOlderThan(ctx context.Context, cutoff time.Time) ([]model.Session, error)
	MarkRevoked(ctx context.Context, id int64) error
	MarkExpired(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

// PasswordVerifier checks a cleartext password against a stored hash.
type PasswordVerifier interface {
	Verify(hash, plain string) bool
}

// VerifierFunc adapts a plain function to PasswordVerifier.
type VerifierFunc func(hash, plain string) bool

func (f VerifierFunc) Verify(hash, plain string) bool { return f(hash, plain) }

// Events receives auth lifecycle notifications. Publishing is best-effort;
// implementations log failures and never block the request path.
type Events interface {
	Publish(ctx context.Context, e queue.AuthEvent)
}

// Service orchestrates principal lookup, password verification, token
// minting and the session registry.
type Service struct {
	users    PrincipalStore
	sessions SessionRegistry
	verifier PasswordVerifier
	codec    *token.Codec
	events   Events
	log      *zap.Logger
}

func NewService(users PrincipalStore, sessions SessionRegistry, verifier PasswordVerifier,
	codec *token.Codec, events Events, log *zap.Logger) *Service {
	return &Service{users: users, sessions: sessions, verifier: verifier, codec: codec, events: events, log: log}
}

// Login exchanges credentials for a signed bearer token and records the
// session. A missing principal and a wrong password are indistinguishable;
// disabled and locked accounts fail with their own kinds.
func (s *Service) Login(ctx context.Context, username, password string) (string, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", apperr.New(apperr.BadCredentials, "username not found")
		}
		return "", apperr.Wrap(err, apperr.Repository, "principal lookup failed")
	}
	if !u.Active {
		return "", apperr.New(apperr.UserDisabled, "account disabled")
	}
	if u.Locked {
		return "", apperr.New(apperr.UserLocked, "account locked")
	}
	if !s.verifier.Verify(u.PasswordHash, password) {
		return "", apperr.New(apperr.BadCredentials, "password mismatch")
	}

	now := time.Now().UTC()
	tok, err := s.codec.Mint(u.Username, now)
	if err != nil {
		return "", err
	}
	if err := s.sessions.Insert(ctx, u.ID, tok, now); err != nil {
		return "", apperr.Wrap(err, apperr.Repository, "recording session failed")
	}
	s.publish(ctx, queue.AuthEvent{Type: queue.EventLogin, UserID: u.ID, Username: u.Username})
	return tok, nil
}

// Logout revokes the session behind the presented authorization header.
func (s *Service) Logout(ctx context.Context, bearerHeader string) error {
	rec, err := s.findOwnSession(ctx, bearerHeader)
	if err != nil {
		return err
	}
	if err := s.sessions.MarkRevoked(ctx, rec.ID); err != nil {
		return apperr.Wrap(err, apperr.Repository, "revoking session failed")
	}
	s.publish(ctx, queue.AuthEvent{Type: queue.EventRevoked, UserID: rec.UserID, Sessions: 1})
	return nil
}

// LogoutAll revokes every session belonging to the caller identified by the
// presented authorization header. Records are revoked one at a time; since
// the revoked flag only moves one way, partial progress is harmless.
func (s *Service) LogoutAll(ctx context.Context, bearerHeader string) error {
	rec, err := s.findOwnSession(ctx, bearerHeader)
	if err != nil {
		return err
	}
	all, err := s.sessions.FindByOwner(ctx, rec.UserID)
	if err != nil {
		return apperr.Wrap(err, apperr.Repository, "listing sessions failed")
	}
	for _, sess := range all {
		if err := s.sessions.MarkRevoked(ctx, sess.ID); err != nil {
			return apperr.Wrap(err, apperr.Repository, "revoking session failed")
		}
	}
	s.publish(ctx, queue.AuthEvent{Type: queue.EventRevoked, UserID: rec.UserID, Sessions: len(all)})
	return nil
}

// RevokeAllForUser deletes every session of the target user. Operator
// operation: the caller must hold ADMIN or SUPERVISOR. Deletions are not
// transactional across records; on failure prior deletions are retained and
// the caller retries.
func (s *Service) RevokeAllForUser(ctx context.Context, targetUserID int64) error {
	if _, err := RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor); err != nil {
		return err
	}
	loc := i18n.FromContext(ctx)
	all, err := s.sessions.FindByOwner(ctx, targetUserID)
	if err != nil {
		return apperr.Wrap(err, apperr.Repository, "listing sessions failed")
	}
	if len(all) == 0 {
		return apperr.New(apperr.IDNotFound, i18n.Message(loc, "exception_id_not_found_token_user", targetUserID))
	}
	for _, sess := range all {
		if err := s.sessions.Delete(ctx, sess.ID); err != nil {
			return apperr.Wrap(err, apperr.Repository, i18n.Message(loc, "exception_repository_save_error_token_revoke"))
		}
	}
	s.publish(ctx, queue.AuthEvent{Type: queue.EventRevoked, UserID: targetUserID, Sessions: len(all)})
	return nil
}

// findOwnSession resolves the authorization header to the caller's session
// record. The Bearer prefix match is case-sensitive.
func (s *Service) findOwnSession(ctx context.Context, bearerHeader string) (model.Session, error) {
	if !strings.HasPrefix(bearerHeader, "Bearer ") {
		return model.Session{}, apperr.New(apperr.ForbiddenAction,
			i18n.Message(i18n.FromContext(ctx), "error_auditor_empty"))
	}
	raw := strings.TrimPrefix(bearerHeader, "Bearer ")
	if _, err := s.codec.Subject(raw); err != nil {
		return model.Session{}, err
	}
	rec, err := s.sessions.FindByToken(ctx, raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Session{}, apperr.New(apperr.Forbidden,
				i18n.Message(i18n.FromContext(ctx), "exception_id_not_found_token_jwt"))
		}
		return model.Session{}, apperr.Wrap(err, apperr.Repository, "session lookup failed")
	}
	return rec, nil
}

func (s *Service) publish(ctx context.Context, e queue.AuthEvent) {
	if s.events != nil {
		s.events.Publish(ctx, e)
	}
}

// RequireCaller returns the request caller or fails with Forbidden when the
// request is anonymous.
func RequireCaller(ctx context.Context) (auditor.Caller, error) {
	caller, ok := auditor.FromContext(ctx)
	if !ok {
		return auditor.Caller{}, apperr.New(apperr.Forbidden,
			i18n.Message(i18n.FromContext(ctx), "error_auditor_empty"))
	}
	return caller, nil
}

// RequireRole returns the request caller and fails with Forbidden unless it
// holds one of the given roles. This is the per-operation precondition used
// at service entry points, on top of the route-level policies.
func RequireRole(ctx context.Context, roles ...string) (auditor.Caller, error) {
	caller, err := RequireCaller(ctx)
	if err != nil {
		return auditor.Caller{}, err
	}
	for _, role := range roles {
		if caller.Role == role {
			return caller, nil
		}
	}
	return auditor.Caller{}, apperr.New(apperr.Forbidden, "caller role "+caller.Role+" not permitted")
}
