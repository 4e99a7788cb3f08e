package middleware

import (
	"context"
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/problem"
	"github.com/dromero/jsonkeep/internal/token"
)

type stubUsers map[string]model.User

func (s stubUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := s[username]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type stubSessions map[string]model.Session

func (s stubSessions) Insert(_ context.Context, ownerID int64, tok string, now time.Time) error {
	s[tok] = model.Session{ID: int64(len(s)) + 1, UserID: ownerID, Token: tok, CreatedAt: now}
	return nil
}

func (s stubSessions) FindByToken(_ context.Context, tok string) (model.Session, error) {
	rec, ok := s[tok]
	if !ok {
		return model.Session{}, sql.ErrNoRows
	}
	return rec, nil
}

func (s stubSessions) FindByOwner(context.Context, int64) ([]model.Session, error) { return nil, nil }
func (s stubSessions) FindOlderThan(context.Context, time.Time) ([]model.Session, error) {
	return nil, nil
}
func (s stubSessions) MarkRevoked(context.Context, int64) error { return nil }
func (s stubSessions) MarkExpired(context.Context, int64) error { return nil }
func (s stubSessions) Delete(context.Context, int64) error      { return nil }

func authTestServer(t *testing.T, users stubUsers, sessions stubSessions, codec *token.Codec) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = problem.ErrorHandler("test-node", zap.NewNop())
	e.Use(Locale())
	e.Use(Authenticator(codec, users, sessions))
	e.GET("/whoami", func(c echo.Context) error {
		caller, ok := auditor.FromContext(c.Request().Context())
		if !ok {
			return c.String(http.StatusOK, "anonymous")
		}
		return c.String(http.StatusOK, caller.Role)
	})
	e.GET("/secure", func(c echo.Context) error { return c.NoContent(http.StatusOK) }, RequireAuth())
	e.GET("/managers-only", func(c echo.Context) error { return c.NoContent(http.StatusOK) },
		RequireRole(model.RoleAdmin, model.RoleSupervisor))
	return e
}

func get(e *echo.Echo, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func mintFor(t *testing.T, codec *token.Codec, sessions stubSessions, u model.User) string {
	t.Helper()
	tok, err := codec.Mint(u.Username, time.Now().UTC())
	require.NoError(t, err)
	require.NoError(t, sessions.Insert(context.Background(), u.ID, tok, time.Now().UTC()))
	return tok
}

func TestAuthenticatorAnonymousPassesThrough(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	e := authTestServer(t, stubUsers{}, stubSessions{}, codec)

	rec := get(e, "/whoami", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthenticatorStampsCaller(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	alice := model.User{ID: 10, Username: "alice", Role: model.RoleUser, Active: true}
	sessions := stubSessions{}
	e := authTestServer(t, stubUsers{"alice": alice}, sessions, codec)

	tok := mintFor(t, codec, sessions, alice)
	rec := get(e, "/whoami", "Bearer "+tok)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, model.RoleUser, rec.Body.String())
}

func TestAuthenticatorRejectsDeadSession(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	alice := model.User{ID: 10, Username: "alice", Role: model.RoleUser, Active: true}
	sessions := stubSessions{}
	e := authTestServer(t, stubUsers{"alice": alice}, sessions, codec)

	tok := mintFor(t, codec, sessions, alice)
	rec := sessions[tok]
	rec.Revoked = true
	sessions[tok] = rec

	resp := get(e, "/whoami", "Bearer "+tok)
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Body.String(), "test-node")
}

func TestAuthenticatorUnknownSubjectIsAnonymous(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	e := authTestServer(t, stubUsers{}, stubSessions{}, codec)

	tok, err := codec.Mint("ghost", time.Now().UTC())
	require.NoError(t, err)

	rec := get(e, "/whoami", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthenticatorUnrecordedTokenIsAnonymous(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	alice := model.User{ID: 10, Username: "alice", Role: model.RoleUser, Active: true}
	e := authTestServer(t, stubUsers{"alice": alice}, stubSessions{}, codec)

	tok, err := codec.Mint("alice", time.Now().UTC())
	require.NoError(t, err)

	rec := get(e, "/whoami", "Bearer "+tok)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "anonymous", rec.Body.String())
}

func TestAuthenticatorMalformedTokenFails(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	e := authTestServer(t, stubUsers{}, stubSessions{}, codec)

	rec := get(e, "/whoami", "Bearer not-a-token")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestRequireAuthRejectsAnonymous(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	e := authTestServer(t, stubUsers{}, stubSessions{}, codec)

	assert.Equal(t, http.StatusForbidden, get(e, "/secure", "").Code)
}

func TestRequireRoleRejectsUserTier(t *testing.T) {
	codec := token.NewCodec("0123456789abcdef0123456789abcdef", time.Hour)
	alice := model.User{ID: 10, Username: "alice", Role: model.RoleUser, Active: true}
	boss := model.User{ID: 2, Username: "boss", Role: model.RoleAdmin, Active: true}
	sessions := stubSessions{}
	e := authTestServer(t, stubUsers{"alice": alice, "boss": boss}, sessions, codec)

	userTok := mintFor(t, codec, sessions, alice)
	assert.Equal(t, http.StatusForbidden, get(e, "/managers-only", "Bearer "+userTok).Code)

	adminTok := mintFor(t, codec, sessions, boss)
	assert.Equal(t, http.StatusOK, get(e, "/managers-only", "Bearer "+adminTok).Code)
}
