package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dromero/jsonkeep/internal/apperr"
	"github.com/dromero/jsonkeep/internal/auditor"
	"github.com/dromero/jsonkeep/internal/model"
	"github.com/dromero/jsonkeep/internal/queue"
	"github.com/dromero/jsonkeep/internal/token"
)

func testCodec() *token.Codec {
	return token.NewCodec("0123456789abcdef0123456789abcdef", 10*time.Hour)
}

// ----- in-memory fakes -----

type fakeUsers map[string]model.User

func (f fakeUsers) FindByUsername(_ context.Context, username string) (model.User, error) {
	u, ok := f[strings.ToLower(username)]
	if !ok {
		return model.User{}, sql.ErrNoRows
	}
	return u, nil
}

type fakeRegistry struct {
	nextID   int64
	sessions map[int64]*model.Session
}

func newFakeRegistry() *fakeRegistry {
	return &fakeRegistry{sessions: map[int64]*model.Session{}}
}

func (r *fakeRegistry) Insert(_ context.Context, ownerID int64, tok string, now time.Time) error {
	for _, s := range r.sessions {
		if s.Token == tok {
			return errors.New("duplicate token")
		}
	}
	r.nextID++
	r.sessions[r.nextID] = &model.Session{ID: r.nextID, UserID: ownerID, Token: tok, CreatedAt: now}
	return nil
}

func (r *fakeRegistry) FindByToken(_ context.Context, tok string) (model.Session, error) {
	for _, s := range r.sessions {
		if s.Token == tok {
			return *s, nil
		}
	}
	return model.Session{}, sql.ErrNoRows
}

func (r *fakeRegistry) FindByOwner(_ context.Context, ownerID int64) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.sessions {
		if s.UserID == ownerID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRegistry) FindOlderThan(_ context.Context, cutoff time.Time) ([]model.Session, error) {
	var out []model.Session
	for _, s := range r.sessions {
		if s.CreatedAt.Before(cutoff) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (r *fakeRegistry) MarkRevoked(_ context.Context, id int64) error {
	if s, ok := r.sessions[id]; ok {
		s.Revoked = true
	}
	return nil
}

func (r *fakeRegistry) MarkExpired(_ context.Context, id int64) error {
	if s, ok := r.sessions[id]; ok {
		s.Expired = true
	}
	return nil
}

func (r *fakeRegistry) Delete(_ context.Context, id int64) error {
	delete(r.sessions, id)
	return nil
}

type fakeEvents struct {
	published []queue.AuthEvent
}

func (f *fakeEvents) Publish(_ context.Context, e queue.AuthEvent) {
	f.published = append(f.published, e)
}

func testVerifier() PasswordVerifier {
	return VerifierFunc(func(hash, plain string) bool { return hash == "hash:"+plain })
}

func seedUsers() fakeUsers {
	return fakeUsers{
		"alice": {ID: 10, Username: "alice", PasswordHash: "hash:s3cret", Role: model.RoleUser, Active: true},
		"dora":  {ID: 11, Username: "dora", PasswordHash: "hash:pw", Role: model.RoleUser, Active: false},
		"leo":   {ID: 12, Username: "leo", PasswordHash: "hash:pw", Role: model.RoleUser, Active: true, Locked: true},
	}
}

func newTestService(t *testing.T) (*Service, *fakeRegistry, *fakeEvents) {
	t.Helper()
	reg := newFakeRegistry()
	ev := &fakeEvents{}
	svc := NewService(seedUsers(), reg, testVerifier(), testCodec(), ev, zap.NewNop())
	return svc, reg, ev
}

// ----- login -----

func TestLoginSuccess(t *testing.T) {
	svc, reg, ev := newTestService(t)

	tok, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	rec, err := reg.FindByToken(context.Background(), tok)
	require.NoError(t, err)
	assert.Equal(t, int64(10), rec.UserID)
	assert.True(t, rec.Live())

	require.Len(t, ev.published, 1)
	assert.Equal(t, queue.EventLogin, ev.published[0].Type)
	assert.Equal(t, int64(10), ev.published[0].UserID)
}

func TestLoginUsernameCaseInsensitive(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "ALICE", "s3cret")
	assert.NoError(t, err)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, reg, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "alice", "wrong")
	assert.True(t, errors.Is(err, apperr.New(apperr.BadCredentials, "")))
	assert.Empty(t, reg.sessions, "no session may be recorded on failure")
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "nobody", "s3cret")
	// same kind as a wrong password so the two are indistinguishable
	assert.True(t, errors.Is(err, apperr.New(apperr.BadCredentials, "")))
}

func TestLoginDisabledAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "dora", "pw")
	assert.True(t, errors.Is(err, apperr.New(apperr.UserDisabled, "")))
}

func TestLoginLockedAccount(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "leo", "pw")
	assert.True(t, errors.Is(err, apperr.New(apperr.UserLocked, "")))
}

// ----- logout -----

func TestLogoutRevokesSession(t *testing.T) {
	svc, reg, ev := newTestService(t)

	tok, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "Bearer "+tok))

	rec, err := reg.FindByToken(context.Background(), tok)
	require.NoError(t, err)
	assert.True(t, rec.Revoked)
	assert.False(t, rec.Live())

	// revocation is idempotent
	require.NoError(t, svc.Logout(context.Background(), "Bearer "+tok))
	assert.Equal(t, queue.EventRevoked, ev.published[len(ev.published)-1].Type)
}

func TestLogoutWithoutBearerPrefix(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Logout(context.Background(), "Basic abc")
	assert.True(t, errors.Is(err, apperr.New(apperr.ForbiddenAction, "")))

	err = svc.Logout(context.Background(), "bearer lowercase-prefix")
	assert.True(t, errors.Is(err, apperr.New(apperr.ForbiddenAction, "")), "prefix match is case-sensitive")
}

func TestLogoutUnknownSession(t *testing.T) {
	svc, _, _ := newTestService(t)

	// a well-formed token that was never recorded
	tok, err := testCodec().Mint("alice", time.Now().UTC())
	require.NoError(t, err)

	err = svc.Logout(context.Background(), "Bearer "+tok)
	assert.True(t, errors.Is(err, apperr.New(apperr.Forbidden, "")))
}

func TestLogoutMalformedToken(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.Logout(context.Background(), "Bearer not-a-token")
	assert.True(t, errors.Is(err, apperr.New(apperr.TokenProcessing, "")))
}

func TestLogoutAll(t *testing.T) {
	svc, reg, _ := newTestService(t)

	tok1, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	time.Sleep(time.Second) // iat granularity is one second; force distinct tokens
	tok2, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.LogoutAll(context.Background(), "Bearer "+tok2))

	for _, tok := range []string{tok1, tok2} {
		rec, err := reg.FindByToken(context.Background(), tok)
		require.NoError(t, err)
		assert.True(t, rec.Revoked)
	}
}

// ----- operator revocation -----

func adminCtx() context.Context {
	return auditor.WithCaller(context.Background(), auditor.Caller{ID: 2, Role: model.RoleAdmin})
}

func TestRevokeAllForUserDeletes(t *testing.T) {
	svc, reg, _ := newTestService(t)

	_, err := svc.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)

	require.NoError(t, svc.RevokeAllForUser(adminCtx(), 10))
	assert.Empty(t, reg.sessions, "operator revocation removes the records outright")
}

func TestRevokeAllForUserNoSessions(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.RevokeAllForUser(adminCtx(), 99)
	assert.True(t, errors.Is(err, apperr.New(apperr.IDNotFound, "")))
}

func TestRevokeAllForUserNeedsManagerRole(t *testing.T) {
	svc, _, _ := newTestService(t)

	err := svc.RevokeAllForUser(context.Background(), 10)
	assert.True(t, errors.Is(err, apperr.New(apperr.Forbidden, "")), "anonymous caller")

	userCtx := auditor.WithCaller(context.Background(), auditor.Caller{ID: 10, Role: model.RoleUser})
	err = svc.RevokeAllForUser(userCtx, 10)
	assert.True(t, errors.Is(err, apperr.New(apperr.Forbidden, "")), "USER role caller")
}

// ----- precondition helpers -----

func TestRequireRole(t *testing.T) {
	ctx := auditor.WithCaller(context.Background(), auditor.Caller{ID: 3, Role: model.RoleSupervisor})

	caller, err := RequireRole(ctx, model.RoleAdmin, model.RoleSupervisor)
	require.NoError(t, err)
	assert.Equal(t, int64(3), caller.ID)

	_, err = RequireRole(ctx, model.RoleAdmin)
	assert.True(t, errors.Is(err, apperr.New(apperr.Forbidden, "")))

	_, err = RequireRole(context.Background(), model.RoleAdmin)
	assert.True(t, errors.Is(err, apperr.New(apperr.Forbidden, "")))
}
