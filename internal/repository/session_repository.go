package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/dromero/jsonkeep/internal/model"
)

const sessionColumns = "id,user_id,token,revoked,expired,created_at"

// SessionRepo persists the server-side record of every issued bearer token.
// Each operation runs in its own implicit transaction; the revoked and
// expired columns are only ever set, never cleared, so concurrent writers
// converge without coordination.
type SessionRepo struct{ DB *sql.DB }

func NewSessionRepo(db *sql.DB) *SessionRepo { return &SessionRepo{DB: db} }

// Insert records a freshly issued token for its owner.
func (r *SessionRepo) Insert(ctx context.Context, ownerID int64, tok string, now time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO sessions (user_id, token, revoked, expired, created_at) VALUES (?,?,0,0,?)",
		ownerID, tok, now.UTC())
	return err
}

// FindByToken fetches the session holding the exact token value.
func (r *SessionRepo) FindByToken(ctx context.Context, tok string) (model.Session, error) {
	var s model.Session
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE token=? LIMIT 1", tok).
		Scan(&s.ID, &s.UserID, &s.Token, &s.Revoked, &s.Expired, &s.CreatedAt)
	return s, err
}

// FindByOwner returns every session ever issued to a principal.
func (r *SessionRepo) FindByOwner(ctx context.Context, ownerID int64) ([]model.Session, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE user_id=?", ownerID)
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

// FindOlderThan returns sessions created strictly before the cutoff.
func (r *SessionRepo) FindOlderThan(ctx context.Context, cutoff time.Time) ([]model.Session, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+sessionColumns+" FROM sessions WHERE created_at < ?", cutoff.UTC())
	if err != nil {
		return nil, err
	}
	return collectSessions(rows)
}

// MarkRevoked sets the revoked flag. Idempotent.
func (r *SessionRepo) MarkRevoked(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE sessions SET revoked=1 WHERE id=?", id)
	return err
}

// MarkExpired sets the expired flag. Idempotent.
func (r *SessionRepo) MarkExpired(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "UPDATE sessions SET expired=1 WHERE id=?", id)
	return err
}

// Delete removes a session row.
func (r *SessionRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM sessions WHERE id=?", id)
	return err
}

func collectSessions(rows *sql.Rows) ([]model.Session, error) {
	defer rows.Close()
	var sessions []model.Session
	for rows.Next() {
		var s model.Session
		if err := rows.Scan(&s.ID, &s.UserID, &s.Token, &s.Revoked, &s.Expired, &s.CreatedAt); err != nil {
			return nil, err
		}
		sessions = append(sessions, s)
	}
	return sessions, rows.Err()
}
