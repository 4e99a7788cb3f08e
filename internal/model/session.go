package model

import "time"

// Session mirrors the `sessions` table: one row per bearer token ever
// issued. Revoked and Expired only ever transition false to true; a row is
// eligible for deletion only when expired and older than the delete horizon.
type Session struct {
	ID        int64
	UserID    int64
	Token     string
	Revoked   bool
	Expired   bool
	CreatedAt time.Time
}

// Live reports whether the session may still authenticate a request.
func (s Session) Live() bool { return !s.Revoked && !s.Expired }
