package model

import "time"

// Document mirrors the `json_contents` table: a named, path-addressed JSON
// blob owned by the principal recorded in CreatedBy. The payload is stored
// opaque; only its length is validated.
type Document struct {
	ID         int64
	Name       string
	JSON       string
	Path       string
	CreatedBy  int64
	ModifiedBy int64
	CreatedAt  time.Time
	ModifiedAt time.Time
}
