// Package repository implements the persistence layer over MySQL. Absence is
// reported as sql.ErrNoRows so callers can use errors.Is; the only sentinel
// defined here covers unique-constraint violations, which services translate
// into a wire-level data-integrity failure.
package repository

import (
	"errors"
	"strings"
)

// ErrDuplicate is returned when an insert or update violates a unique index.
var ErrDuplicate = errors.New("duplicate value")

// isDuplicate detects a MySQL duplicate-entry error (code 1062).
func isDuplicate(err error) bool {
	return err != nil && strings.Contains(err.Error(), "1062")
}
