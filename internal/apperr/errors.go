// Package apperr defines the error kinds shared by services, repositories
// and middleware. A failure is raised once at its source and crosses the
// layers untouched until the boundary error handler turns it into a
// problem-detail response.
package apperr

import (
	"fmt"
	"net/http"
)

// Kind classifies a failure. The wire status and localized title/detail are
// derived from it, never from the free-form message.
type Kind string

const (
	BadCredentials   Kind = "BAD_CREDENTIALS"
	UserDisabled     Kind = "USER_DISABLED"
	UserLocked       Kind = "USER_LOCKED"
	UnknownAuth      Kind = "UNKNOWN_AUTH_FAILURE"
	TokenInvalid     Kind = "TOKEN_INVALID"
	Forbidden        Kind = "FORBIDDEN"
	NotOwner         Kind = "NOT_OWNER"
	ForbiddenAction  Kind = "FORBIDDEN_ACTION"
	IDNotFound       Kind = "ID_NOT_FOUND"
	UsernameNotFound Kind = "USERNAME_NOT_FOUND"
	InvalidField     Kind = "INVALID_FIELD_VALUE"
	DataIntegrity    Kind = "DATA_INTEGRITY_VIOLATION"
	Repository       Kind = "REPOSITORY_ERROR"
	TokenProcessing  Kind = "TOKEN_PROCESSING_ERROR"
)

// Error carries a kind, an optional human-readable message (already
// localized by the thrower when it reaches the wire) and an optional cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Cause)
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Cause }

// Is matches two errors by kind so errors.Is works with bare kind markers.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && e.Kind == t.Kind
}

// New creates an error of the given kind with a human-readable message.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap attaches a kind and message to an underlying cause. Returns nil when
// err is nil so call sites can wrap unconditionally.
func Wrap(err error, kind Kind, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{Kind: kind, Message: message, Cause: err}
}

// Status maps the kind to its HTTP status code.
func (e *Error) Status() int {
	switch e.Kind {
	case BadCredentials, UserDisabled, UserLocked, UnknownAuth:
		return http.StatusUnauthorized
	case TokenInvalid, Forbidden, NotOwner, ForbiddenAction:
		return http.StatusForbidden
	case IDNotFound, UsernameNotFound:
		return http.StatusNotFound
	case InvalidField, DataIntegrity:
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
