package model

import "time"

// Roles a principal can hold. Route policies admit ADMIN and SUPERVISOR to
// the management surface; some operations additionally require ADMIN.
const (
	RoleAdmin      = "ADMIN"
	RoleSupervisor = "SUPERVISOR"
	RoleUser       = "USER"
)

// IsManager reports whether the role belongs to the management tier.
func IsManager(role string) bool {
	return role == RoleAdmin || role == RoleSupervisor
}

// User mirrors the `users` table. Username is unique after case folding; an
// inactive or locked account cannot log in.
type User struct {
	ID           int64
	Names        string
	Email        string
	IDCard       string
	Username     string
	PasswordHash string
	Role         string
	Active       bool
	Locked       bool
	CreatedBy    int64
	ModifiedBy   int64
	CreatedAt    time.Time
	ModifiedAt   time.Time
}
