// Package queue defines the auth lifecycle messages published to the broker
// and the RabbitMQ publisher behind them.
package queue

// Event types carried in AuthEvent.Type.
const (
	EventLogin   = "login"
	EventRevoked = "sessions_revoked"
)

// AuthEvent is published when a session is created or revoked. It carries
// enough for downstream consumers to alert or audit without querying the
// primary database. The token itself is never included.
type AuthEvent struct {
	Type     string `json:"type"`
	UserID   int64  `json:"user_id"`
	Username string `json:"username,omitempty"`
	Sessions int    `json:"sessions,omitempty"`
	At       string `json:"at"`
}
