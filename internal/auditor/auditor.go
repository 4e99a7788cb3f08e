// Package auditor exposes the authenticated caller of the current request as
// an explicit context value. The authenticator middleware sets it before
// dispatch; repositories read it to stamp created_by/modified_by columns and
// services read it for ownership checks. It never outlives the request.
package auditor

import "context"

// SentinelID is written to audit columns when no caller is present, for
// writes performed outside an authenticated request (bootstrap, tests).
const SentinelID int64 = 1

// Caller identifies the authenticated principal for one request.
type Caller struct {
	ID   int64
	Role string
}

type ctxKey struct{}

// WithCaller returns a context carrying the caller identity.
func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, ctxKey{}, c)
}

// FromContext returns the caller identity and whether one was set.
func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(ctxKey{}).(Caller)
	return c, ok
}

// CurrentID returns the caller id, or SentinelID when the request is
// anonymous. Use FromContext when the operation must fail without a caller.
func CurrentID(ctx context.Context) int64 {
	if c, ok := FromContext(ctx); ok {
		return c.ID
	}
	return SentinelID
}
