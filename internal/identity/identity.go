// Package identity models the opaque per-session identity: a stable owner id
// plus a flag marking temporary (guest) identities that have not yet been
// linked to a permanent credential. It is a leaf package so that middleware
// and feature handlers can both depend on it.
package identity

import (
	"context"
	"errors"
)

// Common errors
var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrNotTemporary = errors.New("identity is not temporary")
)

// Identity is the caller's session identity. All persisted records are
// scoped by an owner field that must match it.
type Identity struct {
	ID        string `json:"id"`
	Temporary bool   `json:"temporary"`
}

type contextKey struct{}

// WithContext attaches the identity to the request context.
func WithContext(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext extracts the session identity from the context.
func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(contextKey{}).(Identity)
	return id, ok
}
