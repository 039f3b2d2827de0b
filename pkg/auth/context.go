package auth

import (
	"context"
	"errors"
)

// contextKey is an unexported type to prevent key collisions in context.
type contextKey string

const identityKey contextKey = "identity"

// ErrIdentityNotFound is returned when no Identity exists in the request context.
// Handlers should return 401 when this error occurs.
var ErrIdentityNotFound = errors.New("identity not found in context")

// Identity is the verified caller identity. Subject is the stable subject
// claim that scopes all entity access; Claims carries the full token payload
// for the current-user endpoint.
type Identity struct {
	Subject string
	Claims  map[string]any
}

// IdentityFromCtx extracts the authenticated caller from the request context.
// Returns ErrIdentityNotFound on unauthenticated requests.
func IdentityFromCtx(ctx context.Context) (*Identity, error) {
	id, ok := ctx.Value(identityKey).(*Identity)
	if !ok || id == nil || id.Subject == "" {
		return nil, ErrIdentityNotFound
	}
	return id, nil
}

// WithIdentity returns a new context with the given Identity attached.
// Used by authentication middleware after verifying the credential.
func WithIdentity(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}
