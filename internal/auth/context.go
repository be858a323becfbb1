package auth

import (
	"context"

	"github.com/google/uuid"
)

// Identity is the authenticated caller attached to the request context by
// the middleware. It is the only way downstream handlers learn who is
// calling; nothing re-derives identity from the token.
type Identity struct {
	ID       uuid.UUID
	Username string
}

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const identityContextKey contextKey = "identity"

// ContextWithIdentity adds the authenticated identity to the context.
func ContextWithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

// IdentityFromContext retrieves the authenticated identity from the context.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}
