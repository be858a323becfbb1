package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/httputil"
	"github.com/taskhive/taskhive/internal/logging"
	"github.com/taskhive/taskhive/internal/user"
)

// TokenVerifier validates a signed token and returns the embedded subject.
type TokenVerifier interface {
	VerifyToken(tokenStr string) (uuid.UUID, error)
}

// UserLookup resolves a user ID against the durable store.
type UserLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*user.User, error)
}

// IdentityCache is an optional read-through cache in front of UserLookup.
// A cache miss returns (nil, nil).
type IdentityCache interface {
	GetUser(ctx context.Context, id uuid.UUID) (*user.User, error)
	SetUser(ctx context.Context, u *user.User) error
}

// Middleware handles authentication for protected routes
type Middleware struct {
	tokens TokenVerifier
	users  UserLookup
	cache  IdentityCache
}

// NewMiddleware creates the identity middleware. cache may be nil, in which
// case every request resolves the user against the store.
func NewMiddleware(tokens TokenVerifier, users UserLookup, cache IdentityCache) *Middleware {
	return &Middleware{
		tokens: tokens,
		users:  users,
		cache:  cache,
	}
}

// RequireAuth validates the bearer credential and attaches the resolved
// identity to the request context. The whole Authorization header value is
// the token; no "Bearer " prefix is parsed.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.Header.Get("Authorization")
		if token == "" {
			httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
			return
		}

		userID, err := m.tokens.VerifyToken(token)
		if err != nil {
			// Bad signature, wrong algorithm and expiry are deliberately
			// indistinguishable to the client.
			httputil.RespondErrorWithCode(w, "invalid or expired credential", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		resolved, err := m.resolveUser(r.Context(), userID)
		if err != nil {
			if !errors.Is(err, user.ErrNotFound) {
				logging.GetLoggerFromContext(r.Context()).Error("failed to resolve user", "error", err.Error())
			}
			httputil.RespondErrorWithCode(w, "invalid or expired credential", httputil.CodeInvalidToken, http.StatusUnauthorized)
			return
		}

		ctx := ContextWithIdentity(r.Context(), Identity{
			ID:       resolved.ID,
			Username: resolved.Username,
		})

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// resolveUser checks that the token subject still exists in the store,
// consulting the cache first when one is configured.
func (m *Middleware) resolveUser(ctx context.Context, userID uuid.UUID) (*user.User, error) {
	if m.cache != nil {
		cached, err := m.cache.GetUser(ctx, userID)
		if err == nil && cached != nil {
			return cached, nil
		}
	}

	resolved, err := m.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if m.cache != nil {
		// Best effort; a failed cache write only costs a store hit later.
		_ = m.cache.SetUser(ctx, resolved)
	}

	return resolved, nil
}
