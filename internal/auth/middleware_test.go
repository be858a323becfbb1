package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/user"
)

type fakeUserLookup struct {
	users map[uuid.UUID]*user.User
	calls int
}

func (f *fakeUserLookup) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	f.calls++
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

type fakeIdentityCache struct {
	store map[uuid.UUID]*user.User
	sets  int
}

func newFakeIdentityCache() *fakeIdentityCache {
	return &fakeIdentityCache{store: make(map[uuid.UUID]*user.User)}
}

func (f *fakeIdentityCache) GetUser(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return f.store[id], nil
}

func (f *fakeIdentityCache) SetUser(ctx context.Context, u *user.User) error {
	f.sets++
	f.store[u.ID] = u
	return nil
}

func TestRequireAuthMissingHeader(t *testing.T) {
	svc := NewTokenService(testKeyPair(t), time.Hour)
	lookup := &fakeUserLookup{users: map[uuid.UUID]*user.User{}}
	m := NewMiddleware(svc, lookup, nil)

	downstreamCalled := false
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		downstreamCalled = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
	if downstreamCalled {
		t.Error("downstream handler ran without a credential")
	}
	if lookup.calls != 0 {
		t.Error("store was consulted without a credential")
	}
}

func TestRequireAuthInvalidToken(t *testing.T) {
	svc := NewTokenService(testKeyPair(t), time.Hour)
	lookup := &fakeUserLookup{users: map[uuid.UUID]*user.User{}}
	m := NewMiddleware(svc, lookup, nil)

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream handler ran with an invalid token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", "garbage")

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthExpiredToken(t *testing.T) {
	keys := testKeyPair(t)
	expiredSvc := NewTokenService(keys, -time.Minute)
	userID := uuid.New()

	token, err := expiredSvc.CreateToken(userID)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	lookup := &fakeUserLookup{users: map[uuid.UUID]*user.User{
		userID: {ID: userID, Username: "alice"},
	}}
	m := NewMiddleware(NewTokenService(keys, time.Hour), lookup, nil)

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream handler ran with an expired token")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthAttachesIdentity(t *testing.T) {
	svc := NewTokenService(testKeyPair(t), time.Hour)
	userID := uuid.New()
	lookup := &fakeUserLookup{users: map[uuid.UUID]*user.User{
		userID: {ID: userID, Username: "alice"},
	}}
	m := NewMiddleware(svc, lookup, nil)

	token, err := svc.CreateToken(userID)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	var got Identity
	var ok bool
	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = IdentityFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !ok {
		t.Fatal("identity missing from request context")
	}
	if got.ID != userID || got.Username != "alice" {
		t.Errorf("identity = %+v, want id=%s username=alice", got, userID)
	}
}

func TestRequireAuthDeletedUser(t *testing.T) {
	// A structurally valid token whose subject no longer exists must be
	// rejected the same way as a bad token.
	svc := NewTokenService(testKeyPair(t), time.Hour)
	lookup := &fakeUserLookup{users: map[uuid.UUID]*user.User{}}
	m := NewMiddleware(svc, lookup, nil)

	token, err := svc.CreateToken(uuid.New())
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("downstream handler ran for a deleted user")
	}))

	req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
	req.Header.Set("Authorization", token)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRequireAuthUsesCache(t *testing.T) {
	svc := NewTokenService(testKeyPair(t), time.Hour)
	userID := uuid.New()
	lookup := &fakeUserLookup{users: map[uuid.UUID]*user.User{
		userID: {ID: userID, Username: "alice"},
	}}
	identityCache := newFakeIdentityCache()
	m := NewMiddleware(svc, lookup, identityCache)

	token, err := svc.CreateToken(userID)
	if err != nil {
		t.Fatalf("CreateToken: %v", err)
	}

	handler := m.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Authorization", token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
		}
	}

	if lookup.calls != 1 {
		t.Errorf("store lookups = %d, want 1 (second request served from cache)", lookup.calls)
	}
	if identityCache.sets != 1 {
		t.Errorf("cache writes = %d, want 1", identityCache.sets)
	}
}
