package task

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/logging"
)

// withIdentity injects an authenticated identity the way the auth
// middleware would after successful verification.
func withIdentity(identity auth.Identity) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(auth.ContextWithIdentity(r.Context(), identity)))
		})
	}
}

func newTestRouter(repo *fakeTaskRepo, identity auth.Identity) http.Handler {
	h := NewHandler(NewService(repo), logging.NewLogger(true))

	r := chi.NewRouter()
	r.Route("/tasks", func(r chi.Router) {
		r.Use(withIdentity(identity))
		r.Get("/", h.List)
		r.Post("/", h.Create)
		r.Put("/{id}", h.Update)
		r.Delete("/{id}", h.Delete)
	})
	return r
}

func TestDeleteMalformedID(t *testing.T) {
	repo := newFakeTaskRepo()
	router := newTestRouter(repo, auth.Identity{ID: uuid.New(), Username: "alice"})

	req := httptest.NewRequest(http.MethodDelete, "/tasks/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if repo.deleteCalls != 0 {
		t.Errorf("deleteCalls = %d, want 0 (malformed id must not reach the store)", repo.deleteCalls)
	}
}

func TestCreateEmptyTitle(t *testing.T) {
	repo := newFakeTaskRepo()
	router := newTestRouter(repo, auth.Identity{ID: uuid.New(), Username: "alice"})

	req := httptest.NewRequest(http.MethodPost, "/tasks/", strings.NewReader(`{"title":""}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if repo.createCalls != 0 {
		t.Errorf("createCalls = %d, want 0 (invalid input must not produce a store row)", repo.createCalls)
	}

	var body struct {
		Error   string `json:"error"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error == "" {
		t.Error("error response has no error field")
	}
	if len(body.Details) == 0 || body.Details[0].Field != "title" {
		t.Errorf("details = %+v, want a title field error", body.Details)
	}
}

func TestCreateOwnerComesFromIdentity(t *testing.T) {
	repo := newFakeTaskRepo()
	owner := uuid.New()
	router := newTestRouter(repo, auth.Identity{ID: owner, Username: "alice"})

	// A client-supplied owner field is ignored; the schema has no such field.
	payload := `{"title":"Buy milk","user_id":"` + uuid.New().String() + `"}`
	req := httptest.NewRequest(http.MethodPost, "/tasks/", strings.NewReader(payload))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var created Task
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created task: %v", err)
	}
	if created.UserID != owner {
		t.Errorf("owner = %s, want the authenticated identity %s", created.UserID, owner)
	}
}

func TestUpdateRoundTripOverHTTP(t *testing.T) {
	repo := newFakeTaskRepo()
	owner := uuid.New()
	router := newTestRouter(repo, auth.Identity{ID: owner, Username: "alice"})

	req := httptest.NewRequest(http.MethodPost, "/tasks/", strings.NewReader(`{"title":"Buy milk","description":"2 liters"}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, want %d", rec.Code, http.StatusCreated)
	}

	var created Task
	if err := json.NewDecoder(rec.Body).Decode(&created); err != nil {
		t.Fatalf("decode created task: %v", err)
	}

	req = httptest.NewRequest(http.MethodPut, "/tasks/"+created.ID.String(), strings.NewReader(`{"isComplete":true}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("update status = %d, want %d", rec.Code, http.StatusOK)
	}

	req = httptest.NewRequest(http.MethodGet, "/tasks/", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var tasks []Task
	if err := json.NewDecoder(rec.Body).Decode(&tasks); err != nil {
		t.Fatalf("decode task list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("list has %d tasks, want 1", len(tasks))
	}
	if !tasks[0].IsComplete {
		t.Error("isComplete not persisted")
	}
	if tasks[0].Title != "Buy milk" || tasks[0].Description != "2 liters" {
		t.Error("partial update changed untouched fields")
	}
}

func TestUpdateNonexistentTaskReturns400(t *testing.T) {
	repo := newFakeTaskRepo()
	router := newTestRouter(repo, auth.Identity{ID: uuid.New(), Username: "alice"})

	req := httptest.NewRequest(http.MethodPut, "/tasks/"+uuid.New().String(), strings.NewReader(`{"isComplete":true}`))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	// Missing rows surface as 400 with the underlying message, not 404.
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}

	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	if body.Error != ErrNotFound.Error() {
		t.Errorf("error = %q, want %q", body.Error, ErrNotFound.Error())
	}
}

func TestHandlersRequireIdentity(t *testing.T) {
	repo := newFakeTaskRepo()
	h := NewHandler(NewService(repo), logging.NewLogger(true))

	// No identity middleware: the handlers reject rather than serve.
	r := chi.NewRouter()
	r.Get("/tasks", h.List)
	r.Post("/tasks", h.Create)

	for _, tc := range []struct {
		method string
		body   string
	}{
		{http.MethodGet, ""},
		{http.MethodPost, `{"title":"Buy milk"}`},
	} {
		req := httptest.NewRequest(tc.method, "/tasks", strings.NewReader(tc.body))
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s status = %d, want %d", tc.method, rec.Code, http.StatusUnauthorized)
		}
	}
	if repo.listCalls != 0 || repo.createCalls != 0 {
		t.Error("store reached without an authenticated identity")
	}
}
