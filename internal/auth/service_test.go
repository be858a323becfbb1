package auth

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/logging"
	"github.com/taskhive/taskhive/internal/user"
)

type fakeUserRepo struct {
	byUsername map[string]*user.User
	creates    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byUsername: make(map[string]*user.User)}
}

func (f *fakeUserRepo) Create(ctx context.Context, username, passwordHash string) (*user.User, error) {
	f.creates++
	if _, ok := f.byUsername[username]; ok {
		return nil, user.ErrDuplicateUsername
	}
	u := &user.User{ID: uuid.New(), Username: username, PasswordHash: passwordHash}
	f.byUsername[username] = u
	return u, nil
}

func (f *fakeUserRepo) GetByUsername(ctx context.Context, username string) (*user.User, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, user.ErrNotFound
}

type fakeSigner struct {
	signed []uuid.UUID
}

func (f *fakeSigner) CreateToken(userID uuid.UUID) (string, error) {
	f.signed = append(f.signed, userID)
	return "token-" + userID.String(), nil
}

func newTestService(repo *fakeUserRepo, signer *fakeSigner) *Service {
	return NewService(repo, signer, logging.NewLogger(true))
}

func TestRegister(t *testing.T) {
	repo := newFakeUserRepo()
	signer := &fakeSigner{}
	svc := newTestService(repo, signer)

	signed, err := svc.Register(context.Background(), "alice", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if signed.Username != "alice" {
		t.Errorf("username = %q, want alice", signed.Username)
	}
	if signed.Token != "token-"+signed.ID.String() {
		t.Errorf("token not signed for the new user id")
	}

	stored := repo.byUsername["alice"]
	if stored == nil {
		t.Fatal("user record not persisted")
	}
	if stored.PasswordHash == "Sup3r$ecret" {
		t.Error("password stored in plaintext")
	}
	if !VerifyPassword(stored.PasswordHash, "Sup3r$ecret") {
		t.Error("stored hash does not verify against the password")
	}
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	signer := &fakeSigner{}
	svc := newTestService(repo, signer)

	if _, err := svc.Register(context.Background(), "alice", "Sup3r$ecret"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(context.Background(), "alice", "An0ther$ecret")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Fatalf("second Register = %v, want %v", err, ErrUsernameTaken)
	}

	if repo.creates != 1 {
		t.Errorf("creates = %d, want 1 (no second record)", repo.creates)
	}
	if len(signer.signed) != 1 {
		t.Errorf("tokens signed = %d, want 1", len(signer.signed))
	}
}

func TestAuthenticate(t *testing.T) {
	repo := newFakeUserRepo()
	signer := &fakeSigner{}
	svc := newTestService(repo, signer)

	registered, err := svc.Register(context.Background(), "alice", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	signed, err := svc.Authenticate(context.Background(), "alice", "Sup3r$ecret")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if signed.ID != registered.ID {
		t.Errorf("id = %s, want %s", signed.ID, registered.ID)
	}
	if last := signer.signed[len(signer.signed)-1]; last != registered.ID {
		t.Errorf("token subject = %s, want %s", last, registered.ID)
	}
}

func TestAuthenticateFailuresAreIndistinguishable(t *testing.T) {
	repo := newFakeUserRepo()
	svc := newTestService(repo, &fakeSigner{})

	if _, err := svc.Register(context.Background(), "alice", "Sup3r$ecret"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, wrongPassword := svc.Authenticate(context.Background(), "alice", "wrong-password")
	_, unknownUser := svc.Authenticate(context.Background(), "nobody", "Sup3r$ecret")

	if !errors.Is(wrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password = %v, want %v", wrongPassword, ErrInvalidCredentials)
	}
	if !errors.Is(unknownUser, ErrInvalidCredentials) {
		t.Errorf("unknown user = %v, want %v", unknownUser, ErrInvalidCredentials)
	}
	if wrongPassword.Error() != unknownUser.Error() {
		t.Error("wrong password and unknown username produce different errors")
	}
}
