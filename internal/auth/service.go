package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive/internal/logging"
	"github.com/taskhive/taskhive/internal/user"
)

var (
	ErrUsernameTaken      = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
)

// UserRepository is the slice of the user store the auth service needs.
type UserRepository interface {
	Create(ctx context.Context, username, passwordHash string) (*user.User, error)
	GetByUsername(ctx context.Context, username string) (*user.User, error)
}

// TokenSigner issues signed tokens for authenticated users.
type TokenSigner interface {
	CreateToken(userID uuid.UUID) (string, error)
}

// SignedUser is the projection returned by registration and login.
// The password hash is never part of it.
type SignedUser struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
	Token    string    `json:"token"`
}

// Service handles authentication business logic
type Service struct {
	userRepo UserRepository
	tokens   TokenSigner
	logger   *logging.Logger
}

func NewService(userRepo UserRepository, tokens TokenSigner, logger *logging.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		tokens:   tokens,
		logger:   logger,
	}
}

// Register creates a new user account and signs a token for it.
// If the username is already taken nothing is hashed or written.
func (s *Service) Register(ctx context.Context, username, password string) (*SignedUser, error) {
	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrUsernameTaken
	}
	if !errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("failed to check username: %w", err)
	}

	passwordHash, err := HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	newUser, err := s.userRepo.Create(ctx, username, passwordHash)
	if err != nil {
		// A concurrent registration may have won the race since the lookup.
		if errors.Is(err, user.ErrDuplicateUsername) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	token, err := s.tokens.CreateToken(newUser.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &SignedUser{
		ID:       newUser.ID,
		Username: newUser.Username,
		Token:    token,
	}, nil
}

// Authenticate verifies a username/password pair and signs a fresh token.
// An unknown username and a wrong password both surface as
// ErrInvalidCredentials so usernames cannot be enumerated.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*SignedUser, error) {
	existing, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !VerifyPassword(existing.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.CreateToken(existing.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create token: %w", err)
	}

	return &SignedUser{
		ID:       existing.ID,
		Username: existing.Username,
		Token:    token,
	}, nil
}
