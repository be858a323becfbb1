// Package validation defines the input contracts enforced at the HTTP
// boundary before any request reaches business logic or the database.
package validation

import (
	"errors"
	"regexp"
	"strings"
	"unicode"

	"github.com/google/uuid"
)

// Input limits.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 30

	MinPasswordLength = 8
	MaxPasswordLength = 100

	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// Validation errors.
var (
	ErrUsernameRequired   = errors.New("username is required")
	ErrUsernameTooShort   = errors.New("username must be at least 3 characters")
	ErrUsernameTooLong    = errors.New("username must be at most 30 characters")
	ErrUsernameInvalid    = errors.New("username may only contain letters, digits and underscores")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 100 characters")
	ErrPasswordTooWeak    = errors.New("password must contain an uppercase letter, a lowercase letter, a digit and a special character")
	ErrTitleRequired      = errors.New("title is required")
	ErrTitleTooLong       = errors.New("title must be at most 200 characters")
	ErrDescriptionTooLong = errors.New("description must be at most 2000 characters")
	ErrInvalidTaskID      = errors.New("task id must be a valid UUID")
)

// validUsernamePattern matches valid username characters.
// Allowed: a-z, A-Z, 0-9, underscore
var validUsernamePattern = regexp.MustCompile(`^[A-Za-z0-9_]+$`)

// ValidateUsername validates a username against the account schema.
func ValidateUsername(username string) error {
	if username == "" {
		return ErrUsernameRequired
	}
	if len(username) < MinUsernameLength {
		return ErrUsernameTooShort
	}
	if len(username) > MaxUsernameLength {
		return ErrUsernameTooLong
	}
	if !validUsernamePattern.MatchString(username) {
		return ErrUsernameInvalid
	}
	return nil
}

// ValidateNewPassword validates a password for registration: length bounds
// plus composition (upper, lower, digit, special).
func ValidateNewPassword(password string) error {
	if err := ValidatePasswordLength(password); err != nil {
		return err
	}

	var hasUpper, hasLower, hasDigit, hasSpecial bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		default:
			hasSpecial = true
		}
	}

	if !hasUpper || !hasLower || !hasDigit || !hasSpecial {
		return ErrPasswordTooWeak
	}
	return nil
}

// ValidatePasswordLength validates only the length bounds. The login path
// checks an existing credential, so composition rules do not apply there.
func ValidatePasswordLength(password string) error {
	if password == "" {
		return ErrPasswordRequired
	}
	if len(password) < MinPasswordLength {
		return ErrPasswordTooShort
	}
	if len(password) > MaxPasswordLength {
		return ErrPasswordTooLong
	}
	return nil
}

// ValidateTitle validates a task title. Whitespace-only titles are rejected.
func ValidateTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleRequired
	}
	if len(title) > MaxTitleLength {
		return ErrTitleTooLong
	}
	return nil
}

// ValidateDescription validates an optional task description.
func ValidateDescription(description string) error {
	if len(description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

// ParseTaskID parses a task id path parameter. Malformed ids are rejected
// here so no store round-trip happens for them.
func ParseTaskID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, ErrInvalidTaskID
	}
	return id, nil
}
