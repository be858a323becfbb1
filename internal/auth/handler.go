package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/taskhive/taskhive/internal/httputil"
	"github.com/taskhive/taskhive/internal/logging"
	"github.com/taskhive/taskhive/internal/validation"
)

// Handler contains HTTP handlers for authentication endpoints
type Handler struct {
	service *Service
	logger  *logging.Logger
}

func NewHandler(service *Service, logger *logging.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRequest represents the registration request body
type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate checks the registration schema: username charset and bounds,
// password length and composition.
func (r *RegisterRequest) Validate() []httputil.FieldError {
	var details []httputil.FieldError
	if err := validation.ValidateUsername(r.Username); err != nil {
		details = append(details, httputil.FieldError{Field: "username", Message: err.Error()})
	}
	if err := validation.ValidateNewPassword(r.Password); err != nil {
		details = append(details, httputil.FieldError{Field: "password", Message: err.Error()})
	}
	return details
}

// LoginRequest represents the login request body
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate re-checks only the length bounds on the password; composition
// rules apply to new credentials, not existing ones.
func (r *LoginRequest) Validate() []httputil.FieldError {
	var details []httputil.FieldError
	if err := validation.ValidateUsername(r.Username); err != nil {
		details = append(details, httputil.FieldError{Field: "username", Message: err.Error()})
	}
	if err := validation.ValidatePasswordLength(r.Password); err != nil {
		details = append(details, httputil.FieldError{Field: "password", Message: err.Error()})
	}
	return details
}

// Register handles user registration
// @Summary      Register a new user
// @Description  Create a new account and receive a signed token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Registration credentials"
// @Success      201 {object} SignedUser
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      409 {object} httputil.ErrorResponse "Username already exists"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid registration request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if details := req.Validate(); len(details) > 0 {
		logger.Warn("registration failed: validation error", "username", req.Username)
		httputil.RespondValidationError(w, "invalid registration input", details)
		return
	}

	signedUser, err := h.service.Register(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrUsernameTaken) {
			logger.Warn("registration failed: username already exists", "username", req.Username)
			httputil.RespondErrorWithCode(w, "username already exists", httputil.CodeUsernameTaken, http.StatusConflict)
			return
		}
		logger.Error("registration failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to register user", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user registered successfully", "user_id", signedUser.ID)

	httputil.RespondJSON(w, signedUser, http.StatusCreated)
}

// Login handles user login
// @Summary      User login
// @Description  Authenticate with username and password and receive a signed token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} SignedUser
// @Failure      400 {object} httputil.ErrorResponse "Invalid request body or credentials"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid login request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if details := req.Validate(); len(details) > 0 {
		logger.Warn("login failed: validation error", "username", req.Username)
		httputil.RespondValidationError(w, "invalid login input", details)
		return
	}

	signedUser, err := h.service.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			// Unknown username and wrong password are indistinguishable here.
			logger.Warn("login failed: invalid credentials", "username", req.Username)
			httputil.RespondErrorWithCode(w, "invalid username or password", httputil.CodeInvalidCredentials, http.StatusBadRequest)
			return
		}
		logger.Error("login failed: internal error", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to login", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("user logged in successfully", "user_id", signedUser.ID)

	httputil.RespondJSON(w, signedUser, http.StatusOK)
}
