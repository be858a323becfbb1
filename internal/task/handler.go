package task

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taskhive/taskhive/internal/auth"
	"github.com/taskhive/taskhive/internal/httputil"
	"github.com/taskhive/taskhive/internal/logging"
	"github.com/taskhive/taskhive/internal/validation"
)

// Handler contains HTTP handlers for task endpoints
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

// CreateTaskRequest represents the task creation request body
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (r *CreateTaskRequest) Validate() []httputil.FieldError {
	var details []httputil.FieldError
	if err := validation.ValidateTitle(r.Title); err != nil {
		details = append(details, httputil.FieldError{Field: "title", Message: err.Error()})
	}
	if err := validation.ValidateDescription(r.Description); err != nil {
		details = append(details, httputil.FieldError{Field: "description", Message: err.Error()})
	}
	return details
}

// UpdateTaskRequest represents the partial task update request body.
// Absent fields are left untouched.
type UpdateTaskRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	IsComplete  *bool   `json:"isComplete"`
}

func (r *UpdateTaskRequest) Validate() []httputil.FieldError {
	var details []httputil.FieldError
	if r.Title != nil {
		if err := validation.ValidateTitle(*r.Title); err != nil {
			details = append(details, httputil.FieldError{Field: "title", Message: err.Error()})
		}
	}
	if r.Description != nil {
		if err := validation.ValidateDescription(*r.Description); err != nil {
			details = append(details, httputil.FieldError{Field: "description", Message: err.Error()})
		}
	}
	return details
}

// List handles listing the caller's tasks
// @Summary      List tasks
// @Description  Return all tasks owned by the authenticated user.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} Task
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid credential"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	tasks, err := h.service.List(r.Context(), identity.ID)
	if err != nil {
		logger.Error("failed to list tasks", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to list tasks", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	httputil.RespondJSON(w, tasks, http.StatusOK)
}

// Create handles task creation
// @Summary      Create a task
// @Description  Create a task owned by the authenticated user.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body CreateTaskRequest true "Task fields"
// @Success      201 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Invalid request or validation error"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid credential"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		httputil.RespondErrorWithCode(w, "authentication required", httputil.CodeMissingAuth, http.StatusUnauthorized)
		return
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid task creation request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if details := req.Validate(); len(details) > 0 {
		logger.Warn("task creation failed: validation error")
		httputil.RespondValidationError(w, "invalid task input", details)
		return
	}

	// The owner is the verified identity; a client-supplied owner field
	// would allow owner spoofing and is never read.
	created, err := h.service.Create(r.Context(), identity.ID, req.Title, req.Description)
	if err != nil {
		logger.Error("failed to create task", "error", err.Error())
		httputil.RespondErrorWithCode(w, "failed to create task", httputil.CodeInternalError, http.StatusInternalServerError)
		return
	}

	logger.Info("task created", "task_id", created.ID, "user_id", identity.ID)

	httputil.RespondJSON(w, created, http.StatusCreated)
}

// Update handles partial task updates
// @Summary      Update a task
// @Description  Apply a partial update to a task by id.
// @Tags         tasks
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Param        request body UpdateTaskRequest true "Fields to change"
// @Success      200 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Invalid id, body or nonexistent task"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid credential"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	taskID, err := validation.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("task update failed: malformed id")
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidTaskID, http.StatusBadRequest)
		return
	}

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("invalid task update request body", "error", err.Error())
		httputil.RespondErrorWithCode(w, "invalid request body", httputil.CodeInvalidRequestBody, http.StatusBadRequest)
		return
	}

	if details := req.Validate(); len(details) > 0 {
		logger.Warn("task update failed: validation error", "task_id", taskID)
		httputil.RespondValidationError(w, "invalid task input", details)
		return
	}

	updated, err := h.service.Update(r.Context(), taskID, Patch{
		Title:       req.Title,
		Description: req.Description,
		IsComplete:  req.IsComplete,
	})
	if err != nil {
		// Store errors on update surface as 400 with the underlying
		// message, a nonexistent id included (not 404).
		if errors.Is(err, ErrNotFound) {
			logger.Warn("task update failed: not found", "task_id", taskID)
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTaskNotFound, http.StatusBadRequest)
			return
		}
		logger.Error("failed to update task", "task_id", taskID, "error", err.Error())
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	httputil.RespondJSON(w, updated, http.StatusOK)
}

// Delete handles task deletion
// @Summary      Delete a task
// @Description  Delete a task by id and return the deleted row.
// @Tags         tasks
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      200 {object} Task
// @Failure      400 {object} httputil.ErrorResponse "Invalid id or nonexistent task"
// @Failure      401 {object} httputil.ErrorResponse "Missing or invalid credential"
// @Failure      500 {object} httputil.ErrorResponse "Internal server error"
// @Router       /tasks/{id} [delete]
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	logger := logging.GetLoggerFromContext(r.Context())

	taskID, err := validation.ParseTaskID(chi.URLParam(r, "id"))
	if err != nil {
		logger.Warn("task deletion failed: malformed id")
		httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeInvalidTaskID, http.StatusBadRequest)
		return
	}

	deleted, err := h.service.Delete(r.Context(), taskID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			logger.Warn("task deletion failed: not found", "task_id", taskID)
			httputil.RespondErrorWithCode(w, err.Error(), httputil.CodeTaskNotFound, http.StatusBadRequest)
			return
		}
		logger.Error("failed to delete task", "task_id", taskID, "error", err.Error())
		httputil.RespondError(w, err.Error(), http.StatusBadRequest)
		return
	}

	logger.Info("task deleted", "task_id", taskID)

	httputil.RespondJSON(w, deleted, http.StatusOK)
}
