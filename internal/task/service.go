package task

import (
	"context"

	"github.com/google/uuid"
)

// TaskRepository is the slice of the task store the service needs.
type TaskRepository interface {
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Task, error)
	Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*Task, error)
	Update(ctx context.Context, id uuid.UUID, patch Patch) (*Task, error)
	Delete(ctx context.Context, id uuid.UUID) (*Task, error)
}

// Service handles task business logic. List and Create are scoped to the
// owner; Update and Delete operate by task id alone and do not re-check
// that the id belongs to the caller (see the package tests documenting
// this authorization gap).
type Service struct {
	repo TaskRepository
}

func NewService(repo TaskRepository) *Service {
	return &Service{repo: repo}
}

// List returns all tasks owned by ownerID.
func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]Task, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Create persists a new task owned by ownerID. The owner always comes from
// the verified identity, never from the request body.
func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*Task, error) {
	return s.repo.Create(ctx, ownerID, title, description)
}

// Update applies a partial patch to the task with the given id.
func (s *Service) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Task, error) {
	return s.repo.Update(ctx, id, patch)
}

// Delete removes the task with the given id and returns the deleted row.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) (*Task, error) {
	return s.repo.Delete(ctx, id)
}
