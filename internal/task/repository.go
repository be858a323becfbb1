package task

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/taskhive/taskhive/internal/database"
)

var ErrNotFound = errors.New("task not found")

// Repository handles task data persistence
type Repository struct {
	db *bun.DB
}

func NewRepository(db *bun.DB) *Repository {
	return &Repository{db: db}
}

// ListByOwner returns all tasks owned by the given user, oldest first.
func (r *Repository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]Task, error) {
	var dbTasks []database.Task
	err := r.db.NewSelect().
		Model(&dbTasks).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}

	tasks := make([]Task, 0, len(dbTasks))
	for i := range dbTasks {
		tasks = append(tasks, *mapDBTaskToModel(&dbTasks[i]))
	}
	return tasks, nil
}

// Create inserts a new task owned by ownerID
func (r *Repository) Create(ctx context.Context, ownerID uuid.UUID, title, description string) (*Task, error) {
	dbTask := &database.Task{
		Title:       title,
		Description: description,
		UserID:      ownerID,
	}

	_, err := r.db.NewInsert().
		Model(dbTask).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return mapDBTaskToModel(dbTask), nil
}

// Update applies a partial patch to a task and returns the updated row.
// Returns ErrNotFound if no row matches the id.
func (r *Repository) Update(ctx context.Context, id uuid.UUID, patch Patch) (*Task, error) {
	dbTask := new(database.Task)

	q := r.db.NewUpdate().
		Model(dbTask).
		Where("id = ?", id).
		Returning("*")

	if patch.Title != nil {
		q = q.Set("title = ?", *patch.Title)
	}
	if patch.Description != nil {
		q = q.Set("description = ?", *patch.Description)
	}
	if patch.IsComplete != nil {
		q = q.Set("is_complete = ?", *patch.IsComplete)
	}
	q = q.Set("updated_at = NOW()")

	result, err := q.Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// Delete removes a task by id and returns the deleted row.
// Returns ErrNotFound if no row matches the id.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) (*Task, error) {
	dbTask := new(database.Task)

	result, err := r.db.NewDelete().
		Model(dbTask).
		Where("id = ?", id).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return nil, ErrNotFound
	}

	return mapDBTaskToModel(dbTask), nil
}

// mapDBTaskToModel converts database model to domain model
func mapDBTaskToModel(dbt *database.Task) *Task {
	return &Task{
		ID:          dbt.ID,
		Title:       dbt.Title,
		Description: dbt.Description,
		IsComplete:  dbt.IsComplete,
		UserID:      dbt.UserID,
		CreatedAt:   dbt.CreatedAt,
		UpdatedAt:   dbt.UpdatedAt,
	}
}
