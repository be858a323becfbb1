package task

import (
	"time"

	"github.com/google/uuid"
)

// Task belongs to exactly one user. The owner is set at creation from the
// authenticated identity and never reassigned.
type Task struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	IsComplete  bool      `json:"isComplete"`
	UserID      uuid.UUID `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Patch describes a partial update. Nil fields are left untouched.
type Patch struct {
	Title       *string
	Description *string
	IsComplete  *bool
}
