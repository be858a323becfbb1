package database

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

// InitSchema creates the users and tasks tables if they do not exist.
// Intended for development and tests; production deployments manage the
// schema with migrations.
func InitSchema(ctx context.Context, db *bun.DB) error {
	if _, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	if _, err := db.NewCreateTable().
		Model((*Task)(nil)).
		IfNotExists().
		ForeignKey(`("user_id") REFERENCES "users" ("id") ON DELETE CASCADE`).
		Exec(ctx); err != nil {
		return fmt.Errorf("failed to create tasks table: %w", err)
	}

	return nil
}
