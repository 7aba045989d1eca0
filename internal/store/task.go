package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task to the store.
	// Returns validation errors from the domain Task object if data is
	// invalid.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// GetForUpdate retrieves a task by ID with a row lock, so that the
	// caller can capture its prior state and write the new one atomically.
	// Must be called on a store bound to a transaction via WithTx.
	// Returns ErrTaskNotFound if the task does not exist.
	GetForUpdate(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// ListByProject returns all tasks belonging to the given project,
	// ordered by creation time descending.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)

	// ListByAssignee returns all tasks assigned to the given user.
	ListByAssignee(ctx context.Context, userID uuid.UUID) ([]*domain.Task, error)

	// Update modifies an existing task's details.
	// Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task and its dependent rows.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new TaskStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) TaskStore
}
