package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// ProjectStore defines the interface for project data persistence.
type ProjectStore interface {
	// Create saves a new project to the store.
	// Returns validation errors from the domain Project object if data is
	// invalid.
	Create(ctx context.Context, project *domain.Project) error

	// GetByID retrieves a project by its unique ID.
	// Returns ErrProjectNotFound if the project does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Project, error)

	// ListByMember returns all projects the given user owns or is a member
	// of, ordered by creation time descending.
	ListByMember(ctx context.Context, userID uuid.UUID) ([]*domain.Project, error)

	// Update modifies an existing project's details.
	// Returns ErrProjectNotFound if the project does not exist.
	Update(ctx context.Context, project *domain.Project) error

	// Delete removes a project and its dependent rows.
	// Returns ErrProjectNotFound if the project does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new ProjectStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) ProjectStore
}
