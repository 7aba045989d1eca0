package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// MemberStore defines the interface for project membership persistence.
type MemberStore interface {
	// Create saves a new membership to the store.
	// Returns ErrMemberExists if the user is already a member of the project.
	Create(ctx context.Context, member *domain.ProjectMember) error

	// Get retrieves the membership of a user in a project.
	// Returns ErrMemberNotFound if no such membership exists.
	Get(ctx context.Context, projectID, userID uuid.UUID) (*domain.ProjectMember, error)

	// ListByProject returns all memberships of the given project, ordered by
	// join time ascending.
	ListByProject(ctx context.Context, projectID uuid.UUID) ([]*domain.ProjectMember, error)

	// Delete removes a user's membership from a project.
	// Returns ErrMemberNotFound if no such membership exists.
	Delete(ctx context.Context, projectID, userID uuid.UUID) error

	// WithTx returns a new MemberStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) MemberStore
}
