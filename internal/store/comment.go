package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// CommentStore defines the interface for task comment persistence.
type CommentStore interface {
	// Create saves a new comment to the store.
	Create(ctx context.Context, comment *domain.TaskComment) error

	// GetByID retrieves a comment by its unique ID.
	// Returns ErrCommentNotFound if the comment does not exist or has been
	// soft deleted.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskComment, error)

	// ListByTaskForOwner returns the non-deleted comments on the given task
	// when the task's project is owned by the given user, newest first.
	// Returns an empty slice when the owner does not match.
	ListByTaskForOwner(ctx context.Context, taskID, ownerID uuid.UUID) ([]*domain.TaskComment, error)

	// ListByTask returns all non-deleted comments on the given task,
	// newest first.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskComment, error)

	// MarkDeleted soft deletes a comment. The row is retained but excluded
	// from listings.
	// Returns ErrCommentNotFound if the comment does not exist.
	MarkDeleted(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new CommentStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) CommentStore
}
