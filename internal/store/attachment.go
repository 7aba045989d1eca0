package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// AttachmentStore defines the interface for task attachment persistence.
// Attachment file contents live in object storage; rows here record the
// file path and uploader.
type AttachmentStore interface {
	// Create saves a new attachment record to the store.
	Create(ctx context.Context, attachment *domain.TaskAttachment) error

	// GetByID retrieves an attachment by its unique ID.
	// Returns ErrAttachmentNotFound if the attachment does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskAttachment, error)

	// ListByTask returns all attachments on the given task, ordered by
	// upload time ascending.
	ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskAttachment, error)

	// Delete removes an attachment record.
	// Returns ErrAttachmentNotFound if the attachment does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new AttachmentStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) AttachmentStore
}
