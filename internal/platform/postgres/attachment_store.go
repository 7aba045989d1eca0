package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresAttachmentStore implements the store.AttachmentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresAttachmentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttachmentStore creates a new PostgreSQL implementation of the
// AttachmentStore interface. If logger is nil, a default logger will be used.
func NewPostgresAttachmentStore(db store.DBTX, logger *slog.Logger) *PostgresAttachmentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresAttachmentStore{
		db:     db,
		logger: logger.With(slog.String("component", "attachment_store")),
	}
}

// Ensure PostgresAttachmentStore implements store.AttachmentStore interface
var _ store.AttachmentStore = (*PostgresAttachmentStore)(nil)

// Create implements store.AttachmentStore.Create
// Returns store.ErrInvalidEntity if the task or uploader doesn't exist.
func (s *PostgresAttachmentStore) Create(ctx context.Context, attachment *domain.TaskAttachment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attachment.Validate(); err != nil {
		log.Warn("attachment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()))
		return err
	}

	query := `
		INSERT INTO task_attachments (id, task_id, file_name, uploaded_by, uploaded_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		attachment.ID,
		attachment.TaskID,
		attachment.FileName,
		attachment.UploadedBy,
		attachment.UploadedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during attachment creation",
				slog.String("attachment_id", attachment.ID.String()),
				slog.String("task_id", attachment.TaskID.String()))
			return fmt.Errorf("%w: referenced row not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", attachment.ID.String()))
		return MapError(err)
	}

	log.Info("attachment created successfully",
		slog.String("attachment_id", attachment.ID.String()),
		slog.String("task_id", attachment.TaskID.String()))
	return nil
}

// GetByID implements store.AttachmentStore.GetByID
// Returns store.ErrAttachmentNotFound if the attachment does not exist.
func (s *PostgresAttachmentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskAttachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, file_name, uploaded_by, uploaded_at
		FROM task_attachments
		WHERE id = $1
	`

	attachment, err := scanAttachment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("attachment not found", slog.String("attachment_id", id.String()))
			return nil, store.ErrAttachmentNotFound
		}
		log.Error("failed to get attachment by ID",
			slog.String("error", err.Error()),
			slog.String("attachment_id", id.String()))
		return nil, err
	}

	return attachment, nil
}

// ListByTask implements store.AttachmentStore.ListByTask
func (s *PostgresAttachmentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskAttachment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, file_name, uploaded_by, uploaded_at
		FROM task_attachments
		WHERE task_id = $1
		ORDER BY uploaded_at ASC
	`

	rows, err := s.db.QueryContext(ctx, query, taskID)
	if err != nil {
		log.Error("failed to query attachments",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	attachments := []*domain.TaskAttachment{}
	for rows.Next() {
		attachment, err := scanAttachment(rows)
		if err != nil {
			log.Error("failed to scan attachment row",
				slog.String("error", err.Error()))
			return nil, err
		}
		attachments = append(attachments, attachment)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return attachments, nil
}

// Delete implements store.AttachmentStore.Delete
// Returns store.ErrAttachmentNotFound if the attachment does not exist.
func (s *PostgresAttachmentStore) Delete(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	result, err := s.db.ExecContext(ctx, `DELETE FROM task_attachments WHERE id = $1`, id)
	if err != nil {
		log.Error("failed to delete attachment",
			slog.String("error", err.Error()),
			slog.String("attachment_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrAttachmentNotFound); err != nil {
		log.Debug("attachment not found for delete",
			slog.String("attachment_id", id.String()))
		return err
	}

	log.Info("attachment deleted successfully",
		slog.String("attachment_id", id.String()))
	return nil
}

// WithTx implements store.AttachmentStore.WithTx
func (s *PostgresAttachmentStore) WithTx(tx *sql.Tx) store.AttachmentStore {
	return &PostgresAttachmentStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanAttachment(row scanner) (*domain.TaskAttachment, error) {
	var attachment domain.TaskAttachment
	err := row.Scan(
		&attachment.ID,
		&attachment.TaskID,
		&attachment.FileName,
		&attachment.UploadedBy,
		&attachment.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &attachment, nil
}
