package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresCommentStore implements the store.CommentStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCommentStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCommentStore creates a new PostgreSQL implementation of the
// CommentStore interface. If logger is nil, a default logger will be used.
func NewPostgresCommentStore(db store.DBTX, logger *slog.Logger) *PostgresCommentStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCommentStore{
		db:     db,
		logger: logger.With(slog.String("component", "comment_store")),
	}
}

// Ensure PostgresCommentStore implements store.CommentStore interface
var _ store.CommentStore = (*PostgresCommentStore)(nil)

// Create implements store.CommentStore.Create
// Returns store.ErrInvalidEntity if the task or author doesn't exist.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *domain.TaskComment) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := comment.Validate(); err != nil {
		log.Warn("comment validation failed during create",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return err
	}

	query := `
		INSERT INTO task_comments (id, task_id, author_id, content, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		comment.ID,
		comment.TaskID,
		comment.AuthorID,
		comment.Content,
		comment.IsDeleted,
		comment.CreatedAt,
		comment.UpdatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during comment creation",
				slog.String("comment_id", comment.ID.String()),
				slog.String("task_id", comment.TaskID.String()))
			return fmt.Errorf("%w: referenced row not found", store.ErrInvalidEntity)
		}

		log.Error("failed to create comment",
			slog.String("error", err.Error()),
			slog.String("comment_id", comment.ID.String()))
		return MapError(err)
	}

	log.Info("comment created successfully",
		slog.String("comment_id", comment.ID.String()),
		slog.String("task_id", comment.TaskID.String()))
	return nil
}

// GetByID implements store.CommentStore.GetByID
// Returns store.ErrCommentNotFound if the comment does not exist or has
// been soft deleted.
func (s *PostgresCommentStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, task_id, author_id, content, is_deleted, created_at, updated_at
		FROM task_comments
		WHERE id = $1 AND NOT is_deleted
	`

	comment, err := scanComment(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("comment not found", slog.String("comment_id", id.String()))
			return nil, store.ErrCommentNotFound
		}
		log.Error("failed to get comment by ID",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return nil, err
	}

	return comment, nil
}

// ListByTaskForOwner implements store.CommentStore.ListByTaskForOwner
func (s *PostgresCommentStore) ListByTaskForOwner(ctx context.Context, taskID, ownerID uuid.UUID) ([]*domain.TaskComment, error) {
	query := `
		SELECT c.id, c.task_id, c.author_id, c.content, c.is_deleted, c.created_at, c.updated_at
		FROM task_comments c
		JOIN tasks t ON t.id = c.task_id
		JOIN projects p ON p.id = t.project_id
		WHERE c.task_id = $1 AND p.owner_id = $2 AND NOT c.is_deleted
		ORDER BY c.created_at DESC
	`
	return s.list(ctx, query, taskID, ownerID)
}

// ListByTask implements store.CommentStore.ListByTask
func (s *PostgresCommentStore) ListByTask(ctx context.Context, taskID uuid.UUID) ([]*domain.TaskComment, error) {
	query := `
		SELECT id, task_id, author_id, content, is_deleted, created_at, updated_at
		FROM task_comments
		WHERE task_id = $1 AND NOT is_deleted
		ORDER BY created_at DESC
	`
	return s.list(ctx, query, taskID)
}

func (s *PostgresCommentStore) list(ctx context.Context, query string, args ...any) ([]*domain.TaskComment, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query comments",
			slog.String("error", err.Error()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	comments := []*domain.TaskComment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			log.Error("failed to scan comment row",
				slog.String("error", err.Error()))
			return nil, err
		}
		comments = append(comments, comment)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	return comments, nil
}

// MarkDeleted implements store.CommentStore.MarkDeleted
// Returns store.ErrCommentNotFound if the comment does not exist.
func (s *PostgresCommentStore) MarkDeleted(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE task_comments
		SET is_deleted = TRUE, updated_at = $1
		WHERE id = $2 AND NOT is_deleted
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to mark comment deleted",
			slog.String("error", err.Error()),
			slog.String("comment_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrCommentNotFound); err != nil {
		log.Debug("comment not found for delete",
			slog.String("comment_id", id.String()))
		return err
	}

	log.Info("comment marked deleted",
		slog.String("comment_id", id.String()))
	return nil
}

// WithTx implements store.CommentStore.WithTx
func (s *PostgresCommentStore) WithTx(tx *sql.Tx) store.CommentStore {
	return &PostgresCommentStore{
		db:     tx,
		logger: s.logger,
	}
}

func scanComment(row scanner) (*domain.TaskComment, error) {
	var comment domain.TaskComment
	err := row.Scan(
		&comment.ID,
		&comment.TaskID,
		&comment.AuthorID,
		&comment.Content,
		&comment.IsDeleted,
		&comment.CreatedAt,
		&comment.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}
