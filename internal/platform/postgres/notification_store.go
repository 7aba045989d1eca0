package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// PostgresNotificationStore implements the store.NotificationStore interface
// using a PostgreSQL database as the storage backend.
type PostgresNotificationStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresNotificationStore creates a new PostgreSQL implementation of
// the NotificationStore interface. If logger is nil, a default logger will
// be used.
func NewPostgresNotificationStore(db store.DBTX, logger *slog.Logger) *PostgresNotificationStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresNotificationStore{
		db:     db,
		logger: logger.With(slog.String("component", "notification_store")),
	}
}

// Ensure PostgresNotificationStore implements store.NotificationStore interface
var _ store.NotificationStore = (*PostgresNotificationStore)(nil)

// Create implements store.NotificationStore.Create
// Returns store.ErrInvalidEntity if the recipient doesn't exist.
func (s *PostgresNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := notification.Validate(); err != nil {
		log.Warn("notification validation failed during create",
			slog.String("error", err.Error()),
			slog.String("notification_id", notification.ID.String()))
		return err
	}

	query := `
		INSERT INTO notifications (id, recipient_id, message, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		notification.ID,
		notification.RecipientID,
		notification.Message,
		notification.IsRead,
		notification.CreatedAt,
	)

	if err != nil {
		if IsForeignKeyViolation(err) {
			log.Warn("foreign key violation during notification creation",
				slog.String("notification_id", notification.ID.String()),
				slog.String("recipient_id", notification.RecipientID.String()))
			return fmt.Errorf("%w: recipient with ID %s not found",
				store.ErrInvalidEntity, notification.RecipientID)
		}

		log.Error("failed to create notification",
			slog.String("error", err.Error()),
			slog.String("notification_id", notification.ID.String()))
		return MapError(err)
	}

	log.Info("notification created successfully",
		slog.String("notification_id", notification.ID.String()),
		slog.String("recipient_id", notification.RecipientID.String()))
	return nil
}

// ListByRecipient implements store.NotificationStore.ListByRecipient
func (s *PostgresNotificationStore) ListByRecipient(
	ctx context.Context,
	recipientID uuid.UUID,
	unreadOnly bool,
) ([]*domain.Notification, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, recipient_id, message, is_read, created_at
		FROM notifications
		WHERE recipient_id = $1
	`
	if unreadOnly {
		query += ` AND NOT is_read`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := s.db.QueryContext(ctx, query, recipientID)
	if err != nil {
		log.Error("failed to query notifications",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID.String()))
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	notifications := []*domain.Notification{}
	for rows.Next() {
		var n domain.Notification
		if err := rows.Scan(&n.ID, &n.RecipientID, &n.Message, &n.IsRead, &n.CreatedAt); err != nil {
			log.Error("failed to scan notification row",
				slog.String("error", err.Error()))
			return nil, err
		}
		notifications = append(notifications, &n)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows",
			slog.String("error", err.Error()))
		return nil, err
	}

	log.Debug("listed notifications",
		slog.String("recipient_id", recipientID.String()),
		slog.Int("count", len(notifications)))
	return notifications, nil
}

// MarkRead implements store.NotificationStore.MarkRead
// Returns store.ErrNotificationNotFound if no matching notification exists
// for the recipient.
func (s *PostgresNotificationStore) MarkRead(ctx context.Context, id, recipientID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE id = $1 AND recipient_id = $2
	`

	result, err := s.db.ExecContext(ctx, query, id, recipientID)
	if err != nil {
		log.Error("failed to mark notification read",
			slog.String("error", err.Error()),
			slog.String("notification_id", id.String()))
		return MapError(err)
	}

	if err := CheckRowsAffected(result, store.ErrNotificationNotFound); err != nil {
		log.Debug("notification not found for mark read",
			slog.String("notification_id", id.String()),
			slog.String("recipient_id", recipientID.String()))
		return err
	}

	log.Debug("notification marked read",
		slog.String("notification_id", id.String()))
	return nil
}

// MarkAllRead implements store.NotificationStore.MarkAllRead
func (s *PostgresNotificationStore) MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE notifications
		SET is_read = TRUE
		WHERE recipient_id = $1 AND NOT is_read
	`

	result, err := s.db.ExecContext(ctx, query, recipientID)
	if err != nil {
		log.Error("failed to mark all notifications read",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID.String()))
		return 0, MapError(err)
	}

	updated, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("recipient_id", recipientID.String()))
		return 0, err
	}

	log.Debug("marked all notifications read",
		slog.String("recipient_id", recipientID.String()),
		slog.Int64("count", updated))
	return updated, nil
}

// WithTx implements store.NotificationStore.WithTx
func (s *PostgresNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return &PostgresNotificationStore{
		db:     tx,
		logger: s.logger,
	}
}
