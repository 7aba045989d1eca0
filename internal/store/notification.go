package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// NotificationStore defines the interface for notification persistence.
type NotificationStore interface {
	// Create saves a new notification to the store.
	Create(ctx context.Context, notification *domain.Notification) error

	// ListByRecipient returns the given user's notifications, newest first.
	// When unreadOnly is set, notifications already marked read are excluded.
	ListByRecipient(ctx context.Context, recipientID uuid.UUID, unreadOnly bool) ([]*domain.Notification, error)

	// MarkRead marks a single notification as read. The notification must
	// belong to the given recipient.
	// Returns ErrNotificationNotFound if no such notification exists.
	MarkRead(ctx context.Context, id, recipientID uuid.UUID) error

	// MarkAllRead marks all of the recipient's notifications as read and
	// returns the number of rows updated.
	MarkAllRead(ctx context.Context, recipientID uuid.UUID) (int64, error)

	// WithTx returns a new NotificationStore instance that uses the provided
	// transaction.
	WithTx(tx *sql.Tx) NotificationStore
}
