package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// NotificationService provides read and acknowledgement operations over a
// user's notifications. Rows are created by the notify dispatcher, never
// through this service.
type NotificationService interface {
	// ListNotifications returns the acting user's notifications, newest
	// first. When unreadOnly is true, read notifications are excluded.
	ListNotifications(ctx context.Context, actingUser *domain.User, unreadOnly bool) ([]*domain.Notification, error)

	// MarkRead marks one of the acting user's notifications as read.
	// Returns store.ErrNotificationNotFound when the notification does not
	// exist or belongs to another user.
	MarkRead(ctx context.Context, actingUser *domain.User, notificationID uuid.UUID) error

	// MarkAllRead marks all of the acting user's notifications as read and
	// returns the number of rows updated.
	MarkAllRead(ctx context.Context, actingUser *domain.User) (int64, error)
}

// notificationServiceImpl implements the NotificationService interface.
type notificationServiceImpl struct {
	notifications store.NotificationStore
	logger        *slog.Logger
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(
	notifications store.NotificationStore,
	logger *slog.Logger,
) (NotificationService, error) {
	if notifications == nil {
		return nil, domain.NewValidationError("notifications", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &notificationServiceImpl{
		notifications: notifications,
		logger:        logger.With(slog.String("component", "notification_service")),
	}, nil
}

// ListNotifications implements NotificationService.ListNotifications.
func (s *notificationServiceImpl) ListNotifications(
	ctx context.Context,
	actingUser *domain.User,
	unreadOnly bool,
) ([]*domain.Notification, error) {
	return s.notifications.ListByRecipient(ctx, actingUser.ID, unreadOnly)
}

// MarkRead implements NotificationService.MarkRead.
func (s *notificationServiceImpl) MarkRead(
	ctx context.Context,
	actingUser *domain.User,
	notificationID uuid.UUID,
) error {
	return s.notifications.MarkRead(ctx, notificationID, actingUser.ID)
}

// MarkAllRead implements NotificationService.MarkAllRead.
func (s *notificationServiceImpl) MarkAllRead(
	ctx context.Context,
	actingUser *domain.User,
) (int64, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	count, err := s.notifications.MarkAllRead(ctx, actingUser.ID)
	if err != nil {
		return 0, err
	}

	log.Debug("notifications marked read",
		slog.String("recipient_id", actingUser.ID.String()),
		slog.Int64("count", count))
	return count, nil
}
