package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
)

// NotificationResponse represents the response data for a notification
type NotificationResponse struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

// NotificationHandler handles notification-related HTTP requests
type NotificationHandler struct {
	notifications service.NotificationService
	users         service.UserService
	logger        *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler
func NewNotificationHandler(
	notifications service.NotificationService,
	users service.UserService,
	logger *slog.Logger,
) *NotificationHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for NotificationHandler")
	}

	return &NotificationHandler{
		notifications: notifications,
		users:         users,
		logger:        logger.With(slog.String("component", "notification_handler")),
	}
}

// ListNotifications handles GET /notifications requests. Passing ?unread=true
// restricts the listing to unread notifications.
func (h *NotificationHandler) ListNotifications(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	unreadOnly := r.URL.Query().Get("unread") == "true"

	notifications, err := h.notifications.ListNotifications(r.Context(), user, unreadOnly)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list notifications")
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notificationToResponse(n))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// MarkRead handles POST /notifications/{id}/read requests
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	notificationID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.notifications.MarkRead(r.Context(), user, notificationID); err != nil {
		HandleAPIError(w, r, err, "Failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all requests
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	updated, err := h.notifications.MarkAllRead(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to mark notifications read")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MarkAllReadResponse{Updated: updated})
}

// notificationToResponse converts a domain.Notification to a NotificationResponse
func notificationToResponse(notification *domain.Notification) NotificationResponse {
	return NotificationResponse{
		ID:        notification.ID.String(),
		Message:   notification.Message,
		IsRead:    notification.IsRead,
		CreatedAt: notification.CreatedAt,
	}
}
