package api

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/store"
)

// mockNotificationService is a mock implementation of the NotificationService
// interface
type mockNotificationService struct {
	listFn        func(ctx context.Context, actingUser *domain.User, unreadOnly bool) ([]*domain.Notification, error)
	markReadFn    func(ctx context.Context, actingUser *domain.User, notificationID uuid.UUID) error
	markAllReadFn func(ctx context.Context, actingUser *domain.User) (int64, error)
}

func (m *mockNotificationService) ListNotifications(ctx context.Context, actingUser *domain.User, unreadOnly bool) ([]*domain.Notification, error) {
	return m.listFn(ctx, actingUser, unreadOnly)
}

func (m *mockNotificationService) MarkRead(ctx context.Context, actingUser *domain.User, notificationID uuid.UUID) error {
	return m.markReadFn(ctx, actingUser, notificationID)
}

func (m *mockNotificationService) MarkAllRead(ctx context.Context, actingUser *domain.User) (int64, error) {
	return m.markAllReadFn(ctx, actingUser)
}

func TestListNotifications(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}

	tests := []struct {
		name               string
		target             string
		expectedUnreadOnly bool
	}{
		{
			name:               "All Notifications",
			target:             "/api/notifications",
			expectedUnreadOnly: false,
		},
		{
			name:               "Unread Only",
			target:             "/api/notifications?unread=true",
			expectedUnreadOnly: true,
		},
		{
			name:               "Unread Flag Must Be Exact",
			target:             "/api/notifications?unread=yes",
			expectedUnreadOnly: false,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var gotUnreadOnly bool

			notifications := &mockNotificationService{
				listFn: func(ctx context.Context, user *domain.User, unreadOnly bool) ([]*domain.Notification, error) {
					gotUnreadOnly = unreadOnly
					return []*domain.Notification{
						{
							ID:          uuid.New(),
							RecipientID: user.ID,
							Message:     "You were assigned to task 'Ship it'.",
							IsRead:      false,
							CreatedAt:   time.Now().UTC(),
						},
					}, nil
				},
			}

			handler := NewNotificationHandler(notifications, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("GET", tc.target, nil, userID, nil)
			rr := httptest.NewRecorder()

			handler.ListNotifications(rr, req)

			require.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, tc.expectedUnreadOnly, gotUnreadOnly)

			var resp []NotificationResponse
			require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
			require.Len(t, resp, 1)
			assert.Equal(t, "You were assigned to task 'Ship it'.", resp[0].Message)
			assert.False(t, resp[0].IsRead)
		})
	}
}

func TestMarkRead(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	notificationID := uuid.New()

	tests := []struct {
		name           string
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			expectedStatus: http.StatusNoContent,
		},
		{
			name:           "Someone Else's Notification",
			serviceError:   store.ErrNotificationNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			notifications := &mockNotificationService{
				markReadFn: func(ctx context.Context, user *domain.User, id uuid.UUID) error {
					assert.Equal(t, notificationID, id)
					return tc.serviceError
				},
			}

			handler := NewNotificationHandler(notifications, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("POST", "/api/notifications/"+notificationID.String()+"/read", nil, userID,
				map[string]string{"id": notificationID.String()})
			rr := httptest.NewRecorder()

			handler.MarkRead(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestMarkAllRead(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}

	notifications := &mockNotificationService{
		markAllReadFn: func(ctx context.Context, user *domain.User) (int64, error) {
			return 3, nil
		},
	}

	handler := NewNotificationHandler(notifications, userServiceReturning(actingUser), slog.Default())

	req := authedRequest("POST", "/api/notifications/read-all", nil, userID, nil)
	rr := httptest.NewRecorder()

	handler.MarkAllRead(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp MarkAllReadResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, int64(3), resp.Updated)
}
