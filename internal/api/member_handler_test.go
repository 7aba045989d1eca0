package api

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/store"
)

// mockMemberService is a mock implementation of the MemberService interface
type mockMemberService struct {
	addFn    func(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole, actingUser *domain.User) (*domain.ProjectMember, error)
	listFn   func(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) ([]*domain.ProjectMember, error)
	removeFn func(ctx context.Context, projectID, userID uuid.UUID, actingUser *domain.User) error
}

func (m *mockMemberService) AddMember(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole, actingUser *domain.User) (*domain.ProjectMember, error) {
	return m.addFn(ctx, projectID, userID, role, actingUser)
}

func (m *mockMemberService) ListMembers(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) ([]*domain.ProjectMember, error) {
	return m.listFn(ctx, projectID, actingUser)
}

func (m *mockMemberService) RemoveMember(ctx context.Context, projectID, userID uuid.UUID, actingUser *domain.User) error {
	return m.removeFn(ctx, projectID, userID, actingUser)
}

func TestAddMember(t *testing.T) {
	ownerID := uuid.New()
	actingUser := &domain.User{ID: ownerID, IsActive: true}
	projectID := uuid.New()
	newMemberID := uuid.New()

	tests := []struct {
		name           string
		body           string
		serviceError   error
		expectedStatus int
		expectedRole   domain.MemberRole
	}{
		{
			name:           "Success With Role",
			body:           `{"user_id":"` + newMemberID.String() + `","role":"viewer"}`,
			expectedStatus: http.StatusCreated,
			expectedRole:   domain.MemberRoleViewer,
		},
		{
			name:           "Success Default Role",
			body:           `{"user_id":"` + newMemberID.String() + `"}`,
			expectedStatus: http.StatusCreated,
			expectedRole:   domain.MemberRoleMember,
		},
		{
			name:           "Unknown Role",
			body:           `{"user_id":"` + newMemberID.String() + `","role":"admin"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Already A Member",
			body:           `{"user_id":"` + newMemberID.String() + `"}`,
			serviceError:   store.ErrMemberExists,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "Not The Owner",
			body:           `{"user_id":"` + newMemberID.String() + `"}`,
			serviceError:   service.ErrNotOwned,
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			members := &mockMemberService{
				addFn: func(ctx context.Context, pid, uid uuid.UUID, role domain.MemberRole, user *domain.User) (*domain.ProjectMember, error) {
					if tc.serviceError != nil {
						return nil, tc.serviceError
					}
					if role == "" {
						role = domain.MemberRoleMember
					}
					assert.Equal(t, tc.expectedRole, role)
					return &domain.ProjectMember{
						ID:        uuid.New(),
						ProjectID: pid,
						UserID:    uid,
						Role:      role,
					}, nil
				},
			}

			handler := NewMemberHandler(members, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("POST", "/api/projects/"+projectID.String()+"/members",
				bytes.NewBufferString(tc.body), ownerID, map[string]string{"id": projectID.String()})
			rr := httptest.NewRecorder()

			handler.AddMember(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestListMembers(t *testing.T) {
	ownerID := uuid.New()
	actingUser := &domain.User{ID: ownerID, IsActive: true}
	projectID := uuid.New()

	members := &mockMemberService{
		listFn: func(ctx context.Context, pid uuid.UUID, user *domain.User) ([]*domain.ProjectMember, error) {
			return []*domain.ProjectMember{
				{ID: uuid.New(), ProjectID: pid, UserID: ownerID, Role: domain.MemberRoleOwner},
				{ID: uuid.New(), ProjectID: pid, UserID: uuid.New(), Role: domain.MemberRoleMember},
			}, nil
		},
	}

	handler := NewMemberHandler(members, userServiceReturning(actingUser), slog.Default())

	req := authedRequest("GET", "/api/projects/"+projectID.String()+"/members",
		nil, ownerID, map[string]string{"id": projectID.String()})
	rr := httptest.NewRecorder()

	handler.ListMembers(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []MemberResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, string(domain.MemberRoleOwner), resp[0].Role)
}

func TestRemoveMember(t *testing.T) {
	ownerID := uuid.New()
	actingUser := &domain.User{ID: ownerID, IsActive: true}
	projectID := uuid.New()
	memberUserID := uuid.New()

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
			name:           "Not A Member",
			serviceError:   store.ErrMemberNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			members := &mockMemberService{
				removeFn: func(ctx context.Context, pid, uid uuid.UUID, user *domain.User) error {
					assert.Equal(t, projectID, pid)
					assert.Equal(t, memberUserID, uid)
					return tc.serviceError
				},
			}

			handler := NewMemberHandler(members, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("DELETE", "/api/projects/"+projectID.String()+"/members/"+memberUserID.String(),
				nil, ownerID, map[string]string{"id": projectID.String(), "userID": memberUserID.String()})
			rr := httptest.NewRecorder()

			handler.RemoveMember(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}
