package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/store"
)

// mockProjectService is a mock implementation of the ProjectService interface
type mockProjectService struct {
	createFn func(ctx context.Context, input service.CreateProjectInput, actingUser *domain.User) (*domain.Project, error)
	getFn    func(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) (*domain.Project, error)
	listFn   func(ctx context.Context, actingUser *domain.User) ([]*domain.Project, error)
	updateFn func(ctx context.Context, projectID uuid.UUID, changes service.UpdateProjectInput, actingUser *domain.User) (*domain.Project, error)
	deleteFn func(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) error
}

func (m *mockProjectService) CreateProject(ctx context.Context, input service.CreateProjectInput, actingUser *domain.User) (*domain.Project, error) {
	return m.createFn(ctx, input, actingUser)
}

func (m *mockProjectService) GetProject(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) (*domain.Project, error) {
	return m.getFn(ctx, projectID, actingUser)
}

func (m *mockProjectService) ListProjects(ctx context.Context, actingUser *domain.User) ([]*domain.Project, error) {
	return m.listFn(ctx, actingUser)
}

func (m *mockProjectService) UpdateProject(ctx context.Context, projectID uuid.UUID, changes service.UpdateProjectInput, actingUser *domain.User) (*domain.Project, error) {
	return m.updateFn(ctx, projectID, changes, actingUser)
}

func (m *mockProjectService) DeleteProject(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) error {
	return m.deleteFn(ctx, projectID, actingUser)
}

// userServiceReturning builds a UserService mock that resolves any context
// user ID to the given user.
func userServiceReturning(user *domain.User) *mockUserService {
	return &mockUserService{
		getUserFn: func(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
			return user, nil
		},
	}
}

// authedRequest builds a request carrying the given user ID in its context,
// plus any chi URL parameters.
func authedRequest(method, target string, body *bytes.Buffer, userID uuid.UUID, params map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, body)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}

	ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)

	if len(params) > 0 {
		rctx := chi.NewRouteContext()
		for k, v := range params {
			rctx.URLParams.Add(k, v)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)
	}

	return req.WithContext(ctx)
}

func TestCreateProject(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, Email: "ada@example.com", IsActive: true}
	projectID := uuid.New()

	tests := []struct {
		name           string
		body           string
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			body:           `{"name":"Website Redesign","description":"Q4 launch","start_date":"2026-09-01T00:00:00Z"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Missing Name",
			body:           `{"start_date":"2026-09-01T00:00:00Z"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Missing Start Date",
			body:           `{"name":"Website Redesign"}`,
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "Service Error",
			body:           `{"name":"Website Redesign","start_date":"2026-09-01T00:00:00Z"}`,
			serviceError:   errors.New("database error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			projects := &mockProjectService{
				createFn: func(ctx context.Context, input service.CreateProjectInput, user *domain.User) (*domain.Project, error) {
					if tc.serviceError != nil {
						return nil, tc.serviceError
					}
					assert.Equal(t, actingUser, user)
					return &domain.Project{
						ID:        projectID,
						Name:      input.Name,
						OwnerID:   user.ID,
						Status:    domain.ProjectStatusPlanned,
						StartDate: input.StartDate,
						CreatedAt: time.Now().UTC(),
						UpdatedAt: time.Now().UTC(),
					}, nil
				},
			}

			handler := NewProjectHandler(projects, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("POST", "/api/projects", bytes.NewBufferString(tc.body), userID, nil)
			rr := httptest.NewRecorder()

			handler.CreateProject(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)

			if tc.expectedStatus == http.StatusCreated {
				var resp ProjectResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				assert.Equal(t, projectID.String(), resp.ID)
				assert.Equal(t, "Website Redesign", resp.Name)
				assert.Equal(t, userID.String(), resp.OwnerID)
				assert.Equal(t, string(domain.ProjectStatusPlanned), resp.Status)
			}
		})
	}
}

func TestGetProject(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	projectID := uuid.New()

	tests := []struct {
		name           string
		paramID        string
		serviceError   error
		expectedStatus int
	}{
		{
			name:           "Success",
			paramID:        projectID.String(),
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Not Found",
			paramID:        projectID.String(),
			serviceError:   store.ErrProjectNotFound,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "Not A Member",
			paramID:        projectID.String(),
			serviceError:   service.ErrNotOwned,
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "Invalid ID",
			paramID:        "not-a-uuid",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			projects := &mockProjectService{
				getFn: func(ctx context.Context, id uuid.UUID, user *domain.User) (*domain.Project, error) {
					if tc.serviceError != nil {
						return nil, tc.serviceError
					}
					return &domain.Project{
						ID:      id,
						Name:    "Website Redesign",
						OwnerID: userID,
						Status:  domain.ProjectStatusInProgress,
					}, nil
				},
			}

			handler := NewProjectHandler(projects, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("GET", "/api/projects/"+tc.paramID, nil, userID, map[string]string{"id": tc.paramID})
			rr := httptest.NewRecorder()

			handler.GetProject(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestListProjects(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}

	projects := &mockProjectService{
		listFn: func(ctx context.Context, user *domain.User) ([]*domain.Project, error) {
			return []*domain.Project{
				{ID: uuid.New(), Name: "First", OwnerID: userID, Status: domain.ProjectStatusInProgress},
				{ID: uuid.New(), Name: "Second", OwnerID: userID, Status: domain.ProjectStatusPlanned},
			}, nil
		},
	}

	handler := NewProjectHandler(projects, userServiceReturning(actingUser), slog.Default())

	req := authedRequest("GET", "/api/projects", nil, userID, nil)
	rr := httptest.NewRecorder()

	handler.ListProjects(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var resp []ProjectResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "First", resp[0].Name)
	assert.Equal(t, "Second", resp[1].Name)
}

func TestUpdateProject(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	projectID := uuid.New()

	t.Run("Status Change", func(t *testing.T) {
		var gotChanges service.UpdateProjectInput

		projects := &mockProjectService{
			updateFn: func(ctx context.Context, id uuid.UUID, changes service.UpdateProjectInput, user *domain.User) (*domain.Project, error) {
				gotChanges = changes
				return &domain.Project{
					ID:      id,
					Name:    "Website Redesign",
					OwnerID: userID,
					Status:  *changes.Status,
				}, nil
			},
		}

		handler := NewProjectHandler(projects, userServiceReturning(actingUser), slog.Default())

		body := bytes.NewBufferString(`{"status":"completed"}`)
		req := authedRequest("PATCH", "/api/projects/"+projectID.String(), body, userID, map[string]string{"id": projectID.String()})
		rr := httptest.NewRecorder()

		handler.UpdateProject(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		require.NotNil(t, gotChanges.Status)
		assert.Equal(t, domain.ProjectStatusCompleted, *gotChanges.Status)
		assert.Nil(t, gotChanges.Name)
	})

	t.Run("Non-Owner Denied", func(t *testing.T) {
		projects := &mockProjectService{
			updateFn: func(ctx context.Context, id uuid.UUID, changes service.UpdateProjectInput, user *domain.User) (*domain.Project, error) {
				return nil, service.ErrNotOwned
			},
		}

		handler := NewProjectHandler(projects, userServiceReturning(actingUser), slog.Default())

		body := bytes.NewBufferString(`{"name":"Renamed"}`)
		req := authedRequest("PATCH", "/api/projects/"+projectID.String(), body, userID, map[string]string{"id": projectID.String()})
		rr := httptest.NewRecorder()

		handler.UpdateProject(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})
}

func TestDeleteProject(t *testing.T) {
	userID := uuid.New()
	actingUser := &domain.User{ID: userID, IsActive: true}
	projectID := uuid.New()

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
			name:           "Not Found",
			serviceError:   store.ErrProjectNotFound,
			expectedStatus: http.StatusNotFound,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			projects := &mockProjectService{
				deleteFn: func(ctx context.Context, id uuid.UUID, user *domain.User) error {
					return tc.serviceError
				},
			}

			handler := NewProjectHandler(projects, userServiceReturning(actingUser), slog.Default())

			req := authedRequest("DELETE", "/api/projects/"+projectID.String(), nil, userID, map[string]string{"id": projectID.String()})
			rr := httptest.NewRecorder()

			handler.DeleteProject(rr, req)

			assert.Equal(t, tc.expectedStatus, rr.Code)
		})
	}
}

func TestMissingUserIDInContext(t *testing.T) {
	projects := &mockProjectService{}
	handler := NewProjectHandler(projects, &mockUserService{}, slog.Default())

	// No user ID in context at all.
	req := httptest.NewRequest("GET", "/api/projects", nil)
	rr := httptest.NewRecorder()

	handler.ListProjects(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
