// Package api provides HTTP handlers for the API.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/service"
)

// ProjectResponse represents the response data for a project
type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	OwnerID     string     `json:"owner_id"`
	Status      string     `json:"status"`
	StartDate   time.Time  `json:"start_date"`
	EndDate     *time.Time `json:"end_date,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ProjectHandler handles project-related HTTP requests
type ProjectHandler struct {
	projects service.ProjectService
	users    service.UserService
	logger   *slog.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(
	projects service.ProjectService,
	users service.UserService,
	logger *slog.Logger,
) *ProjectHandler {
	if logger == nil {
		// ALLOW-PANIC: Constructor enforcing required dependency
		panic("logger cannot be nil for ProjectHandler")
	}

	return &ProjectHandler{
		projects: projects,
		users:    users,
		logger:   logger.With(slog.String("component", "project_handler")),
	}
}

// CreateProject handles POST /projects requests
func (h *ProjectHandler) CreateProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	var req CreateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, SanitizeValidationError(err), err)
		return
	}

	project, err := h.projects.CreateProject(r.Context(), service.CreateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}, user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create project")
		return
	}

	log.Debug("project created",
		slog.String("project_id", project.ID.String()),
		slog.String("owner_id", user.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, projectToResponse(project))
}

// GetProject handles GET /projects/{id} requests
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projectID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	project, err := h.projects.GetProject(r.Context(), projectID, user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to get project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// ListProjects handles GET /projects requests. It returns the projects the
// authenticated user owns or is a member of.
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projects, err := h.projects.ListProjects(r.Context(), user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list projects")
		return
	}

	responses := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, projectToResponse(p))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// UpdateProject handles PATCH /projects/{id} requests
func (h *ProjectHandler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projectID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	var req UpdateProjectRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	changes := service.UpdateProjectInput{
		Name:        req.Name,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	}
	if req.Status != nil {
		status := domain.ProjectStatus(*req.Status)
		changes.Status = &status
	}

	project, err := h.projects.UpdateProject(r.Context(), projectID, changes, user)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update project")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, projectToResponse(project))
}

// DeleteProject handles DELETE /projects/{id} requests
func (h *ProjectHandler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	user, ok := requireUser(w, r, h.users)
	if !ok {
		return
	}

	projectID, err := getPathUUID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.projects.DeleteProject(r.Context(), projectID, user); err != nil {
		HandleAPIError(w, r, err, "Failed to delete project")
		return
	}

	log.Debug("project deleted",
		slog.String("project_id", projectID.String()),
		slog.String("user_id", user.ID.String()))
	w.WriteHeader(http.StatusNoContent)
}

// projectToResponse converts a domain.Project to a ProjectResponse
func projectToResponse(project *domain.Project) ProjectResponse {
	return ProjectResponse{
		ID:          project.ID.String(),
		Name:        project.Name,
		Description: project.Description,
		OwnerID:     project.OwnerID.String(),
		Status:      string(project.Status),
		StartDate:   project.StartDate,
		EndDate:     project.EndDate,
		CreatedAt:   project.CreatedAt,
		UpdatedAt:   project.UpdatedAt,
	}
}
