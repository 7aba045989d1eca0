package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// CreateProjectInput carries the fields for a new project.
type CreateProjectInput struct {
	Name        string
	Description string
	StartDate   time.Time
	EndDate     *time.Time
}

// UpdateProjectInput carries a partial project update. Nil fields are left
// untouched. The owner cannot be changed.
type UpdateProjectInput struct {
	Name        *string
	Description *string
	Status      *domain.ProjectStatus
	StartDate   *time.Time
	EndDate     *time.Time
}

// ProjectService provides project operations.
type ProjectService interface {
	// CreateProject persists a new project owned by the acting user.
	CreateProject(ctx context.Context, input CreateProjectInput, actingUser *domain.User) (*domain.Project, error)

	// GetProject retrieves a project the acting user owns or is a member of.
	// Others get ErrNotOwned.
	GetProject(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) (*domain.Project, error)

	// ListProjects returns the projects the acting user owns or is a member
	// of, newest first.
	ListProjects(ctx context.Context, actingUser *domain.User) ([]*domain.Project, error)

	// UpdateProject applies a partial update. Only the owner or a staff user
	// may update; others get ErrNotOwned.
	UpdateProject(ctx context.Context, projectID uuid.UUID, changes UpdateProjectInput, actingUser *domain.User) (*domain.Project, error)

	// DeleteProject removes a project and its dependent rows. Only the owner
	// or a staff user may delete; others get ErrNotOwned.
	DeleteProject(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) error
}

// projectServiceImpl implements the ProjectService interface.
type projectServiceImpl struct {
	projects store.ProjectStore
	members  store.MemberStore
	logger   *slog.Logger
}

// NewProjectService creates a new ProjectService.
func NewProjectService(
	projects store.ProjectStore,
	members store.MemberStore,
	logger *slog.Logger,
) (ProjectService, error) {
	if projects == nil {
		return nil, domain.NewValidationError("projects", "cannot be nil", domain.ErrValidation)
	}
	if members == nil {
		return nil, domain.NewValidationError("members", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &projectServiceImpl{
		projects: projects,
		members:  members,
		logger:   logger.With(slog.String("component", "project_service")),
	}, nil
}

// CreateProject implements ProjectService.CreateProject.
func (s *projectServiceImpl) CreateProject(
	ctx context.Context,
	input CreateProjectInput,
	actingUser *domain.User,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := domain.NewProject(actingUser.ID, input.Name, input.Description, input.StartDate)
	if err != nil {
		return nil, err
	}
	project.EndDate = input.EndDate

	if err := s.projects.Create(ctx, project); err != nil {
		log.Error("failed to create project",
			slog.String("error", err.Error()),
			slog.String("owner_id", actingUser.ID.String()))
		return nil, err
	}

	log.Info("project created",
		slog.String("project_id", project.ID.String()),
		slog.String("owner_id", project.OwnerID.String()))
	return project, nil
}

// GetProject implements ProjectService.GetProject.
func (s *projectServiceImpl) GetProject(
	ctx context.Context,
	projectID uuid.UUID,
	actingUser *domain.User,
) (*domain.Project, error) {
	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.checkAccess(ctx, project, actingUser); err != nil {
		return nil, err
	}
	return project, nil
}

// ListProjects implements ProjectService.ListProjects.
func (s *projectServiceImpl) ListProjects(ctx context.Context, actingUser *domain.User) ([]*domain.Project, error) {
	return s.projects.ListByMember(ctx, actingUser.ID)
}

// UpdateProject implements ProjectService.UpdateProject.
func (s *projectServiceImpl) UpdateProject(
	ctx context.Context,
	projectID uuid.UUID,
	changes UpdateProjectInput,
	actingUser *domain.User,
) (*domain.Project, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != actingUser.ID && !actingUser.IsStaff {
		return nil, ErrNotOwned
	}

	if changes.Name != nil {
		project.Name = *changes.Name
	}
	if changes.Description != nil {
		project.Description = *changes.Description
	}
	if changes.Status != nil {
		if err := project.UpdateStatus(*changes.Status); err != nil {
			return nil, err
		}
	}
	if changes.StartDate != nil {
		project.StartDate = *changes.StartDate
	}
	if changes.EndDate != nil {
		project.EndDate = changes.EndDate
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}
	if err := s.projects.Update(ctx, project); err != nil {
		log.Error("failed to update project",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()))
		return nil, err
	}

	return project, nil
}

// DeleteProject implements ProjectService.DeleteProject.
func (s *projectServiceImpl) DeleteProject(
	ctx context.Context,
	projectID uuid.UUID,
	actingUser *domain.User,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actingUser.ID && !actingUser.IsStaff {
		return ErrNotOwned
	}

	if err := s.projects.Delete(ctx, projectID); err != nil {
		return err
	}

	log.Info("project deleted",
		slog.String("project_id", projectID.String()),
		slog.String("deleted_by", actingUser.ID.String()))
	return nil
}

// checkAccess allows the owner, any member, and staff users.
func (s *projectServiceImpl) checkAccess(
	ctx context.Context,
	project *domain.Project,
	actingUser *domain.User,
) error {
	if project.OwnerID == actingUser.ID || actingUser.IsStaff {
		return nil
	}

	_, err := s.members.Get(ctx, project.ID, actingUser.ID)
	if err != nil {
		if errors.Is(err, store.ErrMemberNotFound) {
			return ErrNotOwned
		}
		return err
	}
	return nil
}
