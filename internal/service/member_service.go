package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
)

// MemberService provides project membership operations.
type MemberService interface {
	// AddMember adds a user to a project with the given role. Only the
	// project owner or a staff user may add members; others get ErrNotOwned.
	// Adding an existing member returns store.ErrMemberExists.
	AddMember(ctx context.Context, projectID, userID uuid.UUID, role domain.MemberRole, actingUser *domain.User) (*domain.ProjectMember, error)

	// ListMembers returns the membership rows of a project.
	ListMembers(ctx context.Context, projectID uuid.UUID, actingUser *domain.User) ([]*domain.ProjectMember, error)

	// RemoveMember removes a user from a project. Only the project owner or
	// a staff user may remove members; others get ErrNotOwned.
	RemoveMember(ctx context.Context, projectID, userID uuid.UUID, actingUser *domain.User) error
}

// memberServiceImpl implements the MemberService interface.
type memberServiceImpl struct {
	members  store.MemberStore
	projects store.ProjectStore
	users    store.UserStore
	logger   *slog.Logger
}

// NewMemberService creates a new MemberService.
func NewMemberService(
	members store.MemberStore,
	projects store.ProjectStore,
	users store.UserStore,
	logger *slog.Logger,
) (MemberService, error) {
	if members == nil {
		return nil, domain.NewValidationError("members", "cannot be nil", domain.ErrValidation)
	}
	if projects == nil {
		return nil, domain.NewValidationError("projects", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &memberServiceImpl{
		members:  members,
		projects: projects,
		users:    users,
		logger:   logger.With(slog.String("component", "member_service")),
	}, nil
}

// AddMember implements MemberService.AddMember.
func (s *memberServiceImpl) AddMember(
	ctx context.Context,
	projectID, userID uuid.UUID,
	role domain.MemberRole,
	actingUser *domain.User,
) (*domain.ProjectMember, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	project, err := s.projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.OwnerID != actingUser.ID && !actingUser.IsStaff {
		return nil, ErrNotOwned
	}

	if _, err := s.users.GetByID(ctx, userID); err != nil {
		return nil, err
	}

	member, err := domain.NewProjectMember(projectID, userID, role)
	if err != nil {
		return nil, err
	}

	if err := s.members.Create(ctx, member); err != nil {
		log.Error("failed to add project member",
			slog.String("error", err.Error()),
			slog.String("project_id", projectID.String()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	log.Info("project member added",
		slog.String("project_id", projectID.String()),
		slog.String("user_id", userID.String()),
		slog.String("role", string(role)))
	return member, nil
}

// ListMembers implements MemberService.ListMembers.
func (s *memberServiceImpl) ListMembers(
	ctx context.Context,
	projectID uuid.UUID,
	actingUser *domain.User,
) ([]*domain.ProjectMember, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.members.ListByProject(ctx, projectID)
}

// RemoveMember implements MemberService.RemoveMember.
func (s *memberServiceImpl) RemoveMember(
	ctx context.Context,
	projectID, userID uuid.UUID,
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

	if err := s.members.Delete(ctx, projectID, userID); err != nil {
		return err
	}

	log.Info("project member removed",
		slog.String("project_id", projectID.String()),
		slog.String("user_id", userID.String()))
	return nil
}
