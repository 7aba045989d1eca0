package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// MemberRole represents a user's role within a project
type MemberRole string

// Possible member role values
const (
	MemberRoleOwner  MemberRole = "owner"
	MemberRoleMember MemberRole = "member"
	MemberRoleViewer MemberRole = "viewer"
)

// Common validation errors for ProjectMember
var (
	ErrEmptyMemberID      = errors.New("member ID cannot be empty")
	ErrEmptyMemberProject = errors.New("member project ID cannot be empty")
	ErrEmptyMemberUser    = errors.New("member user ID cannot be empty")
	ErrInvalidMemberRole  = errors.New("invalid member role")
)

// ProjectMember is the join record granting a user a role within a project.
// At most one membership row may exist per (project, user) pair; the store
// enforces the uniqueness constraint.
type ProjectMember struct {
	ID        uuid.UUID  `json:"id"`
	ProjectID uuid.UUID  `json:"project_id"`
	UserID    uuid.UUID  `json:"user_id"`
	Role      MemberRole `json:"role"`
	JoinedAt  time.Time  `json:"joined_at"`
}

// NewProjectMember creates a new ProjectMember with the given project, user,
// and role. An empty role defaults to member. Returns an error if validation
// fails.
func NewProjectMember(projectID, userID uuid.UUID, role MemberRole) (*ProjectMember, error) {
	if role == "" {
		role = MemberRoleMember
	}

	member := &ProjectMember{
		ID:        uuid.New(),
		ProjectID: projectID,
		UserID:    userID,
		Role:      role,
		JoinedAt:  time.Now().UTC(),
	}

	if err := member.Validate(); err != nil {
		return nil, err
	}

	return member, nil
}

// Validate checks if the ProjectMember has valid data.
// Returns an error if any field fails validation.
func (m *ProjectMember) Validate() error {
	if m.ID == uuid.Nil {
		return ErrEmptyMemberID
	}

	if m.ProjectID == uuid.Nil {
		return ErrEmptyMemberProject
	}

	if m.UserID == uuid.Nil {
		return ErrEmptyMemberUser
	}

	if !isValidMemberRole(m.Role) {
		return ErrInvalidMemberRole
	}

	return nil
}

// isValidMemberRole checks if the given role is a valid MemberRole.
func isValidMemberRole(role MemberRole) bool {
	switch role {
	case MemberRoleOwner, MemberRoleMember, MemberRoleViewer:
		return true
	default:
		return false
	}
}
