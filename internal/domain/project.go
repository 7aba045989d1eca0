package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ProjectStatus represents the lifecycle state of a project
type ProjectStatus string

// Possible project status values
const (
	ProjectStatusPlanned    ProjectStatus = "planned"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
)

// Common validation errors for Project
var (
	ErrEmptyProjectID       = errors.New("project ID cannot be empty")
	ErrEmptyProjectName     = errors.New("project name cannot be empty")
	ErrEmptyProjectOwner    = errors.New("project owner cannot be empty")
	ErrInvalidProjectStatus = errors.New("invalid project status")
	ErrEmptyStartDate       = errors.New("project start date cannot be empty")
)

// Project groups related tasks and members under a single owner.
// The owner is set at creation and never changes through core logic.
type Project struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	OwnerID     uuid.UUID     `json:"owner_id"`
	Status      ProjectStatus `json:"status"`
	StartDate   time.Time     `json:"start_date"`
	EndDate     *time.Time    `json:"end_date,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// NewProject creates a new Project owned by the given user, with status
// planned. It generates a new UUID for the project ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewProject(ownerID uuid.UUID, name, description string, startDate time.Time) (*Project, error) {
	project := &Project{
		ID:          uuid.New(),
		Name:        name,
		Description: description,
		OwnerID:     ownerID,
		Status:      ProjectStatusPlanned,
		StartDate:   startDate,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := project.Validate(); err != nil {
		return nil, err
	}

	return project, nil
}

// Validate checks if the Project has valid data.
// Returns an error if any field fails validation.
func (p *Project) Validate() error {
	if p.ID == uuid.Nil {
		return ErrEmptyProjectID
	}

	if p.Name == "" {
		return ErrEmptyProjectName
	}

	if p.OwnerID == uuid.Nil {
		return ErrEmptyProjectOwner
	}

	if !isValidProjectStatus(p.Status) {
		return ErrInvalidProjectStatus
	}

	if p.StartDate.IsZero() {
		return ErrEmptyStartDate
	}

	return nil
}

// UpdateStatus updates the project's status and the UpdatedAt timestamp.
// Returns an error if the new status is invalid.
func (p *Project) UpdateStatus(status ProjectStatus) error {
	if !isValidProjectStatus(status) {
		return ErrInvalidProjectStatus
	}

	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidProjectStatus checks if the given status is a valid ProjectStatus.
func isValidProjectStatus(status ProjectStatus) bool {
	switch status {
	case ProjectStatusPlanned, ProjectStatusInProgress,
		ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	default:
		return false
	}
}
