package api

import (
	"time"

	"github.com/google/uuid"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"     validate:"required,email"`
	FullName string `json:"full_name" validate:"required"`
	Password string `json:"password"  validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be exchanged for a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token refresh endpoint.
type RefreshTokenResponse struct {
	// AccessToken is the new JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the new JWT token used to obtain future access tokens
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the ISO 8601 timestamp when the access token expires
	ExpiresAt string `json:"expires_at"`
}

// CreateProjectRequest defines the payload for creating a project.
type CreateProjectRequest struct {
	Name        string     `json:"name"        validate:"required"`
	Description string     `json:"description"`
	StartDate   time.Time  `json:"start_date"  validate:"required"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// UpdateProjectRequest defines the payload for a partial project update.
// Absent fields are left unchanged.
type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	StartDate   *time.Time `json:"start_date,omitempty"`
	EndDate     *time.Time `json:"end_date,omitempty"`
}

// CreateTaskRequest defines the payload for creating a task.
type CreateTaskRequest struct {
	ProjectID   uuid.UUID  `json:"project_id"  validate:"required"`
	Title       string     `json:"title"       validate:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"    validate:"omitempty,oneof=low medium high"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate     time.Time  `json:"due_date"    validate:"required"`
}

// UpdateTaskRequest defines the payload for a partial task update. Absent
// fields are left unchanged. Status values are checked by the task service so
// unknown values are rejected before anything is written.
type UpdateTaskRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty" validate:"omitempty,oneof=low medium high"`
	AssignedTo  *uuid.UUID `json:"assigned_to,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
}

// CreateCommentRequest defines the payload for commenting on a task.
type CreateCommentRequest struct {
	Content string `json:"content" validate:"required"`
}

// AddMemberRequest defines the payload for adding a project member.
type AddMemberRequest struct {
	UserID uuid.UUID `json:"user_id" validate:"required"`
	Role   string    `json:"role"    validate:"omitempty,oneof=owner member viewer"`
}

// MarkAllReadResponse reports how many notifications were marked read.
type MarkAllReadResponse struct {
	Updated int64 `json:"updated"`
}
