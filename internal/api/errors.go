package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/taskhive/taskhive-api/internal/api/shared"
	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/translate"
	"github.com/taskhive/taskhive-api/internal/service"
	"github.com/taskhive/taskhive-api/internal/service/auth"
	"github.com/taskhive/taskhive-api/internal/store"
)

// genericErrorMessage is what clients see when no safer mapping exists.
const genericErrorMessage = "An unexpected error occurred"

// MapErrorToStatusCode maps internal errors to appropriate HTTP status codes
// based on the error type. This prevents leaking internal error types or
// messages to clients.
func MapErrorToStatusCode(err error) int {
	var validationErr *domain.ValidationError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrNotOwned):
		return http.StatusForbidden

	// Not found errors, generic and entity-specific alike
	case store.IsNotFoundError(err):
		return http.StatusNotFound

	// Conflict errors
	case store.IsDuplicateError(err):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrInvalidTaskStatus),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.As(err, &validationErr),
		isDomainValidationError(err):
		return http.StatusBadRequest

	// Optional subsystems that are not configured
	case errors.Is(err, service.ErrAttachmentsDisabled),
		errors.Is(err, translate.ErrNotConfigured):
		return http.StatusServiceUnavailable

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message based
// on the error type. This prevents leaking sensitive internal details.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return genericErrorMessage
	}

	var validationErr *domain.ValidationError

	switch {
	// Authentication errors
	case errors.Is(err, auth.ErrExpiredToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Invalid refresh token"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Invalid credentials"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Unauthorized"

	// Authorization errors
	case errors.Is(err, service.ErrPermissionDenied):
		return "You do not have permission to perform this action"

	case errors.Is(err, service.ErrNotOwned):
		return "You do not have access to this resource"

	// Not found errors
	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrProjectNotFound):
		return "Project not found"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrCommentNotFound):
		return "Comment not found"

	case errors.Is(err, store.ErrAttachmentNotFound):
		return "Attachment not found"

	case errors.Is(err, store.ErrMemberNotFound):
		return "Project member not found"

	case errors.Is(err, store.ErrNotificationNotFound):
		return "Notification not found"

	case store.IsNotFoundError(err):
		return "Resource not found"

	// Conflict errors
	case errors.Is(err, store.ErrEmailExists):
		return "Email already exists"

	case errors.Is(err, store.ErrMemberExists):
		return "User is already a member of this project"

	// Bad request errors
	case errors.Is(err, service.ErrInvalidTaskStatus):
		return "Invalid task status"

	case errors.As(err, &validationErr),
		errors.Is(err, domain.ErrInvalidEmail),
		isDomainValidationError(err):
		return err.Error()

	case errors.Is(err, store.ErrInvalidEntity):
		return "Invalid entity data"

	// Optional subsystems
	case errors.Is(err, service.ErrAttachmentsDisabled):
		return "Attachment storage is not available"

	case errors.Is(err, translate.ErrNotConfigured):
		return "Translation is not available"

	default:
		return genericErrorMessage
	}
}

// isDomainValidationError reports whether err is one of the per-field domain
// validation sentinels. Their messages are written for end users, so handlers
// may surface them verbatim.
func isDomainValidationError(err error) bool {
	for _, sentinel := range []error{
		domain.ErrEmptyTaskTitle,
		domain.ErrEmptyTaskDueDate,
		domain.ErrInvalidTaskStatus,
		domain.ErrInvalidPriority,
		domain.ErrEmptyProjectName,
		domain.ErrEmptyStartDate,
		domain.ErrInvalidProjectStatus,
		domain.ErrEmptyCommentContent,
		domain.ErrInvalidMemberRole,
		domain.ErrEmptyEmail,
		domain.ErrEmptyFullName,
		domain.ErrEmptyPassword,
		domain.ErrPasswordTooShort,
		domain.ErrPasswordTooLong,
		domain.ErrEmptyAttachmentFile,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

// HandleAPIError maps err to a status code and safe message, then writes the
// response and logs the underlying error. When no specific safe message
// exists for err and defaultMsg is non-empty, defaultMsg is used instead of
// the generic fallback.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMsg string) {
	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if message == genericErrorMessage && defaultMsg != "" {
		message = defaultMsg
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err)
}

// SanitizeValidationError removes sensitive details from validation errors
// and returns a user-friendly message.
func SanitizeValidationError(err error) string {
	errMsg := err.Error()

	// Example format: "Key: 'LoginRequest.Email' Error:Field validation for
	// 'Email' failed on the 'required' tag"
	if strings.Contains(errMsg, "Field validation") {
		parts := strings.Split(errMsg, "Error:")
		if len(parts) >= 2 {
			fieldParts := strings.Split(parts[1], "'")
			if len(fieldParts) >= 3 {
				field := fieldParts[1]
				var tag string
				if len(fieldParts) >= 5 {
					tag = fieldParts[3]
				}

				if tag != "" {
					return fmt.Sprintf("Invalid %s: %s", field, getValidationTagMessage(tag))
				}
				return fmt.Sprintf("Invalid %s", field)
			}
		}
	}

	return "Validation error"
}

// getValidationTagMessage maps validation tags to user-friendly error messages
func getValidationTagMessage(tag string) string {
	switch tag {
	case "required":
		return "required field"
	case "email":
		return "invalid email format"
	case "min":
		return "too short"
	case "max":
		return "too long"
	case "oneof":
		return "invalid value"
	case "uuid":
		return "invalid identifier"
	default:
		return "validation failed"
	}
}
