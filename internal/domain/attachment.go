package domain

import (
	"errors"
	"path"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TaskAttachment
var (
	ErrEmptyAttachmentID   = errors.New("attachment ID cannot be empty")
	ErrEmptyAttachmentTask = errors.New("attachment task ID cannot be empty")
	ErrEmptyAttachmentFile = errors.New("attachment file name cannot be empty")
)

// TaskAttachment represents a file attached to a task. FileName is the
// object key under which the file is stored, possibly containing a path
// prefix such as "tasks/".
type TaskAttachment struct {
	ID         uuid.UUID `json:"id"`
	TaskID     uuid.UUID `json:"task_id"`
	FileName   string    `json:"file_name"`
	UploadedBy uuid.UUID `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// NewTaskAttachment creates a new TaskAttachment for the given task and
// stored file. Returns an error if validation fails.
func NewTaskAttachment(taskID, uploadedBy uuid.UUID, fileName string) (*TaskAttachment, error) {
	attachment := &TaskAttachment{
		ID:         uuid.New(),
		TaskID:     taskID,
		FileName:   fileName,
		UploadedBy: uploadedBy,
		UploadedAt: time.Now().UTC(),
	}

	if err := attachment.Validate(); err != nil {
		return nil, err
	}

	return attachment, nil
}

// Validate checks if the TaskAttachment has valid data.
// Returns an error if any field fails validation.
func (a *TaskAttachment) Validate() error {
	if a.ID == uuid.Nil {
		return ErrEmptyAttachmentID
	}

	if a.TaskID == uuid.Nil {
		return ErrEmptyAttachmentTask
	}

	if a.FileName == "" {
		return ErrEmptyAttachmentFile
	}

	return nil
}

// BaseName returns the file name with any storage path prefix stripped.
func (a *TaskAttachment) BaseName() string {
	return path.Base(a.FileName)
}
