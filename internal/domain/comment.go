package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for TaskComment
var (
	ErrEmptyCommentID      = errors.New("comment ID cannot be empty")
	ErrEmptyCommentTask    = errors.New("comment task ID cannot be empty")
	ErrEmptyCommentAuthor  = errors.New("comment author cannot be empty")
	ErrEmptyCommentContent = errors.New("comment content cannot be empty")
)

// TaskComment represents a comment left on a task. Comments are soft
// deleted: the row is retained with IsDeleted set and hidden from listings.
type TaskComment struct {
	ID        uuid.UUID `json:"id"`
	TaskID    uuid.UUID `json:"task_id"`
	AuthorID  uuid.UUID `json:"author_id"`
	Content   string    `json:"content"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewTaskComment creates a new TaskComment with the given task, author, and
// content. It generates a new UUID for the comment ID and sets the
// creation/update timestamps. Returns an error if validation fails.
func NewTaskComment(taskID, authorID uuid.UUID, content string) (*TaskComment, error) {
	comment := &TaskComment{
		ID:        uuid.New(),
		TaskID:    taskID,
		AuthorID:  authorID,
		Content:   content,
		IsDeleted: false,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	if err := comment.Validate(); err != nil {
		return nil, err
	}

	return comment, nil
}

// Validate checks if the TaskComment has valid data.
// Returns an error if any field fails validation.
func (c *TaskComment) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCommentID
	}

	if c.TaskID == uuid.Nil {
		return ErrEmptyCommentTask
	}

	if c.AuthorID == uuid.Nil {
		return ErrEmptyCommentAuthor
	}

	if c.Content == "" {
		return ErrEmptyCommentContent
	}

	return nil
}

// MarkDeleted soft-deletes the comment and updates the UpdatedAt timestamp.
// The row is retained so the flag survives later updates.
func (c *TaskComment) MarkDeleted() {
	c.IsDeleted = true
	c.UpdatedAt = time.Now().UTC()
}
