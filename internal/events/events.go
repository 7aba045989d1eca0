package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
)

// TaskChangeEvent represents a committed task write. For updates, Prev holds
// the fields captured before the write under the same transaction, so
// observers can diff old and new state without re-reading the row. On
// creation Prev is nil and Created is set.
type TaskChangeEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID

	// Task is the task as written
	Task *domain.Task

	// Prev holds the task's status and assignee before the write.
	// Nil when Created is true.
	Prev *domain.TaskPreImage

	// Created indicates the write inserted a new task
	Created bool

	// OccurredAt is the timestamp when the event was created
	OccurredAt time.Time
}

// NewTaskCreatedEvent builds the event for a freshly inserted task.
func NewTaskCreatedEvent(task *domain.Task) *TaskChangeEvent {
	return &TaskChangeEvent{
		ID:         uuid.New(),
		Task:       task,
		Created:    true,
		OccurredAt: time.Now(),
	}
}

// NewTaskUpdatedEvent builds the event for an updated task, carrying the
// state captured before the write.
func NewTaskUpdatedEvent(task *domain.Task, prev *domain.TaskPreImage) *TaskChangeEvent {
	return &TaskChangeEvent{
		ID:         uuid.New(),
		Task:       task,
		Prev:       prev,
		OccurredAt: time.Now(),
	}
}

// CommentCreatedEvent represents a committed comment insert. Task is the
// comment's parent, loaded so observers can name it without another read.
type CommentCreatedEvent struct {
	ID         uuid.UUID
	Task       *domain.Task
	Comment    *domain.TaskComment
	OccurredAt time.Time
}

// NewCommentCreatedEvent builds the event for a freshly inserted comment.
func NewCommentCreatedEvent(task *domain.Task, comment *domain.TaskComment) *CommentCreatedEvent {
	return &CommentCreatedEvent{
		ID:         uuid.New(),
		Task:       task,
		Comment:    comment,
		OccurredAt: time.Now(),
	}
}

// AttachmentCreatedEvent represents a committed attachment insert.
type AttachmentCreatedEvent struct {
	ID         uuid.UUID
	Task       *domain.Task
	Attachment *domain.TaskAttachment
	OccurredAt time.Time
}

// NewAttachmentCreatedEvent builds the event for a freshly inserted
// attachment.
func NewAttachmentCreatedEvent(task *domain.Task, attachment *domain.TaskAttachment) *AttachmentCreatedEvent {
	return &AttachmentCreatedEvent{
		ID:         uuid.New(),
		Task:       task,
		Attachment: attachment,
		OccurredAt: time.Now(),
	}
}

// TaskObserver defines an interface for components reacting to task writes.
type TaskObserver interface {
	// HandleTaskChange processes the given event within the provided context.
	// Returns an error if the event cannot be handled successfully.
	HandleTaskChange(ctx context.Context, event *TaskChangeEvent) error
}

// CommentObserver defines an interface for components reacting to new
// comments.
type CommentObserver interface {
	HandleCommentCreated(ctx context.Context, event *CommentCreatedEvent) error
}

// AttachmentObserver defines an interface for components reacting to new
// attachments.
type AttachmentObserver interface {
	HandleAttachmentCreated(ctx context.Context, event *AttachmentCreatedEvent) error
}

// Emitter defines an interface for components that can emit events.
// This allows services to publish events without direct knowledge of
// observers.
type Emitter interface {
	// EmitTaskChange publishes the given event to all registered task
	// observers. Returns an error if any observer fails.
	EmitTaskChange(ctx context.Context, event *TaskChangeEvent) error

	// EmitCommentCreated publishes the given event to all registered comment
	// observers.
	EmitCommentCreated(ctx context.Context, event *CommentCreatedEvent) error

	// EmitAttachmentCreated publishes the given event to all registered
	// attachment observers.
	EmitAttachmentCreated(ctx context.Context, event *AttachmentCreatedEvent) error
}
