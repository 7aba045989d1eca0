package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TaskStatus represents the workflow state of a task
type TaskStatus string

// Possible task status values
const (
	TaskStatusTodo       TaskStatus = "todo"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusCompleted  TaskStatus = "completed"
)

// TaskPriority represents the urgency of a task
type TaskPriority string

// Possible task priority values
const (
	TaskPriorityLow    TaskPriority = "low"
	TaskPriorityMedium TaskPriority = "medium"
	TaskPriorityHigh   TaskPriority = "high"
)

// Common validation errors for Task
var (
	ErrEmptyTaskID       = errors.New("task ID cannot be empty")
	ErrEmptyTaskProject  = errors.New("task project ID cannot be empty")
	ErrEmptyTaskTitle    = errors.New("task title cannot be empty")
	ErrEmptyTaskCreator  = errors.New("task creator cannot be empty")
	ErrEmptyTaskDueDate  = errors.New("task due date cannot be empty")
	ErrInvalidTaskStatus = errors.New("invalid task status")
	ErrInvalidPriority   = errors.New("invalid task priority")
)

// Task represents a unit of work under a project. A task always belongs to
// exactly one project; the assignee is optional and nil means "unassigned".
type Task struct {
	ID          uuid.UUID    `json:"id"`
	ProjectID   uuid.UUID    `json:"project_id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      TaskStatus   `json:"status"`
	Priority    TaskPriority `json:"priority"`
	AssignedTo  *uuid.UUID   `json:"assigned_to,omitempty"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	DueDate     time.Time    `json:"due_date"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// NewTask creates a new Task in state todo. It generates a new UUID for the
// task ID and sets the creation/update timestamps. The assignee may be nil.
// Returns an error if validation fails.
func NewTask(
	projectID, createdBy uuid.UUID,
	title, description string,
	priority TaskPriority,
	assignedTo *uuid.UUID,
	dueDate time.Time,
) (*Task, error) {
	if priority == "" {
		priority = TaskPriorityLow
	}

	task := &Task{
		ID:          uuid.New(),
		ProjectID:   projectID,
		Title:       title,
		Description: description,
		Status:      TaskStatusTodo,
		Priority:    priority,
		AssignedTo:  assignedTo,
		CreatedBy:   createdBy,
		DueDate:     dueDate,
		CreatedAt:   time.Now().UTC(),
		UpdatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrEmptyTaskID
	}

	if t.ProjectID == uuid.Nil {
		return ErrEmptyTaskProject
	}

	if t.Title == "" {
		return ErrEmptyTaskTitle
	}

	if t.CreatedBy == uuid.Nil {
		return ErrEmptyTaskCreator
	}

	if t.DueDate.IsZero() {
		return ErrEmptyTaskDueDate
	}

	if !IsValidTaskStatus(t.Status) {
		return ErrInvalidTaskStatus
	}

	if !isValidTaskPriority(t.Priority) {
		return ErrInvalidPriority
	}

	return nil
}

// AssigneeID returns the assignee as a comparable value, with uuid.Nil
// standing in for "unassigned".
func (t *Task) AssigneeID() uuid.UUID {
	if t.AssignedTo == nil {
		return uuid.Nil
	}
	return *t.AssignedTo
}

// TaskPreImage captures the change-relevant fields of a task immediately
// before a write. For a brand-new row both fields are absent: Status is ""
// and AssignedTo is uuid.Nil. The pre-image is captured inside the same
// transaction as the write and handed to change observers alongside the
// post-image, never reconstructed from hidden state.
type TaskPreImage struct {
	Status     TaskStatus
	AssignedTo uuid.UUID
}

// PreImage returns the task's current change-relevant fields as a pre-image.
func (t *Task) PreImage() TaskPreImage {
	return TaskPreImage{
		Status:     t.Status,
		AssignedTo: t.AssigneeID(),
	}
}

// IsValidTaskStatus checks if the given status is a valid TaskStatus.
func IsValidTaskStatus(status TaskStatus) bool {
	switch status {
	case TaskStatusTodo, TaskStatusInProgress, TaskStatusCompleted:
		return true
	default:
		return false
	}
}

// isValidTaskPriority checks if the given priority is a valid TaskPriority.
func isValidTaskPriority(priority TaskPriority) bool {
	switch priority {
	case TaskPriorityLow, TaskPriorityMedium, TaskPriorityHigh:
		return true
	default:
		return false
	}
}
