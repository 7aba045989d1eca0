package service

import (
	"context"
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/events"
	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
	"github.com/taskhive/taskhive-api/internal/task"
)

// JobSubmitter enqueues background jobs for asynchronous processing.
type JobSubmitter interface {
	// Submit persists the job and queues it for execution.
	Submit(ctx context.Context, job task.Job) error
}

// AssignmentEmailFactory builds assignment email jobs for the queue.
type AssignmentEmailFactory interface {
	// CreateAssignmentEmailJob returns a job that emails the recipient about
	// their assignment to the given task.
	CreateAssignmentEmailJob(taskID uuid.UUID, recipientEmail string) (task.Job, error)
}

// CreateTaskInput carries the fields for a new task. AssignedTo may be nil,
// in which case the task is assigned to the acting user.
type CreateTaskInput struct {
	ProjectID   uuid.UUID
	Title       string
	Description string
	Priority    domain.TaskPriority
	AssignedTo  *uuid.UUID
	DueDate     time.Time
}

// UpdateTaskInput carries a partial task update. Nil fields are left
// untouched. A non-nil AssignedTo is a reassignment and requires staff
// privileges.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *domain.TaskStatus
	Priority    *domain.TaskPriority
	AssignedTo  *uuid.UUID
	DueDate     *time.Time
}

// TaskService provides task lifecycle operations.
type TaskService interface {
	// CreateTask validates and persists a new task. The assignee defaults to
	// the acting user. After the row is committed, observers are notified and
	// an assignment email is queued for the assignee; both side effects are
	// best-effort and never fail the create.
	CreateTask(ctx context.Context, input CreateTaskInput, actingUser *domain.User) (*domain.Task, error)

	// UpdateTask applies a partial update to an existing task. Status values
	// outside the known set are rejected with ErrInvalidTaskStatus and
	// reassignment by a non-staff user with ErrPermissionDenied, in both
	// cases before any mutation. The prior status and assignee are captured
	// under a row lock in the same transaction as the write, and handed to
	// observers after commit.
	UpdateTask(ctx context.Context, taskID uuid.UUID, changes UpdateTaskInput, actingUser *domain.User) (*domain.Task, error)

	// GetTask retrieves a task by ID.
	GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error)

	// ListProjectTasks returns the tasks of a project, newest first.
	ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error)

	// ListAssignedTasks returns the tasks assigned to the acting user.
	ListAssignedTasks(ctx context.Context, actingUser *domain.User) ([]*domain.Task, error)

	// DeleteTask removes a task. Only the project owner or a staff user may
	// delete; others get ErrNotOwned.
	DeleteTask(ctx context.Context, taskID uuid.UUID, actingUser *domain.User) error
}

// taskServiceImpl implements the TaskService interface.
type taskServiceImpl struct {
	db       *sql.DB
	tasks    store.TaskStore
	projects store.ProjectStore
	users    store.UserStore
	emitter  events.Emitter
	jobs     JobSubmitter
	emails   AssignmentEmailFactory
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil. The job
// submitter and email factory may be nil together, which disables assignment
// emails.
func NewTaskService(
	db *sql.DB,
	tasks store.TaskStore,
	projects store.ProjectStore,
	users store.UserStore,
	emitter events.Emitter,
	jobs JobSubmitter,
	emails AssignmentEmailFactory,
	logger *slog.Logger,
) (TaskService, error) {
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if tasks == nil {
		return nil, domain.NewValidationError("tasks", "cannot be nil", domain.ErrValidation)
	}
	if projects == nil {
		return nil, domain.NewValidationError("projects", "cannot be nil", domain.ErrValidation)
	}
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if emitter == nil {
		return nil, domain.NewValidationError("emitter", "cannot be nil", domain.ErrValidation)
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		db:       db,
		tasks:    tasks,
		projects: projects,
		users:    users,
		emitter:  emitter,
		jobs:     jobs,
		emails:   emails,
		logger:   logger.With(slog.String("component", "task_service")),
	}, nil
}

// CreateTask implements TaskService.CreateTask.
func (s *taskServiceImpl) CreateTask(
	ctx context.Context,
	input CreateTaskInput,
	actingUser *domain.User,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if _, err := s.projects.GetByID(ctx, input.ProjectID); err != nil {
		if store.IsNotFoundError(err) {
			return nil, NewServiceError("create_task", "project not found", store.ErrProjectNotFound)
		}
		log.Error("failed to look up project for task creation",
			slog.String("error", err.Error()),
			slog.String("project_id", input.ProjectID.String()))
		return nil, ErrTaskCreateFailed
	}

	assignee := input.AssignedTo
	if assignee == nil {
		// Unassigned tasks default to their creator.
		assignee = &actingUser.ID
	}

	newTask, err := domain.NewTask(
		input.ProjectID,
		actingUser.ID,
		input.Title,
		input.Description,
		input.Priority,
		assignee,
		input.DueDate,
	)
	if err != nil {
		return nil, err
	}

	err = store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		return s.tasks.WithTx(tx).Create(ctx, newTask)
	})
	if err != nil {
		log.Error("failed to persist task",
			slog.String("error", err.Error()),
			slog.String("task_id", newTask.ID.String()),
			slog.String("project_id", newTask.ProjectID.String()))
		return nil, ErrTaskCreateFailed
	}

	log.Info("task created",
		slog.String("task_id", newTask.ID.String()),
		slog.String("project_id", newTask.ProjectID.String()))

	// Side effects run after commit and never fail the create.
	if err := s.emitter.EmitTaskChange(ctx, events.NewTaskCreatedEvent(newTask)); err != nil {
		log.Warn("task creation observers failed",
			slog.String("error", err.Error()),
			slog.String("task_id", newTask.ID.String()))
	}
	if newTask.AssignedTo != nil {
		s.enqueueAssignmentEmail(ctx, newTask.ID, *newTask.AssignedTo)
	}

	return newTask, nil
}

// UpdateTask implements TaskService.UpdateTask.
func (s *taskServiceImpl) UpdateTask(
	ctx context.Context,
	taskID uuid.UUID,
	changes UpdateTaskInput,
	actingUser *domain.User,
) (*domain.Task, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Both guards run before any mutation.
	if changes.Status != nil && !domain.IsValidTaskStatus(*changes.Status) {
		return nil, ErrInvalidTaskStatus
	}
	if changes.AssignedTo != nil && !actingUser.IsStaff {
		return nil, ErrPermissionDenied
	}

	var (
		updated *domain.Task
		prev    domain.TaskPreImage
	)

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		txTasks := s.tasks.WithTx(tx)

		current, err := txTasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		prev = current.PreImage()

		if changes.Title != nil {
			current.Title = *changes.Title
		}
		if changes.Description != nil {
			current.Description = *changes.Description
		}
		if changes.Status != nil {
			current.Status = *changes.Status
		}
		if changes.Priority != nil {
			current.Priority = *changes.Priority
		}
		if changes.AssignedTo != nil {
			assignee := *changes.AssignedTo
			current.AssignedTo = &assignee
		}
		if changes.DueDate != nil {
			current.DueDate = *changes.DueDate
		}

		if err := current.Validate(); err != nil {
			return err
		}
		if err := txTasks.Update(ctx, current); err != nil {
			return err
		}

		updated = current
		return nil
	})
	if err != nil {
		if store.IsNotFoundError(err) {
			return nil, err
		}
		log.Error("failed to update task",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return nil, err
	}

	// The pre-image travels with the event; observers decide what changed.
	if err := s.emitter.EmitTaskChange(ctx, events.NewTaskUpdatedEvent(updated, &prev)); err != nil {
		log.Warn("task update observers failed",
			slog.String("error", err.Error()),
			slog.String("task_id", updated.ID.String()))
	}
	if updated.AssignedTo != nil && updated.AssigneeID() != prev.AssignedTo {
		s.enqueueAssignmentEmail(ctx, updated.ID, *updated.AssignedTo)
	}

	return updated, nil
}

// enqueueAssignmentEmail queues an assignment email for the given assignee.
// Failures are logged and swallowed; the triggering write already committed.
func (s *taskServiceImpl) enqueueAssignmentEmail(ctx context.Context, taskID, assigneeID uuid.UUID) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if s.jobs == nil || s.emails == nil {
		log.Debug("assignment emails disabled, skipping",
			slog.String("task_id", taskID.String()))
		return
	}

	assignee, err := s.users.GetByID(ctx, assigneeID)
	if err != nil {
		log.Warn("failed to resolve assignee for assignment email",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()),
			slog.String("assignee_id", assigneeID.String()))
		return
	}

	job, err := s.emails.CreateAssignmentEmailJob(taskID, assignee.Email)
	if err != nil {
		log.Warn("failed to build assignment email job",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return
	}

	if err := s.jobs.Submit(ctx, job); err != nil {
		log.Warn("failed to enqueue assignment email job",
			slog.String("error", err.Error()),
			slog.String("task_id", taskID.String()))
		return
	}

	log.Debug("assignment email queued",
		slog.String("task_id", taskID.String()),
		slog.String("assignee_id", assigneeID.String()))
}

// GetTask implements TaskService.GetTask.
func (s *taskServiceImpl) GetTask(ctx context.Context, taskID uuid.UUID) (*domain.Task, error) {
	return s.tasks.GetByID(ctx, taskID)
}

// ListProjectTasks implements TaskService.ListProjectTasks.
func (s *taskServiceImpl) ListProjectTasks(ctx context.Context, projectID uuid.UUID) ([]*domain.Task, error) {
	if _, err := s.projects.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.tasks.ListByProject(ctx, projectID)
}

// ListAssignedTasks implements TaskService.ListAssignedTasks.
func (s *taskServiceImpl) ListAssignedTasks(ctx context.Context, actingUser *domain.User) ([]*domain.Task, error) {
	return s.tasks.ListByAssignee(ctx, actingUser.ID)
}

// DeleteTask implements TaskService.DeleteTask.
func (s *taskServiceImpl) DeleteTask(ctx context.Context, taskID uuid.UUID, actingUser *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	t, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return err
	}

	project, err := s.projects.GetByID(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if project.OwnerID != actingUser.ID && !actingUser.IsStaff {
		return ErrNotOwned
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	log.Info("task deleted",
		slog.String("task_id", taskID.String()),
		slog.String("deleted_by", actingUser.ID.String()))
	return nil
}
