package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/platform/mail"
)

// Common errors
var (
	ErrNilMailer         = errors.New("mailer cannot be nil")
	ErrNilLogger         = errors.New("logger cannot be nil")
	ErrEmptyJobTaskID    = errors.New("task ID cannot be empty")
	ErrEmptyRecipient    = errors.New("recipient email cannot be empty")
	ErrUnknownJobType    = errors.New("unknown job type")
	ErrInvalidJobPayload = errors.New("invalid job payload")
)

// assignmentEmailPayload represents the serialized data stored in the job
type assignmentEmailPayload struct {
	TaskID         uuid.UUID `json:"task_id"`
	RecipientEmail string    `json:"recipient_email"`
}

// AssignmentEmailJob implements the Job interface for notifying a user by
// email that a task was assigned to them. Delivery is retried up to
// maxAttempts times with a fixed delay between attempts; the job fails only
// after the final attempt.
type AssignmentEmailJob struct {
	id             uuid.UUID
	taskID         uuid.UUID
	recipientEmail string
	mailer         mail.Mailer
	maxAttempts    int
	retryDelay     time.Duration
	logger         *slog.Logger
	status         JobStatus

	// sleep is swapped out in tests to avoid real delays
	sleep func(ctx context.Context, d time.Duration) error
}

// NewAssignmentEmailJob creates a new assignment email job
func NewAssignmentEmailJob(
	taskID uuid.UUID,
	recipientEmail string,
	mailer mail.Mailer,
	maxAttempts int,
	retryDelay time.Duration,
	logger *slog.Logger,
) (*AssignmentEmailJob, error) {
	if mailer == nil {
		return nil, ErrNilMailer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}
	if taskID == uuid.Nil {
		return nil, ErrEmptyJobTaskID
	}
	if recipientEmail == "" {
		return nil, ErrEmptyRecipient
	}
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if retryDelay <= 0 {
		retryDelay = 5 * time.Second
	}

	return &AssignmentEmailJob{
		id:             uuid.New(),
		taskID:         taskID,
		recipientEmail: recipientEmail,
		mailer:         mailer,
		maxAttempts:    maxAttempts,
		retryDelay:     retryDelay,
		logger:         logger.With("job_type", JobTypeAssignmentEmail, "task_id", taskID),
		status:         JobStatusPending,
		sleep:          sleepCtx,
	}, nil
}

// ID returns the job's unique identifier
func (j *AssignmentEmailJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *AssignmentEmailJob) Type() string {
	return JobTypeAssignmentEmail
}

// Payload returns the job data as a byte slice
func (j *AssignmentEmailJob) Payload() []byte {
	payload := assignmentEmailPayload{
		TaskID:         j.taskID,
		RecipientEmail: j.recipientEmail,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		j.logger.Error("failed to marshal job payload", "error", err)
		return nil
	}
	return data
}

// Status returns the current job status
func (j *AssignmentEmailJob) Status() JobStatus {
	return j.status
}

// Execute sends the assignment email, retrying transient failures.
func (j *AssignmentEmailJob) Execute(ctx context.Context) error {
	msg := mail.Message{
		From:    mail.AssignmentSender,
		To:      []string{j.recipientEmail},
		Subject: "New Task Assigned",
		Body:    fmt.Sprintf("You have been assigned to task ID %s", j.taskID),
	}

	var lastErr error
	for attempt := 1; attempt <= j.maxAttempts; attempt++ {
		lastErr = j.mailer.Send(ctx, msg)
		if lastErr == nil {
			j.logger.Info("assignment email sent", "attempt", attempt)
			return nil
		}

		j.logger.Warn("assignment email attempt failed",
			"attempt", attempt,
			"max_attempts", j.maxAttempts,
			"error", lastErr)

		if attempt < j.maxAttempts {
			if err := j.sleep(ctx, j.retryDelay); err != nil {
				return err
			}
		}
	}

	return fmt.Errorf("assignment email failed after %d attempts: %w", j.maxAttempts, lastErr)
}

// sleepCtx waits for the duration or until the context is cancelled.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
