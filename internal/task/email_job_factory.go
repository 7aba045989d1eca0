package task

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/platform/mail"
)

// EmailJobFactory creates and rehydrates email jobs
type EmailJobFactory struct {
	mailer      mail.Mailer
	users       ActiveUserLister
	maxAttempts int
	retryDelay  time.Duration
	logger      *slog.Logger
}

// NewEmailJobFactory creates a new factory for email jobs
func NewEmailJobFactory(
	mailer mail.Mailer,
	users ActiveUserLister,
	maxAttempts int,
	retryDelay time.Duration,
	logger *slog.Logger,
) *EmailJobFactory {
	return &EmailJobFactory{
		mailer:      mailer,
		users:       users,
		maxAttempts: maxAttempts,
		retryDelay:  retryDelay,
		logger:      logger.With("component", "email_job_factory"),
	}
}

// CreateAssignmentEmailJob creates a new AssignmentEmailJob for the given
// task and recipient
func (f *EmailJobFactory) CreateAssignmentEmailJob(taskID uuid.UUID, recipientEmail string) (Job, error) {
	return NewAssignmentEmailJob(
		taskID,
		recipientEmail,
		f.mailer,
		f.maxAttempts,
		f.retryDelay,
		f.logger,
	)
}

// CreateDailySummaryJob creates a new DailySummaryJob
func (f *EmailJobFactory) CreateDailySummaryJob() (Job, error) {
	return NewDailySummaryJob(f.users, f.mailer, f.logger)
}

// Ensure EmailJobFactory implements Hydrator
var _ Hydrator = (*EmailJobFactory)(nil)

// Hydrate implements Hydrator. It rebuilds a runnable job from its stored
// row so recovery can requeue work that was interrupted by a restart.
func (f *EmailJobFactory) Hydrate(id uuid.UUID, jobType string, payload []byte, status JobStatus) (Job, error) {
	switch jobType {
	case JobTypeAssignmentEmail:
		var p assignmentEmailPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidJobPayload, err)
		}

		job, err := NewAssignmentEmailJob(
			p.TaskID,
			p.RecipientEmail,
			f.mailer,
			f.maxAttempts,
			f.retryDelay,
			f.logger,
		)
		if err != nil {
			return nil, err
		}
		job.id = id
		job.status = status
		return job, nil

	case JobTypeDailySummary:
		job, err := NewDailySummaryJob(f.users, f.mailer, f.logger)
		if err != nil {
			return nil, err
		}
		job.id = id
		job.status = status
		return job, nil

	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownJobType, jobType)
	}
}
