package task

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/domain"
	"github.com/taskhive/taskhive-api/internal/platform/mail"
)

// ErrNilUserLister indicates a missing active-user source.
var ErrNilUserLister = errors.New("user lister cannot be nil")

// ActiveUserLister provides the recipients for the daily summary.
type ActiveUserLister interface {
	ListActive(ctx context.Context) ([]*domain.User, error)
}

// dailySummaryPayload represents the serialized data stored in the job.
// The job carries no parameters; the payload records when it was scheduled.
type dailySummaryPayload struct {
	ScheduledFor time.Time `json:"scheduled_for"`
}

// DailySummaryJob implements the Job interface for the recurring summary
// email. Every active user gets one message; a failed send is logged and
// skipped so one bad address never blocks the rest. The job only fails when
// no recipient could be reached at all.
type DailySummaryJob struct {
	id           uuid.UUID
	scheduledFor time.Time
	users        ActiveUserLister
	mailer       mail.Mailer
	logger       *slog.Logger
	status       JobStatus
}

// NewDailySummaryJob creates a new daily summary job
func NewDailySummaryJob(
	users ActiveUserLister,
	mailer mail.Mailer,
	logger *slog.Logger,
) (*DailySummaryJob, error) {
	if users == nil {
		return nil, ErrNilUserLister
	}
	if mailer == nil {
		return nil, ErrNilMailer
	}
	if logger == nil {
		return nil, ErrNilLogger
	}

	return &DailySummaryJob{
		id:           uuid.New(),
		scheduledFor: time.Now().UTC(),
		users:        users,
		mailer:       mailer,
		logger:       logger.With("job_type", JobTypeDailySummary),
		status:       JobStatusPending,
	}, nil
}

// ID returns the job's unique identifier
func (j *DailySummaryJob) ID() uuid.UUID {
	return j.id
}

// Type returns the job type identifier
func (j *DailySummaryJob) Type() string {
	return JobTypeDailySummary
}

// Payload returns the job data as a byte slice
func (j *DailySummaryJob) Payload() []byte {
	data, err := json.Marshal(dailySummaryPayload{ScheduledFor: j.scheduledFor})
	if err != nil {
		j.logger.Error("failed to marshal job payload", "error", err)
		return nil
	}
	return data
}

// Status returns the current job status
func (j *DailySummaryJob) Status() JobStatus {
	return j.status
}

// Execute sends the summary email to every active user.
func (j *DailySummaryJob) Execute(ctx context.Context) error {
	users, err := j.users.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active users: %w", err)
	}

	if len(users) == 0 {
		j.logger.Info("no active users for daily summary")
		return nil
	}

	var sent, failed int
	for _, user := range users {
		msg := mail.Message{
			From:    mail.DailySummarySender,
			To:      []string{user.Email},
			Subject: "Daily Summary",
			Body:    "Here is your daily summary of tasks.",
		}

		if err := j.mailer.Send(ctx, msg); err != nil {
			failed++
			j.logger.Warn("failed to send daily summary to user",
				"user_id", user.ID,
				"error", err)
			continue
		}
		sent++
	}

	j.logger.Info("daily summary finished",
		"sent", sent,
		"failed", failed)

	if sent == 0 {
		return fmt.Errorf("daily summary failed for all %d recipients", failed)
	}
	return nil
}
