package task

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the current state of a job
type JobStatus string

// Possible job status values
const (
	JobStatusPending    JobStatus = "pending"
	JobStatusProcessing JobStatus = "processing"
	JobStatusCompleted  JobStatus = "completed"
	JobStatusFailed     JobStatus = "failed"
)

// Job type constants
const (
	// JobTypeAssignmentEmail represents the job type for sending a task
	// assignment email to a single recipient
	JobTypeAssignmentEmail = "assignment_email"

	// JobTypeDailySummary represents the job type for sending the daily
	// summary email to every active user
	JobTypeDailySummary = "daily_summary"
)

// Job represents a unit of background work to be processed
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Payload returns the job data as a byte slice
	Payload() []byte

	// Status returns the current job status
	Status() JobStatus

	// Execute runs the job logic
	Execute(ctx context.Context) error
}

// JobStore defines the interface for persisting jobs
type JobStore interface {
	// SaveJob persists a job to the database
	SaveJob(ctx context.Context, job Job) error

	// UpdateJobStatus updates the status of a job
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error

	// GetPendingJobs retrieves all jobs with "pending" status
	GetPendingJobs(ctx context.Context) ([]Job, error)

	// GetProcessingJobs retrieves jobs with "processing" status
	// If olderThan is non-zero, only returns jobs that have been in this
	// state longer than the specified duration
	GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Job, error)

	// WithTx returns a new JobStore instance that uses the provided
	// transaction. This allows a job row to be saved atomically with the
	// domain write that requested it.
	WithTx(tx *sql.Tx) JobStore
}

// Hydrator rebuilds executable jobs from persisted rows during recovery.
type Hydrator interface {
	// Hydrate constructs a runnable Job from its stored representation.
	// Returns an error if the job type is unknown or the payload is invalid.
	Hydrate(id uuid.UUID, jobType string, payload []byte, status JobStatus) (Job, error)
}
