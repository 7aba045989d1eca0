package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/taskhive/taskhive-api/internal/platform/logger"
	"github.com/taskhive/taskhive-api/internal/store"
	"github.com/taskhive/taskhive-api/internal/task"
)

// PostgresJobStore implements the task.JobStore interface using PostgreSQL.
// A Hydrator rebuilds executable jobs from their stored rows during
// recovery; without one, recovered rows cannot be turned back into work.
type PostgresJobStore struct {
	db       store.DBTX
	hydrator task.Hydrator
	logger   *slog.Logger
}

// NewPostgresJobStore creates a new PostgresJobStore. If logger is nil, a
// default logger will be used.
func NewPostgresJobStore(db store.DBTX, hydrator task.Hydrator, logger *slog.Logger) *PostgresJobStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresJobStore{
		db:       db,
		hydrator: hydrator,
		logger:   logger.With(slog.String("component", "job_store")),
	}
}

// Ensure PostgresJobStore implements task.JobStore interface
var _ task.JobStore = (*PostgresJobStore)(nil)

// SaveJob persists a job to the database
func (s *PostgresJobStore) SaveJob(ctx context.Context, job task.Job) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO jobs (id, type, payload, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, query,
		job.ID(),
		job.Type(),
		job.Payload(),
		job.Status(),
		now,
		now,
	)

	if err != nil {
		log.Error("failed to save job",
			"job_id", job.ID(),
			"job_type", job.Type(),
			"error", err)
		return fmt.Errorf("failed to save job to database: %w", err)
	}

	return nil
}

// UpdateJobStatus updates the status of a job in the database
func (s *PostgresJobStore) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status task.JobStatus, errorMsg string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE jobs
		SET status = $1, error_message = $2, updated_at = $3
		WHERE id = $4
	`

	result, err := s.db.ExecContext(ctx, query,
		status,
		errorMsg,
		time.Now().UTC(),
		jobID,
	)

	if err != nil {
		log.Error("failed to update job status",
			"job_id", jobID,
			"status", status,
			"error", err)
		return fmt.Errorf("failed to update job status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			"job_id", jobID,
			"error", err)
		return fmt.Errorf("failed to get rows affected: %w", err)
	}

	if rowsAffected == 0 {
		log.Warn("no job found with ID to update status",
			"job_id", jobID)
		return nil // Job not found, treat as no-op
	}

	return nil
}

// GetPendingJobs retrieves all jobs with "pending" status
func (s *PostgresJobStore) GetPendingJobs(ctx context.Context) ([]task.Job, error) {
	return s.getJobsByStatus(ctx, task.JobStatusPending, 0)
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *PostgresJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]task.Job, error) {
	return s.getJobsByStatus(ctx, task.JobStatusProcessing, olderThan)
}

// getJobsByStatus is a helper method to get jobs by status with optional age filter
func (s *PostgresJobStore) getJobsByStatus(ctx context.Context, status task.JobStatus, olderThan time.Duration) ([]task.Job, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var query string
	var args []any

	if olderThan > 0 {
		query = `
			SELECT id, type, payload, status
			FROM jobs
			WHERE status = $1 AND updated_at < $2
			ORDER BY created_at ASC
		`
		args = []any{status, time.Now().UTC().Add(-olderThan)}
	} else {
		query = `
			SELECT id, type, payload, status
			FROM jobs
			WHERE status = $1
			ORDER BY created_at ASC
		`
		args = []any{status}
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query jobs by status",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("failed to query jobs by status: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "error", err)
		}
	}()

	var jobs []task.Job

	for rows.Next() {
		var id uuid.UUID
		var jobType string
		var payload []byte
		var jobStatus task.JobStatus

		if err := rows.Scan(&id, &jobType, &payload, &jobStatus); err != nil {
			log.Error("failed to scan job row",
				"status", status,
				"error", err)
			return nil, fmt.Errorf("failed to scan job row: %w", err)
		}

		if s.hydrator == nil {
			log.Warn("no hydrator configured, skipping stored job",
				"job_id", id,
				"job_type", jobType)
			continue
		}

		job, err := s.hydrator.Hydrate(id, jobType, payload, jobStatus)
		if err != nil {
			// A malformed row must not block recovery of the rest.
			log.Error("failed to hydrate stored job",
				"job_id", id,
				"job_type", jobType,
				"error", err)
			continue
		}

		jobs = append(jobs, job)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating job rows",
			"status", status,
			"error", err)
		return nil, fmt.Errorf("error iterating job rows: %w", err)
	}

	return jobs, nil
}

// WithTx implements task.JobStore.WithTx
func (s *PostgresJobStore) WithTx(tx *sql.Tx) task.JobStore {
	return &PostgresJobStore{
		db:       tx,
		hydrator: s.hydrator,
		logger:   s.logger,
	}
}
