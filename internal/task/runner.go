package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

// JobRunnerConfig holds configuration for the job runner
type JobRunnerConfig struct {
	// WorkerCount determines how many concurrent workers process jobs
	WorkerCount int

	// QueueSize determines the buffer size for the in-memory job queue
	QueueSize int

	// StuckJobAge defines how long a job can be in processing state
	// before it's considered stuck and reset
	StuckJobAge time.Duration

	// StuckJobCheckInterval defines how often to check for stuck jobs
	// If zero, defaults to 5 minutes
	StuckJobCheckInterval time.Duration
}

// DefaultJobRunnerConfig returns a JobRunnerConfig with reasonable defaults
func DefaultJobRunnerConfig() JobRunnerConfig {
	return JobRunnerConfig{
		WorkerCount:           2,
		QueueSize:             100,
		StuckJobAge:           30 * time.Minute,
		StuckJobCheckInterval: 5 * time.Minute,
	}
}

// JobRunner manages background job processing
type JobRunner struct {
	store      JobStore
	jobChan    chan Job
	ctx        context.Context
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
	config     JobRunnerConfig
	logger     *slog.Logger
	errHandler func(job Job, err error)
}

// NewJobRunner creates a new JobRunner
func NewJobRunner(store JobStore, config JobRunnerConfig, logger *slog.Logger) *JobRunner {
	if config.StuckJobCheckInterval == 0 {
		config.StuckJobCheckInterval = 5 * time.Minute
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &JobRunner{
		store:      store,
		jobChan:    make(chan Job, config.QueueSize),
		ctx:        ctx,
		cancelFunc: cancel,
		wg:         sync.WaitGroup{},
		config:     config,
		logger:     logger,
		errHandler: func(job Job, err error) {
			// Default error handler just logs the error
			logger.Error("job execution failed",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
		},
	}
}

// SetErrorHandler allows setting a custom error handler function
func (r *JobRunner) SetErrorHandler(handler func(job Job, err error)) {
	r.errHandler = handler
}

// Submit adds a new job to the queue. The job row is persisted first so it
// survives a crash before execution.
func (r *JobRunner) Submit(ctx context.Context, job Job) error {
	if err := r.store.SaveJob(ctx, job); err != nil {
		return fmt.Errorf("failed to save job: %w", err)
	}

	select {
	case r.jobChan <- job:
		return nil
	default:
		return fmt.Errorf("job queue is full, try again later")
	}
}

// Start initializes the worker pool and begins processing jobs
func (r *JobRunner) Start() error {
	// Recover unfinished jobs from previous runs
	if err := r.Recover(); err != nil {
		return fmt.Errorf("failed to recover jobs: %w", err)
	}

	for i := 0; i < r.config.WorkerCount; i++ {
		r.wg.Add(1)
		go r.worker(i)
	}

	r.wg.Add(1)
	go r.stuckJobMonitor()

	return nil
}

// Stop gracefully shuts down the job runner
func (r *JobRunner) Stop() {
	r.cancelFunc()
	r.wg.Wait()
	close(r.jobChan)
}

// Recover loads any unfinished jobs from the database
func (r *JobRunner) Recover() error {
	ctx := context.Background()

	pendingJobs, err := r.store.GetPendingJobs(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending jobs: %w", err)
	}

	// Jobs in "processing" state were interrupted by a crash
	processingJobs, err := r.store.GetProcessingJobs(ctx, 0)
	if err != nil {
		return fmt.Errorf("failed to get processing jobs: %w", err)
	}

	r.logger.Info("recovering unfinished jobs",
		"pending_count", len(pendingJobs),
		"processing_count", len(processingJobs))

	for _, job := range pendingJobs {
		select {
		case r.jobChan <- job:
			// Successfully requeued
		default:
			r.logger.Error("failed to requeue pending job, queue is full",
				"job_id", job.ID(),
				"job_type", job.Type())
		}
	}

	// Reset processing jobs back to pending state and requeue them
	for _, job := range processingJobs {
		if err := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusPending, "Reset after recovery"); err != nil {
			r.logger.Error("failed to reset processing job status",
				"job_id", job.ID(),
				"job_type", job.Type(),
				"error", err)
			continue
		}

		select {
		case r.jobChan <- job:
			// Successfully requeued
		default:
			r.logger.Error("failed to requeue processing job, queue is full",
				"job_id", job.ID(),
				"job_type", job.Type())
		}
	}

	return nil
}

// worker processes jobs from the queue
func (r *JobRunner) worker(id int) {
	defer r.wg.Done()

	r.logger.Debug("starting worker", "worker_id", id)

	for {
		select {
		case <-r.ctx.Done():
			r.logger.Debug("stopping worker", "worker_id", id)
			return

		case job, ok := <-r.jobChan:
			if !ok {
				r.logger.Debug("job channel closed, stopping worker", "worker_id", id)
				return
			}

			r.processJob(job, id)
		}
	}
}

// processJob handles execution of a single job
func (r *JobRunner) processJob(job Job, workerID int) {
	ctx := context.Background()
	logger := r.logger.With(
		"job_id", job.ID(),
		"job_type", job.Type(),
		"worker_id", workerID,
	)

	if err := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusProcessing, ""); err != nil {
		logger.Error("failed to update job status to processing", "error", err)
		return
	}

	logger.Info("processing job")

	err := job.Execute(ctx)

	if err != nil {
		logger.Error("job execution failed", "error", err)
		if updateErr := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusFailed, err.Error()); updateErr != nil {
			logger.Error("failed to update job status to failed", "error", updateErr)
		}

		r.errHandler(job, err)
	} else {
		logger.Info("job completed successfully")
		if updateErr := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusCompleted, ""); updateErr != nil {
			logger.Error("failed to update job status to completed", "error", updateErr)
		}
	}
}

// stuckJobMonitor periodically checks for jobs that have been in
// "processing" state for too long and resets them
func (r *JobRunner) stuckJobMonitor() {
	defer r.wg.Done()

	ticker := time.NewTicker(r.config.StuckJobCheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-r.ctx.Done():
			return

		case <-ticker.C:
			ctx := context.Background()

			stuckJobs, err := r.store.GetProcessingJobs(ctx, r.config.StuckJobAge)
			if err != nil {
				r.logger.Error("failed to check for stuck jobs", "error", err)
				continue
			}

			if len(stuckJobs) == 0 {
				continue
			}

			r.logger.Info("found stuck jobs", "count", len(stuckJobs))

			for _, job := range stuckJobs {
				if err := r.store.UpdateJobStatus(ctx, job.ID(), JobStatusPending,
					"Reset after being stuck in processing state"); err != nil {
					r.logger.Error("failed to reset stuck job status",
						"job_id", job.ID(),
						"job_type", job.Type(),
						"error", err)
					continue
				}

				select {
				case r.jobChan <- job:
					r.logger.Info("requeued stuck job",
						"job_id", job.ID(),
						"job_type", job.Type())
				default:
					r.logger.Error("failed to requeue stuck job, queue is full",
						"job_id", job.ID(),
						"job_type", job.Type())
				}
			}
		}
	}
}
