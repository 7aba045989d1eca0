package task

import (
	"context"
	"database/sql"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockJobStore implements the JobStore interface for testing
type MockJobStore struct {
	mutex          sync.RWMutex
	jobs           map[uuid.UUID]Job
	statuses       map[uuid.UUID]JobStatus
	statusTimes    map[uuid.UUID]time.Time
	SaveFn         func(ctx context.Context, job Job) error
	UpdateStatusFn func(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error
}

// NewMockJobStore creates a new MockJobStore with default implementations
func NewMockJobStore() *MockJobStore {
	store := &MockJobStore{
		jobs:        make(map[uuid.UUID]Job),
		statuses:    make(map[uuid.UUID]JobStatus),
		statusTimes: make(map[uuid.UUID]time.Time),
	}

	store.SaveFn = func(ctx context.Context, job Job) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		store.jobs[job.ID()] = job
		store.statuses[job.ID()] = job.Status()
		store.statusTimes[job.ID()] = time.Now()
		return nil
	}

	store.UpdateStatusFn = func(ctx context.Context, jobID uuid.UUID, status JobStatus, errorMsg string) error {
		store.mutex.Lock()
		defer store.mutex.Unlock()

		if _, exists := store.jobs[jobID]; !exists {
			return nil // Simulate "not found" as a no-op for testing simplicity
		}

		store.statuses[jobID] = status
		store.statusTimes[jobID] = time.Now()
		return nil
	}

	return store
}

// SaveJob persists a job to the mock store
func (s *MockJobStore) SaveJob(ctx context.Context, job Job) error {
	return s.SaveFn(ctx, job)
}

// UpdateJobStatus updates the status of a job in the mock store
func (s *MockJobStore) UpdateJobStatus(
	ctx context.Context,
	jobID uuid.UUID,
	status JobStatus,
	errorMsg string,
) error {
	return s.UpdateStatusFn(ctx, jobID, status, errorMsg)
}

// StatusOf reports the last recorded status for a job.
func (s *MockJobStore) StatusOf(jobID uuid.UUID) (JobStatus, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	status, ok := s.statuses[jobID]
	return status, ok
}

// GetPendingJobs retrieves all jobs with "pending" status
func (s *MockJobStore) GetPendingJobs(ctx context.Context) ([]Job, error) {
	return s.jobsWithStatus(JobStatusPending, 0), nil
}

// GetProcessingJobs retrieves jobs with "processing" status
func (s *MockJobStore) GetProcessingJobs(ctx context.Context, olderThan time.Duration) ([]Job, error) {
	return s.jobsWithStatus(JobStatusProcessing, olderThan), nil
}

func (s *MockJobStore) jobsWithStatus(status JobStatus, olderThan time.Duration) []Job {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	var matched []Job
	now := time.Now()

	for id, job := range s.jobs {
		if s.statuses[id] != status {
			continue
		}
		statusTime, exists := s.statusTimes[id]
		if olderThan == 0 || (exists && now.Sub(statusTime) > olderThan) {
			matched = append(matched, job)
		}
	}

	return matched
}

// WithTx implements JobStore.WithTx for the mock store
// In the mock implementation, we just return the same store instance
func (s *MockJobStore) WithTx(tx *sql.Tx) JobStore {
	return s
}
