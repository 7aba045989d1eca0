package task

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"
)

// SummaryScheduler triggers the daily summary job once per day at a fixed
// hour. Each trigger builds a fresh job and submits it to the runner, so the
// send itself runs on the worker pool with the usual persistence and
// recovery guarantees.
type SummaryScheduler struct {
	scheduler *gocron.Scheduler
	runner    *JobRunner
	factory   *EmailJobFactory
	hour      int
	logger    *slog.Logger
}

// NewSummaryScheduler creates a scheduler firing daily at the given hour
// (UTC, 0-23).
func NewSummaryScheduler(
	runner *JobRunner,
	factory *EmailJobFactory,
	hour int,
	logger *slog.Logger,
) *SummaryScheduler {
	scheduler := gocron.NewScheduler(time.UTC)
	scheduler.SingletonModeAll()

	return &SummaryScheduler{
		scheduler: scheduler,
		runner:    runner,
		factory:   factory,
		hour:      hour,
		logger:    logger.With("component", "summary_scheduler"),
	}
}

// Start registers the daily trigger and begins the schedule.
func (s *SummaryScheduler) Start() error {
	at := fmt.Sprintf("%02d:00", s.hour)

	_, err := s.scheduler.Every(1).Day().At(at).Do(func() {
		job, err := s.factory.CreateDailySummaryJob()
		if err != nil {
			s.logger.Error("failed to create daily summary job", "error", err)
			return
		}

		if err := s.runner.Submit(context.Background(), job); err != nil {
			s.logger.Error("failed to submit daily summary job", "error", err)
			return
		}

		s.logger.Info("daily summary job submitted", "job_id", job.ID())
	})
	if err != nil {
		return fmt.Errorf("failed to schedule daily summary: %w", err)
	}

	s.scheduler.StartAsync()
	s.logger.Info("summary scheduler started", "at", at)
	return nil
}

// Stop halts the schedule. In-flight jobs keep running on the job runner.
func (s *SummaryScheduler) Stop() {
	s.scheduler.Stop()
	s.logger.Info("summary scheduler stopped")
}
