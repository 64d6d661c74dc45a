package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/kyvra-tech/walrus-nodes-tracker-backend/internal/services"
)

// CronScheduler refreshes the snapshot proactively so requests rarely see a
// stale cache. Refreshes go through the coordinator, which already guarantees
// at most one in flight.
type CronScheduler struct {
	cron           *cron.Cron
	coordinator    *services.RefreshCoordinator
	logger         *logrus.Logger
	schedule       string
	jobTimeout     time.Duration
	activeJobs     sync.WaitGroup
	shutdownCtx    context.Context
	shutdownCancel context.CancelFunc
}

func NewCronScheduler(coordinator *services.RefreshCoordinator, schedule string, jobTimeout time.Duration, logger *logrus.Logger) *CronScheduler {
	ctx, cancel := context.WithCancel(context.Background())

	return &CronScheduler{
		cron:           cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger))),
		coordinator:    coordinator,
		logger:         logger,
		schedule:       schedule,
		jobTimeout:     jobTimeout,
		shutdownCtx:    ctx,
		shutdownCancel: cancel,
	}
}

func (s *CronScheduler) Start() {
	_, err := s.cron.AddFunc(s.schedule, s.createJobWrapper("Snapshot Refresh", func(ctx context.Context) error {
		return s.coordinator.TriggerRefresh(ctx)
	}))
	if err != nil {
		s.logger.WithError(err).WithField("schedule", s.schedule).Error("Failed to schedule snapshot refresh")
		return
	}

	s.cron.Start()
	s.logger.WithField("schedule", s.schedule).Info("Cron scheduler started")
}

// createJobWrapper wraps a job with context, timeout, logging, and panic recovery
func (s *CronScheduler) createJobWrapper(jobName string, jobFunc func(context.Context) error) func() {
	return func() {
		s.activeJobs.Add(1)
		defer s.activeJobs.Done()

		ctx, cancel := context.WithTimeout(s.shutdownCtx, s.jobTimeout)
		defer cancel()

		startTime := time.Now()
		s.logger.WithField("job", jobName).Info("Starting scheduled job")

		defer func() {
			if r := recover(); r != nil {
				s.logger.WithFields(logrus.Fields{
					"job":   jobName,
					"panic": r,
				}).Error("Job panicked")
			}
		}()

		err := jobFunc(ctx)
		duration := time.Since(startTime)

		if err != nil {
			s.logger.WithFields(logrus.Fields{
				"job":      jobName,
				"duration": duration.String(),
				"error":    err.Error(),
			}).Error("Job failed")
		} else {
			s.logger.WithFields(logrus.Fields{
				"job":      jobName,
				"duration": duration.String(),
			}).Info("Job completed successfully")
		}

		if ctx.Err() == context.DeadlineExceeded {
			s.logger.WithFields(logrus.Fields{
				"job":     jobName,
				"timeout": s.jobTimeout.String(),
			}).Warn("Job timed out")
		}
	}
}

func (s *CronScheduler) Stop() {
	s.logger.Info("Stopping cron scheduler...")

	ctx := s.cron.Stop()
	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.activeJobs.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("All jobs completed, cron scheduler stopped")
	case <-ctx.Done():
		s.logger.Info("Cron scheduler stopped")
	case <-time.After(1 * time.Minute):
		s.logger.Warn("Timeout waiting for jobs to complete, forcing shutdown")
	}
}

// GetSchedulerStatus returns the current status of the scheduler
func (s *CronScheduler) GetSchedulerStatus() map[string]interface{} {
	entries := s.cron.Entries()

	jobs := make([]map[string]interface{}, 0, len(entries))
	for _, entry := range entries {
		jobs = append(jobs, map[string]interface{}{
			"next_run": entry.Next,
			"prev_run": entry.Prev,
		})
	}

	return map[string]interface{}{
		"running":   len(entries) > 0,
		"job_count": len(entries),
		"jobs":      jobs,
	}
}
