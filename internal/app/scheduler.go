/**
 * @description
 * Cron scheduler setup for the invest-service scheduled jobs.
 */
package app

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"

	"github.com/gazoduc/invest-service/internal/config"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron   *cron.Cron
	jobs   *Jobs
	logger *slog.Logger
	config config.Config
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(jobs *Jobs, logger *slog.Logger, cfg config.Config) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:   c,
		jobs:   jobs,
		logger: logger,
		config: cfg,
	}
}

// Start registers the jobs and starts the cron scheduler. The completion job
// is scheduled ahead of the earnings job so a subscription past its end date
// never receives one more credit.
func (s *Scheduler) Start() {
	if _, err := s.cron.AddFunc(s.config.CompletionJobSchedule, s.jobs.CompleteExpiredSubscriptions); err != nil {
		s.logger.Error("failed to schedule subscription completion job", "error", err)
	} else {
		s.logger.Info("scheduled subscription completion job", "schedule", s.config.CompletionJobSchedule)
	}

	if _, err := s.cron.AddFunc(s.config.EarningsJobSchedule, s.jobs.RunDailyEarnings); err != nil {
		s.logger.Error("failed to schedule daily earnings job", "error", err)
	} else {
		s.logger.Info("scheduled daily earnings job", "schedule", s.config.EarningsJobSchedule)
	}

	s.cron.Start()
}

// Stop gracefully stops the cron scheduler.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
