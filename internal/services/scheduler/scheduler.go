package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/ternarybob/arbor"

	"github.com/ZordnajelA/aura/internal/common"
	"github.com/ZordnajelA/aura/internal/interfaces"
)

// staleJobMessage is recorded on jobs abandoned by a dead worker
const staleJobMessage = "Processing timed out"

// Scheduler runs periodic maintenance: failing stale jobs and purging
// old terminal ones. A worker killed mid-job leaves the row processing
// forever; this is the only path that recovers it.
type Scheduler struct {
	jobs         interfaces.JobStorage
	cron         *cron.Cron
	schedule     string
	staleJobAge  time.Duration
	jobRetention time.Duration
	logger       arbor.ILogger
}

func New(jobs interfaces.JobStorage, config *common.Config, logger arbor.ILogger) *Scheduler {
	return &Scheduler{
		jobs:         jobs,
		cron:         cron.New(),
		schedule:     config.Processing.ReconcileSchedule,
		staleJobAge:  config.StaleJobAge(),
		jobRetention: config.JobRetention(),
		logger:       logger,
	}
}

// Start registers the reconcile task and starts the cron runner
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.reconcile); err != nil {
		return fmt.Errorf("invalid reconcile schedule %q: %w", s.schedule, err)
	}

	s.cron.Start()
	s.logger.Info().
		Str("schedule", s.schedule).
		Dur("stale_job_age", s.staleJobAge).
		Dur("job_retention", s.jobRetention).
		Msg("Job reconciler started")

	return nil
}

// Stop stops the cron runner and waits for a running task to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info().Msg("Job reconciler stopped")
}

// reconcile is one maintenance pass
func (s *Scheduler) reconcile() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	failed, err := s.jobs.FailStaleJobs(ctx, s.staleJobAge, staleJobMessage)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to reconcile stale jobs")
	} else if failed > 0 {
		s.logger.Warn().
			Int("count", failed).
			Msg("Stale processing jobs failed")
	}

	purged, err := s.jobs.PurgeTerminalJobs(ctx, s.jobRetention)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to purge terminal jobs")
	} else if purged > 0 {
		s.logger.Info().
			Int("count", purged).
			Msg("Old terminal jobs purged")
	}
}
