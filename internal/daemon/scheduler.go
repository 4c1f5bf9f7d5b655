package daemon

import (
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/pillarsync/internal/foundation/errors"
)

// Scheduler wraps the gocron scheduler for the periodic sync job.
type Scheduler struct {
	scheduler gocron.Scheduler
	job       gocron.Job
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryRuntime, "failed to create scheduler").Build()
	}
	return &Scheduler{scheduler: s}, nil
}

// ScheduleSync registers task on a five-field cron expression. A tick that
// fires while the previous one is still running is skipped.
func (s *Scheduler) ScheduleSync(crontab string, task func()) error {
	job, err := s.scheduler.NewJob(
		gocron.CronJob(crontab, false),
		gocron.NewTask(task),
		gocron.WithName("scheduled-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to schedule sync").
			WithContext("schedule", crontab).
			Build()
	}
	s.job = job
	return nil
}

// NextRun returns when the sync job fires next.
func (s *Scheduler) NextRun() (time.Time, error) {
	if s.job == nil {
		return time.Time{}, errors.NewError(errors.CategoryRuntime, "no sync job scheduled").Build()
	}
	return s.job.NextRun()
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}
