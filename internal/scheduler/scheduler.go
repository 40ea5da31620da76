package scheduler

import (
	"context"
	"time"

	"weather_dashboard/internal/logger"

	"github.com/go-co-op/gocron"
)

// DefaultInterval applies when no prune interval is configured.
const DefaultInterval = time.Hour

// DefaultSweepInterval applies when no dashboard sweep interval is configured.
const DefaultSweepInterval = 5 * time.Minute

const pruneTimeout = 30 * time.Second

type pruner interface {
	Prune(ctx context.Context, retention time.Duration) (int64, error)
}

type sweeper interface {
	EvictIdle() int
}

// Scheduler periodically drops activity events older than the retention and
// evicts idle dashboard states.
type Scheduler struct {
	scheduler     *gocron.Scheduler
	activity      pruner
	retention     time.Duration
	interval      time.Duration
	dashboard     sweeper
	sweepInterval time.Duration
	log           *logger.Logger
}

// New creates a new Scheduler.
func New(activity pruner, retention, interval time.Duration, log *logger.Logger) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		activity:  activity,
		retention: retention,
		interval:  interval,
		log:       log,
	}
}

// WithDashboardSweep adds a job evicting idle dashboard states every
// interval.
func (s *Scheduler) WithDashboardSweep(d sweeper, interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	s.dashboard = d
	s.sweepInterval = interval
	return s
}

// Start schedules the configured jobs and starts the underlying scheduler.
// The first run of each job happens immediately.
func (s *Scheduler) Start() error {
	jobs := 0
	if s.retention > 0 {
		if _, err := s.scheduler.Every(s.interval).SingletonMode().Do(s.prune); err != nil {
			return err
		}
		jobs++
	} else {
		s.log.Infow("activity_prune_disabled", "reason", "no activity retention configured")
	}

	if s.dashboard != nil {
		if _, err := s.scheduler.Every(s.sweepInterval).SingletonMode().Do(s.sweep); err != nil {
			return err
		}
		jobs++
	}

	if jobs == 0 {
		s.log.Infow("scheduler_disabled", "reason", "no jobs configured")
		return nil
	}
	s.scheduler.StartAsync()
	s.log.Infow("scheduler_started", "jobs", jobs, "prune_interval", s.interval, "retention", s.retention, "sweep_interval", s.sweepInterval)
	return nil
}

func (s *Scheduler) prune() {
	ctx, cancel := context.WithTimeout(context.Background(), pruneTimeout)
	defer cancel()

	n, err := s.activity.Prune(ctx, s.retention)
	if err != nil {
		s.log.Errorw("activity_prune_failed", "err", err)
		return
	}
	s.log.Infow("activity_pruned", "deleted", n, "retention", s.retention)
}

func (s *Scheduler) sweep() {
	if n := s.dashboard.EvictIdle(); n > 0 {
		s.log.Debugw("dashboard_states_evicted", "count", n)
	}
}

// Stop stops the scheduler and cancels any future jobs.
func (s *Scheduler) Stop() {
	if s.scheduler != nil && s.scheduler.IsRunning() {
		s.scheduler.Stop()
	}
}
