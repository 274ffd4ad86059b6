package retention

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Purger removes report artifacts that expired before now.
type Purger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

// Scheduler runs a Purger on a cron schedule.
type Scheduler struct {
	purger  Purger
	cron    *cron.Cron
	timeout time.Duration
	now     func() time.Time
}

// NewScheduler creates a scheduler. Each run is bounded by timeout.
func NewScheduler(p Purger, timeout time.Duration) *Scheduler {
	return &Scheduler{
		purger: p,
		cron: cron.New(cron.WithChain(
			cron.SkipIfStillRunning(cron.DiscardLogger),
			cron.Recover(cron.DefaultLogger),
		)),
		timeout: timeout,
		now:     time.Now,
	}
}

// Start registers the purge job with a standard cron spec or descriptor
// ("@hourly", "*/15 * * * *") and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, func() { s.RunOnce(context.Background()) }); err != nil {
		return fmt.Errorf("retention: invalid schedule %q: %w", spec, err)
	}
	s.cron.Start()
	slog.Info("retention scheduler started", "schedule", spec)
	return nil
}

// Stop halts the scheduler. The returned context is done once a running purge finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce purges immediately and returns the number of artifacts removed.
func (s *Scheduler) RunOnce(ctx context.Context) int {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	n, err := s.purger.PurgeExpired(ctx, s.now())
	if err != nil {
		slog.Error("retention purge failed", "purged", n, "error", err)
		return n
	}
	if n > 0 {
		slog.Info("retention purge completed", "purged", n)
	}
	return n
}
