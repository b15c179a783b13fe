package retention

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Store removes captures older than a cutoff
type Store interface {
	DeleteReceivedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

/* Janitor enforces the retention window on a cron schedule
 * A zero window disables deletion, RunOnce then reports nothing removed
 */
type Janitor struct {
	store    Store
	window   time.Duration
	schedule string
	timeout  time.Duration
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex
	cron    *cron.Cron
	running sync.WaitGroup
}

// Option configures a Janitor
type Option func(*Janitor)

// WithLogger sets the janitor logger
func WithLogger(l *slog.Logger) Option {
	return func(j *Janitor) {
		if l != nil {
			j.logger = l
		}
	}
}

// WithClock sets the time source used to compute the cutoff
func WithClock(now func() time.Time) Option {
	return func(j *Janitor) {
		if now != nil {
			j.now = now
		}
	}
}

// WithTimeout bounds a single cleanup run
func WithTimeout(d time.Duration) Option {
	return func(j *Janitor) {
		if d > 0 {
			j.timeout = d
		}
	}
}

// NewJanitor validates schedule and returns a stopped janitor
func NewJanitor(store Store, window time.Duration, schedule string, opts ...Option) (*Janitor, error) {
	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("parsing cleanup schedule %q: %w", schedule, err)
	}
	if window < 0 {
		return nil, fmt.Errorf("retention window cannot be negative")
	}

	j := &Janitor{
		store:    store,
		window:   window,
		schedule: schedule,
		timeout:  time.Minute,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j, nil
}

// Cutoff returns the receive time before which captures are expired
func (j *Janitor) Cutoff() time.Time {
	return j.now().UTC().Add(-j.window)
}

// RunOnce deletes every capture older than the retention window
func (j *Janitor) RunOnce(ctx context.Context) (int64, error) {
	if j.window == 0 {
		return 0, nil
	}

	cutoff := j.Cutoff()
	removed, err := j.store.DeleteReceivedBefore(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("deleting captures before %s: %w", cutoff.Format(time.RFC3339), err)
	}
	if removed > 0 {
		j.logger.InfoContext(ctx, "expired captures removed",
			slog.Int64("removed", removed),
			slog.Time("cutoff", cutoff),
		)
	}
	return removed, nil
}

// Start schedules RunOnce. Calling Start twice is a no-op.
func (j *Janitor) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.cron != nil || j.window == 0 {
		return
	}

	c := cron.New()
	// schedule was parsed in NewJanitor
	_, _ = c.AddFunc(j.schedule, func() {
		j.running.Add(1)
		defer j.running.Done()

		runCtx, cancel := context.WithTimeout(ctx, j.timeout)
		defer cancel()
		if _, err := j.RunOnce(runCtx); err != nil {
			j.logger.ErrorContext(runCtx, "retention cleanup failed", slog.Any("error", err))
		}
	})
	c.Start()
	j.cron = c

	j.logger.InfoContext(ctx, "retention janitor started",
		slog.String("schedule", j.schedule),
		slog.Duration("window", j.window),
	)
}

// Stop halts the schedule and waits for an in-flight run to finish
func (j *Janitor) Stop() {
	j.mu.Lock()
	c := j.cron
	j.cron = nil
	j.mu.Unlock()

	if c == nil {
		return
	}
	<-c.Stop().Done()
	j.running.Wait()
}
