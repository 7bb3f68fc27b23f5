// Package scheduler runs the recurring settlement passes: monthly
// maintenance fees and two-stage loan payments.
package scheduler

import (
	"context"
	"log/slog"
	"time"
)

// Job is one settlement pass over the ledger. RunTick must isolate
// per-item failures internally; the error it returns covers only a failure
// of the pass as a whole, such as being unable to scan the ledger.
type Job interface {
	Name() string
	RunTick(ctx context.Context) error
}

// Runner drives a Job on a fixed wall-clock interval. Ticks run
// synchronously in the loop, so two ticks of the same job can never overlap;
// a tick that outlasts the interval simply delays the next one. The loop
// never terminates on error and always retries on the next tick.
type Runner struct {
	job      Job
	logger   *slog.Logger
	interval time.Duration
}

// NewRunner creates a Runner for the given job and interval
func NewRunner(job Job, interval time.Duration, logger *slog.Logger) *Runner {
	return &Runner{
		job:      job,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks, executing one tick per interval until ctx is cancelled
func (r *Runner) Run(ctx context.Context) {
	r.logger.Info("scheduler started", "job", r.job.Name(), "interval", r.interval)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			r.logger.Info("scheduler stopped", "job", r.job.Name())
			return
		case <-ticker.C:
			start := time.Now()
			if err := r.job.RunTick(ctx); err != nil {
				r.logger.Error("settlement tick failed",
					"job", r.job.Name(),
					"error", err,
				)
				continue
			}
			r.logger.Debug("settlement tick complete",
				"job", r.job.Name(),
				"duration", time.Since(start),
			)
		}
	}
}
