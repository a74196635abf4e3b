// Package schedule runs the pipeline on an in-process cron schedule.
package schedule

import (
	"context"
	"fmt"

	"github.com/go-co-op/gocron/v2"
	"go.uber.org/zap"
)

// Presets map the named schedules offered at configuration time onto cron
// expressions.
var Presets = map[string]string{
	"hourly": "0 * * * *",
	"daily":  "0 8 * * *",
	"weekly": "0 8 * * 0",
}

// Resolve turns a preset name into its cron expression, passing anything
// else through as a raw expression.
func Resolve(s string) string {
	if expr, ok := Presets[s]; ok {
		return expr
	}
	return s
}

// Runner invokes task on the given cron schedule until the context is done.
type Runner struct {
	scheduler gocron.Scheduler
	logger    *zap.Logger
}

// New creates a Runner with one job registered for cronExpr. The task's
// error is logged, not propagated: one failed run must not stop the
// schedule, since the next run retries the same window anyway.
func New(cronExpr string, task func(context.Context) error, logger *zap.Logger) (*Runner, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.CronJob(cronExpr, false),
		gocron.NewTask(func(ctx context.Context) {
			if err := task(ctx); err != nil {
				logger.Error("scheduled run failed", zap.Error(err))
			}
		}),
		gocron.WithName("summerlog-run"),
	)
	if err != nil {
		return nil, fmt.Errorf("register job %q: %w", cronExpr, err)
	}

	return &Runner{scheduler: s, logger: logger}, nil
}

// Start runs the schedule and blocks until ctx is cancelled, then shuts the
// scheduler down.
func (r *Runner) Start(ctx context.Context) error {
	r.scheduler.Start()
	r.logger.Info("scheduler started")

	<-ctx.Done()

	if err := r.scheduler.Shutdown(); err != nil {
		return fmt.Errorf("scheduler shutdown: %w", err)
	}
	r.logger.Info("scheduler stopped")
	return nil
}
