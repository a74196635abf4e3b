// Package run sequences one collection → summarization → delivery run and
// owns the rules for when the watermark may advance.
package run

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/summerlog/summerlog/internal/delivery"
	"github.com/summerlog/summerlog/internal/model"
	"github.com/summerlog/summerlog/internal/prompt"
	"github.com/summerlog/summerlog/internal/source"
	"github.com/summerlog/summerlog/internal/summarizer"
)

// Store is the watermark persistence surface the runner needs.
type Store interface {
	Load() (time.Time, bool, error)
	Commit(time.Time) error
}

// Collector fetches the window of logs for a set of sources.
type Collector interface {
	Collect(ctx context.Context, names []string, since time.Time) []model.SourceLog
}

// Options are per-invocation knobs, resolved by the CLI.
type Options struct {
	DryRun        bool
	SinceOverride time.Time     // non-zero replaces the stored watermark for this run
	Lookback      time.Duration // first-run window when no watermark exists
	MaxLogChars   int           // per-source prompt budget
}

// Runner ties the pipeline stages together.
type Runner struct {
	store      Store
	src        source.Source
	collector  Collector
	summarizer summarizer.Summarizer
	deliverer  delivery.Deliverer
	logger     *zap.Logger

	// out receives the summary in dry-run mode. Defaults to stdout.
	out io.Writer
	now func() time.Time
}

// New creates a Runner.
func New(store Store, src source.Source, col Collector, sum summarizer.Summarizer, del delivery.Deliverer, logger *zap.Logger) *Runner {
	return &Runner{
		store:      store,
		src:        src,
		collector:  col,
		summarizer: sum,
		deliverer:  del,
		logger:     logger,
		out:        os.Stdout,
		now:        time.Now,
	}
}

// Run executes one pass of the pipeline. The returned outcome is always
// meaningful; a non-nil error means the run aborted (or, after delivery,
// completed without committing) and the process should exit non-zero.
//
// The committed watermark is the run-start time, captured before any I/O:
// retry overlap stays minimal, and logs emitted while the run executes are
// never skipped.
func (r *Runner) Run(ctx context.Context, opts Options) (model.Outcome, error) {
	start := r.now().UTC()

	window, err := r.computeWindow(start, opts)
	if err != nil {
		return model.OutcomeUnknown, err
	}
	r.logger.Info("collection window computed",
		zap.Time("since", window.Since),
		zap.Time("until", window.Until),
		zap.Bool("dry_run", opts.DryRun))

	names, err := r.src.List(ctx)
	if err != nil {
		return model.OutcomeUnknown, err
	}
	if len(names) == 0 {
		// Nothing was inspected, so advancing the watermark could skip
		// logs from containers that appear later. Leave it alone.
		r.logger.Info("no running containers found")
		return model.OutcomeNoContainers, nil
	}

	logs := r.collector.Collect(ctx, names, window.Since)
	for _, sl := range logs {
		if sl.Degraded() {
			r.logger.Warn("source fetch failed, reporting as degraded",
				zap.String("source", sl.Source), zap.Error(sl.Err))
		}
	}

	if allEmpty(logs) {
		r.logger.Info("no new logs in window", zap.Int("sources", len(logs)))
		if err := r.store.Commit(start); err != nil {
			return model.OutcomeNoNewLogs, fmt.Errorf("watermark commit: %w", err)
		}
		return model.OutcomeNoNewLogs, nil
	}

	p := prompt.Build(logs, window.Describe(), opts.MaxLogChars)
	r.logger.Info("generating summary", zap.Int("prompt_chars", len(p)))

	summary, err := r.summarizer.Summarize(ctx, p)
	if err != nil {
		return model.OutcomeSummarizerFailed, err
	}

	if opts.DryRun {
		fmt.Fprintln(r.out, summary)
		r.logger.Info("dry run complete, skipping delivery and watermark")
		return model.OutcomeDryRunCompleted, nil
	}

	r.logger.Info("delivering summary")
	if err := r.deliverer.Deliver(ctx, summary); err != nil {
		return model.OutcomeDeliveryFailed, err
	}

	if err := r.store.Commit(start); err != nil {
		// The report went out; only the bookkeeping failed. The next run
		// recomputes a slightly wider window, which is accepted overlap.
		return model.OutcomeDelivered, fmt.Errorf("watermark commit: %w", err)
	}
	r.logger.Info("run complete", zap.Time("watermark", start))
	return model.OutcomeDelivered, nil
}

func (r *Runner) computeWindow(start time.Time, opts Options) (model.Window, error) {
	if !opts.SinceOverride.IsZero() {
		return model.Window{Since: opts.SinceOverride.UTC(), Until: start}, nil
	}

	wm, ok, err := r.store.Load()
	if err != nil {
		return model.Window{}, fmt.Errorf("watermark load: %w", err)
	}
	if !ok {
		return model.Window{
			Since:    start.Add(-opts.Lookback),
			Until:    start,
			Lookback: opts.Lookback,
		}, nil
	}
	return model.Window{Since: wm, Until: start}, nil
}

func allEmpty(logs []model.SourceLog) bool {
	for _, sl := range logs {
		if !sl.Empty() {
			return false
		}
	}
	return true
}
