package model

import (
	"fmt"
	"strings"
	"time"
)

// SourceLog is the intermediate type produced by the collector and consumed
// by the prompt builder: one source's raw log text for the collection window.
type SourceLog struct {
	Source string // container name
	Text   string // raw log text, empty if the source was quiet
	Err    error  // non-nil if the fetch failed (degraded source)
}

// Degraded reports whether the fetch for this source failed.
func (s SourceLog) Degraded() bool { return s.Err != nil }

// Empty reports whether the source produced nothing worth reporting.
// Whitespace-only output counts as empty; a degraded source does not,
// since a fetch failure is itself something to report.
func (s SourceLog) Empty() bool {
	return s.Err == nil && strings.TrimSpace(s.Text) == ""
}

// Window is the half-open [Since, Until) time range a run collects logs for.
// Since is inclusive. Not persisted; recomputed every run.
type Window struct {
	Since time.Time
	Until time.Time

	// Lookback is set when Since was derived from the configured lookback
	// rather than a stored watermark. It only affects how the window is
	// described to the summarizer.
	Lookback time.Duration
}

// Describe returns the human-readable phrase used in the prompt preamble.
func (w Window) Describe() string {
	if w.Lookback > 0 {
		return fmt.Sprintf("the last %d hours", int(w.Lookback.Hours()))
	}
	return "the last run at " + w.Since.UTC().Format(time.RFC3339)
}

// Outcome is the terminal state of a run. It governs whether the watermark
// advances and what the process exit status is.
type Outcome int

const (
	OutcomeUnknown Outcome = iota
	OutcomeNoContainers
	OutcomeNoNewLogs
	OutcomeSummarizerFailed
	OutcomeDeliveryFailed
	OutcomeDelivered
	OutcomeDryRunCompleted
)

// String returns the outcome name used in logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeNoContainers:
		return "no_containers"
	case OutcomeNoNewLogs:
		return "no_new_logs"
	case OutcomeSummarizerFailed:
		return "summarizer_failed"
	case OutcomeDeliveryFailed:
		return "delivery_failed"
	case OutcomeDelivered:
		return "delivered"
	case OutcomeDryRunCompleted:
		return "dry_run_completed"
	default:
		return "unknown"
	}
}

// Success reports whether the outcome maps to exit code 0.
func (o Outcome) Success() bool {
	switch o {
	case OutcomeNoContainers, OutcomeNoNewLogs, OutcomeDelivered, OutcomeDryRunCompleted:
		return true
	default:
		return false
	}
}
