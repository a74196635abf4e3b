// Package source defines the log source boundary: enumerating containers and
// fetching their logs for a time window.
package source

import (
	"context"
	"time"
)

// Source is implemented by each container platform adapter.
type Source interface {
	// List enumerates the source names to collect from, in a stable order.
	// Failure here is fatal to the run: with no source list nothing can run.
	List(ctx context.Context) ([]string, error)

	// Fetch returns the raw log text for one source from since (inclusive)
	// onward. Errors are per-source and must not abort the run; the caller
	// converts them into degraded source records.
	Fetch(ctx context.Context, name string, since time.Time) (string, error)
}

// Config holds provider-specific connection settings.
type Config struct {
	Provider  string
	Host      string            // platform endpoint, empty for the default
	AllowList []string          // static source names, bypasses enumeration
	Extra     map[string]string // provider-specific settings
}

// EnumerationError marks a List failure. It is the one source-side error the
// orchestrator treats as fatal.
type EnumerationError struct {
	Provider string
	Err      error
}

func (e *EnumerationError) Error() string {
	return "source enumeration failed (" + e.Provider + "): " + e.Err.Error()
}

func (e *EnumerationError) Unwrap() error { return e.Err }
