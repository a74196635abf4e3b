// Package collector fetches a window of logs from every source, isolating
// per-source failures so one broken container never blocks the rest.
package collector

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/summerlog/summerlog/internal/model"
	"github.com/summerlog/summerlog/internal/source"
)

const (
	defaultParallelism = 4
	defaultTimeout     = 2 * time.Minute
)

// Option configures a Collector.
type Option func(*Collector)

// WithParallelism bounds the number of concurrent fetches. Default: 4.
func WithParallelism(n int) Option {
	return func(c *Collector) {
		if n > 0 {
			c.parallelism = n
		}
	}
}

// WithFetchTimeout sets the per-source fetch timeout budget. Default: 2m.
func WithFetchTimeout(d time.Duration) Option {
	return func(c *Collector) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Collector runs windowed fetches against a source.
type Collector struct {
	src         source.Source
	parallelism int
	timeout     time.Duration
}

// New creates a Collector over the given source.
func New(src source.Source, opts ...Option) *Collector {
	c := &Collector{
		src:         src,
		parallelism: defaultParallelism,
		timeout:     defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Collect fetches logs for every named source since the window start.
// Fetches run with bounded parallelism; results are reassembled in the
// input order regardless of completion order. A fetch error (including a
// timeout) becomes a degraded record in the result, never an error return.
func (c *Collector) Collect(ctx context.Context, names []string, since time.Time) []model.SourceLog {
	results := make([]model.SourceLog, len(names))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.parallelism)

	for i, name := range names {
		i, name := i, name
		g.Go(func() error {
			fctx, cancel := context.WithTimeout(gctx, c.timeout)
			defer cancel()

			text, err := c.src.Fetch(fctx, name, since)
			results[i] = model.SourceLog{Source: name, Text: text, Err: err}
			return nil
		})
	}

	// Workers never return errors; Wait is only a join point.
	g.Wait()

	return results
}
