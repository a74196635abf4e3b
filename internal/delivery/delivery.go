// Package delivery defines the report destination boundary.
package delivery

import "context"

// Deliverer sends one rendered summary to its destination.
type Deliverer interface {
	Deliver(ctx context.Context, summary string) error
}

// Error classifies any delivery failure. Like a summarizer failure it aborts
// the run without advancing the watermark.
type Error struct {
	Channel string // "email", "slack"
	Err     error
}

func (e *Error) Error() string {
	return "delivery (" + e.Channel + "): " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
