// Package summarizer defines the language-model boundary: prompt in,
// markdown summary out.
package summarizer

import "context"

// Summarizer produces a markdown summary for a prompt.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Error classifies any summarizer failure: transport, auth, rate limiting,
// model errors, or an unusable response. It aborts the run without advancing
// the watermark, so the same window is retried on the next invocation.
type Error struct {
	Op  string // what was being attempted, e.g. "chat completion"
	Err error
}

func (e *Error) Error() string {
	return "summarizer: " + e.Op + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error { return e.Err }
