// Package slack posts the summary to a Slack channel.
package slack

import (
	"context"
	"fmt"

	slackapi "github.com/slack-go/slack"

	"github.com/summerlog/summerlog/internal/delivery"
)

// Config holds Slack credentials and addressing.
type Config struct {
	Token   string
	Channel string
}

// poster is the slice of the Slack client used here; tests substitute a fake.
type poster interface {
	PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error)
}

// Deliverer posts the summary markdown as a channel message. The severity
// tags pass through as literal text; Slack has no span styling, so the
// three tag words themselves carry the signal.
type Deliverer struct {
	cfg    Config
	client poster
}

// New creates a slack Deliverer.
func New(cfg Config) *Deliverer {
	return &Deliverer{
		cfg:    cfg,
		client: slackapi.New(cfg.Token),
	}
}

// Deliver posts the summary. Failures come back as *delivery.Error.
func (d *Deliverer) Deliver(ctx context.Context, summary string) error {
	text := fmt.Sprintf("*Container Log Summary*\n\n%s", summary)
	_, _, err := d.client.PostMessageContext(ctx, d.cfg.Channel, slackapi.MsgOptionText(text, false))
	if err != nil {
		return &delivery.Error{Channel: "slack", Err: err}
	}
	return nil
}
