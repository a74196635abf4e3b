// Package factory builds the configured delivery channel.
package factory

import (
	"fmt"

	"github.com/summerlog/summerlog/internal/config"
	"github.com/summerlog/summerlog/internal/delivery"
	"github.com/summerlog/summerlog/internal/delivery/email"
	"github.com/summerlog/summerlog/internal/delivery/slack"
)

// New returns the Deliverer for the configured channel.
func New(cfg config.DeliveryConfig) (delivery.Deliverer, error) {
	switch cfg.Channel {
	case "email", "":
		return email.New(email.Config{
			Host:     cfg.Email.SMTPHost,
			Port:     cfg.Email.SMTPPort,
			Username: cfg.Email.SMTPUser,
			Password: cfg.Email.SMTPPass,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
			Timeout:  cfg.Timeout,
		}), nil
	case "slack":
		return slack.New(slack.Config{
			Token:   cfg.Slack.Token,
			Channel: cfg.Slack.Channel,
		}), nil
	default:
		return nil, fmt.Errorf("unknown delivery channel: %s", cfg.Channel)
	}
}
