// Package email delivers the summary as a styled HTML message over SMTP.
package email

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/summerlog/summerlog/internal/delivery"
)

// style carries the severity badge classes the summarizer is instructed to
// emit. The three class names are a fixed vocabulary; mail clients style the
// tags purely from this block.
const style = `
<style>
    body { font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, "Helvetica Neue", Arial, sans-serif; line-height: 1.6; color: #333; background-color: #f8f9fa; padding: 20px; }
    h1, h2, h3 { color: #2c3e50; border-bottom: 2px solid #eaecef; padding-bottom: 0.3em; }
    code { background-color: #e8eaed; padding: 2px 6px; border-radius: 6px; font-family: "SFMono-Regular", Consolas, "Liberation Mono", Menlo, Courier, monospace; }
    pre { background-color: #e8eaed; padding: 1em; border-radius: 6px; overflow-x: auto; }
    ul { padding-left: 20px; }
    li { margin-bottom: 0.5em; }
    .severity-high { background-color: #e74c3c; color: white; padding: 4px 10px; border-radius: 15px; font-size: 0.85em; font-weight: bold; text-transform: uppercase; }
    .severity-medium { background-color: #f39c12; color: white; padding: 4px 10px; border-radius: 15px; font-size: 0.85em; font-weight: bold; text-transform: uppercase; }
    .severity-low { background-color: #3498db; color: white; padding: 4px 10px; border-radius: 15px; font-size: 0.85em; font-weight: bold; text-transform: uppercase; }
</style>
`

// Config holds SMTP and addressing settings.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       []string
	Timeout  time.Duration
}

// Deliverer renders the markdown summary to HTML and sends it over SMTP.
type Deliverer struct {
	cfg Config
	md  goldmark.Markdown
	now func() time.Time

	// send is swapped in tests; it defaults to dialing cfg.Host.
	send func(ctx context.Context, msg *mail.Msg) error
}

// New creates an email Deliverer.
func New(cfg Config) *Deliverer {
	d := &Deliverer{
		cfg: cfg,
		// The summary embeds raw severity span tags; WithUnsafe keeps them
		// in the rendered document instead of escaping them away.
		md:  goldmark.New(goldmark.WithRendererOptions(html.WithUnsafe())),
		now: time.Now,
	}
	d.send = d.smtpSend
	return d
}

// Deliver renders and sends the summary. Any failure, including the dial and
// the send, comes back as a *delivery.Error.
func (d *Deliverer) Deliver(ctx context.Context, summary string) error {
	msg, err := d.compose(summary)
	if err != nil {
		return &delivery.Error{Channel: "email", Err: err}
	}
	if err := d.send(ctx, msg); err != nil {
		return &delivery.Error{Channel: "email", Err: err}
	}
	return nil
}

// compose builds the MIME message: markdown rendered to HTML, wrapped in the
// styled document, dated subject line.
func (d *Deliverer) compose(summary string) (*mail.Msg, error) {
	var body bytes.Buffer
	if err := d.md.Convert([]byte(summary), &body); err != nil {
		return nil, fmt.Errorf("render markdown: %w", err)
	}
	full := "<html><head>" + style + "</head><body>" + body.String() + "</body></html>"

	msg := mail.NewMsg()
	if err := msg.From(d.cfg.From); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := msg.To(d.cfg.To...); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	msg.Subject("Container Log Summary - " + d.now().Format("2006-01-02"))
	msg.SetBodyString(mail.TypeTextHTML, full)
	return msg, nil
}

// smtpSend dials the configured server and sends msg. Port 465 uses implicit
// TLS; any other port starts plain and upgrades via STARTTLS when offered.
func (d *Deliverer) smtpSend(ctx context.Context, msg *mail.Msg) error {
	opts := []mail.Option{
		mail.WithPort(d.cfg.Port),
	}
	if d.cfg.Port == 465 {
		opts = append(opts, mail.WithSSLPort(false))
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if d.cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(d.cfg.Username),
			mail.WithPassword(d.cfg.Password),
		)
	}
	if d.cfg.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(d.cfg.Timeout))
	}

	client, err := mail.NewClient(d.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("smtp client: %w", err)
	}
	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send: %w", err)
	}
	return nil
}
