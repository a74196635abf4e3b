// Package config resolves all summerlog configuration once at startup: an
// optional YAML file under the config dir, overridden by SUMMERLOG_* env
// vars, with the original flat env names (OPENAI_API_KEY, SMTP_HOST, ...)
// honored as aliases.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Version is the release version, overridable at build time via -ldflags.
var Version = "0.3.0"

// Config holds all summerlog configuration.
type Config struct {
	Source     SourceConfig     `mapstructure:"source"`
	Collector  CollectorConfig  `mapstructure:"collector"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Delivery   DeliveryConfig   `mapstructure:"delivery"`

	// WatermarkPath is the single-timestamp state file.
	WatermarkPath string `mapstructure:"watermark_path"`

	// LookbackHours bounds the first window when no watermark exists.
	LookbackHours int `mapstructure:"lookback_hours"`

	// Schedule is the cron expression used by the schedule subcommand.
	Schedule string `mapstructure:"schedule"`

	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // "console" or "json"
}

// SourceConfig holds container platform settings.
type SourceConfig struct {
	Provider   string   `mapstructure:"provider"`
	Host       string   `mapstructure:"host"`
	Containers []string `mapstructure:"containers"` // static allow-list; empty means enumerate
}

// CollectorConfig bounds the collection stage.
type CollectorConfig struct {
	MaxLogChars  int           `mapstructure:"max_log_chars"` // per-source prompt budget
	Parallelism  int           `mapstructure:"parallelism"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// SummarizerConfig holds model service settings.
type SummarizerConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	APIKey  string        `mapstructure:"api_key"`
	Model   string        `mapstructure:"model"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// DeliveryConfig selects and configures the report channel.
type DeliveryConfig struct {
	Channel string        `mapstructure:"channel"` // "email" or "slack"
	Timeout time.Duration `mapstructure:"timeout"`
	Email   EmailConfig   `mapstructure:"email"`
	Slack   SlackConfig   `mapstructure:"slack"`
}

// EmailConfig holds SMTP and addressing settings.
type EmailConfig struct {
	SMTPHost string   `mapstructure:"smtp_host"`
	SMTPPort int      `mapstructure:"smtp_port"`
	SMTPUser string   `mapstructure:"smtp_user"`
	SMTPPass string   `mapstructure:"smtp_pass"`
	From     string   `mapstructure:"from"`
	To       []string `mapstructure:"to"`
}

// SlackConfig holds Slack credentials and addressing.
type SlackConfig struct {
	Token   string `mapstructure:"token"`
	Channel string `mapstructure:"channel"`
}

// Dir returns the summerlog config directory
// ($XDG_CONFIG_HOME/summerlog, defaulting under the home dir).
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "summerlog")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "summerlog"
	}
	return filepath.Join(home, ".config", "summerlog")
}

// Load resolves configuration. path names an explicit config file and must
// exist when non-empty; otherwise config.yaml in the config dir is read if
// present. Env vars override file values either way.
func Load(path string) (Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("SUMMERLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindAliases(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(Dir())
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("read config file: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("source.provider", "docker")
	v.SetDefault("collector.max_log_chars", 20000)
	v.SetDefault("collector.parallelism", 4)
	v.SetDefault("collector.fetch_timeout", "2m")
	v.SetDefault("summarizer.base_url", "https://api.openai.com/v1")
	v.SetDefault("summarizer.model", "gpt-4o-mini")
	v.SetDefault("summarizer.timeout", "2m")
	v.SetDefault("delivery.channel", "email")
	v.SetDefault("delivery.timeout", "1m")
	v.SetDefault("delivery.email.smtp_port", 587)
	v.SetDefault("watermark_path", filepath.Join(Dir(), "last_run_timestamp.txt"))
	v.SetDefault("lookback_hours", 24)
	v.SetDefault("schedule", "0 8 * * *")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "console")
}

// bindAliases maps the flat env names the original deployment used onto
// their structured keys, so existing .env files keep working.
func bindAliases(v *viper.Viper) {
	aliases := map[string]string{
		"summarizer.api_key":       "OPENAI_API_KEY",
		"summarizer.base_url":      "OPENAI_API_BASE",
		"summarizer.model":         "OPENAI_MODEL",
		"delivery.email.smtp_host": "SMTP_HOST",
		"delivery.email.smtp_port": "SMTP_PORT",
		"delivery.email.smtp_user": "SMTP_USER",
		"delivery.email.smtp_pass": "SMTP_PASS",
		"delivery.email.from":      "EMAIL_FROM",
		"delivery.email.to":        "EMAIL_TO",
		"source.containers":        "CONTAINERS",
		"collector.max_log_chars":  "MAX_LOG_CHARS",
		"lookback_hours":           "SINCE_HOURS",
	}
	replacer := strings.NewReplacer(".", "_")
	for key, legacy := range aliases {
		prefixed := "SUMMERLOG_" + strings.ToUpper(replacer.Replace(key))
		v.BindEnv(key, prefixed, legacy)
	}
}

// Validate checks that everything a run needs is present and coherent.
// All problems are reported together.
func (c Config) Validate() error {
	var errs []error

	if c.Source.Provider == "" {
		errs = append(errs, errors.New("source.provider is required"))
	}
	if c.LookbackHours <= 0 {
		errs = append(errs, errors.New("lookback_hours must be positive"))
	}
	if c.Collector.MaxLogChars <= 0 {
		errs = append(errs, errors.New("collector.max_log_chars must be positive"))
	}
	if c.Summarizer.APIKey == "" {
		errs = append(errs, errors.New("summarizer.api_key is required (OPENAI_API_KEY)"))
	}

	switch c.Delivery.Channel {
	case "email", "":
		if c.Delivery.Email.SMTPHost == "" {
			errs = append(errs, errors.New("delivery.email.smtp_host is required (SMTP_HOST)"))
		}
		if c.Delivery.Email.SMTPPort < 1 || c.Delivery.Email.SMTPPort > 65535 {
			errs = append(errs, fmt.Errorf("delivery.email.smtp_port %d out of range", c.Delivery.Email.SMTPPort))
		}
		if c.Delivery.Email.From == "" {
			errs = append(errs, errors.New("delivery.email.from is required (EMAIL_FROM)"))
		}
		if len(c.Delivery.Email.To) == 0 {
			errs = append(errs, errors.New("delivery.email.to is required (EMAIL_TO)"))
		}
	case "slack":
		if c.Delivery.Slack.Token == "" {
			errs = append(errs, errors.New("delivery.slack.token is required"))
		}
		if c.Delivery.Slack.Channel == "" {
			errs = append(errs, errors.New("delivery.slack.channel is required"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown delivery.channel %q", c.Delivery.Channel))
	}

	return errors.Join(errs...)
}

// Lookback returns the configured lookback as a duration.
func (c Config) Lookback() time.Duration {
	return time.Duration(c.LookbackHours) * time.Hour
}
