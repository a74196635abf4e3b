package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/summerlog/summerlog/internal/config"
)

const configTemplate = `# summerlog configuration
# Env vars override everything here (SUMMERLOG_* or the flat names in comments).

source:
  provider: docker
  # host: unix:///var/run/docker.sock
  # containers: [web, db]        # CONTAINERS; empty = all running containers

collector:
  max_log_chars: 20000           # MAX_LOG_CHARS, per-container prompt budget
  parallelism: 4
  fetch_timeout: 2m

summarizer:
  # api_key: sk-...              # OPENAI_API_KEY
  base_url: https://api.openai.com/v1
  model: gpt-4o-mini
  timeout: 2m

delivery:
  channel: email                 # email or slack
  email:
    smtp_host: ""                # SMTP_HOST
    smtp_port: 587               # SMTP_PORT; 465 uses implicit TLS
    smtp_user: ""                # SMTP_USER
    smtp_pass: ""                # SMTP_PASS
    from: ""                     # EMAIL_FROM
    to: []                       # EMAIL_TO
  # slack:
  #   token: xoxb-...
  #   channel: "#ops"

lookback_hours: 24               # SINCE_HOURS, first-run window
schedule: "0 8 * * *"            # used by the schedule subcommand
log_level: info
log_format: console
`

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage summerlog configuration",
	}
	cmd.AddCommand(newConfigInitCmd())
	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a commented starter config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := filepath.Join(config.Dir(), "config.yaml")
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := os.MkdirAll(config.Dir(), 0o755); err != nil {
				return fmt.Errorf("create config dir: %w", err)
			}
			if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing config file")
	return cmd
}
