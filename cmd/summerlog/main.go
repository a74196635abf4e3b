package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/summerlog/summerlog/internal/collector"
	"github.com/summerlog/summerlog/internal/config"
	"github.com/summerlog/summerlog/internal/delivery/factory"
	"github.com/summerlog/summerlog/internal/logging"
	"github.com/summerlog/summerlog/internal/run"
	"github.com/summerlog/summerlog/internal/schedule"
	"github.com/summerlog/summerlog/internal/source"
	"github.com/summerlog/summerlog/internal/summarizer/openai"
	"github.com/summerlog/summerlog/internal/watermark"

	// Register source implementations.
	_ "github.com/summerlog/summerlog/internal/source/docker"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "summerlog:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		dryRun     bool
		sinceFlag  string
	)

	cmd := &cobra.Command{
		Use:           "summerlog",
		Short:         "Summarize container logs with a language model and email the report",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			opts := run.Options{
				DryRun:      dryRun,
				Lookback:    cfg.Lookback(),
				MaxLogChars: cfg.Collector.MaxLogChars,
			}
			if sinceFlag != "" {
				since, err := time.Parse(time.RFC3339, sinceFlag)
				if err != nil {
					return fmt.Errorf("parse --since: %w", err)
				}
				opts.SinceOverride = since
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runOnce(ctx, cfg, logger, opts)
		},
	}

	cmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: config.yaml in the summerlog config dir)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "build and print the summary without delivering or advancing the watermark")
	cmd.Flags().StringVar(&sinceFlag, "since", "", "override the collection window start (RFC 3339)")

	cmd.AddCommand(newScheduleCmd(&configPath), newConfigCmd(), newVersionCmd())
	return cmd
}

func newScheduleCmd(configPath *string) *cobra.Command {
	var cronExpr string

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Run the pipeline on an in-process cron schedule",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(*configPath)
			if err != nil {
				return err
			}
			defer logger.Sync()

			expr := cronExpr
			if expr == "" {
				expr = cfg.Schedule
			}
			expr = schedule.Resolve(expr)

			runner, err := schedule.New(expr, func(ctx context.Context) error {
				return runOnce(ctx, cfg, logger, run.Options{
					Lookback:    cfg.Lookback(),
					MaxLogChars: cfg.Collector.MaxLogChars,
				})
			}, logger)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("scheduling runs", zap.String("cron", expr))
			return runner.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&cronExpr, "cron", "", "cron expression or preset (hourly, daily, weekly); overrides the configured schedule")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the summerlog version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), "summerlog", config.Version)
		},
	}
}

// setup loads configuration and builds the logger shared by all commands.
func setup(configPath string) (config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, nil, fmt.Errorf("invalid configuration:\n%w", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// runOnce wires the pipeline from config and executes a single run.
func runOnce(ctx context.Context, cfg config.Config, logger *zap.Logger, opts run.Options) error {
	src, err := source.New(source.Config{
		Provider:  cfg.Source.Provider,
		Host:      cfg.Source.Host,
		AllowList: cfg.Source.Containers,
	})
	if err != nil {
		return err
	}

	col := collector.New(src,
		collector.WithParallelism(cfg.Collector.Parallelism),
		collector.WithFetchTimeout(cfg.Collector.FetchTimeout),
	)

	sum := openai.New(openai.Config{
		BaseURL: cfg.Summarizer.BaseURL,
		APIKey:  cfg.Summarizer.APIKey,
		Model:   cfg.Summarizer.Model,
		Timeout: cfg.Summarizer.Timeout,
	})

	del, err := factory.New(cfg.Delivery)
	if err != nil {
		return err
	}

	store := watermark.New(cfg.WatermarkPath)
	runner := run.New(store, src, col, sum, del, logger)

	outcome, err := runner.Run(ctx, opts)
	if err != nil {
		return fmt.Errorf("run aborted (%s): %w", outcome, err)
	}
	logger.Info("outcome", zap.Stringer("outcome", outcome))
	return nil
}
