package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"homedash/internal/charts"
	"homedash/internal/config"
	"homedash/internal/logger"
	"homedash/internal/server"
)

type rootOptions struct {
	envFiles  []string
	logLevel  string
	logFormat string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "homedash",
		Short: "Chart configuration builder for the home dashboard",
		Long: `homedash turns dart scores, energy readings and network samples
into chart configurations for the home dashboard.

Examples:
  homedash serve
  homedash render --preset darts-501 --input scores.json --format png
  homedash inspect --preset network-speed --input samples.json
  homedash dashboard --panel darts-501=scores.json --panel emporia-usage=http://emporia.lan/usage.json`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       config.GetVersion(),
	}

	rootCmd.PersistentFlags().StringSliceVar(&opts.envFiles, "env-file", nil, "Env files to load before the environment (default: .env)")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "Override LOG_LEVEL")
	rootCmd.PersistentFlags().StringVar(&opts.logFormat, "log-format", "", "Override LOG_FORMAT")

	rootCmd.AddCommand(
		newServeCmd(opts),
		newRenderCmd(opts),
		newInspectCmd(opts),
		newDashboardCmd(opts),
		newPresetsCmd(opts),
		newArtifactsCmd(opts),
	)
	return rootCmd
}

// load reads configuration, applies the flag overrides and configures the
// global logger.
func (o *rootOptions) load(ctx context.Context) (*config.Config, *charts.Registry, error) {
	cfg, err := config.Load(ctx, o.envFiles...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	if o.logFormat != "" {
		cfg.LogFormat = o.logFormat
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	logger.Configure(cfg.LogLevel, cfg.LogFormat)

	registry, err := cfg.Registry()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load presets: %w", err)
	}
	return cfg, registry, nil
}

func newServeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the chart API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, registry, err := opts.load(ctx)
			if err != nil {
				return err
			}

			logger.Info("starting homedash", logger.Fields{
				"version":     config.GetVersion(),
				"environment": cfg.Environment,
			})
			return server.NewServer(cfg, registry).ListenAndServe(ctx)
		},
	}
}
