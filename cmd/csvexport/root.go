package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"contentworks/csvexport/pkg/cli"
	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/telemetry/logging"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "csvexport",
	Short: "csvexport - CSV exports for CMS content types",
	Long: `csvexport turns the records of a content type into a CSV file.

Fields can be renamed, dropped or translated through value tables, and each
export is offered as a download, written by scheduled jobs, or produced on
demand from the command line.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig loads the configuration file with environment overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.WrapConfigError("", err)
	}
	return cfg, nil
}

// setupLogging installs the configured logger as the slog default. Logs go to
// stderr so stdout stays free for command output.
func setupLogging(cfg *config.Config) (*logging.Logger, error) {
	lc := cfg.Telemetry.Logging
	if verbose {
		lc.Level = "debug"
	}

	logger, err := logging.New(logging.FromConfig(lc, os.Stderr))
	if err != nil {
		return nil, cli.WrapConfigError("telemetry.logging", err)
	}

	slog.SetDefault(logger.Slog())
	return logger, nil
}

// commandContext returns the command context, or a background context when
// the command is invoked directly.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
