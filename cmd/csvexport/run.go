package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"contentworks/csvexport/pkg/cli"
	"contentworks/csvexport/pkg/config"
	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/schedule"
	"contentworks/csvexport/pkg/server"
	"contentworks/csvexport/pkg/store"
	"contentworks/csvexport/pkg/telemetry/health"
	"contentworks/csvexport/pkg/telemetry/metrics"
	"contentworks/csvexport/pkg/telemetry/tracing"

	"github.com/spf13/cobra"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the export server and scheduler",
	Long: `Start the HTTP export server together with the scheduled export jobs.

The server lists exportable content types under the mount prefix and serves
each export as a CSV download. Scheduled jobs write their exports into the
configured output directory. With server.watch_config enabled, edits to the
configuration file are applied without a restart.

Examples:
  # Start with default config
  csvexport run

  # Start with custom config
  csvexport run --config /etc/csvexport/config.yaml

  # Override listen address
  csvexport run --listen 0.0.0.0:8080

  # Validate config without starting server
  csvexport run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting server")
}

func runServer(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.WrapConfigError("", err)
	}
	cfg := config.GetConfig()

	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if runFlags.dryRun {
		fmt.Fprintln(out, "✓ Configuration valid")
		return nil
	}

	fmt.Fprintf(out, "csvexport v%s\n", Version)
	fmt.Fprintf(out, "Loading configuration from: %s\n", cfgFile)

	recordStore, err := store.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer recordStore.Close()
	fmt.Fprintf(out, "✓ Record store opened (%s)\n", cfg.Storage.Driver)

	tracer, err := tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		return cli.NewCommandError("run", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tracer.Shutdown(shutdownCtx); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()
	if tracer.Enabled() {
		fmt.Fprintf(out, "✓ Tracing enabled (%s)\n", cfg.Telemetry.Tracing.Endpoint)
	}

	var (
		exportOpts = []export.Option{
			export.WithLogger(logger.Slog().With("component", "export")),
			export.WithTracer(tracer.Tracer()),
		}
		scheduleOpts = []schedule.Option{schedule.WithTracer(tracer.Tracer())}
		serverOpts   = []server.Option{server.WithTracer(tracer.Tracer())}
	)
	if cfg.Telemetry.Metrics.Enabled {
		collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
		exportOpts = append(exportOpts, export.WithObserver(collector))
		scheduleOpts = append(scheduleOpts, schedule.WithObserver(collector))
		serverOpts = append(serverOpts, server.WithMetrics(cfg.Telemetry.Metrics.Path, collector.Handler()))
	}

	exporter := export.NewExporter(export.NewSettings(&cfg.Export), exportOpts...)
	fmt.Fprintf(out, "✓ Exports available: %d\n", len(exporter.AvailableExports()))

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

	scheduler := schedule.NewScheduler(exporter, recordStore, cfg.Schedule, scheduleOpts...)
	if err := scheduler.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}
	defer scheduler.Stop()
	if next := scheduler.NextRun(); next != nil {
		fmt.Fprintf(out, "✓ Scheduler started (%d jobs, next run %s)\n", len(cfg.Schedule.Jobs), next.Format("2006-01-02 15:04:05"))
	}

	if cfg.Server.WatchConfig {
		watcher, err := config.NewWatcher(cfgFile, config.DefaultDebounceInterval, logger.Slog())
		if err != nil {
			return cli.NewCommandError("run", err)
		}
		go func() {
			if err := watcher.Watch(ctx, func() error {
				return reloadExports(exporter)
			}); err != nil {
				slog.Error("config watcher exited", "error", err)
			}
		}()
		fmt.Fprintln(out, "✓ Watching configuration for changes")
	}

	checker := health.New(0)
	checker.RegisterCheck("store", func(ctx context.Context) error {
		_, err := recordStore.ContentTypes(ctx)
		return err
	})
	if len(cfg.Schedule.Jobs) > 0 {
		checker.RegisterCheck("scheduler", func(context.Context) error {
			if !scheduler.IsRunning() {
				return errors.New("scheduler is not running")
			}
			return nil
		})
	}
	serverOpts = append(serverOpts,
		server.WithHealth(checker),
		server.WithVersion(Version, GitCommit, BuildDate),
	)

	srv := server.NewServer(&cfg.Server, exporter, recordStore, serverOpts...)

	fmt.Fprintf(out, "✓ Exports: http://%s%s\n", cfg.Server.ListenAddress, cfg.Server.MountPrefix)
	fmt.Fprintf(out, "✓ Health endpoints: http://%s/health, /ready\n", cfg.Server.ListenAddress)
	if cfg.Telemetry.Metrics.Enabled {
		fmt.Fprintf(out, "✓ Metrics endpoint: http://%s%s\n", cfg.Server.ListenAddress, cfg.Telemetry.Metrics.Path)
	}
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	if err := srv.Start(ctx); err != nil {
		return cli.NewCommandError("run", err)
	}

	fmt.Fprintln(out, "✓ Server stopped")
	return nil
}

// reloadExports reloads the configuration file and swaps the export settings.
// Only the export section is applied live; other sections need a restart.
func reloadExports(exporter *export.Exporter) error {
	cfg, err := config.ReloadConfig()
	if err != nil {
		return err
	}
	exporter.Reload(export.NewSettings(&cfg.Export))
	slog.Info("export settings reloaded",
		"exports", len(exporter.AvailableExports()),
	)
	return nil
}
