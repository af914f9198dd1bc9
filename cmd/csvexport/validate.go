package main

import (
	"fmt"
	"time"

	"contentworks/csvexport/pkg/export"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load and validate the configuration file, including environment
overrides, and print a summary of what it configures.

Examples:
  csvexport validate
  csvexport validate --config /etc/csvexport/config.yaml`,
	Args: cobra.NoArgs,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	settings := export.NewSettings(&cfg.Export)

	fmt.Fprintf(out, "✓ Configuration valid: %s\n", cfgFile)
	fmt.Fprintf(out, "  Exportable content types: %d\n", len(settings.Policy.AvailableExports()))
	fmt.Fprintf(out, "  Disabled content types:   %d\n", len(cfg.Export.Disabled))

	mapped := 0
	for _, fields := range cfg.Export.Mappings {
		mapped += len(fields)
	}
	fmt.Fprintf(out, "  Field mappings:           %d\n", mapped)
	fmt.Fprintf(out, "  Storage:                  %s %s\n", cfg.Storage.Driver, cfg.Storage.Path)

	now := time.Now()
	for _, job := range cfg.Schedule.Jobs {
		schedule, err := cron.ParseStandard(job.Cron)
		if err != nil {
			// Validate already rejected bad expressions.
			continue
		}
		fmt.Fprintf(out, "  Job %s: %s every %q, next run %s\n",
			job.Name, job.ContentType, job.Cron, schedule.Next(now).Format("2006-01-02 15:04"))
	}

	return nil
}
