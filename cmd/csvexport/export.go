package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"contentworks/csvexport/pkg/cli"
	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/schedule"
	"contentworks/csvexport/pkg/store"

	"github.com/relvacode/iso8601"
	"github.com/spf13/cobra"
)

var exportFlags struct {
	since  string
	limit  int
	output string
}

var exportCmd = &cobra.Command{
	Use:   "export <content_type>",
	Short: "Export one content type to CSV",
	Long: `Export the records of one content type as a CSV file.

--since accepts either an ISO 8601 time or a duration counted back from now.
Without --output the CSV is written to stdout. An output path ending in a
path separator, or naming an existing directory, receives <filename>.csv.

Examples:
  # Write to stdout
  csvexport export pages

  # Records created since a date
  csvexport export pages --since 2024-01-01 -o pages.csv

  # Records created in the last day, into a directory
  csvexport export pages --since 24h -o exports/`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVar(&exportFlags.since, "since", "", "only records created since this time (ISO 8601) or duration (e.g. 24h)")
	exportCmd.Flags().IntVar(&exportFlags.limit, "limit", 0, "maximum number of records (0 = no limit)")
	exportCmd.Flags().StringVarP(&exportFlags.output, "output", "o", "", "output file or directory (default: stdout)")
}

func runExport(cmd *cobra.Command, args []string) error {
	contentType := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	q := export.Query{Limit: exportFlags.limit}
	if exportFlags.since != "" {
		since, err := parseSince(exportFlags.since, time.Now())
		if err != nil {
			return cli.NewConfigError("since", err.Error())
		}
		q.CreatedSince = &since
	}

	recordStore, err := store.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("export", err)
	}
	defer recordStore.Close()

	exporter := export.NewExporter(export.NewSettings(&cfg.Export))
	if !exporter.Settings().Policy.IsExportable(contentType) {
		fmt.Fprintf(cmd.ErrOrStderr(), "⚠ content type %q is not exportable, writing an empty export\n", contentType)
	}

	out, err := exporter.Run(commandContext(cmd), recordStore, contentType, q)
	if err != nil {
		return cli.NewCommandError("export", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "Found %d records to export\n", out.Records)

	if exportFlags.output == "" {
		_, err := cmd.OutOrStdout().Write(out.Body)
		return err
	}

	path := outputPath(exportFlags.output, out.FullFilename())
	if err := schedule.WriteFile(path, out.Body); err != nil {
		return cli.NewCommandError("export", err)
	}

	fmt.Fprintf(cmd.ErrOrStderr(), "✓ Wrote %s\n", path)
	return nil
}

// parseSince reads an ISO 8601 time or a duration counted back from now.
func parseSince(s string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return now.Add(-d), nil
	}
	t, err := iso8601.ParseString(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: want ISO 8601 or a duration like 24h", s)
	}
	return t, nil
}

// outputPath resolves --output: directories receive the export's file name.
func outputPath(output, filename string) string {
	if strings.HasSuffix(output, string(os.PathSeparator)) || strings.HasSuffix(output, "/") {
		return filepath.Join(output, filename)
	}
	if info, err := os.Stat(output); err == nil && info.IsDir() {
		return filepath.Join(output, filename)
	}
	return output
}
