package main

import (
	"fmt"
	"os"
	"time"

	"contentworks/csvexport/pkg/cli"
	"contentworks/csvexport/pkg/store"

	"github.com/spf13/cobra"
)

var importFlags struct {
	quiet bool
}

var importCmd = &cobra.Command{
	Use:   "import <content_type> <file.json>",
	Short: "Load records into the record store",
	Long: `Load a JSON array of records into the record store.

Each element is either an envelope
  {"id": "1", "created_at": "2024-01-02T10:00:00Z", "fields": {"title": "Home"}}
or a flat object whose keys are the fields, with the ID taken from "id" and
the creation time from "created_at" or "datecreated". Field order in the file
is the column order of later exports. Records with an existing ID replace the
stored one.

Examples:
  csvexport import pages pages.json`,
	Args: cobra.ExactArgs(2),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().BoolVarP(&importFlags.quiet, "quiet", "q", false, "do not show progress")
}

func runImport(cmd *cobra.Command, args []string) error {
	contentType, file := args[0], args[1]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	data, err := os.ReadFile(file)
	if err != nil {
		return cli.NewCommandError("import", err)
	}

	records, err := store.DecodeDocuments(data, time.Now())
	if err != nil {
		return cli.NewCommandError("import", fmt.Errorf("%s: %w", file, err))
	}

	recordStore, err := store.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("import", err)
	}
	defer recordStore.Close()

	var progress cli.ProgressReporter
	if !importFlags.quiet {
		progress = cli.NewProgressReporter(cmd.ErrOrStderr(), "records")
		progress.Start(int64(len(records)))
	}

	ctx := commandContext(cmd)
	for i, record := range records {
		if err := recordStore.Put(ctx, contentType, record); err != nil {
			if progress != nil {
				progress.Error(err)
			}
			return cli.NewCommandError("import", err)
		}
		if progress != nil {
			progress.Update(int64(i + 1))
		}
	}
	if progress != nil {
		progress.Finish()
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %d %s records\n", len(records), contentType)
	return nil
}
