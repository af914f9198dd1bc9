/*
Package cli provides command-line helpers used by the csvexport command.

Output Formatting:

Command results are printed as text or JSON. Results implementing Tabular
are rendered as aligned columns in text mode:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr, "records")
	progress.Start(int64(len(records)))
	for i := range records {
		// Store record
		progress.Update(int64(i + 1))
	}
	progress.Finish()

Signal Handling:

	ctx, stop := cli.SetupSignalHandler()
	defer stop()

Errors:

ConfigError and CommandError give failures a stable shape; both unwrap to
their cause.
*/
package cli
