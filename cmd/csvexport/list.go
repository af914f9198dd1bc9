package main

import (
	"strconv"

	"contentworks/csvexport/pkg/cli"
	"contentworks/csvexport/pkg/export"
	"contentworks/csvexport/pkg/store"

	"github.com/spf13/cobra"
)

var listFlags struct {
	format string
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List exportable content types",
	Long: `List the content types offered for export with their display names,
file names and the number of stored records.

Examples:
  csvexport list
  csvexport list --format json`,
	Args: cobra.NoArgs,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVar(&listFlags.format, "format", "text", "output format: text, json")
}

// exportListing is the result of the list command.
type exportListing struct {
	Permission string         `json:"permission"`
	Exports    []listingEntry `json:"exports"`
}

type listingEntry struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Filename string `json:"filename"`
	Records  int64  `json:"records"`
}

func (l exportListing) Header() []string {
	return []string{"KEY", "NAME", "FILE", "RECORDS"}
}

func (l exportListing) Rows() [][]string {
	rows := make([][]string, 0, len(l.Exports))
	for _, e := range l.Exports {
		rows = append(rows, []string{e.Key, e.Name, e.Filename, strconv.FormatInt(e.Records, 10)})
	}
	return rows
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := cli.ParseFormat(listFlags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if _, err := setupLogging(cfg); err != nil {
		return err
	}

	recordStore, err := store.Open(cfg.Storage)
	if err != nil {
		return cli.NewCommandError("list", err)
	}
	defer recordStore.Close()

	settings := export.NewSettings(&cfg.Export)
	ctx := commandContext(cmd)

	listing := exportListing{
		Permission: settings.Policy.Permission(),
		Exports:    []listingEntry{},
	}
	for _, ct := range settings.Policy.AvailableExports() {
		count, err := recordStore.Count(ctx, ct.Key)
		if err != nil {
			return cli.NewCommandError("list", err)
		}
		listing.Exports = append(listing.Exports, listingEntry{
			Key:      ct.Key,
			Name:     ct.Name,
			Filename: settings.Policy.FilenameFor(ct.Key) + ".csv",
			Records:  count,
		})
	}

	return cli.NewFormatter(format).FormatTo(cmd.OutOrStdout(), listing)
}
