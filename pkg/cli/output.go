package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// OutputFormat represents the output format for command results.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// Tabular is implemented by results that render as an aligned table in text
// output.
type Tabular interface {
	Header() []string
	Rows() [][]string
}

// Formatter formats command output.
type Formatter interface {
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter formats output as plain text. Tabular data is written as
// aligned columns.
type TextFormatter struct{}

// FormatTo writes data to writer in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	t, ok := data.(Tabular)
	if !ok {
		_, err := fmt.Fprintf(w, "%v\n", data)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if header := t.Header(); len(header) > 0 {
		fmt.Fprintln(tw, strings.Join(header, "\t"))
	}
	for _, row := range t.Rows() {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// JSONFormatter formats output as JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo writes data to writer in JSON format.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (OutputFormat, error) {
	switch OutputFormat(s) {
	case FormatText, FormatJSON:
		return OutputFormat(s), nil
	case "":
		return FormatText, nil
	default:
		return "", NewConfigError("format", fmt.Sprintf("unsupported output format %q (want text or json)", s))
	}
}

// NewFormatter creates a new formatter for the specified format.
func NewFormatter(format OutputFormat) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: true}
	default:
		return &TextFormatter{}
	}
}
