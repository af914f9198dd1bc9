package export

import (
	"encoding/csv"
	"io"
	"runtime"
	"unicode/utf8"
)

// BOM is the UTF-8 byte order mark written before every CSV export.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// CSVEncoder writes export tables as CSV.
type CSVEncoder struct {
	// Comma is the field delimiter.
	Comma rune

	// UseCRLF terminates lines with \r\n instead of \n.
	UseCRLF bool
}

// NewCSVEncoder creates an encoder for the given single-character delimiter.
// An empty or invalid delimiter falls back to a comma. Line endings follow the
// platform.
func NewCSVEncoder(delimiter string) *CSVEncoder {
	comma := ','
	if r, size := utf8.DecodeRuneInString(delimiter); r != utf8.RuneError && size == len(delimiter) {
		comma = r
	}
	return &CSVEncoder{
		Comma:   comma,
		UseCRLF: runtime.GOOS == "windows",
	}
}

// Encode writes the BOM followed by one CSV line per table row.
func (e *CSVEncoder) Encode(w io.Writer, table Table) error {
	if _, err := w.Write(BOM); err != nil {
		return NewExportError("csv", table.DataRows(), err)
	}

	writer := csv.NewWriter(w)
	writer.Comma = e.Comma
	writer.UseCRLF = e.UseCRLF

	if err := writer.WriteAll(table); err != nil {
		return NewExportError("csv", table.DataRows(), err)
	}
	return nil
}
