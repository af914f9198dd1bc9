package export

// Table is a rectangular export table. Row 0, when present, is the header.
type Table [][]string

// Assemble builds a table from compiled records. The header is taken from the
// first record's keys. Every data row is read by header key, so records with
// a different key order still line up; a missing key yields an empty cell and
// keys not in the header are dropped. No records yields an empty table with no
// header.
func Assemble(records []*CompiledRecord) Table {
	if len(records) == 0 {
		return Table{}
	}

	header := records[0].Keys()
	table := make(Table, 0, len(records)+1)
	table = append(table, header)

	for _, record := range records {
		row := make([]string, len(header))
		for i, key := range header {
			// Missing keys stay empty.
			row[i], _ = record.Get(key)
		}
		table = append(table, row)
	}
	return table
}

// Header returns the header row, or nil for an empty table.
func (t Table) Header() []string {
	if len(t) == 0 {
		return nil
	}
	return t[0]
}

// DataRows returns the number of rows after the header.
func (t Table) DataRows() int {
	if len(t) == 0 {
		return 0
	}
	return len(t) - 1
}
