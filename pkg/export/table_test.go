package export

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func compiled(pairs ...string) *CompiledRecord {
	c := NewCompiledRecord()
	for i := 0; i+1 < len(pairs); i += 2 {
		c.Set(pairs[i], pairs[i+1])
	}
	return c
}

func TestAssemble(t *testing.T) {
	tests := []struct {
		name    string
		records []*CompiledRecord
		want    Table
	}{
		{
			name:    "no records",
			records: nil,
			want:    Table{},
		},
		{
			name: "basic",
			records: []*CompiledRecord{
				compiled("Title", "Home", "Body", "Welcome"),
				compiled("Title", "About", "Body", "Us"),
			},
			want: Table{
				{"Title", "Body"},
				{"Home", "Welcome"},
				{"About", "Us"},
			},
		},
		{
			name: "misaligned keys",
			records: []*CompiledRecord{
				compiled("a", "1", "b", "2"),
				compiled("b", "3", "c", "4"),
				compiled("b", "5", "a", "6"),
			},
			want: Table{
				{"a", "b"},
				{"1", "2"},
				{"", "3"},
				{"6", "5"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Assemble(tt.records)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Assemble() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestTableAccessors(t *testing.T) {
	var empty Table
	if empty.Header() != nil || empty.DataRows() != 0 {
		t.Error("empty table should have no header and no rows")
	}

	table := Table{{"h"}, {"1"}, {"2"}}
	if diff := cmp.Diff([]string{"h"}, table.Header()); diff != "" {
		t.Errorf("Header() mismatch (-want +got):\n%s", diff)
	}
	if table.DataRows() != 2 {
		t.Errorf("DataRows() = %d, want 2", table.DataRows())
	}
}
