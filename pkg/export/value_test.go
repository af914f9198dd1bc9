package export

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSerialize(t *testing.T) {
	tests := []struct {
		name  string
		value Value
		want  string
	}{
		{name: "scalar", value: Scalar("Home"), want: "Home"},
		{name: "empty scalar", value: Scalar(""), want: ""},
		{name: "sequence", value: Sequence{Scalar("a"), Scalar("b")}, want: "a,b"},
		{name: "nested", value: Sequence{Scalar("a"), Sequence{Scalar("b"), Scalar("c")}}, want: "a,b,c"},
		{name: "trailing empty", value: Sequence{Scalar("a"), Scalar("")}, want: "a"},
		{name: "empty sequence", value: Sequence{}, want: ""},
		{name: "empty nested", value: Sequence{Scalar("a"), Sequence{}}, want: "a"},
		{name: "leading empty kept", value: Sequence{Scalar(""), Scalar("b")}, want: ",b"},
		{name: "nil", value: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Serialize(tt.value); got != tt.want {
				t.Errorf("Serialize() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScalarOf(t *testing.T) {
	ts := time.Date(2024, 1, 2, 10, 30, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   any
		want Scalar
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string", in: "x", want: "x"},
		{name: "int", in: 42, want: "42"},
		{name: "float", in: 1.5, want: "1.5"},
		{name: "bool", in: true, want: "true"},
		{name: "time", in: ts, want: "2024-01-02 10:30:00"},
		{name: "zero time", in: time.Time{}, want: ""},
		{name: "time pointer", in: &ts, want: "2024-01-02 10:30:00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ScalarOf(tt.in); got != tt.want {
				t.Errorf("ScalarOf(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValueOf(t *testing.T) {
	got := ValueOf(map[string]any{
		"b": []any{"x", 2},
		"a": "first",
	})
	want := Sequence{Scalar("first"), Sequence{Scalar("x"), Scalar("2")}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ValueOf() mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff(Sequence{Scalar("p"), Scalar("q")}, ValueOf([]string{"p", "q"})); diff != "" {
		t.Errorf("ValueOf([]string) mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordGet(t *testing.T) {
	r := NewRecord(F("title", "Home"), F("title", "Shadowed"), F("tags", []string{"a"}))

	v, ok := r.Get("title")
	if !ok || v != Scalar("Home") {
		t.Errorf("Get(title) = %v, %v", v, ok)
	}
	if _, ok := r.Get("missing"); ok {
		t.Error("Get(missing) should report false")
	}
}

func TestCompiledRecord(t *testing.T) {
	c := NewCompiledRecord()
	c.Set("a", "1")
	c.Set("b", "2")
	c.Set("a", "3")

	if diff := cmp.Diff([]string{"a", "b"}, c.Keys()); diff != "" {
		t.Errorf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"3", "2"}, c.Values()); diff != "" {
		t.Errorf("Values() mismatch (-want +got):\n%s", diff)
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2", c.Len())
	}

	keys := c.Keys()
	keys[0] = "mutated"
	if c.Keys()[0] != "a" {
		t.Error("Keys() exposed internal state")
	}
}
