package export

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cast"
)

// TimeLayout is the layout used when date and datetime fields are turned
// into scalars.
const TimeLayout = "2006-01-02 15:04:05"

// fieldSeparator joins the elements of a flattened sequence.
const fieldSeparator = ","

// Value is a raw field value. It is either a Scalar or a Sequence.
type Value interface {
	isValue()
}

// Scalar is a single raw value in its string form.
type Scalar string

// Sequence is an ordered list of raw values, possibly nested.
type Sequence []Value

func (Scalar) isValue()   {}
func (Sequence) isValue() {}

// ScalarOf converts a Go scalar (string, number, bool, time, nil) into a Scalar.
func ScalarOf(v any) Scalar {
	switch t := v.(type) {
	case nil:
		return ""
	case Scalar:
		return t
	case string:
		return Scalar(t)
	case time.Time:
		if t.IsZero() {
			return ""
		}
		return Scalar(t.Format(TimeLayout))
	case *time.Time:
		if t == nil || t.IsZero() {
			return ""
		}
		return Scalar(t.Format(TimeLayout))
	}

	s, err := cast.ToStringE(v)
	if err != nil {
		return Scalar(fmt.Sprint(v))
	}
	return Scalar(s)
}

// ValueOf converts an arbitrary decoded Go value into a Value. Slices become
// sequences, maps become sequences of their values in key order, and anything
// else becomes a scalar.
func ValueOf(v any) Value {
	switch t := v.(type) {
	case Value:
		return t
	case []any:
		seq := make(Sequence, 0, len(t))
		for _, item := range t {
			seq = append(seq, ValueOf(item))
		}
		return seq
	case []string:
		seq := make(Sequence, 0, len(t))
		for _, item := range t {
			seq = append(seq, Scalar(item))
		}
		return seq
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		seq := make(Sequence, 0, len(t))
		for _, k := range keys {
			seq = append(seq, ValueOf(t[k]))
		}
		return seq
	default:
		return ScalarOf(v)
	}
}

// Serialize flattens a value into a single string. Scalars are returned as-is.
// Sequences are serialized element by element and joined with commas, with
// trailing separators trimmed.
//
// Nesting is not preserved: [a, [b, c]] and [a, b, c] serialize identically.
func Serialize(v Value) string {
	switch t := v.(type) {
	case Scalar:
		return string(t)
	case Sequence:
		parts := make([]string, 0, len(t))
		for _, item := range t {
			parts = append(parts, Serialize(item))
		}
		return strings.TrimRight(strings.Join(parts, fieldSeparator), fieldSeparator)
	default:
		return ""
	}
}
