package export

import (
	"strings"

	"github.com/valyala/fastjson"
)

// multiValueSeparator joins resolved multi-select labels.
const multiValueSeparator = "\n"

// Resolve maps a flattened raw value to its display label using the mapping's
// value table.
//
// A raw value holding a JSON list of codes (a multi-select field) resolves to
// the labels of its known codes joined by newlines; unknown codes are dropped.
// When the value is not a list, or none of its codes are known, the whole raw
// value is looked up as a single code. Anything unresolved is returned as-is.
func Resolve(raw string, m FieldMapping) string {
	if m.Kind != Translate || m.Values == nil {
		return raw
	}

	if codes, ok := decodeCodes(raw); ok {
		labels := make([]string, 0, len(codes))
		for _, code := range codes {
			if label, found := m.Values[code]; found {
				labels = append(labels, label)
			}
		}
		if len(labels) > 0 {
			return strings.Join(labels, multiValueSeparator)
		}
	}

	if label, found := m.Values[raw]; found {
		return label
	}
	return raw
}

// decodeCodes parses raw as a JSON array (or object) of codes. String codes
// keep their value and numeric codes their literal text; other elements are
// skipped. The boolean is false when raw is not a JSON list.
func decodeCodes(raw string) ([]string, bool) {
	v, err := fastjson.Parse(raw)
	if err != nil {
		return nil, false
	}

	var items []*fastjson.Value
	switch v.Type() {
	case fastjson.TypeArray:
		items = v.GetArray()
	case fastjson.TypeObject:
		v.GetObject().Visit(func(_ []byte, item *fastjson.Value) {
			items = append(items, item)
		})
	default:
		return nil, false
	}

	codes := make([]string, 0, len(items))
	for _, item := range items {
		switch item.Type() {
		case fastjson.TypeString:
			codes = append(codes, string(item.GetStringBytes()))
		case fastjson.TypeNumber:
			codes = append(codes, item.String())
		}
	}
	return codes, true
}
