package store

import (
	"errors"
	"fmt"
	"time"

	"contentworks/csvexport/pkg/export"

	"github.com/google/uuid"
	"github.com/relvacode/iso8601"
	"github.com/valyala/fastjson"
)

// timestampLayout is fixed width so that text order equals time order.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// createdFieldNames are the flat-document fields read as the creation time.
var createdFieldNames = []string{"created_at", "datecreated"}

var parserPool fastjson.ParserPool

var arenaPool fastjson.ArenaPool

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	return time.Parse(timestampLayout, s)
}

// EncodeFields marshals record fields into a JSON object whose key order is
// the field order. Scalars become strings and sequences become arrays.
func EncodeFields(fields []export.Field) []byte {
	a := arenaPool.Get()
	defer arenaPool.Put(a)

	obj := a.NewObject()
	for _, f := range fields {
		// A repeated name keeps its first position and its last value.
		obj.Set(f.Name, encodeValue(a, f.Value))
	}
	return obj.MarshalTo(nil)
}

func encodeValue(a *fastjson.Arena, v export.Value) *fastjson.Value {
	switch t := v.(type) {
	case export.Sequence:
		arr := a.NewArray()
		for i, item := range t {
			arr.SetArrayItem(i, encodeValue(a, item))
		}
		return arr
	case export.Scalar:
		return a.NewString(string(t))
	default:
		return a.NewNull()
	}
}

// DecodeRecord builds a record from a JSON object of fields. Field order
// follows the document. Nested arrays and objects become sequences; numbers
// keep their literal text; null becomes the empty scalar.
func DecodeRecord(id string, createdAt time.Time, data []byte) (export.Record, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return export.Record{}, &DecodeError{Index: -1, Cause: err}
	}

	fields, err := decodeFields(v)
	if err != nil {
		return export.Record{}, &DecodeError{Index: -1, Cause: err}
	}

	return export.Record{ID: id, CreatedAt: createdAt, Fields: fields}, nil
}

// DecodeDocuments decodes a JSON array of record documents, as accepted by
// the import command. Each element is either an envelope
//
//	{"id": "1", "created_at": "2024-01-02T10:00:00Z", "fields": {...}}
//
// or a flat object whose keys are the fields themselves. Flat documents take
// their ID from an "id" field and their creation time from "created_at" or
// "datecreated". Missing IDs are generated and missing times default to now.
func DecodeDocuments(data []byte, now time.Time) ([]export.Record, error) {
	p := parserPool.Get()
	defer parserPool.Put(p)

	v, err := p.ParseBytes(data)
	if err != nil {
		return nil, &DecodeError{Index: -1, Cause: err}
	}

	items, err := v.Array()
	if err != nil {
		return nil, &DecodeError{Index: -1, Cause: fmt.Errorf("expected an array of records: %w", err)}
	}

	records := make([]export.Record, 0, len(items))
	for i, item := range items {
		record, err := decodeDocument(item, now)
		if err != nil {
			return nil, &DecodeError{Index: i, Cause: err}
		}
		records = append(records, record)
	}

	return records, nil
}

func decodeDocument(v *fastjson.Value, now time.Time) (export.Record, error) {
	if v.Type() != fastjson.TypeObject {
		return export.Record{}, fmt.Errorf("expected object, got %s", v.Type())
	}

	record := export.Record{CreatedAt: now}

	if inner := v.Get("fields"); inner != nil && inner.Type() == fastjson.TypeObject {
		fields, err := decodeFields(inner)
		if err != nil {
			return export.Record{}, err
		}
		record.Fields = fields
		record.ID = scalarText(v.Get("id"))
		if created := scalarText(v.Get("created_at")); created != "" {
			t, err := parseCreated(created)
			if err != nil {
				return export.Record{}, fmt.Errorf("created_at: %w", err)
			}
			record.CreatedAt = t
		}
	} else {
		fields, err := decodeFields(v)
		if err != nil {
			return export.Record{}, err
		}
		record.Fields = fields
		record.ID = scalarText(v.Get("id"))
		for _, name := range createdFieldNames {
			created := scalarText(v.Get(name))
			if created == "" {
				continue
			}
			if t, err := parseCreated(created); err == nil {
				record.CreatedAt = t
				break
			}
		}
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}

	return record, nil
}

// parseCreated accepts ISO 8601 timestamps and the "2006-01-02 15:04:05"
// form used by CMS dumps.
func parseCreated(s string) (time.Time, error) {
	t, err := iso8601.ParseString(s)
	if err == nil {
		return t, nil
	}
	if t, layoutErr := time.Parse(export.TimeLayout, s); layoutErr == nil {
		return t, nil
	}
	return time.Time{}, err
}

func decodeFields(v *fastjson.Value) ([]export.Field, error) {
	obj, err := v.Object()
	if err != nil {
		return nil, errors.New("fields must be a JSON object")
	}

	fields := make([]export.Field, 0, obj.Len())
	obj.Visit(func(key []byte, item *fastjson.Value) {
		fields = append(fields, export.Field{Name: string(key), Value: decodeValue(item)})
	})
	return fields, nil
}

func decodeValue(v *fastjson.Value) export.Value {
	switch v.Type() {
	case fastjson.TypeArray:
		items := v.GetArray()
		seq := make(export.Sequence, 0, len(items))
		for _, item := range items {
			seq = append(seq, decodeValue(item))
		}
		return seq
	case fastjson.TypeObject:
		seq := export.Sequence{}
		v.GetObject().Visit(func(_ []byte, item *fastjson.Value) {
			seq = append(seq, decodeValue(item))
		})
		return seq
	default:
		return export.Scalar(scalarText(v))
	}
}

// scalarText returns the text of a JSON scalar. Strings are unquoted,
// numbers keep their literal form, and null or missing values are empty.
func scalarText(v *fastjson.Value) string {
	if v == nil {
		return ""
	}
	switch v.Type() {
	case fastjson.TypeString:
		return string(v.GetStringBytes())
	case fastjson.TypeNumber:
		return v.String()
	case fastjson.TypeTrue:
		return "true"
	case fastjson.TypeFalse:
		return "false"
	default:
		return ""
	}
}
