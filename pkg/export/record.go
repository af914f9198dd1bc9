package export

import "time"

// Field is a named raw value within a record.
type Field struct {
	Name  string
	Value Value
}

// Record is one raw record of a content type. Fields keep their native order.
// A record must not be modified once handed to the pipeline.
type Record struct {
	// ID is the record identifier in the record store, if any.
	ID string

	// CreatedAt is the record creation time, if known.
	CreatedAt time.Time

	// Fields holds the record's fields in order.
	Fields []Field
}

// NewRecord creates a record from fields.
func NewRecord(fields ...Field) Record {
	return Record{Fields: fields}
}

// F is shorthand for a Field built from a Go value.
func F(name string, v any) Field {
	return Field{Name: name, Value: ValueOf(v)}
}

// Get returns the value of the first field with the given name.
func (r Record) Get(name string) (Value, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// CompiledRecord is an ordered mapping from output key to flattened value.
// Keys keep their first insertion position; setting an existing key
// overwrites its value.
type CompiledRecord struct {
	keys   []string
	values map[string]string
}

// NewCompiledRecord creates an empty compiled record.
func NewCompiledRecord() *CompiledRecord {
	return &CompiledRecord{values: make(map[string]string)}
}

// Set stores value under key.
func (c *CompiledRecord) Set(key, value string) {
	if _, exists := c.values[key]; !exists {
		c.keys = append(c.keys, key)
	}
	c.values[key] = value
}

// Get returns the value stored under key.
func (c *CompiledRecord) Get(key string) (string, bool) {
	v, ok := c.values[key]
	return v, ok
}

// Keys returns the output keys in order.
func (c *CompiledRecord) Keys() []string {
	keys := make([]string, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Values returns the values in key order.
func (c *CompiledRecord) Values() []string {
	values := make([]string, len(c.keys))
	for i, k := range c.keys {
		values[i] = c.values[k]
	}
	return values
}

// Len returns the number of keys.
func (c *CompiledRecord) Len() int {
	return len(c.keys)
}
