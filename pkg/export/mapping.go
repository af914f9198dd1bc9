package export

import "contentworks/csvexport/pkg/config"

// MappingKind identifies how a field is treated on export.
type MappingKind uint8

const (
	// Identity exports the field under its own name, untranslated.
	Identity MappingKind = iota
	// Omit drops the field.
	Omit
	// Rename exports the field under a different key.
	Rename
	// Translate looks raw codes up in a value table, optionally under a new key.
	Translate
)

// String returns the name of the mapping kind.
func (k MappingKind) String() string {
	switch k {
	case Identity:
		return "identity"
	case Omit:
		return "omit"
	case Rename:
		return "rename"
	case Translate:
		return "translate"
	default:
		return "unknown"
	}
}

// FieldMapping controls how one field of one content type is exported.
type FieldMapping struct {
	Kind MappingKind

	// Key is the output key for Rename and Translate. Empty means the field name.
	Key string

	// Values maps raw codes to labels. Only set for Translate.
	Values map[string]string
}

// OmitField returns a mapping that drops the field.
func OmitField() FieldMapping {
	return FieldMapping{Kind: Omit}
}

// RenameField returns a mapping that exports the field under key.
func RenameField(key string) FieldMapping {
	return FieldMapping{Kind: Rename, Key: key}
}

// TranslateField returns a mapping that resolves codes through values. An
// empty key keeps the field name.
func TranslateField(key string, values map[string]string) FieldMapping {
	if values == nil {
		values = map[string]string{}
	}
	return FieldMapping{Kind: Translate, Key: key, Values: values}
}

// OutputKey returns the key the field is exported under.
func (m FieldMapping) OutputKey(field string) string {
	if (m.Kind == Rename || m.Kind == Translate) && m.Key != "" {
		return m.Key
	}
	return field
}

// Mappings holds field mappings by content type, then by field name.
type Mappings map[string]map[string]FieldMapping

// Lookup returns the mapping for a field, or Identity when none is configured.
func (m Mappings) Lookup(contentType, field string) FieldMapping {
	fields, ok := m[contentType]
	if !ok {
		return FieldMapping{}
	}
	return fields[field]
}

// CompileMappings converts the configured mapping entries into tagged
// mappings. It runs once per configuration load.
func CompileMappings(cfg map[string]map[string]config.FieldMappingConfig) Mappings {
	compiled := make(Mappings, len(cfg))
	for contentType, fields := range cfg {
		out := make(map[string]FieldMapping, len(fields))
		for field, entry := range fields {
			out[field] = compileMapping(entry)
		}
		compiled[contentType] = out
	}
	return compiled
}

func compileMapping(entry config.FieldMappingConfig) FieldMapping {
	switch {
	case entry.Omit:
		return OmitField()
	case entry.Values != nil:
		values := make(map[string]string, len(entry.Values))
		for code, label := range entry.Values {
			values[code] = label
		}
		return TranslateField(entry.Title, values)
	case entry.Title != "":
		return RenameField(entry.Title)
	default:
		return FieldMapping{}
	}
}
