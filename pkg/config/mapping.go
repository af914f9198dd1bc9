package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// FieldMappingConfig is one entry under export.mappings.<content_type>.
//
// Accepted YAML forms:
//
//	status: false                 # omit the field
//	title: "Title"                # rename
//	colour:                       # translate codes, optionally renamed
//	  title: "Colour"
//	  values:
//	    1: Red
//	    2: Blue
//	body: {title: false}          # omit
type FieldMappingConfig struct {
	// Omit drops the field from the export.
	Omit bool

	// Title is the output column name. Empty keeps the field name.
	Title string

	// Values maps raw codes to labels. Nil when no value table is configured.
	Values map[string]string
}

// UnmarshalYAML decodes any of the accepted mapping forms.
func (m *FieldMappingConfig) UnmarshalYAML(node *yaml.Node) error {
	*m = FieldMappingConfig{}

	switch node.Kind {
	case yaml.AliasNode:
		return m.UnmarshalYAML(node.Alias)
	case yaml.ScalarNode:
		return m.fromScalar(node)
	case yaml.MappingNode:
		return m.fromMapping(node)
	default:
		return fmt.Errorf("line %d: field mapping must be false, a title or a mapping", node.Line)
	}
}

func (m *FieldMappingConfig) fromScalar(node *yaml.Node) error {
	switch node.ShortTag() {
	case "!!null":
		return nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return err
		}
		m.Omit = !b
		return nil
	default:
		m.Title = node.Value
		return nil
	}
}

func (m *FieldMappingConfig) fromMapping(node *yaml.Node) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if value.Kind == yaml.AliasNode {
			value = value.Alias
		}

		switch key.Value {
		case "title":
			if value.Kind != yaml.ScalarNode {
				return fmt.Errorf("line %d: title must be a string or false", value.Line)
			}
			switch value.ShortTag() {
			case "!!null":
			case "!!bool":
				var b bool
				if err := value.Decode(&b); err != nil {
					return err
				}
				if !b {
					m.Omit = true
				}
			default:
				m.Title = value.Value
			}

		case "values":
			values, err := decodeValueTable(value)
			if err != nil {
				return err
			}
			m.Values = values

		default:
			return fmt.Errorf("line %d: unknown field mapping key %q", key.Line, key.Value)
		}
	}
	return nil
}

// decodeValueTable reads codes and labels as their literal scalar text, so
// `1: Red` and `"1": Red` are the same code.
func decodeValueTable(node *yaml.Node) (map[string]string, error) {
	if node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null" {
		return map[string]string{}, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("line %d: values must be a mapping of code to label", node.Line)
	}

	values := make(map[string]string, len(node.Content)/2)
	for i := 0; i+1 < len(node.Content); i += 2 {
		code, label := node.Content[i], node.Content[i+1]
		if label.Kind == yaml.AliasNode {
			label = label.Alias
		}
		if code.Kind != yaml.ScalarNode || label.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("line %d: value codes and labels must be scalars", code.Line)
		}
		if label.ShortTag() == "!!null" {
			values[code.Value] = ""
			continue
		}
		values[code.Value] = label.Value
	}
	return values, nil
}
