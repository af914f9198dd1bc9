package export

// Projector applies a content type's field mappings to raw records.
type Projector struct {
	mappings Mappings
}

// NewProjector creates a projector over compiled mappings.
func NewProjector(mappings Mappings) *Projector {
	if mappings == nil {
		mappings = Mappings{}
	}
	return &Projector{mappings: mappings}
}

// Project compiles one record. Fields are visited in record order: omitted
// fields are skipped, values are flattened and translated where a value table
// is configured, and the result is stored under the mapped output key. When
// two fields map to the same key the later one wins.
func (p *Projector) Project(contentType string, record Record) *CompiledRecord {
	compiled := NewCompiledRecord()
	for _, field := range record.Fields {
		mapping := p.mappings.Lookup(contentType, field.Name)
		if mapping.Kind == Omit {
			continue
		}

		value := Serialize(field.Value)
		if mapping.Kind == Translate {
			value = Resolve(value, mapping)
		}

		compiled.Set(mapping.OutputKey(field.Name), value)
	}
	return compiled
}

// ProjectAll compiles records in order.
func (p *Projector) ProjectAll(contentType string, records []Record) []*CompiledRecord {
	compiled := make([]*CompiledRecord, 0, len(records))
	for _, record := range records {
		compiled = append(compiled, p.Project(contentType, record))
	}
	return compiled
}
