package db

// IndexBuilder is a fluent builder for index definitions.
type IndexBuilder struct {
	def IndexDefinition
}

// NewIndex starts building an index definition.
func NewIndex(name string) *IndexBuilder {
	return &IndexBuilder{def: IndexDefinition{Name: name}}
}

// Settings sets the index settings, typically the analysis section.
func (b *IndexBuilder) Settings(settings map[string]any) *IndexBuilder {
	b.def.Settings = settings
	return b
}

// Field adds a prepared field.
func (b *IndexBuilder) Field(f IndexField) *IndexBuilder {
	b.def.Fields = append(b.def.Fields, f)
	return b
}

// Integer adds an integer field.
func (b *IndexBuilder) Integer(name string) *IndexBuilder {
	return b.Field(IndexField{Name: name, Type: FieldInteger})
}

// TextWithKeyword adds a text field with a normalized keyword subfield for sorting and exact match.
func (b *IndexBuilder) TextWithKeyword(name, analyzer, normalizer string) *IndexBuilder {
	return b.Field(IndexField{
		Name:              name,
		Type:              FieldText,
		Analyzer:          analyzer,
		Keyword:           true,
		KeywordNormalizer: normalizer,
	})
}

// Build validates and returns the index definition.
func (b *IndexBuilder) Build() (*IndexDefinition, error) {
	if err := b.def.Validate(); err != nil {
		return nil, err
	}
	return &b.def, nil
}
