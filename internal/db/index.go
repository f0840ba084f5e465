package db

import (
	"errors"
	"strconv"
)

// FieldType is an index mapping field type.
type FieldType string

// Supported mapping field types.
const (
	FieldKeyword FieldType = "keyword"
	FieldText    FieldType = "text"
	FieldInteger FieldType = "integer"
	FieldLong    FieldType = "long"
	FieldBoolean FieldType = "boolean"
	FieldDate    FieldType = "date"
	FieldObject  FieldType = "object"
	FieldNested  FieldType = "nested"
)

// Subfield names of text fields.
const (
	// KeywordSubfield holds the normalized keyword used for sorting and exact match.
	KeywordSubfield = "keyword"
	// RawSubfield holds the keyword exactly as stored, for display labels.
	RawSubfield = "raw"
)

// IndexField describes a single field of an index mapping.
type IndexField struct {
	Name string
	Type FieldType

	// text and keyword options
	Analyzer   string
	Normalizer string

	// Keyword adds a keyword subfield to a text field.
	Keyword           bool
	KeywordNormalizer string
	// RawKeyword adds an un-normalized keyword subfield to a text field.
	RawKeyword bool

	// object and nested children
	Properties []IndexField
}

// IndexDefinition is a complete index definition used by index creation.
type IndexDefinition struct {
	Name     string
	Settings map[string]any
	Fields   []IndexField
}

// Validate checks that the index definition is well-formed.
func (idx *IndexDefinition) Validate() error {
	if idx.Name == "" {
		return errors.New("index name is required")
	}
	if !IsValidIdentifier(idx.Name) {
		return errors.New("index name contains invalid characters")
	}
	if len(idx.Fields) == 0 {
		return errors.New("at least one field is required")
	}
	return validateFields(idx.Fields, "")
}

func validateFields(fields []IndexField, parent string) error {
	seen := make(map[string]bool)
	for i := range fields {
		f := &fields[i]
		if f.Name == "" {
			return errors.New("field name is required at index " + strconv.Itoa(i) + parentSuffix(parent))
		}
		if seen[f.Name] {
			return errors.New("duplicate field name: " + parent + f.Name)
		}
		seen[f.Name] = true

		switch f.Type {
		case FieldObject, FieldNested:
			if len(f.Properties) == 0 {
				return errors.New(string(f.Type) + " field requires properties: " + parent + f.Name)
			}
			if err := validateFields(f.Properties, parent+f.Name+"."); err != nil {
				return err
			}
		case FieldKeyword, FieldText, FieldInteger, FieldLong, FieldBoolean, FieldDate:
		default:
			return errors.New("unsupported field type " + strconv.Quote(string(f.Type)) + ": " + parent + f.Name)
		}
	}
	return nil
}

func parentSuffix(parent string) string {
	if parent == "" {
		return ""
	}
	return " of " + parent[:len(parent)-1]
}

// IsValidIdentifier returns true if s matches [a-z0-9_-]+ and does not start with - or _.
func IsValidIdentifier(s string) bool {
	if s == "" || s[0] == '-' || s[0] == '_' {
		return false
	}
	for _, r := range s {
		isLower := r >= 'a' && r <= 'z'
		isDigit := r >= '0' && r <= '9'
		isSpecial := r == '_' || r == '-'
		if !isLower && !isDigit && !isSpecial {
			return false
		}
	}
	return true
}

// Body renders the index creation request body.
func (idx *IndexDefinition) Body() map[string]any {
	body := map[string]any{
		"mappings": map[string]any{"properties": properties(idx.Fields)},
	}
	if len(idx.Settings) > 0 {
		body["settings"] = idx.Settings
	}
	return body
}

func properties(fields []IndexField) map[string]any {
	out := make(map[string]any, len(fields))
	for i := range fields {
		out[fields[i].Name] = fields[i].mapping()
	}
	return out
}

func (f *IndexField) mapping() map[string]any {
	m := map[string]any{"type": string(f.Type)}
	if f.Analyzer != "" {
		m["analyzer"] = f.Analyzer
	}
	if f.Normalizer != "" {
		m["normalizer"] = f.Normalizer
	}
	sub := map[string]any{}
	if f.Keyword {
		kw := map[string]any{"type": string(FieldKeyword)}
		if f.KeywordNormalizer != "" {
			kw["normalizer"] = f.KeywordNormalizer
		}
		sub[KeywordSubfield] = kw
	}
	if f.RawKeyword {
		sub[RawSubfield] = map[string]any{"type": string(FieldKeyword)}
	}
	if len(sub) > 0 {
		m["fields"] = sub
	}
	if len(f.Properties) > 0 {
		m["properties"] = properties(f.Properties)
	}
	return m
}
