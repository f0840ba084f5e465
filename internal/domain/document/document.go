// Package document defines the entity documents written to search indexes.
package document

import (
	"fmt"
	"maps"
	"regexp"
	"strconv"
)

var idRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// MaxFields bounds the top-level fields of one document.
const MaxFields = 512

// Document is one indexed entity record (immutable value object).
type Document struct {
	id     string
	fields map[string]any
}

// New validates and creates a Document.
// ID: ^[a-zA-Z0-9_-]+$, 1-256 chars. Fields: at most MaxFields top-level keys.
func New(id string, fields map[string]any) (Document, error) {
	if id == "" {
		return Document{}, fmt.Errorf("document ID is required")
	}
	if len(id) > 256 {
		return Document{}, fmt.Errorf("document ID too long (max 256)")
	}
	if !idRegex.MatchString(id) {
		return Document{}, fmt.Errorf("document ID must be alphanumeric with underscores and hyphens")
	}
	if len(fields) > MaxFields {
		return Document{}, fmt.Errorf("too many fields (max %d)", MaxFields)
	}
	return Document{id: id, fields: maps.Clone(fields)}, nil
}

// FromSource creates a Document from a raw record carrying its own "id" field.
func FromSource(source map[string]any) (Document, error) {
	var id string
	switch v := source["id"].(type) {
	case string:
		id = v
	case float64:
		id = strconv.FormatInt(int64(v), 10)
	case int:
		id = strconv.Itoa(v)
	case int64:
		id = strconv.FormatInt(v, 10)
	default:
		return Document{}, fmt.Errorf("document id missing or not a scalar")
	}
	return New(id, source)
}

// ID returns the document identifier.
func (d Document) ID() string { return d.id }

// Fields returns a copy of the document fields.
func (d Document) Fields() map[string]any { return maps.Clone(d.fields) }
