// Package schema declares, per entity type, how raw filters, facets and hit
// fields map onto the search index.
package schema

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/filter"
)

// RelationLabel is the un-normalized keyword subfield of a relation name,
// read for facet display labels.
const RelationLabel = "name.raw"

// PublicSuffix marks the public copy of a role field.
const PublicSuffix = "_public"

// Physical text variants of a stemmed text field.
const (
	StemOriginal = "original"
	StemStemmer  = "stemmer"
)

// DateFields names the stored interval bounds a date filter compares against.
// The exact pair, when set, replaces the default pair under the exactly_dated flag.
type DateFields struct {
	Floor        string
	Ceiling      string
	ExactFloor   string
	ExactCeiling string
}

// TextField describes a free-text filter key.
type TextField struct {
	// Options maps a <key>_fields value to the logical fields searched.
	Options map[string][]string
	// Default is the option used when <key>_fields is absent or unknown.
	Default string
	// Stemmed fields are stored as <field>_original and <field>_stemmer.
	Stemmed bool
	// Public restricts the searched fields for public callers. Nil means no restriction.
	Public []string
}

// Fields resolves the logical fields searched for an option.
func (t TextField) Fields(option string, viewInternal bool) []string {
	fields, ok := t.Options[option]
	if !ok {
		fields = t.Options[t.Default]
	}
	if viewInternal || t.Public == nil {
		return fields
	}
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if slices.Contains(t.Public, f) {
			out = append(out, f)
		}
	}
	return out
}

// FacetRule declares one facet of an entity.
type FacetRule struct {
	Name      string
	Kind      filter.Kind
	Internal  bool
	DependsOn string
}

// HighlightHook names an entity-specific highlight formatter.
type HighlightHook string

// Highlight hooks.
const (
	HookVerses HighlightHook = "verses"
	HookLemmas HighlightHook = "lemmas"
)

// Schema is the declarative search configuration of one entity type.
type Schema struct {
	Entity   entity.Name
	Index    string
	Metadata entity.Metadata

	Numeric     []string
	Object      []string
	ExactText   []string
	Nested      []string
	NestedMulti []string
	Booleans    []string
	Dates       map[string]DateFields
	Texts       map[string]TextField
	// Toggles are nested fields filtered by membership, flipped by <key>_inverse.
	Toggles []string
	// InternalOnly keys are only classified and faceted for internal viewers.
	InternalOnly []string

	Facets    []FacetRule
	NoValue   map[string]string
	Redaction []string
	Variants  map[string][]string
	Highlight map[string]HighlightHook

	Sort        map[string]string
	DefaultSort string
}

// HasRoles reports whether the entity supports role-scoped person search.
func (s *Schema) HasRoles() bool { return len(s.Metadata.Roles()) > 0 }

// IsInternal reports whether key is hidden from public callers.
func (s *Schema) IsInternal(key string) bool { return slices.Contains(s.InternalOnly, key) }

// RoleFields returns the role field names for the viewer, optionally restricted
// to the given role system names. Unknown restrictions are ignored.
func (s *Schema) RoleFields(viewInternal bool, restrict []string) []string {
	var out []string
	for _, r := range s.Metadata.Roles() {
		name := r.SystemName()
		if len(restrict) > 0 && !slices.Contains(restrict, name) {
			continue
		}
		if !viewInternal {
			name += PublicSuffix
		}
		out = append(out, name)
	}
	return out
}

// RoleLabel returns the display name for a role field, public or not.
func (s *Schema) RoleLabel(field string) string {
	return s.Metadata.RoleLabel(strings.TrimSuffix(field, PublicSuffix))
}

// Physical returns the stored field name of a stemmed text field.
func Physical(logical, stem string) string {
	if stem != StemStemmer {
		stem = StemOriginal
	}
	return logical + "_" + stem
}

// Config is the explicit search configuration shared by every entity schema.
type Config struct {
	IndexPrefix string
	Provider    entity.Provider
}

// IndexName returns the index of an entity.
func (c Config) IndexName(n entity.Name) string {
	if c.IndexPrefix == "" {
		return n.Plural()
	}
	return c.IndexPrefix + "_" + n.Plural()
}

// Build returns the schema of one entity type.
func (c Config) Build(n entity.Name) (*Schema, error) {
	provider := c.Provider
	if provider == nil {
		provider = entity.DefaultProvider()
	}
	var s *Schema
	switch n {
	case entity.Manuscript:
		s = manuscripts()
	case entity.Person:
		s = persons()
	case entity.Occurrence:
		s = occurrences()
	case entity.Type:
		s = types()
	case entity.Bibliography:
		s = bibliographies()
	default:
		return nil, fmt.Errorf("no schema for entity %q", n)
	}
	s.Entity = n
	s.Index = c.IndexName(n)
	s.Metadata = provider.Metadata(n)
	return s, nil
}

// BuildAll returns the schemas of every entity type.
func (c Config) BuildAll() (map[entity.Name]*Schema, error) {
	out := make(map[entity.Name]*Schema, len(entity.All()))
	for _, n := range entity.All() {
		s, err := c.Build(n)
		if err != nil {
			return nil, err
		}
		out[n] = s
	}
	return out, nil
}

// Fields of the verse index used by verse grouping.
const (
	VerseID    = "id"
	VerseText  = "verse"
	VerseGroup = "group_id"
)

// VerseIndexName returns the index holding individual verses.
func (c Config) VerseIndexName() string {
	if c.IndexPrefix == "" {
		return "verses"
	}
	return c.IndexPrefix + "_verses"
}
