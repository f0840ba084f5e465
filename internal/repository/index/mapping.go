package index

import (
	"sort"
	"strings"

	"github.com/bibdex/bibdex/internal/db"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// Timestamp fields present on every entity document.
var timestampFields = []string{"created", "modified"}

// relation is the {id, name} shape shared by object and nested fields.
// name.raw keeps the stored spelling for facet labels.
func relation() []db.IndexField {
	name := greekText("name")
	name.RawKeyword = true
	return []db.IndexField{
		{Name: "id", Type: db.FieldInteger},
		name,
	}
}

func greekText(name string) db.IndexField {
	return db.IndexField{
		Name:              name,
		Type:              db.FieldText,
		Analyzer:          schema.AnalyzerOriginal,
		Keyword:           true,
		KeywordNormalizer: schema.NormalizerGreek,
	}
}

// buildIndex derives the entity mapping from its search schema.
// A field declared twice keeps its first, most specific, definition.
func buildIndex(s *schema.Schema) (*db.IndexDefinition, error) {
	fields := map[string]db.IndexField{}
	add := func(f db.IndexField) {
		if _, ok := fields[f.Name]; !ok {
			fields[f.Name] = f
		}
	}

	for _, f := range s.Numeric {
		add(db.IndexField{Name: f, Type: db.FieldInteger})
	}
	for _, f := range s.Object {
		add(db.IndexField{Name: f, Type: db.FieldObject, Properties: relation()})
	}
	nested := append(append(append([]string{}, s.Nested...), s.NestedMulti...), s.Toggles...)
	nested = append(nested, s.RoleFields(true, nil)...)
	nested = append(nested, s.RoleFields(false, nil)...)
	for _, f := range nested {
		add(db.IndexField{Name: f, Type: db.FieldNested, Properties: relation()})
	}

	exact := append([]string{}, s.ExactText...)
	for _, d := range s.Metadata.Identifiers() {
		exact = append(exact, d.SystemName())
		add(db.IndexField{Name: d.SystemName() + "_available", Type: db.FieldBoolean})
	}
	for _, f := range exact {
		add(db.IndexField{
			Name:              f,
			Type:              db.FieldText,
			Analyzer:          schema.AnalyzerOriginal,
			Keyword:           true,
			KeywordNormalizer: schema.NormalizerTextDigits,
		})
	}

	for _, f := range s.Booleans {
		add(db.IndexField{Name: f, Type: db.FieldBoolean})
	}
	for _, d := range s.Dates {
		for _, f := range []string{d.Floor, d.Ceiling, d.ExactFloor, d.ExactCeiling} {
			if f != "" {
				add(db.IndexField{Name: f, Type: db.FieldInteger})
			}
		}
	}
	for _, f := range timestampFields {
		add(db.IndexField{Name: f, Type: db.FieldDate})
	}

	for _, t := range s.Texts {
		for _, logical := range textFields(t) {
			if !t.Stemmed {
				add(greekText(logical))
				continue
			}
			add(db.IndexField{
				Name:     schema.Physical(logical, schema.StemOriginal),
				Type:     db.FieldText,
				Analyzer: schema.AnalyzerOriginal,
			})
			add(db.IndexField{
				Name:     schema.Physical(logical, schema.StemStemmer),
				Type:     db.FieldText,
				Analyzer: schema.AnalyzerStemmer,
			})
		}
	}

	// sortable top-level text fields such as incipit or title
	for _, field := range s.Sort {
		base, ok := strings.CutSuffix(field, "."+db.KeywordSubfield)
		if !ok || strings.Contains(base, ".") {
			continue
		}
		add(greekText(base))
	}

	names := make([]string, 0, len(fields))
	for n := range fields {
		names = append(names, n)
	}
	sort.Strings(names)

	b := db.NewIndex(s.Index).Settings(schema.AnalysisSettings())
	for _, n := range names {
		b.Field(fields[n])
	}
	return b.Build()
}

// textFields returns the distinct logical fields a text filter may search.
func textFields(t schema.TextField) []string {
	seen := map[string]bool{}
	var out []string
	for _, fs := range t.Options {
		for _, f := range fs {
			if !seen[f] {
				seen[f] = true
				out = append(out, f)
			}
		}
	}
	sort.Strings(out)
	return out
}

// buildVerseIndex returns the mapping of the verse index used for grouping.
func buildVerseIndex(name string) (*db.IndexDefinition, error) {
	return db.NewIndex(name).
		Settings(schema.AnalysisSettings()).
		Integer(schema.VerseID).
		TextWithKeyword(schema.VerseText, schema.AnalyzerOriginal, schema.NormalizerGreek).
		Integer(schema.VerseGroup).
		Build()
}
