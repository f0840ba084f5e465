// Package query builds search engine query DSL trees from classified filters.
package query

// Map is a JSON object in the engine query DSL.
type Map = map[string]any

// Bool is a fluent builder for a bool query.
type Bool struct {
	must      []Map
	filter    []Map
	should    []Map
	mustNot   []Map
	minShould int
}

// NewBool starts an empty bool query.
func NewBool() *Bool { return &Bool{} }

// Must adds scored required clauses.
func (b *Bool) Must(q ...Map) *Bool {
	b.must = append(b.must, q...)
	return b
}

// Filter adds unscored required clauses.
func (b *Bool) Filter(q ...Map) *Bool {
	b.filter = append(b.filter, q...)
	return b
}

// Should adds optional clauses.
func (b *Bool) Should(q ...Map) *Bool {
	b.should = append(b.should, q...)
	return b
}

// MustNot adds excluding clauses.
func (b *Bool) MustNot(q ...Map) *Bool {
	b.mustNot = append(b.mustNot, q...)
	return b
}

// MinimumShouldMatch sets how many should clauses must match.
func (b *Bool) MinimumShouldMatch(n int) *Bool {
	b.minShould = n
	return b
}

// IsEmpty reports whether no clause was added.
func (b *Bool) IsEmpty() bool {
	return len(b.must) == 0 && len(b.filter) == 0 && len(b.should) == 0 && len(b.mustNot) == 0
}

// Map renders the bool query.
func (b *Bool) Map() Map {
	body := Map{}
	if len(b.must) > 0 {
		body["must"] = b.must
	}
	if len(b.filter) > 0 {
		body["filter"] = b.filter
	}
	if len(b.should) > 0 {
		body["should"] = b.should
	}
	if len(b.mustNot) > 0 {
		body["must_not"] = b.mustNot
	}
	if b.minShould > 0 {
		body["minimum_should_match"] = b.minShould
	}
	return Map{"bool": body}
}

// OrMatchAll renders the bool query, or match_all when it has no clauses.
func (b *Bool) OrMatchAll() Map {
	if b.IsEmpty() {
		return MatchAll()
	}
	return b.Map()
}

// MatchAll matches every document.
func MatchAll() Map { return Map{"match_all": Map{}} }

// Term matches an exact value.
func Term(field string, value any) Map {
	return Map{"term": Map{field: value}}
}

// Terms matches any of several exact values.
func Terms(field string, values []any) Map {
	return Map{"terms": Map{field: values}}
}

// Match is an analyzed equality match.
func Match(field string, value any) Map {
	return Map{"match": Map{field: value}}
}

// MatchPhrase matches an exact phrase.
func MatchPhrase(field, phrase string) Map {
	return Map{"match_phrase": Map{field: phrase}}
}

// Exists requires a field to be present.
func Exists(field string) Map {
	return Map{"exists": Map{"field": field}}
}

// Bounds holds optional range bounds. Nil bounds are omitted.
type Bounds struct {
	Gte any
	Lte any
}

// Range builds a range query.
func Range(field string, b Bounds) Map {
	args := Map{}
	if b.Gte != nil {
		args["gte"] = b.Gte
	}
	if b.Lte != nil {
		args["lte"] = b.Lte
	}
	return Map{"range": Map{field: args}}
}

// Nested scopes a query to a nested path.
func Nested(path string, q Map) Map {
	return Map{"nested": Map{"path": path, "query": q}}
}

// QueryString runs the engine's query-string parser against one field.
func QueryString(field, text string) Map {
	return Map{"query_string": Map{
		"query":            text,
		"default_field":    field,
		"analyze_wildcard": true,
	}}
}
