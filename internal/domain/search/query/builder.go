package query

import "github.com/bibdex/bibdex/internal/domain/search/filter"

// Scope selects which specs contribute to a query.
type Scope struct {
	global bool
	facet  string
}

// Main is the scope of the result query: every spec contributes.
func Main() Scope { return Scope{} }

// Global is the scope of the aggregation pass: multi-valued facet filters are skipped.
func Global() Scope { return Scope{global: true} }

// Facet is the scope of one facet's own aggregation filter:
// a multi-valued spec is skipped only when it filters that facet.
func Facet(name string) Scope { return Scope{facet: name} }

// Skips reports whether a spec is left out of a query built in this scope.
func (s Scope) Skips(sp filter.Spec) bool {
	if !filter.IsMulti(sp) {
		return false
	}
	if s.global {
		return true
	}
	return s.facet != "" && sp.Field() == s.facet
}

// Build composes the bool query for specs in the given scope.
func Build(specs filter.Set, scope Scope) *Bool {
	b := NewBool()
	for _, sp := range specs {
		if scope.Skips(sp) {
			continue
		}
		apply(b, sp)
	}
	return b
}

func apply(b *Bool, sp filter.Spec) {
	switch v := sp.(type) {
	case filter.Numeric:
		b.Filter(Term(v.Name, v.Value))
	case filter.ExactText:
		b.Filter(Term(v.Name+".keyword", v.Value))
	case filter.Boolean:
		b.Filter(Term(v.Name, v.Value))
	case filter.Object:
		if filter.IsNoValue(v.Value) {
			b.MustNot(Exists(v.Name + ".id"))
			return
		}
		b.Filter(Term(v.Name+".id", v.Value))
	case filter.Nested:
		if filter.IsNoValue(v.Value) {
			b.MustNot(nestedExists(v.Name))
			return
		}
		b.Filter(nestedID(v.Name, v.Value))
	case filter.NestedMulti:
		applyNestedMulti(b, v)
	case filter.NestedToggle:
		if v.Included {
			b.Filter(nestedID(v.Name, v.Value))
		} else {
			b.MustNot(nestedID(v.Name, v.Value))
		}
	case filter.DateRange:
		applyDateRange(b, v)
	case filter.Text:
		b.Must(TextClause(v))
	case filter.MultipleText:
		alt := NewBool().MinimumShouldMatch(1)
		for _, t := range v.Alternatives {
			alt.Should(TextClause(t))
		}
		b.Must(alt.Map())
	case filter.MultiFieldObjectMulti:
		roles := NewBool().MinimumShouldMatch(1)
		for _, f := range v.CandidateFields {
			roles.Should(Nested(f, Terms(f+".id", v.Values)))
		}
		if !roles.IsEmpty() {
			b.Filter(roles.Map())
		}
	}
}

func applyNestedMulti(b *Bool, v filter.NestedMulti) {
	var ids []any
	noValue := false
	for _, val := range v.Values {
		if filter.IsNoValue(val) {
			noValue = true
			continue
		}
		ids = append(ids, val)
	}

	if v.Op == filter.OpAnd {
		for _, id := range ids {
			b.Filter(nestedID(v.Name, id))
		}
		if noValue {
			b.MustNot(nestedExists(v.Name))
		}
		return
	}

	var anyOf Map
	if len(ids) > 0 {
		should := NewBool().MinimumShouldMatch(1)
		for _, id := range ids {
			should.Should(Term(v.Name+".id", id))
		}
		anyOf = Nested(v.Name, should.Map())
	}
	switch {
	case anyOf != nil && noValue:
		b.Filter(NewBool().
			Should(anyOf, NewBool().MustNot(nestedExists(v.Name)).Map()).
			MinimumShouldMatch(1).
			Map())
	case anyOf != nil:
		b.Filter(anyOf)
	case noValue:
		b.MustNot(nestedExists(v.Name))
	}
}

func nestedID(path string, id any) Map {
	return Nested(path, Term(path+".id", id))
}

func nestedExists(path string) Map {
	return Nested(path, Exists(path+".id"))
}
