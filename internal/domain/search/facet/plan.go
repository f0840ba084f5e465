// Package facet plans facet aggregations and reshapes their buckets into facet values.
package facet

import (
	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// DefaultSize bounds the number of buckets returned per facet.
const DefaultSize = 10000

// Request is one facet to compute.
type Request struct {
	Name string
	Kind filter.Kind
	// CandidateFields, DependentName and Labels are set for role-scoped person facets.
	CandidateFields []string
	DependentName   string
	Labels          map[string]string
}

// Plan is the ordered list of facets for one search.
type Plan []Request

// Names returns the facet names in plan order.
func (p Plan) Names() []string {
	out := make([]string, 0, len(p))
	for _, r := range p {
		out = append(out, r.Name)
	}
	return out
}

// Planner builds aggregation requests and parses their responses.
type Planner struct {
	size int
}

// NewPlanner creates a planner. size <= 0 uses DefaultSize.
func NewPlanner(size int) *Planner {
	if size <= 0 {
		size = DefaultSize
	}
	return &Planner{size: size}
}

// AggName returns the aggregation name used for one role field of a person facet.
func AggName(facetName, field string) string {
	return facetName + ":" + field
}

// Aggregations builds the aggregation section for a plan. Every facet is
// wrapped in a filter aggregation holding the active filters minus its own.
func (p *Planner) Aggregations(plan Plan, active filter.Set) query.Map {
	aggs := query.Map{}
	for _, r := range plan {
		own := query.Build(active, query.Facet(r.Name)).OrMatchAll()
		if r.Kind == filter.KindMultiFieldObjectMulti {
			for _, f := range r.CandidateFields {
				aggs[AggName(r.Name, f)] = query.Map{
					"filter": own,
					"aggs":   query.Map{"nested": p.nestedTerms(f, true)},
				}
			}
			continue
		}
		aggs[r.Name] = query.Map{
			"filter": own,
			"aggs":   p.inner(r),
		}
	}
	return aggs
}

func (p *Planner) inner(r Request) query.Map {
	switch r.Kind {
	case filter.KindExactText:
		return query.Map{"values": p.terms(r.Name + ".keyword")}
	case filter.KindObject:
		return query.Map{"values": p.namedTerms(r.Name, false)}
	case filter.KindNested:
		return query.Map{"nested": p.nestedTerms(r.Name, false)}
	case filter.KindNestedMulti:
		return query.Map{"nested": p.nestedTerms(r.Name, true)}
	default:
		return query.Map{"values": p.terms(r.Name)}
	}
}

func (p *Planner) terms(field string) query.Map {
	return query.Map{"terms": query.Map{"field": field, "size": p.size}}
}

// namedTerms buckets by <field>.id with a display-name sub-aggregation read
// from the un-normalized name subfield.
// reverse adds a parent-document count for nested fields.
func (p *Planner) namedTerms(field string, reverse bool) query.Map {
	sub := query.Map{
		"name": query.Map{"terms": query.Map{"field": field + "." + schema.RelationLabel, "size": 1}},
	}
	if reverse {
		sub["reverse"] = query.Map{"reverse_nested": query.Map{}}
	}
	t := p.terms(field + ".id")
	t["aggs"] = sub
	return t
}

func (p *Planner) nestedTerms(path string, reverse bool) query.Map {
	return query.Map{
		"nested": query.Map{"path": path},
		"aggs":   query.Map{"values": p.namedTerms(path, reverse)},
	}
}
