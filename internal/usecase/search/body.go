package search

import (
	"github.com/bibdex/bibdex/internal/domain/search/facet"
	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/request"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

const tieBreaker = "id"

// resultsBody builds the request for the hit window.
func (s *Service) resultsBody(sc *schema.Schema, params request.Params, active filter.Set) query.Map {
	body := query.Map{
		"query": query.Build(active, query.Main()).OrMatchAll(),
		"from":  params.Offset(),
		"size":  params.Limit(),
		"sort":  sortClause(sc, params, active),
	}
	if hl := s.highlight(active); hl != nil {
		body["highlight"] = hl
	}
	return body
}

// aggregationsBody builds the facet request: the global query with one
// filtered aggregation per planned facet.
func (s *Service) aggregationsBody(plan facet.Plan, active filter.Set) query.Map {
	return query.Map{
		"query": query.Build(active, query.Global()).OrMatchAll(),
		"size":  0,
		"aggs":  s.planner.Aggregations(plan, active),
	}
}

func sortClause(sc *schema.Schema, params request.Params, active filter.Set) []query.Map {
	dir := "desc"
	if params.Ascending() {
		dir = "asc"
	}

	var out []query.Map
	seen := map[string]bool{}
	for _, name := range params.OrderBy() {
		field, ok := sc.Sort[name]
		if !ok || seen[field] {
			continue
		}
		seen[field] = true
		out = append(out, query.Map{field: query.Map{"order": dir}})
	}

	if len(out) == 0 {
		if len(active.Texts()) > 0 {
			return []query.Map{
				{"_score": query.Map{"order": "desc"}},
				{tieBreaker: query.Map{"order": "asc"}},
			}
		}
		if field, ok := sc.Sort[sc.DefaultSort]; ok {
			seen[field] = true
			out = append(out, query.Map{field: query.Map{"order": dir}})
		}
	}
	if !seen[tieBreaker] {
		out = append(out, query.Map{tieBreaker: query.Map{"order": dir}})
	}
	return out
}

// highlight requests whole-field highlighting over every searched physical field.
func (s *Service) highlight(active filter.Set) query.Map {
	texts := active.Texts()
	if len(texts) == 0 {
		return nil
	}
	fields := query.Map{}
	for _, t := range texts {
		fields[t.Target] = query.Map{"number_of_fragments": 0}
	}
	return query.Map{
		"pre_tags":  []string{s.projector.PreTag()},
		"post_tags": []string{s.projector.PostTag()},
		"fields":    fields,
	}
}
