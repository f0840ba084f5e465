package classify

import (
	"github.com/bibdex/bibdex/internal/domain/search/facet"
	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// Facets returns the facets to compute for a search. Internal facets are
// limited to internal viewers and a dependent facet only appears once the
// facet it depends on is filtered.
func Facets(s *schema.Schema, active filter.Set, viewInternal bool) facet.Plan {
	var plan facet.Plan
	for _, rule := range s.Facets {
		if rule.Internal && !viewInternal {
			continue
		}
		if rule.DependsOn != "" && !active.Has(rule.DependsOn) {
			continue
		}
		req := facet.Request{Name: rule.Name, Kind: rule.Kind}
		if rule.Kind == filter.KindMultiFieldObjectMulti {
			if !s.HasRoles() {
				continue
			}
			req.CandidateFields = roleCandidates(s, rule.Name, active, viewInternal)
			req.DependentName = keyRole
			req.Labels = make(map[string]string, len(req.CandidateFields))
			for _, f := range req.CandidateFields {
				req.Labels[f] = s.RoleLabel(f)
			}
		}
		plan = append(plan, req)
	}
	return plan
}

func roleCandidates(s *schema.Schema, name string, active filter.Set, viewInternal bool) []string {
	if sp, ok := active.Get(name); ok {
		if mf, ok := sp.(filter.MultiFieldObjectMulti); ok && len(mf.CandidateFields) > 0 {
			return mf.CandidateFields
		}
	}
	return s.RoleFields(viewInternal, nil)
}
