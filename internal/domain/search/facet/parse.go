package facet

import (
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

type aggNode struct {
	DocCount int64     `json:"doc_count"`
	Values   *termsAgg `json:"values"`
	Nested   *aggNode  `json:"nested"`
}

type termsAgg struct {
	Buckets []bucket `json:"buckets"`
}

type bucket struct {
	Key         any       `json:"key"`
	KeyAsString string    `json:"key_as_string"`
	DocCount    int64     `json:"doc_count"`
	Name        *termsAgg `json:"name"`
	Reverse     *struct {
		DocCount int64 `json:"doc_count"`
	} `json:"reverse"`
}

func (b bucket) count() int64 {
	if b.Reverse != nil {
		return b.Reverse.DocCount
	}
	return b.DocCount
}

func (b bucket) name() string {
	if b.Name != nil && len(b.Name.Buckets) > 0 {
		return filter.Key(b.Name.Buckets[0].Key)
	}
	if b.KeyAsString != "" {
		return b.KeyAsString
	}
	return filter.Key(b.Key)
}

func (b bucket) value() result.FacetValue {
	return result.FacetValue{ID: normalizeID(b.Key), Name: b.name(), Count: b.count()}
}

// normalizeID turns integral JSON numbers back into integers.
func normalizeID(v any) any {
	if f, ok := v.(float64); ok && f == float64(int64(f)) {
		return int64(f)
	}
	return v
}

// buckets descends through the optional nested wrapper to the terms buckets.
func (n *aggNode) buckets() []bucket {
	for node := n; node != nil; node = node.Nested {
		if node.Values != nil {
			return node.Values.Buckets
		}
	}
	return nil
}

// Parse reshapes raw aggregations into facet values keyed by facet name.
// Facets without buckets are left out.
func (p *Planner) Parse(
	plan Plan, active filter.Set, raw map[string]json.RawMessage,
) (map[string][]result.FacetValue, error) {
	out := make(map[string][]result.FacetValue)
	for _, r := range plan {
		if r.Kind == filter.KindMultiFieldObjectMulti {
			if err := parseRoles(r, active, raw, out); err != nil {
				return nil, err
			}
			continue
		}
		data, ok := raw[r.Name]
		if !ok {
			continue
		}
		var node aggNode
		if err := json.Unmarshal(data, &node); err != nil {
			return nil, fmt.Errorf("decode aggregation %s: %w", r.Name, err)
		}
		bs := node.buckets()
		if len(bs) == 0 {
			continue
		}
		values := make([]result.FacetValue, 0, len(bs))
		for _, b := range bs {
			values = append(values, b.value())
		}
		out[r.Name] = values
	}
	sortValues(out)
	return out, nil
}

// parseRoles merges the per-role person buckets: a person appears once with the
// highest count found in any role, and every role where a selected person
// matched is accumulated into the dependent facet.
func parseRoles(
	r Request, active filter.Set, raw map[string]json.RawMessage, out map[string][]result.FacetValue,
) error {
	selected := map[string]bool{}
	if sp, ok := active.Get(r.Name); ok {
		if mf, ok := sp.(filter.MultiFieldObjectMulti); ok {
			for _, v := range mf.Values {
				selected[filter.Key(v)] = true
			}
		}
	}

	var persons []result.FacetValue
	index := map[string]int{}
	roleCounts := map[string]int64{}

	for _, field := range r.CandidateFields {
		data, ok := raw[AggName(r.Name, field)]
		if !ok {
			continue
		}
		var node aggNode
		if err := json.Unmarshal(data, &node); err != nil {
			return fmt.Errorf("decode aggregation %s: %w", AggName(r.Name, field), err)
		}
		for _, b := range node.buckets() {
			v := b.value()
			key := filter.Key(v.ID)
			if i, seen := index[key]; seen {
				if v.Count > persons[i].Count {
					persons[i].Count = v.Count
				}
			} else {
				index[key] = len(persons)
				persons = append(persons, v)
			}
			if selected[key] {
				roleCounts[field] += v.Count
			}
		}
	}

	if len(persons) > 0 {
		out[r.Name] = persons
	}
	if r.DependentName == "" || len(roleCounts) == 0 {
		return nil
	}
	roles := make([]result.FacetValue, 0, len(roleCounts))
	for _, field := range r.CandidateFields {
		if c, ok := roleCounts[field]; ok {
			label := r.Labels[field]
			if label == "" {
				label = field
			}
			roles = append(roles, result.FacetValue{ID: field, Name: label, Count: c})
		}
	}
	out[r.DependentName] = roles
	return nil
}

// sortValues orders every facet by display name under Greek collation,
// ignoring case and diacritics, with the id as tie-breaker.
func sortValues(facets map[string][]result.FacetValue) {
	c := collate.New(language.Greek, collate.IgnoreCase, collate.IgnoreDiacritics, collate.Numeric)
	for _, values := range facets {
		sort.SliceStable(values, func(i, j int) bool {
			if cmp := c.CompareString(values[i].Name, values[j].Name); cmp != 0 {
				return cmp < 0
			}
			return filter.Key(values[i].ID) < filter.Key(values[j].ID)
		})
	}
}
