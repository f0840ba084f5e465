package facet

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

func raw(t *testing.T, aggs map[string]string) map[string]json.RawMessage {
	t.Helper()
	out := make(map[string]json.RawMessage, len(aggs))
	for k, v := range aggs {
		require.True(t, json.Valid([]byte(v)), "invalid json for %s", k)
		out[k] = json.RawMessage(v)
	}
	return out
}

// --- Aggregations ---

func TestNewPlanner_DefaultSize(t *testing.T) {
	assert.Equal(t, DefaultSize, NewPlanner(0).size)
	assert.Equal(t, 50, NewPlanner(50).size)
}

func TestAggregations_Shapes(t *testing.T) {
	p := NewPlanner(100)
	plan := Plan{
		{Name: "dbbe", Kind: filter.KindBoolean},
		{Name: "shelf", Kind: filter.KindExactText},
		{Name: "city", Kind: filter.KindObject},
		{Name: "management", Kind: filter.KindNested},
		{Name: "genre", Kind: filter.KindNestedMulti},
	}
	aggs := p.Aggregations(plan, nil)
	require.Len(t, aggs, 5)

	dbbe := aggs["dbbe"].(query.Map)
	assert.Equal(t, query.MatchAll(), dbbe["filter"])
	assert.Equal(t,
		query.Map{"values": query.Map{"terms": query.Map{"field": "dbbe", "size": 100}}},
		dbbe["aggs"])

	shelf := aggs["shelf"].(query.Map)["aggs"].(query.Map)
	assert.Equal(t, "shelf.keyword", shelf["values"].(query.Map)["terms"].(query.Map)["field"])

	city := aggs["city"].(query.Map)["aggs"].(query.Map)["values"].(query.Map)
	assert.Equal(t, "city.id", city["terms"].(query.Map)["field"])
	sub := city["aggs"].(query.Map)
	assert.Equal(t,
		query.Map{"terms": query.Map{"field": "city.name.raw", "size": 1}},
		sub["name"], "labels come from the un-normalized subfield")
	assert.NotContains(t, sub, "reverse")

	management := aggs["management"].(query.Map)["aggs"].(query.Map)["nested"].(query.Map)
	assert.Equal(t, query.Map{"path": "management"}, management["nested"])
	inner := management["aggs"].(query.Map)["values"].(query.Map)["aggs"].(query.Map)
	assert.NotContains(t, inner, "reverse")

	genre := aggs["genre"].(query.Map)["aggs"].(query.Map)["nested"].(query.Map)
	inner = genre["aggs"].(query.Map)["values"].(query.Map)["aggs"].(query.Map)
	assert.Equal(t, query.Map{"reverse_nested": query.Map{}}, inner["reverse"])
	assert.Equal(t, "genre.name.raw", inner["name"].(query.Map)["terms"].(query.Map)["field"])
}

func TestAggregations_ExcludesOwnMultiFilter(t *testing.T) {
	active := filter.Set{
		filter.NestedMulti{Name: "genre", Op: filter.OpOr, Values: []any{3}},
		filter.NestedMulti{Name: "metre", Op: filter.OpOr, Values: []any{9}},
	}
	plan := Plan{
		{Name: "genre", Kind: filter.KindNestedMulti},
		{Name: "metre", Kind: filter.KindNestedMulti},
	}
	aggs := NewPlanner(0).Aggregations(plan, active)

	genreFilter, err := json.Marshal(aggs["genre"].(query.Map)["filter"])
	require.NoError(t, err)
	assert.NotContains(t, string(genreFilter), `"path":"genre"`)
	assert.Contains(t, string(genreFilter), `"path":"metre"`)

	metreFilter, err := json.Marshal(aggs["metre"].(query.Map)["filter"])
	require.NoError(t, err)
	assert.Contains(t, string(metreFilter), `"path":"genre"`)
	assert.NotContains(t, string(metreFilter), `"path":"metre"`)
}

func TestAggregations_RolePerCandidateField(t *testing.T) {
	plan := Plan{{
		Name:            "person",
		Kind:            filter.KindMultiFieldObjectMulti,
		CandidateFields: []string{"patron_public", "scribe_public"},
		DependentName:   "role",
	}}
	aggs := NewPlanner(0).Aggregations(plan, nil)
	require.Len(t, aggs, 2)
	assert.Contains(t, aggs, "person:patron_public")
	scribe := aggs["person:scribe_public"].(query.Map)["aggs"].(query.Map)["nested"].(query.Map)
	assert.Equal(t, query.Map{"path": "scribe_public"}, scribe["nested"])
}

func TestPlan_Names(t *testing.T) {
	plan := Plan{{Name: "city"}, {Name: "library"}}
	assert.Equal(t, []string{"city", "library"}, plan.Names())
}

// --- Parse ---

func TestParse_ObjectUsesNameSubAggregation(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{Name: "city", Kind: filter.KindObject}}
	got, err := p.Parse(plan, nil, raw(t, map[string]string{
		"city": `{"doc_count":12,"values":{"buckets":[
			{"key":7,"doc_count":5,"name":{"buckets":[{"key":"Paris","doc_count":5}]}},
			{"key":3,"doc_count":7,"name":{"buckets":[{"key":"Athens","doc_count":7}]}}
		]}}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, []result.FacetValue{
		{ID: int64(3), Name: "Athens", Count: 7},
		{ID: int64(7), Name: "Paris", Count: 5},
	}, got["city"])
}

func TestParse_NestedMultiUsesReverseCount(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{Name: "genre", Kind: filter.KindNestedMulti}}
	got, err := p.Parse(plan, nil, raw(t, map[string]string{
		"genre": `{"doc_count":20,"nested":{"doc_count":40,"values":{"buckets":[
			{"key":1,"doc_count":30,"name":{"buckets":[{"key":"Epigram"}]},"reverse":{"doc_count":11}}
		]}}}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, []result.FacetValue{{ID: int64(1), Name: "Epigram", Count: 11}}, got["genre"])
}

func TestParse_BooleanKeyAsString(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{Name: "dbbe", Kind: filter.KindBoolean}}
	got, err := p.Parse(plan, nil, raw(t, map[string]string{
		"dbbe": `{"doc_count":9,"values":{"buckets":[
			{"key":1,"key_as_string":"true","doc_count":4},
			{"key":0,"key_as_string":"false","doc_count":5}
		]}}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, []result.FacetValue{
		{ID: int64(0), Name: "false", Count: 5},
		{ID: int64(1), Name: "true", Count: 4},
	}, got["dbbe"])
}

func TestParse_EmptyBucketsOmitFacet(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{
		{Name: "city", Kind: filter.KindObject},
		{Name: "library", Kind: filter.KindObject},
	}
	got, err := p.Parse(plan, nil, raw(t, map[string]string{
		"city": `{"doc_count":0,"values":{"buckets":[]}}`,
	}))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestParse_InvalidJSON(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{Name: "city", Kind: filter.KindObject}}
	_, err := p.Parse(plan, nil, map[string]json.RawMessage{"city": json.RawMessage(`[1,2]`)})
	assert.Error(t, err)
}

func TestParse_SortsWithGreekCollation(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{Name: "subject", Kind: filter.KindObject}}
	got, err := p.Parse(plan, nil, raw(t, map[string]string{
		"subject": `{"values":{"buckets":[
			{"key":3,"doc_count":1,"name":{"buckets":[{"key":"Ωδή"}]}},
			{"key":1,"doc_count":1,"name":{"buckets":[{"key":"ἀρετή"}]}},
			{"key":2,"doc_count":1,"name":{"buckets":[{"key":"Βίος"}]}}
		]}}`,
	}))
	require.NoError(t, err)
	names := make([]string, 0, 3)
	for _, v := range got["subject"] {
		names = append(names, v.Name)
	}
	assert.Equal(t, []string{"ἀρετή", "Βίος", "Ωδή"}, names)
}

func TestParse_Deterministic(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{Name: "city", Kind: filter.KindObject}}
	aggs := raw(t, map[string]string{
		"city": `{"values":{"buckets":[
			{"key":2,"doc_count":1,"name":{"buckets":[{"key":"Same"}]}},
			{"key":1,"doc_count":1,"name":{"buckets":[{"key":"Same"}]}}
		]}}`,
	})
	first, err := p.Parse(plan, nil, aggs)
	require.NoError(t, err)
	second, err := p.Parse(plan, nil, aggs)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, int64(1), first["city"][0].ID)
}

func TestParse_RolesDedupeAndDependentFacet(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{
		Name:            "person",
		Kind:            filter.KindMultiFieldObjectMulti,
		CandidateFields: []string{"patron_public", "scribe_public"},
		DependentName:   "role",
		Labels:          map[string]string{"patron_public": "Patron", "scribe_public": "Scribe"},
	}}
	active := filter.Set{filter.MultiFieldObjectMulti{
		Name:            "person",
		CandidateFields: []string{"patron_public", "scribe_public"},
		DependentName:   "role",
		Values:          []any{"42"},
	}}
	got, err := p.Parse(plan, active, raw(t, map[string]string{
		"person:patron_public": `{"nested":{"values":{"buckets":[
			{"key":42,"doc_count":2,"name":{"buckets":[{"key":"Ioannes"}]},"reverse":{"doc_count":2}},
			{"key":7,"doc_count":1,"name":{"buckets":[{"key":"Georgios"}]},"reverse":{"doc_count":1}}
		]}}}`,
		"person:scribe_public": `{"nested":{"values":{"buckets":[
			{"key":42,"doc_count":5,"name":{"buckets":[{"key":"Ioannes"}]},"reverse":{"doc_count":5}}
		]}}}`,
	}))
	require.NoError(t, err)
	assert.Equal(t, []result.FacetValue{
		{ID: int64(7), Name: "Georgios", Count: 1},
		{ID: int64(42), Name: "Ioannes", Count: 5},
	}, got["person"])
	assert.Equal(t, []result.FacetValue{
		{ID: "patron_public", Name: "Patron", Count: 2},
		{ID: "scribe_public", Name: "Scribe", Count: 5},
	}, got["role"])
}

func TestParse_RolesWithoutSelectionHaveNoDependentFacet(t *testing.T) {
	p := NewPlanner(0)
	plan := Plan{{
		Name:            "person",
		Kind:            filter.KindMultiFieldObjectMulti,
		CandidateFields: []string{"scribe"},
		DependentName:   "role",
	}}
	got, err := p.Parse(plan, nil, raw(t, map[string]string{
		"person:scribe": `{"nested":{"values":{"buckets":[
			{"key":42,"doc_count":5,"name":{"buckets":[{"key":"Ioannes"}]},"reverse":{"doc_count":5}}
		]}}}`,
	}))
	require.NoError(t, err)
	assert.Len(t, got["person"], 1)
	assert.NotContains(t, got, "role")
}
