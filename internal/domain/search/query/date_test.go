package query

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bibdex/bibdex/internal/domain/search/filter"
)

func dateSpec(typ filter.DateType, start, end any) filter.DateRange {
	return filter.DateRange{
		Name:         "date",
		FloorField:   "date_floor_year",
		CeilingField: "date_ceiling_year",
		Type:         typ,
		Start:        start,
		End:          end,
	}
}

func dateFilter(t *testing.T, d filter.DateRange) any {
	t.Helper()
	return boolBody(t, Build(filter.Set{d}, Main()))["filter"]
}

func TestDate_ExactIsTwoEqualityMatches(t *testing.T) {
	got := dateFilter(t, dateSpec(filter.DateExact, "1200-01-01", "1300-01-01"))
	assert.Equal(t, []Map{
		Match("date_floor_year", "1200-01-01"),
		Match("date_ceiling_year", "1300-01-01"),
	}, got)
}

func TestDate_ExactSingleBound(t *testing.T) {
	got := dateFilter(t, dateSpec(filter.DateExact, nil, 1300))
	assert.Equal(t, []Map{Match("date_ceiling_year", 1300)}, got)
}

func TestDate_IncludedBothBounds(t *testing.T) {
	got := dateFilter(t, dateSpec(filter.DateIncluded, 1200, 1300))
	assert.Equal(t, []Map{
		Range("date_floor_year", Bounds{Gte: 1200}),
		Range("date_ceiling_year", Bounds{Lte: 1300}),
	}, got)
}

func TestDate_IncludeBothBounds(t *testing.T) {
	got := dateFilter(t, dateSpec(filter.DateInclude, 1200, 1300))
	assert.Equal(t, []Map{
		Range("date_floor_year", Bounds{Lte: 1200}),
		Range("date_ceiling_year", Bounds{Gte: 1300}),
	}, got)
}

func TestDate_SingleStartDegradesToEquality(t *testing.T) {
	included := dateFilter(t, dateSpec(filter.DateIncluded, 1200, nil))
	assert.Equal(t, []Map{Match("date_floor_year", 1200)}, included)

	include := dateFilter(t, dateSpec(filter.DateInclude, 1200, nil))
	assert.Equal(t, []Map{Match("date_ceiling_year", 1200)}, include)
}

func TestDate_SingleEnd(t *testing.T) {
	included := dateFilter(t, dateSpec(filter.DateIncluded, nil, 1300))
	assert.Equal(t, []Map{Match("date_ceiling_year", 1300)}, included)

	include := dateFilter(t, dateSpec(filter.DateInclude, nil, 1300))
	assert.Equal(t, []Map{Match("date_floor_year", 1300)}, include)
}

func TestDate_OverlapBothBounds(t *testing.T) {
	got := dateFilter(t, dateSpec(filter.DateOverlap, 1200, 1300))
	want := NewBool().
		Should(
			Range("date_floor_year", Bounds{Gte: 1200, Lte: 1300}),
			Range("date_ceiling_year", Bounds{Gte: 1200, Lte: 1300}),
		).
		MinimumShouldMatch(1).
		Should(NewBool().Must(
			Range("date_floor_year", Bounds{Lte: 1200}),
			Range("date_ceiling_year", Bounds{Gte: 1300}),
		).Map()).
		Map()
	assert.Equal(t, []Map{want}, got)
}

func TestDate_UnknownTypeFallsBackToOverlap(t *testing.T) {
	for _, typ := range []filter.DateType{"", "bogus", filter.DateOverlap} {
		got := dateFilter(t, dateSpec(typ, 1200, nil))
		want := NewBool().
			Should(
				Range("date_floor_year", Bounds{Gte: 1200}),
				Range("date_ceiling_year", Bounds{Gte: 1200}),
			).
			MinimumShouldMatch(1).
			Map()
		assert.Equal(t, []Map{want}, got, "type %q", typ)
	}
}

func TestDate_NoBoundsAddsNothing(t *testing.T) {
	b := Build(filter.Set{dateSpec(filter.DateExact, nil, nil)}, Main())
	assert.True(t, b.IsEmpty())
}
