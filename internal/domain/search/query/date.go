package query

import "github.com/bibdex/bibdex/internal/domain/search/filter"

// applyDateRange adds the interval relation between the stored [floor, ceiling]
// and the searched [start, end]. Unknown types fall through to overlap.
func applyDateRange(b *Bool, d filter.DateRange) {
	hasStart, hasEnd := d.Start != nil, d.End != nil
	if !hasStart && !hasEnd {
		return
	}

	switch d.Type {
	case filter.DateExact:
		if hasStart {
			b.Filter(Match(d.FloorField, d.Start))
		}
		if hasEnd {
			b.Filter(Match(d.CeilingField, d.End))
		}
	case filter.DateIncluded:
		switch {
		case hasStart && hasEnd:
			b.Filter(
				Range(d.FloorField, Bounds{Gte: d.Start}),
				Range(d.CeilingField, Bounds{Lte: d.End}),
			)
		case hasStart:
			b.Filter(Match(d.FloorField, d.Start))
		default:
			b.Filter(Match(d.CeilingField, d.End))
		}
	case filter.DateInclude:
		switch {
		case hasStart && hasEnd:
			b.Filter(
				Range(d.FloorField, Bounds{Lte: d.Start}),
				Range(d.CeilingField, Bounds{Gte: d.End}),
			)
		case hasStart:
			b.Filter(Match(d.CeilingField, d.Start))
		default:
			b.Filter(Match(d.FloorField, d.End))
		}
	default:
		bounds := Bounds{Gte: d.Start, Lte: d.End}
		overlap := NewBool().
			Should(Range(d.FloorField, bounds), Range(d.CeilingField, bounds)).
			MinimumShouldMatch(1)
		if hasStart && hasEnd {
			overlap.Should(NewBool().Must(
				Range(d.FloorField, Bounds{Lte: d.Start}),
				Range(d.CeilingField, Bounds{Gte: d.End}),
			).Map())
		}
		b.Filter(overlap.Map())
	}
}
