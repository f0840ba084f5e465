package request

import (
	"fmt"
	"strings"
)

// Search parameter limits.
const (
	DefaultLimit = 25
	MaxLimit     = 1000
	// MaxResultWindow mirrors the engine's default index.max_result_window.
	MaxResultWindow = 10000
	MaxOrderBy      = 8
)

// Params is a validated search request.
type Params struct {
	limit     int
	page      int
	orderBy   []string
	ascending bool
	filters   map[string]any
}

// New validates and normalizes search parameters.
// Defaults: limit=25, page=1. Limit is clamped to MaxLimit.
// Filters are not counted: keys the schema does not know are ignored downstream.
func New(limit, page int, orderBy []string, ascending bool, filters map[string]any) (Params, error) {
	if limit < 0 {
		return Params{}, fmt.Errorf("limit must not be negative")
	}
	if page < 0 {
		return Params{}, fmt.Errorf("page must not be negative")
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if page == 0 {
		page = 1
	}
	if page*limit > MaxResultWindow {
		return Params{}, fmt.Errorf("page %d with limit %d exceeds the result window of %d", page, limit, MaxResultWindow)
	}
	if len(orderBy) > MaxOrderBy {
		return Params{}, fmt.Errorf("too many order fields (max %d)", MaxOrderBy)
	}
	order := make([]string, 0, len(orderBy))
	for _, f := range orderBy {
		f = strings.TrimSpace(f)
		if f == "" {
			return Params{}, fmt.Errorf("order field must not be empty")
		}
		order = append(order, f)
	}
	if filters == nil {
		filters = map[string]any{}
	}

	return Params{
		limit:     limit,
		page:      page,
		orderBy:   order,
		ascending: ascending,
		filters:   filters,
	}, nil
}

// Limit returns the page size.
func (p Params) Limit() int { return p.limit }

// Page returns the 1-based page number.
func (p Params) Page() int { return p.page }

// Offset returns the index of the first hit on the page.
func (p Params) Offset() int { return (p.page - 1) * p.limit }

// OrderBy returns the requested sort fields.
func (p Params) OrderBy() []string { return p.orderBy }

// Ascending reports the sort direction.
func (p Params) Ascending() bool { return p.ascending }

// Filters returns the raw, unclassified filters.
func (p Params) Filters() map[string]any { return p.filters }
