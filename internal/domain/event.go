package domain

import "context"

type searchEventKey struct{}

// SearchEvent collects search facts for the request's wide log line.
// The middleware puts a mutable pointer into the context before calling the handler;
// the search service fills it; the middleware logs it after the response is written.
type SearchEvent struct {
	Entity       string
	ViewInternal bool
	Count        int64
	Facets       int
	Recorded     bool
}

// NewContextWithEvent returns a context carrying an empty search event.
func NewContextWithEvent(ctx context.Context) (context.Context, *SearchEvent) {
	e := &SearchEvent{}
	return context.WithValue(ctx, searchEventKey{}, e), e
}

// EventFromContext extracts the search event from context. Returns nil if not set.
func EventFromContext(ctx context.Context) *SearchEvent {
	e, _ := ctx.Value(searchEventKey{}).(*SearchEvent)
	return e
}

// Record stores the outcome of one search. Safe on a nil event.
func (e *SearchEvent) Record(entity string, viewInternal bool, count int64, facets int) {
	if e == nil {
		return
	}
	e.Entity = entity
	e.ViewInternal = viewInternal
	e.Count = count
	e.Facets = facets
	e.Recorded = true
}
