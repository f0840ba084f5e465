package search

import (
	"context"
	"sync"

	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

// mockRepo answers result and aggregation requests separately and records every body.
type mockRepo struct {
	mu        sync.Mutex
	bodies    []query.Map
	resultsFn func(ctx context.Context, index string, body query.Map) (*result.Page, error)
	aggsFn    func(ctx context.Context, index string, body query.Map) (*result.Page, error)
}

func (m *mockRepo) Search(ctx context.Context, index string, body query.Map) (*result.Page, error) {
	m.mu.Lock()
	m.bodies = append(m.bodies, body)
	m.mu.Unlock()

	if _, ok := body["aggs"]; ok {
		if m.aggsFn != nil {
			return m.aggsFn(ctx, index, body)
		}
		return &result.Page{}, nil
	}
	if m.resultsFn != nil {
		return m.resultsFn(ctx, index, body)
	}
	return &result.Page{}, nil
}

func (m *mockRepo) body(aggs bool) query.Map {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, b := range m.bodies {
		if _, ok := b["aggs"]; ok == aggs {
			return b
		}
	}
	return nil
}
