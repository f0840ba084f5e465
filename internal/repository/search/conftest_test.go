package search

import (
	"context"

	"github.com/bibdex/bibdex/internal/db"
)

// mockStore implements the store interface for tests.
type mockStore struct {
	searchFn func(ctx context.Context, index string, body []byte) (*db.SearchResult, error)
}

func (m *mockStore) Search(ctx context.Context, index string, body []byte) (*db.SearchResult, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, index, body)
	}
	return &db.SearchResult{}, nil
}
