package index

import (
	"context"

	"github.com/bibdex/bibdex/internal/db"
)

// mockStore implements the store interface for tests.
type mockStore struct {
	createFn  func(ctx context.Context, def *db.IndexDefinition) error
	dropFn    func(ctx context.Context, name string) error
	existsFn  func(ctx context.Context, name string) (bool, error)
	refreshFn func(ctx context.Context, name string) error
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if m.createFn != nil {
		return m.createFn(ctx, def)
	}
	return nil
}

func (m *mockStore) DropIndex(ctx context.Context, name string) error {
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func (m *mockStore) IndexExists(ctx context.Context, name string) (bool, error) {
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockStore) Refresh(ctx context.Context, name string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, name)
	}
	return nil
}
