package document

import (
	"context"

	"github.com/bibdex/bibdex/internal/db"
)

// mockStore implements the store interface for tests.
type mockStore struct {
	bulkFn    func(ctx context.Context, index string, ops []db.BulkOp) ([]db.BulkItemResult, error)
	refreshFn func(ctx context.Context, index string) error
}

func (m *mockStore) Bulk(ctx context.Context, index string, ops []db.BulkOp) ([]db.BulkItemResult, error) {
	if m.bulkFn != nil {
		return m.bulkFn(ctx, index, ops)
	}
	out := make([]db.BulkItemResult, 0, len(ops))
	for _, op := range ops {
		out = append(out, db.BulkItemResult{ID: op.ID, Status: 200})
	}
	return out, nil
}

func (m *mockStore) Refresh(ctx context.Context, index string) error {
	if m.refreshFn != nil {
		return m.refreshFn(ctx, index)
	}
	return nil
}
