package index

import (
	"context"

	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// mockIndexes implements IndexRepository for tests.
type mockIndexes struct {
	calls          []string
	existsFn       func(ctx context.Context, name string) (bool, error)
	dropFn         func(ctx context.Context, name string) error
	createFn       func(ctx context.Context, s *schema.Schema) error
	createVersesFn func(ctx context.Context, name string) error
	refreshFn      func(ctx context.Context, name string) error
}

func (m *mockIndexes) Exists(ctx context.Context, name string) (bool, error) {
	m.calls = append(m.calls, "exists "+name)
	if m.existsFn != nil {
		return m.existsFn(ctx, name)
	}
	return false, nil
}

func (m *mockIndexes) Drop(ctx context.Context, name string) error {
	m.calls = append(m.calls, "drop "+name)
	if m.dropFn != nil {
		return m.dropFn(ctx, name)
	}
	return nil
}

func (m *mockIndexes) Create(ctx context.Context, s *schema.Schema) error {
	m.calls = append(m.calls, "create "+s.Index)
	if m.createFn != nil {
		return m.createFn(ctx, s)
	}
	return nil
}

func (m *mockIndexes) CreateVerses(ctx context.Context, name string) error {
	m.calls = append(m.calls, "create "+name)
	if m.createVersesFn != nil {
		return m.createVersesFn(ctx, name)
	}
	return nil
}

func (m *mockIndexes) Refresh(ctx context.Context, name string) error {
	m.calls = append(m.calls, "refresh "+name)
	if m.refreshFn != nil {
		return m.refreshFn(ctx, name)
	}
	return nil
}

// mockDocs implements DocumentRepository for tests. Unset functions succeed for every item.
type mockDocs struct {
	chunks   []int
	indexFn  func(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)
	updateFn func(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)
	deleteFn func(ctx context.Context, index string, ids []string) ([]batch.Result, error)
}

func okResults(ids []string) []batch.Result {
	out := make([]batch.Result, 0, len(ids))
	for _, id := range ids {
		out = append(out, batch.NewOK(id))
	}
	return out
}

func docIDs(docs []domdoc.Document) []string {
	ids := make([]string, 0, len(docs))
	for _, d := range docs {
		ids = append(ids, d.ID())
	}
	return ids
}

func (m *mockDocs) Index(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error) {
	m.chunks = append(m.chunks, len(docs))
	if m.indexFn != nil {
		return m.indexFn(ctx, index, docs)
	}
	return okResults(docIDs(docs)), nil
}

func (m *mockDocs) Update(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error) {
	m.chunks = append(m.chunks, len(docs))
	if m.updateFn != nil {
		return m.updateFn(ctx, index, docs)
	}
	return okResults(docIDs(docs)), nil
}

func (m *mockDocs) Delete(ctx context.Context, index string, ids []string) ([]batch.Result, error) {
	m.chunks = append(m.chunks, len(ids))
	if m.deleteFn != nil {
		return m.deleteFn(ctx, index, ids)
	}
	return okResults(ids), nil
}

// mockCache implements CacheInvalidator for tests.
type mockCache struct {
	invalidated []string
	err         error
}

func (m *mockCache) Invalidate(_ context.Context, index string) error {
	m.invalidated = append(m.invalidated, index)
	return m.err
}
