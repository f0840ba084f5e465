package searchcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/db"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

type mockSearcher struct {
	page  *result.Page
	err   error
	calls int
}

func (m *mockSearcher) Search(_ context.Context, _ string, _ query.Map) (*result.Page, error) {
	m.calls++
	return m.page, m.err
}

// mockKVStore is an in-memory store with optional failure hooks.
type mockKVStore struct {
	data  map[string][]byte
	gens  map[string]int64
	getFn func(ctx context.Context, key string) ([]byte, error)
	genFn func(ctx context.Context, key string) (int64, error)
	setFn func(ctx context.Context, key string, value []byte) error
}

func newMockKVStore() *mockKVStore {
	return &mockKVStore{data: map[string][]byte{}, gens: map[string]int64{}}
}

func (m *mockKVStore) Get(ctx context.Context, key string) ([]byte, error) {
	if m.getFn != nil {
		return m.getFn(ctx, key)
	}
	v, ok := m.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (m *mockKVStore) GetInt64(ctx context.Context, key string) (int64, error) {
	if m.genFn != nil {
		return m.genFn(ctx, key)
	}
	return m.gens[key], nil
}

func (m *mockKVStore) SetWithTTL(ctx context.Context, key string, value []byte, _ time.Duration) error {
	if m.setFn != nil {
		return m.setFn(ctx, key, value)
	}
	m.data[key] = value
	return nil
}

func (m *mockKVStore) IncrBy(_ context.Context, key string, val int64) (int64, error) {
	m.gens[key] += val
	return m.gens[key], nil
}

func newTestCache(t *testing.T, inner *mockSearcher) (*Cache, *mockKVStore) {
	t.Helper()
	ms := newMockKVStore()
	c, err := New(inner, ms, 0, nil, zap.NewNop())
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(c.Close)
	return c, ms
}
