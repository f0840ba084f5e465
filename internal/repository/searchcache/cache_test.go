package searchcache

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

func testPage() *result.Page {
	return &result.Page{
		Total: 1,
		Hits:  []result.Hit{{ID: "1", Source: map[string]any{"name": "Vat. gr. 1"}}},
	}
}

func TestSearch_MissThenHit(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	c, ms := newTestCache(t, inner)
	ctx := context.Background()
	body := query.Map{"size": 25}

	first, err := c.Search(ctx, "bibdex_manuscripts", body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := c.Search(ctx, "bibdex_manuscripts", body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if first.Total != second.Total || second.Hits[0].Source["name"] != "Vat. gr. 1" {
		t.Errorf("cached page differs: %+v", second)
	}
	if len(ms.data) != 1 {
		t.Fatalf("cached entries = %d, want 1", len(ms.data))
	}
	for k := range ms.data {
		if !strings.HasPrefix(k, "bibdex:search:bibdex_manuscripts:0:") {
			t.Errorf("unexpected key %q", k)
		}
	}
}

func TestSearch_DifferentBodiesDifferentKeys(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	c, ms := newTestCache(t, inner)
	ctx := context.Background()

	_, _ = c.Search(ctx, "idx", query.Map{"size": 1})
	_, _ = c.Search(ctx, "idx", query.Map{"size": 2})
	if inner.calls != 2 || len(ms.data) != 2 {
		t.Errorf("calls=%d entries=%d, want 2/2", inner.calls, len(ms.data))
	}
}

func TestInvalidate(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	c, ms := newTestCache(t, inner)
	ctx := context.Background()
	body := query.Map{"size": 25}

	_, _ = c.Search(ctx, "idx", body)
	if err := c.Invalidate(ctx, "idx"); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	_, _ = c.Search(ctx, "idx", body)

	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2 after invalidation", inner.calls)
	}
	if ms.gens["bibdex:gen:idx"] != 1 {
		t.Errorf("generation = %d, want 1", ms.gens["bibdex:gen:idx"])
	}
}

func TestSearch_StoreErrorsBypassCache(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	c, ms := newTestCache(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return nil, errors.New("conn reset") }
	ms.setFn = func(context.Context, string, []byte) error { return errors.New("conn reset") }

	page, err := c.Search(context.Background(), "idx", query.Map{})
	if err != nil {
		t.Fatalf("cache errors must not fail search: %v", err)
	}
	if page.Total != 1 {
		t.Errorf("total = %d", page.Total)
	}
}

func TestSearch_GenerationErrorBypassesCache(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	ms := newMockKVStore()
	ms.genFn = func(context.Context, string) (int64, error) { return 0, errors.New("down") }
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_total"}, []string{"result"})
	c, err := New(inner, ms, 0, counter, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.Search(context.Background(), "idx", query.Map{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(ms.data) != 0 {
		t.Error("nothing should be cached without a generation")
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("error")); got != 1 {
		t.Errorf("error counter = %v, want 1", got)
	}
}

func TestSearch_InnerErrorNotCached(t *testing.T) {
	inner := &mockSearcher{err: domain.ErrSearchEngineUnavailable}
	c, ms := newTestCache(t, inner)

	_, err := c.Search(context.Background(), "idx", query.Map{})
	if !errors.Is(err, domain.ErrSearchEngineUnavailable) {
		t.Fatalf("expected engine error, got %v", err)
	}
	if len(ms.data) != 0 {
		t.Error("errors must not be cached")
	}
}

func TestSearch_CorruptEntryIsMiss(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	c, ms := newTestCache(t, inner)
	ms.getFn = func(context.Context, string) ([]byte, error) { return []byte("not zstd"), nil }

	if _, err := c.Search(context.Background(), "idx", query.Map{}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
}

func TestSearch_Metrics(t *testing.T) {
	inner := &mockSearcher{page: testPage()}
	counter := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_cache_hits"}, []string{"result"})
	c, err := New(inner, newMockKVStore(), 0, counter, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	ctx := context.Background()
	_, _ = c.Search(ctx, "idx", query.Map{})
	_, _ = c.Search(ctx, "idx", query.Map{})

	if got := testutil.ToFloat64(counter.WithLabelValues("miss")); got != 1 {
		t.Errorf("miss = %v, want 1", got)
	}
	if got := testutil.ToFloat64(counter.WithLabelValues("hit")); got != 1 {
		t.Errorf("hit = %v, want 1", got)
	}
}
