package chi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/request"
	"github.com/bibdex/bibdex/internal/domain/search/result"
	"github.com/bibdex/bibdex/internal/usecase/health"
)

type mockSearch struct {
	searchFn   func(ctx context.Context, name entity.Name, params request.Params, viewInternal bool) (*result.Response, error)
	metadataFn func(name entity.Name) (entity.Metadata, error)

	lastName     entity.Name
	lastParams   request.Params
	lastInternal bool
}

func (m *mockSearch) Search(
	ctx context.Context, name entity.Name, params request.Params, viewInternal bool,
) (*result.Response, error) {
	m.lastName, m.lastParams, m.lastInternal = name, params, viewInternal
	if m.searchFn != nil {
		return m.searchFn(ctx, name, params, viewInternal)
	}
	return &result.Response{Data: []result.Record{}, Aggregation: map[string][]result.FacetValue{}}, nil
}

func (m *mockSearch) Metadata(name entity.Name) (entity.Metadata, error) {
	if m.metadataFn != nil {
		return m.metadataFn(name)
	}
	return entity.DefaultProvider().Metadata(name), nil
}

type mockHealth struct {
	report health.Report
}

func (m *mockHealth) Check(context.Context) health.Report { return m.report }

func newTestRouter(t *testing.T, s *mockSearch, keys ...string) http.Handler {
	t.Helper()
	srv := NewServer(s, &mockHealth{report: health.Report{
		Status: health.Healthy,
		Checks: map[string]health.CheckResult{health.ComponentEngine: health.CheckOK},
	}}, Limits{DefaultLimit: 25, MaxLimit: 100})
	r := chi.NewRouter()
	r.Use(ViewerMiddleware(keys))
	srv.Routes(r)
	return r
}

func do(h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}
