package search

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/bibdex/bibdex/internal/db"
	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	Search(ctx context.Context, index string, body []byte) (*db.SearchResult, error)
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Search runs a request body against an index and converts the response into a page.
func (r *Repo) Search(ctx context.Context, index string, body query.Map) (*result.Page, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("encode search %s: %w", index, err)
	}

	sr, err := r.store.Search(ctx, index, data)
	if err != nil {
		return nil, fmt.Errorf("search %s: %w", index, translateError(err))
	}
	return toPage(sr)
}

func toPage(sr *db.SearchResult) (*result.Page, error) {
	page := &result.Page{Hits: []result.Hit{}}
	if sr == nil {
		return page, nil
	}
	page.Total = sr.Total
	page.Aggregations = sr.Aggregations

	for _, h := range sr.Hits {
		hit := result.Hit{ID: h.ID, Score: h.Score, Highlight: h.Highlight}
		if len(h.Source) > 0 {
			if err := json.Unmarshal(h.Source, &hit.Source); err != nil {
				return nil, fmt.Errorf("decode hit %s: %w", h.ID, err)
			}
		}
		if hit.Source == nil {
			hit.Source = map[string]any{}
		}
		page.Hits = append(page.Hits, hit)
	}
	return page, nil
}

// translateError maps storage errors to domain errors, keeping the cause.
func translateError(err error) error {
	switch {
	case errors.Is(err, db.ErrIndexNotFound):
		return fmt.Errorf("%w: %w", domain.ErrIndexNotFound, err)
	case errors.Is(err, db.ErrUnavailable):
		return fmt.Errorf("%w: %w", domain.ErrSearchEngineUnavailable, err)
	default:
		return fmt.Errorf("%w: %w", domain.ErrSearchEngineQuery, err)
	}
}
