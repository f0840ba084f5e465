package versegroup

import (
	"context"

	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

// Searcher runs queries against the verse index.
type Searcher interface {
	Search(ctx context.Context, index string, body query.Map) (*result.Page, error)
}

// Writer applies partial updates and refreshes the verse index.
type Writer interface {
	Update(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)
	Refresh(ctx context.Context, index string) error
}
