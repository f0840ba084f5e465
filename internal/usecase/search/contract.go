package search

import (
	"context"

	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

// Repository executes a search body against one index.
type Repository interface {
	Search(ctx context.Context, index string, body query.Map) (*result.Page, error)
}
