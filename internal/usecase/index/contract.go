package index

import (
	"context"

	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// IndexRepository manages index lifecycle.
type IndexRepository interface {
	Exists(ctx context.Context, name string) (bool, error)
	Drop(ctx context.Context, name string) error
	Create(ctx context.Context, s *schema.Schema) error
	CreateVerses(ctx context.Context, name string) error
	Refresh(ctx context.Context, name string) error
}

// DocumentRepository writes documents in bulk.
type DocumentRepository interface {
	Index(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)
	Update(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)
	Delete(ctx context.Context, index string, ids []string) ([]batch.Result, error)
}

// CacheInvalidator drops cached search responses of an index.
type CacheInvalidator interface {
	Invalidate(ctx context.Context, index string) error
}
