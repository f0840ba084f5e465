package document

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/bibdex/bibdex/internal/db"
	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
)

// store is the consumer interface for bulk writes (ISP).
type store interface {
	Bulk(ctx context.Context, index string, ops []db.BulkOp) ([]db.BulkItemResult, error)
	Refresh(ctx context.Context, index string) error
}

// Repo implements usecase/index.DocumentRepository.
type Repo struct {
	store store
}

// New creates a document repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Index writes full documents, replacing existing ones.
func (r *Repo) Index(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error) {
	ops := make([]db.BulkOp, 0, len(docs))
	for _, d := range docs {
		ops = append(ops, db.BulkOp{Action: db.BulkIndex, ID: d.ID(), Doc: d.Fields()})
	}
	return r.bulk(ctx, index, ops)
}

// Update merges partial documents into existing ones.
func (r *Repo) Update(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error) {
	ops := make([]db.BulkOp, 0, len(docs))
	for _, d := range docs {
		ops = append(ops, db.BulkOp{Action: db.BulkUpdate, ID: d.ID(), Doc: d.Fields()})
	}
	return r.bulk(ctx, index, ops)
}

// Delete removes documents by id.
func (r *Repo) Delete(ctx context.Context, index string, ids []string) ([]batch.Result, error) {
	ops := make([]db.BulkOp, 0, len(ids))
	for _, id := range ids {
		ops = append(ops, db.BulkOp{Action: db.BulkDelete, ID: id})
	}
	return r.bulk(ctx, index, ops)
}

// Refresh makes written documents visible to search.
func (r *Repo) Refresh(ctx context.Context, index string) error {
	if err := r.store.Refresh(ctx, index); err != nil {
		return fmt.Errorf("refresh %s: %w", index, translateError(err))
	}
	return nil
}

func (r *Repo) bulk(ctx context.Context, index string, ops []db.BulkOp) ([]batch.Result, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	items, err := r.store.Bulk(ctx, index, ops)
	if err != nil {
		return nil, fmt.Errorf("bulk %s: %w", index, translateError(err))
	}

	byID := make(map[string]db.BulkItemResult, len(items))
	for _, it := range items {
		byID[it.ID] = it
	}
	results := make([]batch.Result, 0, len(ops))
	for _, op := range ops {
		it, ok := byID[op.ID]
		switch {
		case !ok:
			results = append(results, batch.NewError(op.ID, fmt.Errorf("no bulk result for %s", op.ID)))
		case it.OK():
			results = append(results, batch.NewOK(op.ID))
		case it.Status == http.StatusNotFound:
			results = append(results, batch.NewError(op.ID, fmt.Errorf("%w: %s", domain.ErrDocumentNotFound, op.ID)))
		default:
			results = append(results, batch.NewError(op.ID, fmt.Errorf("%w: %s", domain.ErrSearchEngineQuery, it.Err)))
		}
	}
	return results, nil
}

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
