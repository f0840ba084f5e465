// Package index manages the lifecycle of entity and verse indexes.
package index

import (
	"context"
	"errors"
	"fmt"

	"github.com/bibdex/bibdex/internal/db"
	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
)

// store is the consumer interface for index management (ISP).
type store interface {
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, name string) error
}

// Repo implements usecase/index.IndexRepository.
type Repo struct {
	store store
}

// New creates an index repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// Create creates the index of an entity with the mapping derived from its schema.
func (r *Repo) Create(ctx context.Context, s *schema.Schema) error {
	def, err := buildIndex(s)
	if err != nil {
		return fmt.Errorf("build index %s: %w", s.Index, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", s.Index, translateError(err))
	}
	return nil
}

// CreateVerses creates the verse index.
func (r *Repo) CreateVerses(ctx context.Context, name string) error {
	def, err := buildVerseIndex(name)
	if err != nil {
		return fmt.Errorf("build index %s: %w", name, err)
	}
	if err := r.store.CreateIndex(ctx, def); err != nil {
		return fmt.Errorf("create index %s: %w", name, translateError(err))
	}
	return nil
}

// Exists reports whether the index exists.
func (r *Repo) Exists(ctx context.Context, name string) (bool, error) {
	ok, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return false, fmt.Errorf("check index %s: %w", name, translateError(err))
	}
	return ok, nil
}

// Drop deletes the index.
func (r *Repo) Drop(ctx context.Context, name string) error {
	if err := r.store.DropIndex(ctx, name); err != nil {
		return fmt.Errorf("drop index %s: %w", name, translateError(err))
	}
	return nil
}

// Refresh makes recent writes visible to search.
func (r *Repo) Refresh(ctx context.Context, name string) error {
	if err := r.store.Refresh(ctx, name); err != nil {
		return fmt.Errorf("refresh index %s: %w", name, translateError(err))
	}
	return nil
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
