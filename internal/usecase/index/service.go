// Package index sets up entity indexes and writes documents to them in chunks.
package index

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
	"github.com/bibdex/bibdex/internal/logger"
)

// DefaultChunkSize is the number of documents sent per bulk request.
const DefaultChunkSize = 500

// Verses names the verse index as a write target next to the entity types.
const Verses entity.Name = "verse"

// Bulk operation labels.
const (
	opAdd    = "add"
	opUpdate = "update"
	opDelete = "delete"
)

// Service handles index setup and bulk writes.
type Service struct {
	indexes    IndexRepository
	docs       DocumentRepository
	cache      CacheInvalidator
	schemas    map[entity.Name]*schema.Schema
	verseIndex string
	chunkSize  int
	bulkTotal  *prometheus.CounterVec
}

// New creates an index service. cache may be nil.
func New(
	indexes IndexRepository, docs DocumentRepository, cache CacheInvalidator,
	schemas map[entity.Name]*schema.Schema, verseIndex string,
) *Service {
	return &Service{
		indexes:    indexes,
		docs:       docs,
		cache:      cache,
		schemas:    schemas,
		verseIndex: verseIndex,
		chunkSize:  DefaultChunkSize,
	}
}

// WithChunkSize configures the bulk chunk size.
func (s *Service) WithChunkSize(size int) *Service {
	if size > 0 {
		s.chunkSize = size
	}
	return s
}

// WithMetrics sets the bulk document counter ("op", "status").
func (s *Service) WithMetrics(bulkTotal *prometheus.CounterVec) *Service {
	s.bulkTotal = bulkTotal
	return s
}

// IndexName resolves the index of a write target.
func (s *Service) IndexName(name entity.Name) (string, error) {
	if name == Verses {
		return s.verseIndex, nil
	}
	sc, ok := s.schemas[name]
	if !ok {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownEntity, name)
	}
	return sc.Index, nil
}

// Setup recreates the index of a target: an existing index is deleted first.
func (s *Service) Setup(ctx context.Context, name entity.Name) error {
	index, err := s.IndexName(name)
	if err != nil {
		return err
	}

	exists, err := s.indexes.Exists(ctx, index)
	if err != nil {
		return err
	}
	if exists {
		if err := s.indexes.Drop(ctx, index); err != nil {
			return err
		}
	}

	if name == Verses {
		err = s.indexes.CreateVerses(ctx, index)
	} else {
		err = s.indexes.Create(ctx, s.schemas[name])
	}
	if err != nil {
		return err
	}

	logger.FromContext(ctx).Info("index created",
		zap.String("index", index),
		zap.Bool("replaced", exists),
	)
	s.invalidate(ctx, index)
	return nil
}

// Refresh makes recent writes of a target visible to search.
func (s *Service) Refresh(ctx context.Context, name entity.Name) error {
	index, err := s.IndexName(name)
	if err != nil {
		return err
	}
	return s.indexes.Refresh(ctx, index)
}

// Add indexes full documents.
func (s *Service) Add(ctx context.Context, name entity.Name, docs []domdoc.Document) ([]batch.Result, error) {
	return s.writeDocs(ctx, name, opAdd, docs, s.docs.Index)
}

// Update merges partial documents into existing ones.
func (s *Service) Update(ctx context.Context, name entity.Name, docs []domdoc.Document) ([]batch.Result, error) {
	return s.writeDocs(ctx, name, opUpdate, docs, s.docs.Update)
}

// Delete removes documents by id.
func (s *Service) Delete(ctx context.Context, name entity.Name, ids []string) ([]batch.Result, error) {
	index, err := s.IndexName(name)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, index, opDelete, len(ids), func(lo, hi int) ([]batch.Result, error) {
		return s.docs.Delete(ctx, index, ids[lo:hi])
	}, func(i int) string { return ids[i] })
}

type docWriter func(ctx context.Context, index string, docs []domdoc.Document) ([]batch.Result, error)

func (s *Service) writeDocs(
	ctx context.Context, name entity.Name, op string, docs []domdoc.Document, fn docWriter,
) ([]batch.Result, error) {
	index, err := s.IndexName(name)
	if err != nil {
		return nil, err
	}
	return s.write(ctx, index, op, len(docs), func(lo, hi int) ([]batch.Result, error) {
		return fn(ctx, index, docs[lo:hi])
	}, func(i int) string { return docs[i].ID() })
}

// write sends n items in chunks and refreshes the index once at the end.
// A failed chunk marks its items failed and the remaining chunks still run.
func (s *Service) write(
	ctx context.Context, index, op string, n int,
	chunk func(lo, hi int) ([]batch.Result, error), idAt func(i int) string,
) ([]batch.Result, error) {
	if n == 0 {
		return []batch.Result{}, nil
	}
	log := logger.FromContext(ctx)

	results := make([]batch.Result, 0, n)
	for lo := 0; lo < n; lo += s.chunkSize {
		hi := min(lo+s.chunkSize, n)
		rs, err := chunk(lo, hi)
		if err != nil {
			log.Error("bulk chunk failed",
				zap.String("index", index), zap.String("op", op),
				zap.Int("from", lo), zap.Int("to", hi), zap.Error(err))
			for i := lo; i < hi; i++ {
				rs = append(rs, batch.NewError(idAt(i), err))
			}
		}
		ok, failed := batch.Summary(rs)
		s.count(op, "ok", ok)
		s.count(op, "error", failed)
		log.Info("bulk chunk written",
			zap.String("index", index), zap.String("op", op),
			zap.Int("ok", ok), zap.Int("failed", failed), zap.Int("done", hi), zap.Int("total", n))
		results = append(results, rs...)
	}

	if err := s.indexes.Refresh(ctx, index); err != nil {
		return results, err
	}
	s.invalidate(ctx, index)
	return results, nil
}

func (s *Service) count(op, status string, n int) {
	if s.bulkTotal != nil && n > 0 {
		s.bulkTotal.WithLabelValues(op, status).Add(float64(n))
	}
}

// invalidate drops cached responses; cache failures never fail a write.
func (s *Service) invalidate(ctx context.Context, index string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, index); err != nil {
		logger.FromContext(ctx).Warn("search cache invalidation failed",
			zap.String("index", index), zap.Error(err))
	}
}
