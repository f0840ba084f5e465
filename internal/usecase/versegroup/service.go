// Package versegroup assigns a shared group id to verses with identical text.
package versegroup

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bibdex/bibdex/internal/domain/batch"
	domdoc "github.com/bibdex/bibdex/internal/domain/document"
	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
	"github.com/bibdex/bibdex/internal/logger"
)

// Defaults.
const (
	DefaultBatchSize = 10
	// MaxGroupSize bounds the identical verses fetched for one verse.
	MaxGroupSize = 1000
)

// Service groups identical verses.
type Service struct {
	search    Searcher
	writer    Writer
	index     string
	batchSize int
	onGroups  func(n int)
}

// New creates a verse grouping service for the given verse index.
func New(search Searcher, writer Writer, index string) *Service {
	return &Service{search: search, writer: writer, index: index, batchSize: DefaultBatchSize}
}

// WithBatchSize configures the number of verses handled per page.
func (s *Service) WithBatchSize(n int) *Service {
	if n > 0 {
		s.batchSize = n
	}
	return s
}

// OnGroups registers a callback receiving the groups created per page.
func (s *Service) OnGroups(fn func(n int)) *Service {
	s.onGroups = fn
	return s
}

type verse struct {
	docID string
	id    int64
	text  string
}

// InitGroups pages through ungrouped verses in id order. Searches for the
// verses of a page run concurrently; assignment follows page order so a verse
// grouped earlier in the run is skipped. Returns the number of groups created.
func (s *Service) InitGroups(ctx context.Context) (int, error) {
	log := logger.FromContext(ctx)

	total := 0
	after := int64(-1)
	assigned := map[string]bool{}
	for {
		page, err := s.ungrouped(ctx, after)
		if err != nil {
			return total, err
		}
		if len(page) == 0 {
			return total, nil
		}
		after = page[len(page)-1].id

		matches, err := s.identical(ctx, page)
		if err != nil {
			return total, err
		}

		var docs []domdoc.Document
		groups := 0
		for i, v := range page {
			if assigned[v.docID] || v.text == "" {
				continue
			}
			members := append([]verse{v}, matches[i]...)
			for _, m := range members {
				if assigned[m.docID] {
					continue
				}
				assigned[m.docID] = true
				d, err := domdoc.New(m.docID, map[string]any{schema.VerseGroup: v.id})
				if err != nil {
					return total, fmt.Errorf("verse %s: %w", m.docID, err)
				}
				docs = append(docs, d)
			}
			groups++
		}

		if len(docs) > 0 {
			results, err := s.writer.Update(ctx, s.index, docs)
			if err != nil {
				return total, fmt.Errorf("update verse groups: %w", err)
			}
			if _, failed := batch.Summary(results); failed > 0 {
				log.Warn("verse group updates failed", zap.Int("failed", failed))
			}
			if err := s.writer.Refresh(ctx, s.index); err != nil {
				return total, fmt.Errorf("refresh verses: %w", err)
			}
		}

		total += groups
		if s.onGroups != nil {
			s.onGroups(groups)
		}
		log.Info("verse page grouped",
			zap.Int64("last_id", after),
			zap.Int("groups", groups),
			zap.Int("verses", len(docs)),
			zap.Int("total_groups", total),
		)
	}
}

// ungrouped returns the next page of verses without a group, after the given id.
func (s *Service) ungrouped(ctx context.Context, after int64) ([]verse, error) {
	q := query.NewBool().
		MustNot(query.Exists(schema.VerseGroup)).
		Filter(query.Range(schema.VerseID, query.Bounds{Gte: after + 1}))
	page, err := s.search.Search(ctx, s.index, query.Map{
		"query": q.Map(),
		"size":  s.batchSize,
		"sort":  []query.Map{{schema.VerseID: query.Map{"order": "asc"}}},
	})
	if err != nil {
		return nil, fmt.Errorf("list ungrouped verses: %w", err)
	}
	return toVerses(page.Hits), nil
}

// identical looks up, concurrently, the other ungrouped verses sharing each verse's text.
func (s *Service) identical(ctx context.Context, page []verse) ([][]verse, error) {
	out := make([][]verse, len(page))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range page {
		if v.text == "" {
			continue
		}
		g.Go(func() error {
			text := filter.Text{Name: schema.VerseText, Target: schema.VerseText, Text: v.text, Init: true}
			q := query.NewBool().
				Must(query.TextClause(text)).
				Filter(query.Term(schema.VerseText+".keyword", v.text)).
				MustNot(query.Exists(schema.VerseGroup), query.Term(schema.VerseID, v.id))
			res, err := s.search.Search(gctx, s.index, query.Map{
				"query": q.Map(),
				"size":  MaxGroupSize,
				"sort":  []query.Map{{schema.VerseID: query.Map{"order": "asc"}}},
			})
			if err != nil {
				return fmt.Errorf("find verses identical to %s: %w", v.docID, err)
			}
			out[i] = toVerses(res.Hits)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func toVerses(hits []result.Hit) []verse {
	out := make([]verse, 0, len(hits))
	for _, h := range hits {
		v := verse{docID: h.ID}
		switch id := h.Source[schema.VerseID].(type) {
		case float64:
			v.id = int64(id)
		case int64:
			v.id = id
		case int:
			v.id = int64(id)
		default:
			n, err := strconv.ParseInt(h.ID, 10, 64)
			if err != nil {
				continue
			}
			v.id = n
		}
		v.text, _ = h.Source[schema.VerseText].(string)
		out = append(out, v)
	}
	return out
}
