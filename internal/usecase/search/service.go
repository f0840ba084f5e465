// Package search is the entity search service: one engine parameterized by
// per-entity schemas that classifies filters, queries the engine and reshapes
// hits and facets into the search response.
package search

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/classify"
	"github.com/bibdex/bibdex/internal/domain/search/facet"
	"github.com/bibdex/bibdex/internal/domain/search/filter"
	"github.com/bibdex/bibdex/internal/domain/search/projection"
	"github.com/bibdex/bibdex/internal/domain/search/request"
	"github.com/bibdex/bibdex/internal/domain/search/result"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
	"github.com/bibdex/bibdex/internal/logger"
)

// Search phases reported in duration metrics.
const (
	phaseResults      = "results"
	phaseAggregations = "aggregations"
)

// Service runs entity searches.
type Service struct {
	repo      Repository
	schemas   map[entity.Name]*schema.Schema
	planner   *facet.Planner
	projector *projection.Projector

	concurrent bool
	requests   *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// New creates a search service over the given entity schemas.
func New(
	repo Repository,
	schemas map[entity.Name]*schema.Schema,
	planner *facet.Planner,
	projector *projection.Projector,
) *Service {
	return &Service{
		repo:       repo,
		schemas:    schemas,
		planner:    planner,
		projector:  projector,
		concurrent: true,
	}
}

// WithConcurrentAggregations toggles issuing the results and aggregation requests in parallel.
func (s *Service) WithConcurrentAggregations(on bool) *Service {
	s.concurrent = on
	return s
}

// WithMetrics sets the request counter ("entity", "status") and the
// phase duration histogram ("entity", "phase").
func (s *Service) WithMetrics(requests *prometheus.CounterVec, duration *prometheus.HistogramVec) *Service {
	s.requests = requests
	s.duration = duration
	return s
}

// Schema returns the schema of an entity.
func (s *Service) Schema(name entity.Name) (*schema.Schema, error) {
	sc, ok := s.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownEntity, name)
	}
	return sc, nil
}

// Metadata returns the identifier and role definitions of an entity.
func (s *Service) Metadata(name entity.Name) (entity.Metadata, error) {
	sc, err := s.Schema(name)
	if err != nil {
		return entity.Metadata{}, err
	}
	return sc.Metadata, nil
}

// Search runs one entity search. Results and aggregations either both
// succeed or the search fails.
func (s *Service) Search(
	ctx context.Context, name entity.Name, params request.Params, viewInternal bool,
) (*result.Response, error) {
	sc, err := s.Schema(name)
	if err != nil {
		return nil, err
	}

	resp, err := s.search(ctx, sc, params, viewInternal)
	if err != nil {
		s.countRequest(name, "error")
		logger.FromContext(ctx).Error("search failed",
			zap.String("entity", string(name)),
			zap.String("index", sc.Index),
			zap.Error(err),
		)
		return nil, err
	}

	s.countRequest(name, "ok")
	domain.EventFromContext(ctx).Record(string(name), viewInternal, resp.Count, len(resp.Aggregation))
	return resp, nil
}

func (s *Service) search(
	ctx context.Context, sc *schema.Schema, params request.Params, viewInternal bool,
) (*result.Response, error) {
	active := classify.Filters(params.Filters(), sc, viewInternal)
	plan := classify.Facets(sc, active, viewInternal)

	var hits, aggs *result.Page
	runResults := func(ctx context.Context) error {
		var err error
		hits, err = s.timed(ctx, sc, phaseResults, s.resultsBody(sc, params, active))
		return err
	}
	runAggregations := func(ctx context.Context) error {
		if len(plan) == 0 {
			return nil
		}
		var err error
		aggs, err = s.timed(ctx, sc, phaseAggregations, s.aggregationsBody(plan, active))
		return err
	}

	if s.concurrent {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return runResults(gctx) })
		g.Go(func() error { return runAggregations(gctx) })
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		if err := runResults(ctx); err != nil {
			return nil, err
		}
		if err := runAggregations(ctx); err != nil {
			return nil, err
		}
	}

	facets := map[string][]result.FacetValue{}
	if aggs != nil {
		var err error
		facets, err = s.planner.Parse(plan, active, aggs.Aggregations)
		if err != nil {
			return nil, fmt.Errorf("%w: parse aggregations: %w", domain.ErrSearchEngineQuery, err)
		}
	}
	addNoValue(sc, active, facets)

	return &result.Response{
		Count:       hits.Total,
		Data:        s.projector.Project(hits.Hits, sc, viewInternal),
		Aggregation: facets,
	}, nil
}

func (s *Service) timed(ctx context.Context, sc *schema.Schema, phase string, body map[string]any) (*result.Page, error) {
	start := time.Now()
	page, err := s.repo.Search(ctx, sc.Index, body)
	if s.duration != nil {
		s.duration.WithLabelValues(string(sc.Entity), phase).Observe(time.Since(start).Seconds())
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", phase, err)
	}
	return page, nil
}

func (s *Service) countRequest(name entity.Name, status string) {
	if s.requests != nil {
		s.requests.WithLabelValues(string(name), status).Inc()
	}
}

// addNoValue appends the "no value" option of sentinel facets when the facet
// came back or when the sentinel itself is the active filter value.
func addNoValue(sc *schema.Schema, active filter.Set, facets map[string][]result.FacetValue) {
	for name, label := range sc.NoValue {
		values, present := facets[name]
		if !present && !activeNoValue(active, name) {
			continue
		}
		if result.HasFacetValue(values, filter.Key(filter.NoValue), filter.Key) {
			continue
		}
		facets[name] = append(values, result.FacetValue{ID: filter.NoValue, Name: label})
	}
}

func activeNoValue(active filter.Set, name string) bool {
	sp, ok := active.Get(name)
	if !ok {
		return false
	}
	switch v := sp.(type) {
	case filter.Object:
		return filter.IsNoValue(v.Value)
	case filter.Nested:
		return filter.IsNoValue(v.Value)
	case filter.NestedMulti:
		for _, val := range v.Values {
			if filter.IsNoValue(val) {
				return true
			}
		}
	}
	return false
}
