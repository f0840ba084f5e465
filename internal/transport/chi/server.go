package chi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/request"
	"github.com/bibdex/bibdex/internal/domain/search/result"
	"github.com/bibdex/bibdex/internal/usecase/health"
)

const maxBodyBytes = 1 << 20

// SearchService runs entity searches.
type SearchService interface {
	Search(ctx context.Context, name entity.Name, params request.Params, viewInternal bool) (*result.Response, error)
	Metadata(name entity.Name) (entity.Metadata, error)
}

// HealthChecker reports component health.
type HealthChecker interface {
	Check(ctx context.Context) health.Report
}

// Limits bounds page sizes accepted from clients.
type Limits struct {
	DefaultLimit int
	MaxLimit     int
}

// Server implements the HTTP API.
type Server struct {
	search        SearchService
	health        HealthChecker
	limits        Limits
	errorHandlers []errorHandler
}

// NewServer creates a Server.
func NewServer(search SearchService, hc HealthChecker, limits Limits) *Server {
	if limits.DefaultLimit <= 0 {
		limits.DefaultLimit = request.DefaultLimit
	}
	if limits.MaxLimit <= 0 {
		limits.MaxLimit = request.MaxLimit
	}
	return &Server{
		search:        search,
		health:        hc,
		limits:        limits,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers every endpoint on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Handle("/metrics", s.Metrics())
	r.Route("/api/v1/{entity}", func(r chi.Router) {
		r.Get("/search", s.SearchGet)
		r.Post("/search", s.SearchPost)
		r.Get("/metadata", s.Metadata)
	})
}

// --- Search ---

// SearchGet handles GET /api/v1/{entity}/search with a bracketed query string.
func (s *Server) SearchGet(w http.ResponseWriter, r *http.Request) {
	req, err := decodeQuery(r.URL.Query())
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	s.runSearch(w, r, req)
}

// SearchPost handles POST /api/v1/{entity}/search with a JSON body.
func (s *Server) SearchPost(w http.ResponseWriter, r *http.Request) {
	var req SearchRequest
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.UseNumber()
	if err := dec.Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid JSON body")
		return
	}
	req.Filters = normalizeNumbers(req.Filters)
	s.runSearch(w, r, req)
}

func (s *Server) runSearch(w http.ResponseWriter, r *http.Request, req SearchRequest) {
	name, err := parseEntity(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	params, err := req.params(s.limits.DefaultLimit, s.limits.MaxLimit)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	resp, err := s.search.Search(r.Context(), name, params, ViewInternal(r.Context()))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func parseEntity(r *http.Request) (entity.Name, error) {
	name, err := entity.Parse(chi.URLParam(r, "entity"))
	if err != nil {
		return "", fmt.Errorf("%w: %v", domain.ErrUnknownEntity, err)
	}
	return name, nil
}

// --- Metadata ---

// DefinitionResponse is one identifier or role definition.
type DefinitionResponse struct {
	SystemName  string `json:"system_name"`
	DisplayName string `json:"display_name"`
}

// MetadataResponse lists the identifier systems and roles of an entity.
type MetadataResponse struct {
	Identifiers []DefinitionResponse `json:"identifiers"`
	Roles       []DefinitionResponse `json:"roles"`
}

// Metadata handles GET /api/v1/{entity}/metadata.
func (s *Server) Metadata(w http.ResponseWriter, r *http.Request) {
	name, err := parseEntity(r)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	md, err := s.search.Metadata(name)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MetadataResponse{
		Identifiers: definitions(md.Identifiers()),
		Roles:       definitions(md.Roles()),
	})
}

func definitions(defs []entity.Definition) []DefinitionResponse {
	out := make([]DefinitionResponse, 0, len(defs))
	for _, d := range defs {
		out = append(out, DefinitionResponse{SystemName: d.SystemName(), DisplayName: d.DisplayName()})
	}
	return out
}

// --- Health & Metrics ---

// HealthResponse is the JSON health report.
type HealthResponse struct {
	Status health.Status                 `json:"status"`
	Checks map[string]health.CheckResult `json:"checks"`
}

// HealthCheck reports 503 only when the search engine is down.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.Unhealthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{Status: report.Status, Checks: report.Checks})
}

// Metrics exposes prometheus metrics.
func (s *Server) Metrics() http.Handler {
	return promhttp.Handler()
}

// normalizeNumbers converts json.Number filter values to int64 or float64.
func normalizeNumbers(filters map[string]any) map[string]any {
	for k, v := range filters {
		filters[k] = normalizeValue(v)
	}
	return filters
}

func normalizeValue(v any) any {
	switch t := v.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		for i := range t {
			t[i] = normalizeValue(t[i])
		}
		return t
	case map[string]any:
		for k := range t {
			t[k] = normalizeValue(t[k])
		}
		return t
	default:
		return v
	}
}

