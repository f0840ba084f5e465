package bibdex

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	defaultTimeout = 30 * time.Second
	maxErrorBody   = 64 << 10
)

// Client talks to the bibdex search API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	editorKey string
	obs       *observer
}

// New creates a Client for the API at baseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	cfg := &clientConfig{timeout: defaultTimeout}
	for _, o := range opts {
		o.apply(cfg)
	}

	if baseURL == "" {
		return nil, errors.New("bibdex: base URL required")
	}
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("bibdex: parse base URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("bibdex: unsupported scheme %q", u.Scheme)
	}

	hc := cfg.httpClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.timeout}
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	return &Client{baseURL: u, http: hc, editorKey: cfg.editorKey, obs: obs}, nil
}

// Search runs one search against an entity ("manuscript", "persons", ...).
func (c *Client) Search(ctx context.Context, entity string, params SearchParams) (resp *SearchResponse, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", entity, start, err) }()

	body, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("bibdex: encode search: %w", err)
	}

	resp = &SearchResponse{}
	if err = c.do(ctx, http.MethodPost, entityPath(entity, "search"), body, resp); err != nil {
		return nil, err
	}
	return resp, nil
}

// Metadata returns the identifier systems and roles of an entity.
func (c *Client) Metadata(ctx context.Context, entity string) (md *Metadata, err error) {
	start := time.Now()
	defer func() { c.obs.observe("metadata", entity, start, err) }()

	md = &Metadata{}
	if err = c.do(ctx, http.MethodGet, entityPath(entity, "metadata"), nil, md); err != nil {
		return nil, err
	}
	return md, nil
}

// Health returns the server health report. A degraded or failing server is
// not an error: inspect Status.
func (c *Client) Health(ctx context.Context) (h HealthStatus, err error) {
	start := time.Now()
	defer func() { c.obs.observe("health", "", start, err) }()

	err = c.do(ctx, http.MethodGet, "/health", nil, &h)
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusServiceUnavailable && h.Status != "" {
		return h, nil
	}
	return h, err
}

func entityPath(entity, op string) string {
	return "/api/v1/" + url.PathEscape(entity) + "/" + op
}

func (c *Client) do(ctx context.Context, method, path string, body []byte, out any) error {
	u := *c.baseURL
	u.Path += path

	var rd io.Reader
	if body != nil {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("bibdex: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.editorKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.editorKey)
	}

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("bibdex: %s %s: %w", method, path, err)
	}
	defer func() { _ = res.Body.Close() }()

	if res.StatusCode >= http.StatusBadRequest {
		data, _ := io.ReadAll(io.LimitReader(res.Body, maxErrorBody))
		apiErr := &APIError{StatusCode: res.StatusCode}
		if json.Unmarshal(data, apiErr) != nil || apiErr.Code == "" {
			// health answers 503 with a report, not an error body
			_ = json.Unmarshal(data, out)
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("bibdex: decode response: %w", err)
	}
	return nil
}
