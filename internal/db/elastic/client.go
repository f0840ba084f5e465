// Package elastic implements the search engine store on go-elasticsearch.
package elastic

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/bibdex/bibdex/internal/db"
)

// Compile-time check: Store implements db.Engine.
var _ db.Engine = (*Store)(nil)

// Config holds connection parameters for an Elasticsearch cluster.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	// Transport overrides the HTTP transport, mainly for tests.
	Transport http.RoundTripper
}

// Store implements db.Engine via the esapi request types.
type Store struct {
	client *elasticsearch.Client
}

// NewStore creates an Elasticsearch store.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addresses) == 0 {
		return nil, fmt.Errorf("addresses is required")
	}
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: cfg.Transport,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	res, err := esapi.PingRequest{}.Do(ctx, s.client)
	if err != nil {
		return unavailable(db.OpPing, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return responseError(db.OpPing, res)
	}
	return nil
}

// Close is a no-op: the HTTP transport holds no dedicated resources.
func (s *Store) Close() {}

// WaitForReady polls Ping until the cluster responds or timeout expires.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for search engine: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}

type errorBody struct {
	Error struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

func unavailable(op string, err error) error {
	return &db.Error{Op: op, Err: fmt.Errorf("%w: %w", db.ErrUnavailable, err)}
}

// responseError classifies an error response by status and error type.
func responseError(op string, res *esapi.Response) error {
	data, _ := io.ReadAll(res.Body)
	var body errorBody
	_ = json.Unmarshal(data, &body)

	reason := body.Error.Reason
	if reason == "" {
		reason = strings.TrimSpace(string(data))
	}
	if reason == "" {
		reason = http.StatusText(res.StatusCode)
	}

	var sentinel error
	switch {
	case body.Error.Type == "index_not_found_exception" || (res.StatusCode == http.StatusNotFound && op != db.OpSearch):
		sentinel = db.ErrIndexNotFound
	case body.Error.Type == "resource_already_exists_exception":
		sentinel = db.ErrIndexExists
	case res.StatusCode >= http.StatusInternalServerError:
		sentinel = db.ErrUnavailable
	default:
		sentinel = db.ErrQuery
	}
	return &db.Error{Op: op, Err: fmt.Errorf("%w: %d %s", sentinel, res.StatusCode, reason)}
}

func closeBody(res *esapi.Response) {
	_, _ = io.Copy(io.Discard, res.Body)
	_ = res.Body.Close()
}
