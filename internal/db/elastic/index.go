package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/bibdex/bibdex/internal/db"
)

// CreateIndex creates an index with its settings and mapping.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	body, err := json.Marshal(def.Body())
	if err != nil {
		return &db.Error{Op: db.OpCreateIndex, Err: fmt.Errorf("encode mapping: %w", err)}
	}

	res, err := esapi.IndicesCreateRequest{
		Index: def.Name,
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return unavailable(db.OpCreateIndex, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return responseError(db.OpCreateIndex, res)
	}
	return nil
}

// DropIndex deletes an index.
func (s *Store) DropIndex(ctx context.Context, name string) error {
	res, err := esapi.IndicesDeleteRequest{Index: []string{name}}.Do(ctx, s.client)
	if err != nil {
		return unavailable(db.OpDropIndex, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return responseError(db.OpDropIndex, res)
	}
	return nil
}

// IndexExists reports whether an index exists.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	res, err := esapi.IndicesExistsRequest{Index: []string{name}}.Do(ctx, s.client)
	if err != nil {
		return false, unavailable(db.OpIndexExists, err)
	}
	defer closeBody(res)
	switch res.StatusCode {
	case http.StatusOK:
		return true, nil
	case http.StatusNotFound:
		return false, nil
	default:
		return false, responseError(db.OpIndexExists, res)
	}
}

// Refresh makes recent writes visible to search.
func (s *Store) Refresh(ctx context.Context, name string) error {
	res, err := esapi.IndicesRefreshRequest{Index: []string{name}}.Do(ctx, s.client)
	if err != nil {
		return unavailable(db.OpRefresh, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return responseError(db.OpRefresh, res)
	}
	return nil
}
