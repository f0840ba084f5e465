package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/bibdex/bibdex/internal/db"
)

type searchResponse struct {
	Hits struct {
		Total struct {
			Value int64 `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string              `json:"_id"`
			Score     *float64            `json:"_score"`
			Source    json.RawMessage     `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
	Aggregations map[string]json.RawMessage `json:"aggregations"`
}

// Search runs a search request body against an index.
func (s *Store) Search(ctx context.Context, index string, body []byte) (*db.SearchResult, error) {
	res, err := esapi.SearchRequest{
		Index:          []string{index},
		Body:           bytes.NewReader(body),
		TrackTotalHits: true,
	}.Do(ctx, s.client)
	if err != nil {
		return nil, unavailable(db.OpSearch, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, responseError(db.OpSearch, res)
	}

	var sr searchResponse
	if err := json.NewDecoder(res.Body).Decode(&sr); err != nil {
		return nil, &db.Error{Op: db.OpSearch, Err: fmt.Errorf("decode response: %w", err)}
	}

	out := &db.SearchResult{
		Total:        sr.Hits.Total.Value,
		Hits:         make([]db.SearchHit, 0, len(sr.Hits.Hits)),
		Aggregations: sr.Aggregations,
	}
	for _, h := range sr.Hits.Hits {
		hit := db.SearchHit{ID: h.ID, Source: h.Source, Highlight: h.Highlight}
		if h.Score != nil {
			hit.Score = *h.Score
		}
		out.Hits = append(out.Hits, hit)
	}
	return out, nil
}
