package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8/esapi"

	"github.com/bibdex/bibdex/internal/db"
)

type bulkMeta struct {
	ID string `json:"_id"`
}

type bulkItem struct {
	ID     string `json:"_id"`
	Status int    `json:"status"`
	Error  *struct {
		Type   string `json:"type"`
		Reason string `json:"reason"`
	} `json:"error"`
}

type bulkResponse struct {
	Errors bool                  `json:"errors"`
	Items  []map[string]bulkItem `json:"items"`
}

// Bulk applies index, update and delete operations in one request.
// Results follow the order of ops.
func (s *Store) Bulk(ctx context.Context, index string, ops []db.BulkOp) ([]db.BulkItemResult, error) {
	if len(ops) == 0 {
		return nil, nil
	}
	body, err := encodeBulk(ops)
	if err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: err}
	}

	res, err := esapi.BulkRequest{
		Index: index,
		Body:  bytes.NewReader(body),
	}.Do(ctx, s.client)
	if err != nil {
		return nil, unavailable(db.OpBulk, err)
	}
	defer closeBody(res)
	if res.IsError() {
		return nil, responseError(db.OpBulk, res)
	}

	var br bulkResponse
	if err := json.NewDecoder(res.Body).Decode(&br); err != nil {
		return nil, &db.Error{Op: db.OpBulk, Err: fmt.Errorf("decode response: %w", err)}
	}

	out := make([]db.BulkItemResult, 0, len(br.Items))
	for _, item := range br.Items {
		for _, it := range item {
			r := db.BulkItemResult{ID: it.ID, Status: it.Status}
			if it.Error != nil {
				r.Err = it.Error.Type + ": " + it.Error.Reason
			}
			out = append(out, r)
		}
	}
	return out, nil
}

func encodeBulk(ops []db.BulkOp) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, op := range ops {
		if op.ID == "" {
			return nil, fmt.Errorf("bulk %s: id is required", op.Action)
		}
		meta := map[db.BulkAction]bulkMeta{op.Action: {ID: op.ID}}
		switch op.Action {
		case db.BulkIndex:
			if err := enc.Encode(meta); err != nil {
				return nil, err
			}
			if err := enc.Encode(op.Doc); err != nil {
				return nil, fmt.Errorf("encode document %s: %w", op.ID, err)
			}
		case db.BulkUpdate:
			if err := enc.Encode(meta); err != nil {
				return nil, err
			}
			if err := enc.Encode(map[string]any{"doc": op.Doc}); err != nil {
				return nil, fmt.Errorf("encode document %s: %w", op.ID, err)
			}
		case db.BulkDelete:
			if err := enc.Encode(meta); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("unknown bulk action %q", op.Action)
		}
	}
	return buf.Bytes(), nil
}
