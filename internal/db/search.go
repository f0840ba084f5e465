package db

import "encoding/json"

// SearchResult is the output of a search request.
type SearchResult struct {
	Total        int64
	Hits         []SearchHit
	Aggregations map[string]json.RawMessage
}

// SearchHit is a single document hit.
type SearchHit struct {
	ID        string
	Score     float64
	Source    json.RawMessage
	Highlight map[string][]string
}

// BulkAction is the kind of a bulk operation.
type BulkAction string

// Bulk actions.
const (
	BulkIndex  BulkAction = "index"
	BulkUpdate BulkAction = "update"
	BulkDelete BulkAction = "delete"
)

// BulkOp is one document operation in a bulk request.
// Doc is the full document for index, the partial document for update and unused for delete.
type BulkOp struct {
	Action BulkAction
	ID     string
	Doc    any
}

// BulkItemResult is the per-document outcome of a bulk request.
type BulkItemResult struct {
	ID     string
	Status int
	Err    string
}

// OK reports whether the item succeeded.
func (r BulkItemResult) OK() bool { return r.Err == "" && r.Status < 300 }
