package db

import (
	"context"
	"time"
)

// Engine is the search engine facade combining all sub-interfaces.
//
//nolint:interfacebloat // facade by design -- consumers use narrow sub-interfaces (ISP)
type Engine interface {
	Pinger
	IndexManager
	Searcher
	Bulker
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Cache is the key-value store backing the response cache.
type Cache interface {
	Pinger
	KVStore
	Close()
	WaitForReady(ctx context.Context, timeout time.Duration) error
}

// Pinger checks connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}

// KVStore provides the key-value operations of the response cache.
type KVStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetInt64(ctx context.Context, key string) (int64, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// IndexManager provides index lifecycle operations.
type IndexManager interface {
	CreateIndex(ctx context.Context, def *IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	Refresh(ctx context.Context, name string) error
}

// Searcher runs a search request body against an index.
type Searcher interface {
	Search(ctx context.Context, index string, body []byte) (*SearchResult, error)
}

// Bulker applies bulk document operations to an index.
type Bulker interface {
	Bulk(ctx context.Context, index string, ops []BulkOp) ([]BulkItemResult, error)
}
