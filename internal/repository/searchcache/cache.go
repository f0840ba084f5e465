// Package searchcache caches engine responses in a key-value store.
//
// Keys embed a per-index generation counter; bumping it after a write makes
// every cached page of that index unreachable.
package searchcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/klauspost/compress/zstd"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/db"
	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/search/query"
	"github.com/bibdex/bibdex/internal/domain/search/result"
)

var (
	searchKeyPrefix     = domain.KeyPrefix + "search:"
	generationKeyPrefix = domain.KeyPrefix + "gen:"
)

// DefaultTTL bounds how long a cached page lives when no TTL is configured.
const DefaultTTL = 10 * time.Minute

// searcher is the decorated search repository.
type searcher interface {
	Search(ctx context.Context, index string, body query.Map) (*result.Page, error)
}

// store is the consumer interface for the cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	GetInt64(ctx context.Context, key string) (int64, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
	IncrBy(ctx context.Context, key string, val int64) (int64, error)
}

// Cache is a caching decorator over a search repository.
type Cache struct {
	inner      searcher
	store      store
	ttl        time.Duration
	enc        *zstd.Encoder
	dec        *zstd.Decoder
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"/"error"), passed explicitly.
func New(
	inner searcher,
	s store,
	ttl time.Duration,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) (*Cache, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, fmt.Errorf("create zstd decoder: %w", err)
	}
	return &Cache{
		inner:      inner,
		store:      s,
		ttl:        ttl,
		enc:        enc,
		dec:        dec,
		cacheTotal: cacheTotal,
		logger:     logger,
	}, nil
}

// Close releases the decoder goroutines.
func (c *Cache) Close() {
	c.dec.Close()
}

// Search returns a cached page or calls the inner repository.
// Cache failures are logged and bypassed.
func (c *Cache) Search(ctx context.Context, index string, body query.Map) (*result.Page, error) {
	key, err := c.cacheKey(ctx, index, body)
	if err != nil {
		c.incCache("error")
		c.logger.Warn("Failed to build search cache key", zap.String("index", index), zap.Error(err))
		return c.inner.Search(ctx, index, body)
	}

	if page, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return page, nil
	}
	c.incCache("miss")

	page, err := c.inner.Search(ctx, index, body)
	if err != nil {
		return nil, err
	}
	c.putToCache(ctx, key, page)
	return page, nil
}

// Invalidate bumps the generation of an index, orphaning its cached pages.
func (c *Cache) Invalidate(ctx context.Context, index string) error {
	if _, err := c.store.IncrBy(ctx, generationKeyPrefix+index, 1); err != nil {
		return fmt.Errorf("%w: invalidate %s: %w", domain.ErrCacheUnavailable, index, err)
	}
	return nil
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *Cache) cacheKey(ctx context.Context, index string, body query.Map) (string, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("encode body: %w", err)
	}
	gen, err := c.store.GetInt64(ctx, generationKeyPrefix+index)
	if err != nil {
		return "", fmt.Errorf("read generation: %w", err)
	}
	h := sha256.Sum256(data)
	return searchKeyPrefix + index + ":" + strconv.FormatInt(gen, 10) + ":" + hex.EncodeToString(h[:]), nil
}

func (c *Cache) getFromCache(ctx context.Context, key string) (*result.Page, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached search page", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}
	if len(data) == 0 {
		return nil, false
	}

	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		c.logger.Warn("Failed to decompress cached search page", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	var page result.Page
	if err := json.Unmarshal(raw, &page); err != nil {
		c.logger.Warn("Failed to parse cached search page", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return &page, true
}

func (c *Cache) putToCache(ctx context.Context, key string, page *result.Page) {
	raw, err := json.Marshal(page)
	if err != nil {
		c.logger.Warn("Failed to encode search page", zap.String("key", key), zap.Error(err))
		return
	}
	data := c.enc.EncodeAll(raw, nil)
	if err := c.store.SetWithTTL(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache search page", zap.String("key", key), zap.Error(err))
	}
}
