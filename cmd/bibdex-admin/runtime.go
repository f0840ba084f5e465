package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/config"
	dbElastic "github.com/bibdex/bibdex/internal/db/elastic"
	dbRedis "github.com/bibdex/bibdex/internal/db/redis"
	"github.com/bibdex/bibdex/internal/domain/entity"
	"github.com/bibdex/bibdex/internal/domain/search/schema"
	logpkg "github.com/bibdex/bibdex/internal/logger"
	"github.com/bibdex/bibdex/internal/metrics"
	documentrepo "github.com/bibdex/bibdex/internal/repository/document"
	indexrepo "github.com/bibdex/bibdex/internal/repository/index"
	searchrepo "github.com/bibdex/bibdex/internal/repository/search"
	"github.com/bibdex/bibdex/internal/repository/searchcache"
	indexuc "github.com/bibdex/bibdex/internal/usecase/index"
	"github.com/bibdex/bibdex/internal/usecase/versegroup"
)

// runtime holds the services an admin command operates on.
type runtime struct {
	cfg       config.Config
	logger    *zap.Logger
	schemaCfg schema.Config
	index     *indexuc.Service
	verses    *versegroup.Service
	closers   []func()
}

func (r *runtime) Close() {
	for i := len(r.closers) - 1; i >= 0; i-- {
		r.closers[i]()
	}
	_ = r.logger.Sync()
}

// withLogger returns ctx carrying the runtime logger.
func (r *runtime) withLogger(ctx context.Context) context.Context {
	return logpkg.ContextWithLogger(ctx, r.logger)
}

func loadConfig(c *cli.Command) (config.Config, error) {
	env := c.String("env")
	if path := c.String("config"); path != "" {
		data, err := os.ReadFile(filepath.Clean(path))
		if err != nil {
			return config.Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
		return config.Parse(data, env)
	}
	return config.Load(env)
}

// newRuntime connects to the search engine (and the cache, when enabled) and
// wires the index and verse grouping services.
func newRuntime(ctx context.Context, c *cli.Command) (*runtime, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logpkg.NewLogger(cfg.Env, cfg.Logging.Level)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	rt := &runtime{cfg: cfg, logger: logger}

	schemaCfg, err := cfg.ToSchemaConfig()
	if err != nil {
		return nil, err
	}
	schemas, err := schemaCfg.BuildAll()
	if err != nil {
		return nil, err
	}
	rt.schemaCfg = schemaCfg

	engine, err := dbElastic.NewStore(dbElastic.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("create search engine store: %w", err)
	}
	rt.closers = append(rt.closers, engine.Close)
	if err := engine.WaitForReady(ctx, time.Duration(cfg.Elastic.ReadinessTimeout)*time.Second); err != nil {
		rt.Close()
		return nil, fmt.Errorf("search engine not ready: %w", err)
	}

	search := searchrepo.New(engine)
	docs := documentrepo.New(engine)

	// Pass a nil interface (not a typed nil pointer) when the cache is disabled.
	var invalidator indexuc.CacheInvalidator
	if cfg.Cache.Enabled {
		cacheStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			rt.Close()
			return nil, fmt.Errorf("create cache store: %w", err)
		}
		rt.closers = append(rt.closers, cacheStore.Close)

		cache, err := searchcache.New(search, cacheStore, cfg.CacheTTL(), metrics.SearchCacheTotal, logger)
		if err != nil {
			rt.Close()
			return nil, err
		}
		rt.closers = append(rt.closers, cache.Close)
		invalidator = cache
	}

	rt.index = indexuc.New(indexrepo.New(engine), docs, invalidator, schemas, schemaCfg.VerseIndexName()).
		WithChunkSize(cfg.Search.BulkChunkSize).
		WithMetrics(metrics.IndexBulkDocumentsTotal)

	rt.verses = versegroup.New(search, docs, schemaCfg.VerseIndexName()).
		WithBatchSize(cfg.Search.VerseBatchSize).
		OnGroups(func(n int) { metrics.VerseGroupsTotal.Add(float64(n)) })

	return rt, nil
}

// parseTarget resolves an index target: an entity name or "verse(s)".
func parseTarget(s string) (entity.Name, error) {
	if s == string(indexuc.Verses) || s == indexuc.Verses.Plural() {
		return indexuc.Verses, nil
	}
	return entity.Parse(s)
}

// allTargets lists every entity index plus the verse index.
func allTargets() []entity.Name {
	return append(entity.All(), indexuc.Verses)
}
