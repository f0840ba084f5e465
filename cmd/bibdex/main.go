package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/bibdex/bibdex/internal/config"
	dbElastic "github.com/bibdex/bibdex/internal/db/elastic"
	dbRedis "github.com/bibdex/bibdex/internal/db/redis"
	"github.com/bibdex/bibdex/internal/domain"
	"github.com/bibdex/bibdex/internal/domain/search/facet"
	"github.com/bibdex/bibdex/internal/domain/search/projection"
	logpkg "github.com/bibdex/bibdex/internal/logger"
	"github.com/bibdex/bibdex/internal/metrics"
	searchrepo "github.com/bibdex/bibdex/internal/repository/search"
	"github.com/bibdex/bibdex/internal/repository/searchcache"
	chiTransport "github.com/bibdex/bibdex/internal/transport/chi"
	healthuc "github.com/bibdex/bibdex/internal/usecase/health"
	searchuc "github.com/bibdex/bibdex/internal/usecase/search"
	"github.com/bibdex/bibdex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting bibdex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("elastic_addrs", cfg.Elastic.Addresses),
		zap.Bool("cache_enabled", cfg.Cache.Enabled),
	)

	engine, err := dbElastic.NewStore(dbElastic.Config{
		Addresses: cfg.Elastic.Addresses,
		Username:  cfg.Elastic.Username,
		Password:  cfg.Elastic.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search engine store", zap.Error(err))
	}
	defer engine.Close()

	ctx := context.Background()
	if err := engine.WaitForReady(ctx, time.Duration(cfg.Elastic.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search engine not ready", zap.Error(err))
	}
	logger.Info("Connected to search engine")

	// Register search metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	schemaCfg, err := cfg.ToSchemaConfig()
	if err != nil {
		logger.Fatal("Invalid entity configuration", zap.Error(err))
	}
	schemas, err := schemaCfg.BuildAll()
	if err != nil {
		logger.Fatal("Failed to build entity schemas", zap.Error(err))
	}

	var repo searchuc.Repository = searchrepo.New(engine)

	// Pass a nil interface (not a typed nil pointer) when the cache is disabled.
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled {
		cacheStore, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()

		if err := cacheStore.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Cache not ready", zap.Error(err))
		}

		cached, err := searchcache.New(repo, cacheStore, cfg.CacheTTL(), metrics.SearchCacheTotal, logger)
		if err != nil {
			logger.Fatal("Failed to create search cache", zap.Error(err))
		}
		defer cached.Close()

		repo = cached
		cachePinger = cacheStore
		logger.Info("Search response cache enabled", zap.Duration("ttl", cfg.CacheTTL()))
	}

	searchSvc := searchuc.New(
		repo,
		schemas,
		facet.NewPlanner(cfg.Search.MaxFacetSize),
		projection.New(cfg.Search.PreTag, cfg.Search.PostTag),
	).
		WithConcurrentAggregations(*cfg.Search.ConcurrentAggregations).
		WithMetrics(metrics.SearchRequestsTotal, metrics.SearchDuration)

	healthSvc := healthuc.New(engine, cachePinger)

	server := chiTransport.NewServer(searchSvc, healthSvc, chiTransport.Limits{
		DefaultLimit: cfg.Search.DefaultLimit,
		MaxLimit:     cfg.Search.MaxLimit,
	})

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.ViewerMiddleware(cfg.Auth.EditorKeys))
	r.Use(metrics.Middleware())
	r.Use(chiMiddleware.Timeout(time.Duration(cfg.HTTP.RequestTimeoutSec) * time.Second))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.CodeInternalError,
						Message: chiTransport.GenericMessage,
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
// Search handlers enrich the line through the request's SearchEvent.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)
			ctx, event := domain.NewContextWithEvent(ctx)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			fields := []zap.Field{
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			}
			if event.Recorded {
				fields = append(fields,
					zap.String("entity", event.Entity),
					zap.Bool("view_internal", event.ViewInternal),
					zap.Int64("result_count", event.Count),
					zap.Int("facet_count", event.Facets),
				)
			}

			// Canonical log line: one line per request
			reqLogger.Info("http_request", fields...)
		})
	}
}
