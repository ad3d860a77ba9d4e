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

	"github.com/clearfact/artidex/internal/config"
	dbElastic "github.com/clearfact/artidex/internal/db/elastic"
	dbRedis "github.com/clearfact/artidex/internal/db/redis"
	"github.com/clearfact/artidex/internal/domain"
	"github.com/clearfact/artidex/internal/domain/search/query"
	logpkg "github.com/clearfact/artidex/internal/logger"
	"github.com/clearfact/artidex/internal/metrics"
	articlerepo "github.com/clearfact/artidex/internal/repository/articles"
	"github.com/clearfact/artidex/internal/repository/scrapecache"
	chiTransport "github.com/clearfact/artidex/internal/transport/chi"
	mediaFetcher "github.com/clearfact/artidex/internal/transport/media"
	pageScraper "github.com/clearfact/artidex/internal/transport/scraper"
	healthuc "github.com/clearfact/artidex/internal/usecase/health"
	listuc "github.com/clearfact/artidex/internal/usecase/listarticles"
	"github.com/clearfact/artidex/internal/version"
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

	logger.Info("Starting artidex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("engine_addr", cfg.Engine.Addr),
		zap.String("collection", cfg.Engine.Collection),
		zap.Strings("cache_addrs", cfg.Cache.Addrs),
	)

	// Scrape cache store
	cache, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Cache.Addrs,
		Password: cfg.Cache.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create cache store", zap.Error(err))
	}
	defer cache.Close()

	ctx := context.Background()
	if err := cache.WaitForReady(ctx, time.Duration(cfg.Cache.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Cache not ready", zap.Error(err))
	}
	logger.Info("Connected to cache")

	// Search engine client
	engine, err := dbElastic.NewClient(dbElastic.Config{
		Addr:    cfg.Engine.Addr,
		Timeout: time.Duration(cfg.Engine.TimeoutSec) * time.Second,
	})
	if err != nil {
		logger.Fatal("Failed to create engine client", zap.Error(err))
	}

	// Register compile metrics explicitly (no init())
	metrics.RegisterCompileMetrics()

	// Enrichment pipeline: article lookups hit the engine directly, URL
	// scrapes go through the cache, media hashing is uncached.
	scraper := pageScraper.New(pageScraper.Config{
		Timeout:      time.Duration(cfg.Scraper.TimeoutSec) * time.Second,
		MaxBodyBytes: cfg.Scraper.MaxBodyBytes,
		UserAgent:    cfg.Scraper.UserAgent,
	})
	scrapeRepo := scrapecache.New(scraper, cache, time.Duration(cfg.Scraper.CacheTTLMin)*time.Minute)
	media := mediaFetcher.New(mediaFetcher.Config{
		Timeout:      time.Duration(cfg.Media.TimeoutSec) * time.Second,
		MaxBodyBytes: cfg.Media.MaxBodyBytes,
	})

	articles := articlerepo.New(engine)

	listSvc := listuc.New(articles, scrapeRepo, media, cfg.Engine.Collection).
		WithBaseline(listuc.StatusBaseline{}).
		WithTypePolicy(typePolicy(cfg.Search, logger)).
		WithHighlight(highlight(cfg.Search))

	healthSvc := healthuc.New(engine, cache)

	server := chiTransport.NewServer(listSvc, healthSvc, chiTransport.Paging{
		DefaultSize: cfg.Search.DefaultPageSize,
		MaxSize:     cfg.Search.MaxPageSize,
	}, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// typePolicy converts the configured untyped-request restriction into a
// use case policy, rejecting unknown article types at startup.
func typePolicy(cfg config.SearchConfig, logger *zap.Logger) listuc.TypePolicy {
	types := make([]domain.ArticleType, 0, len(cfg.DefaultTypes))
	for _, raw := range cfg.DefaultTypes {
		t := domain.ArticleType(raw)
		if !t.IsValid() {
			logger.Fatal("Unknown article type in search.default_types", zap.String("type", raw))
		}
		types = append(types, t)
	}
	return listuc.TypePolicy{
		Restrict: cfg.RestrictUntyped == nil || *cfg.RestrictUntyped,
		Types:    types,
	}
}

func highlight(cfg config.SearchConfig) query.Highlight {
	hl := listuc.DefaultHighlight()
	if cfg.HighlightPreTag != "" {
		hl.PreTag = cfg.HighlightPreTag
	}
	if cfg.HighlightPostTag != "" {
		hl.PostTag = cfg.HighlightPostTag
	}
	return hl
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "INTERNAL_ERROR",
						"message": "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())

			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
