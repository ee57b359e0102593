package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/kbsearch/internal/config"
	"github.com/kailas-cloud/kbsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/kbsearch/internal/db/redis"
	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/expand"
	logpkg "github.com/kailas-cloud/kbsearch/internal/logger"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
	"github.com/kailas-cloud/kbsearch/internal/repository/embcache"
	knowledgerepo "github.com/kailas-cloud/kbsearch/internal/repository/knowledge"
	chiTransport "github.com/kailas-cloud/kbsearch/internal/transport/chi"
	openaiEmb "github.com/kailas-cloud/kbsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/kbsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
	"github.com/kailas-cloud/kbsearch/internal/version"
)

func main() {
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

	logger.Info("Starting kbsearch API server",
		append(version.Fields(),
			zap.String("env", env),
			zap.Int("http_port", cfg.HTTP.Port),
			zap.Bool("cache_enabled", cfg.Cache.Enabled()),
		)...,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &cfg, logger); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
	logger.Info("Server stopped gracefully")
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	store, err := postgres.NewStore(postgres.Config{
		DSN:             cfg.Database.DSN,
		MatchProcedure:  cfg.Database.MatchProcedure,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetimeSec) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("create database store: %w", err)
	}
	defer store.Close()

	readiness := time.Duration(cfg.Database.ReadinessTimeout) * time.Second
	if err := store.WaitForReady(ctx, readiness); err != nil {
		return fmt.Errorf("database not ready: %w", err)
	}
	logger.Info("Connected to database")

	// Nil interfaces, not typed nil pointers, when the cache is off.
	var cacheStore *dbRedis.Store
	var cachePinger healthuc.Pinger
	if cfg.Cache.Enabled() {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Cache.Addrs,
			Username: cfg.Cache.Username,
			Password: cfg.Cache.Password,
			DB:       cfg.Cache.DB,
		})
		if err != nil {
			return fmt.Errorf("create cache store: %w", err)
		}
		defer cacheStore.Close()
		if err := cacheStore.WaitForReady(ctx, readiness); err != nil {
			return fmt.Errorf("cache not ready: %w", err)
		}
		cachePinger = cacheStore
		logger.Info("Connected to embedding cache", zap.Strings("addrs", cfg.Cache.Addrs))
	}

	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterSearchMetrics()

	embedder, err := buildEmbedder(cfg, cacheStore, logger)
	if err != nil {
		return err
	}
	logger.Info("Embedder created",
		zap.String("provider", cfg.Embedding.Provider),
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	searchSvc := searchuc.New(knowledgerepo.New(store), embedder, searchuc.Options{
		ScanLimit:    cfg.Search.ScanLimit,
		LexicalLimit: cfg.Search.LexicalLimit,
	})
	healthSvc := healthuc.New(store, embedder, cachePinger)

	r := chi.NewRouter()
	r.Use(chiTransport.Recoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(chiTransport.RequestLogger(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	chiTransport.NewServer(searchSvc, healthSvc, logger).Register(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Received shutdown signal")
		shutdownCtx, cancel := context.WithTimeout(context.Background(),
			time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait() //nolint:wrapcheck // errors wrapped above
}

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instrumented -> Expanding.
// Expansion is outermost so cache keys include the synonyms.
func buildEmbedder(cfg *config.Config, cache *dbRedis.Store, logger *zap.Logger) (*domain.ExpandingEmbedder, error) {
	base, err := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		User:       cfg.Embedding.User,
		Provider:   cfg.Embedding.Provider,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedder: %w", err)
	}

	var embedder domain.Embedder = base
	if cache != nil {
		embedder = embcache.New(base, cache, embcache.Options{
			Model:      cfg.Embedding.Model,
			TTL:        cfg.CacheTTL(),
			Dimensions: cfg.Embedding.Dimensions,
		}, metrics.EmbeddingCacheTotal, logger)
	}

	embedder = embeddinguc.NewInstrumentedEmbedder(
		embedder, cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.Dimensions,
		cfg.EmbeddingTimeout(), logger,
	)

	extra := make([]expand.Entry, 0, len(cfg.Search.Synonyms))
	for _, s := range cfg.Search.Synonyms {
		extra = append(extra, expand.Entry{Key: s.Key, Synonyms: s.Synonyms})
	}
	return domain.NewExpandingEmbedder(embedder, expand.New(extra...)), nil
}
