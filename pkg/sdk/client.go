package kbsearch

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/db/postgres"
	dbRedis "github.com/kailas-cloud/kbsearch/internal/db/redis"
	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/knowledge"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/expand"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	"github.com/kailas-cloud/kbsearch/internal/metrics"
	"github.com/kailas-cloud/kbsearch/internal/repository/embcache"
	knowledgerepo "github.com/kailas-cloud/kbsearch/internal/repository/knowledge"
	openaiEmb "github.com/kailas-cloud/kbsearch/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/kbsearch/internal/usecase/embedding"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/kbsearch/internal/usecase/search"
)

const (
	defaultReadinessTimeout = 10 * time.Second
	defaultEmbedTimeout     = 10 * time.Second
)

type searchUseCase interface {
	Search(ctx context.Context, req *request.Request) ([]hit.Hit, error)
}

type healthUseCase interface {
	Check(ctx context.Context) healthuc.Report
}

// Client is the kbsearch entry point.
type Client struct {
	closers   []func()
	searchSvc searchUseCase
	healthSvc healthUseCase
	obs       *observer
}

// New connects to the knowledge database and assembles the search pipeline.
// The provided context bounds the initial readiness checks.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{
		readinessTimeout: defaultReadinessTimeout,
		embedTimeout:     defaultEmbedTimeout,
	}
	for _, o := range opts {
		o.apply(cfg)
	}

	if cfg.dsn == "" {
		return nil, errors.New("kbsearch: database DSN required (use WithPostgres)")
	}
	if cfg.embedder == nil && cfg.openAIKey == "" {
		return nil, fmt.Errorf("kbsearch: embedder required (use WithOpenAI or WithEmbedder): %w",
			domain.ErrConfiguration)
	}

	obs, err := newObserver(cfg.logger, cfg.metricsReg)
	if err != nil {
		return nil, err
	}

	c := &Client{obs: obs}
	if err := c.wire(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	return c, nil
}

func (c *Client) wire(ctx context.Context, cfg *clientConfig) error {
	store, err := postgres.NewStore(postgres.Config{DSN: cfg.dsn, MatchProcedure: cfg.matchProcedure})
	if err != nil {
		return fmt.Errorf("kbsearch: create postgres store: %w", err)
	}
	c.closers = append(c.closers, store.Close)
	if err := store.WaitForReady(ctx, cfg.readinessTimeout); err != nil {
		return fmt.Errorf("kbsearch: database not ready: %w", err)
	}

	var cache *dbRedis.Store
	var cachePinger healthuc.Pinger
	if len(cfg.cacheAddrs) > 0 {
		cache, err = dbRedis.NewStore(dbRedis.Config{Addrs: cfg.cacheAddrs, Password: cfg.cachePassword})
		if err != nil {
			return fmt.Errorf("kbsearch: create cache store: %w", err)
		}
		c.closers = append(c.closers, cache.Close)
		cachePinger = cache
	}

	embedder, err := buildEmbedder(cfg, cache)
	if err != nil {
		return err
	}

	c.searchSvc = searchuc.New(knowledgerepo.New(store), embedder, searchuc.Options{
		ScanLimit:    cfg.scanLimit,
		LexicalLimit: cfg.lexicalLimit,
	})
	c.healthSvc = healthuc.New(store, embedder, cachePinger)
	return nil
}

func buildEmbedder(cfg *clientConfig, cache *dbRedis.Store) (*domain.ExpandingEmbedder, error) {
	var (
		inner    domain.Embedder
		provider = "custom"
		model    = "custom"
	)
	dims := cfg.dimensions
	if dims <= 0 {
		dims = domain.DefaultDimensions
	}
	if cfg.embedder != nil {
		inner = &embedderAdapter{inner: cfg.embedder}
	} else {
		base, err := openaiEmb.NewEmbedder(&openaiEmb.Config{
			APIKey:     cfg.openAIKey,
			BaseURL:    cfg.openAIBaseURL,
			Model:      cfg.openAIModel,
			Dimensions: dims,
			Provider:   "openai",
			Logger:     zap.NewNop(),
		})
		if err != nil {
			return nil, fmt.Errorf("kbsearch: create embedder: %w", err)
		}
		inner, provider, model = base, "openai", cfg.openAIModel
	}

	if cache != nil {
		inner = embcache.New(inner, cache, embcache.Options{Model: model, TTL: cfg.cacheTTL, Dimensions: dims},
			metrics.EmbeddingCacheTotal, zap.NewNop())
	}
	inner = embeddinguc.NewInstrumentedEmbedder(inner, provider, model, dims, cfg.embedTimeout, zap.NewNop())

	return domain.NewExpandingEmbedder(inner, expand.New(synonymEntries(cfg.synonyms)...)), nil
}

// synonymEntries orders entries by key so expansion output is stable.
func synonymEntries(m map[string][]string) []expand.Entry {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]expand.Entry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, expand.Entry{Key: k, Synonyms: m[k]})
	}
	return entries
}

// Close releases all resources.
func (c *Client) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}

// Search returns up to TopK passages for the query, best first.
// An empty query fails with ErrInvalidRequest.
func (c *Client) Search(ctx context.Context, opts SearchOptions) (hits []SearchHit, err error) {
	start := time.Now()
	defer func() { c.obs.observe("search", start, err, "hits", len(hits)) }()

	hybrid := true
	if opts.UseHybrid != nil {
		hybrid = *opts.UseHybrid
	}
	scope := knowledge.Scope{OrganizationID: nonEmpty(opts.OrganizationID), EventID: nonEmpty(opts.EventID)}

	req, err := request.New(opts.Query, opts.TopK, scope, hybrid)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	found, err := c.searchSvc.Search(ctx, &req)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	hits = make([]SearchHit, len(found))
	for i := range found {
		hits[i] = toSearchHit(&found[i])
	}
	return hits, nil
}

// Health checks the database, the embedding provider and the cache.
func (c *Client) Health(ctx context.Context) HealthStatus {
	report := c.healthSvc.Check(ctx)
	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}
	return HealthStatus{
		Status: string(report.Status),
		Checks: checks,
	}
}

// nonEmpty treats an empty filter string like an absent one.
func nonEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

func toSearchHit(h *hit.Hit) SearchHit {
	return SearchHit{
		KnowledgeID: h.KnowledgeID(),
		Title:       h.Title(),
		Content:     h.Content(),
		Score:       h.Score(),
		Metadata:    h.Metadata(),
		Provenance:  Provenance(h.Provenance()),
	}
}
