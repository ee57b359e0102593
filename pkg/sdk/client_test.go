package kbsearch

import (
	"context"
	"errors"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kailas-cloud/kbsearch/internal/domain"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/hit"
	"github.com/kailas-cloud/kbsearch/internal/domain/search/request"
	healthuc "github.com/kailas-cloud/kbsearch/internal/usecase/health"
)

func strPtr(s string) *string { return &s }

func TestNew_NoDSN(t *testing.T) {
	_, err := New(context.Background(), WithOpenAI("sk", "m"))
	if err == nil {
		t.Fatal("expected error when no DSN provided")
	}
}

func TestNew_NoEmbedder(t *testing.T) {
	_, err := New(context.Background(), WithPostgres("postgres://localhost/kb"))
	if !errors.Is(err, ErrConfiguration) {
		t.Fatalf("expected ErrConfiguration, got %v", err)
	}
}

func TestClientOptions(t *testing.T) {
	cfg := &clientConfig{}
	reg := prometheus.NewRegistry()
	logger := slog.Default()
	emb := &mockEmbedder{}

	for _, o := range []Option{
		WithPostgres("postgres://localhost/kb"),
		WithMatchProcedure("match_docs"),
		WithCache("localhost:6379", "secret", time.Hour),
		WithOpenAI("sk-test", "text-embedding-3-small"),
		WithOpenAIBaseURL("http://localhost:8081/v1"),
		WithEmbedder(emb),
		WithVectorDimensions(768),
		WithEmbeddingTimeout(2 * time.Second),
		WithSynonyms("stage", "platform"),
		WithSynonyms("stage", "pit"),
		WithScanLimit(100),
		WithLexicalLimit(50),
		WithReadinessTimeout(time.Second),
		WithLogger(logger),
		WithPrometheus(reg),
	} {
		o.apply(cfg)
	}

	if cfg.dsn != "postgres://localhost/kb" || cfg.matchProcedure != "match_docs" {
		t.Errorf("database options not applied: %q %q", cfg.dsn, cfg.matchProcedure)
	}
	if len(cfg.cacheAddrs) != 1 || cfg.cachePassword != "secret" || cfg.cacheTTL != time.Hour {
		t.Errorf("cache options not applied: %v %q %v", cfg.cacheAddrs, cfg.cachePassword, cfg.cacheTTL)
	}
	if cfg.openAIKey != "sk-test" || cfg.openAIBaseURL == "" || cfg.dimensions != 768 {
		t.Error("embedding options not applied")
	}
	if cfg.embedder != emb || cfg.embedTimeout != 2*time.Second {
		t.Error("custom embedder options not applied")
	}
	if got := cfg.synonyms["stage"]; len(got) != 2 {
		t.Errorf("synonyms = %v, want 2 entries", got)
	}
	if cfg.scanLimit != 100 || cfg.lexicalLimit != 50 || cfg.readinessTimeout != time.Second {
		t.Error("limits not applied")
	}
	if cfg.logger != logger || cfg.metricsReg != reg {
		t.Error("observability options not applied")
	}
}

func TestSynonymEntries_SortedByKey(t *testing.T) {
	entries := synonymEntries(map[string][]string{"zone": {"area"}, "bar": {"pub"}})
	if len(entries) != 2 || entries[0].Key != "bar" || entries[1].Key != "zone" {
		t.Errorf("entries = %+v", entries)
	}
}

func TestClient_Search(t *testing.T) {
	var got *request.Request
	c := &Client{searchSvc: &mockSearchUC{
		searchFn: func(_ context.Context, req *request.Request) ([]hit.Hit, error) {
			got = req
			return []hit.Hit{
				hit.New("k1", "Access", "Ramp at gate B.", 0.8, map[string]any{"chunk_index": 0}, hit.KnowledgeBaseScan),
			}, nil
		},
	}}

	hits, err := c.Search(context.Background(), SearchOptions{
		Query:          "ramp",
		TopK:           50,
		OrganizationID: strPtr("org-1"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 1 || hits[0].KnowledgeID != "k1" || hits[0].Provenance != ProvenanceKnowledgeBaseScan {
		t.Fatalf("hits = %+v", hits)
	}
	if got.TopK() != request.MaxTopK {
		t.Errorf("topK = %d, want clamped %d", got.TopK(), request.MaxTopK)
	}
	if !got.Hybrid() {
		t.Error("hybrid must default to true")
	}
	if org := got.Scope().OrganizationID; org == nil || *org != "org-1" {
		t.Errorf("scope = %v", org)
	}
}

func TestClient_Search_EmptyFiltersMeanUnscoped(t *testing.T) {
	var got *request.Request
	c := &Client{searchSvc: &mockSearchUC{
		searchFn: func(_ context.Context, req *request.Request) ([]hit.Hit, error) {
			got = req
			return nil, nil
		},
	}}

	_, err := c.Search(context.Background(), SearchOptions{
		Query:          "ramp",
		OrganizationID: strPtr(""),
		EventID:        strPtr(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Scope().OrganizationID != nil {
		t.Errorf("organization = %q, want nil", *got.Scope().OrganizationID)
	}
	if got.Scope().EventID != nil {
		t.Errorf("event = %q, want nil", *got.Scope().EventID)
	}
}

func TestClient_Search_HybridOff(t *testing.T) {
	off := false
	var got *request.Request
	c := &Client{searchSvc: &mockSearchUC{
		searchFn: func(_ context.Context, req *request.Request) ([]hit.Hit, error) {
			got = req
			return nil, nil
		},
	}}
	hits, err := c.Search(context.Background(), SearchOptions{Query: "ramp", UseHybrid: &off})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(hits) != 0 {
		t.Errorf("hits = %d, want 0", len(hits))
	}
	if got.Hybrid() {
		t.Error("UseHybrid=false must reach the service")
	}
}

func TestClient_Search_EmptyQuery(t *testing.T) {
	c := &Client{searchSvc: &mockSearchUC{
		searchFn: func(context.Context, *request.Request) ([]hit.Hit, error) {
			t.Fatal("service must not be called")
			return nil, nil
		},
	}}
	_, err := c.Search(context.Background(), SearchOptions{Query: " "})
	if !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestClient_Search_ErrorAndMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	obs, err := newObserver(slog.Default(), reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	c := &Client{obs: obs, searchSvc: &mockSearchUC{
		searchFn: func(context.Context, *request.Request) ([]hit.Hit, error) {
			return nil, domain.Canceled(context.Canceled)
		},
	}}

	_, err = c.Search(context.Background(), SearchOptions{Query: "ramp"})
	if !errors.Is(err, ErrCanceled) {
		t.Fatalf("expected ErrCanceled, got %v", err)
	}
	if v := testutil.ToFloat64(obs.metrics.operations.WithLabelValues("search", "error")); v != 1 {
		t.Errorf("error count = %v, want 1", v)
	}
}

func TestClient_Health(t *testing.T) {
	c := &Client{healthSvc: &mockHealthUC{report: healthuc.Report{
		Status: healthuc.Degraded,
		Checks: map[string]healthuc.CheckResult{
			healthuc.ComponentDatabase:  healthuc.CheckOK,
			healthuc.ComponentEmbedding: healthuc.CheckError,
		},
	}}}

	h := c.Health(context.Background())
	if h.Status != "degraded" {
		t.Errorf("status = %q, want degraded", h.Status)
	}
	if h.Checks["embedding"] != "error" || h.Checks["database"] != "ok" {
		t.Errorf("checks = %v", h.Checks)
	}
}

func TestClient_Close(t *testing.T) {
	var order []int
	c := &Client{closers: []func(){
		func() { order = append(order, 1) },
		func() { order = append(order, 2) },
	}}
	c.Close()
	c.Close()
	if len(order) != 2 || order[0] != 2 || order[1] != 1 {
		t.Errorf("close order = %v, want [2 1]", order)
	}
}

func TestEmbedderAdapter(t *testing.T) {
	adapter := &embedderAdapter{inner: &mockEmbedder{
		fn: func(context.Context, string) (EmbeddingResult, error) {
			return EmbeddingResult{Embedding: []float32{1, 2, 3}, TotalTokens: 10}, nil
		},
	}}
	result, err := adapter.Embed(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != 3 || result.TotalTokens != 10 {
		t.Errorf("result = %+v", result)
	}
}

func TestEmbedderAdapter_Errors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"provider failure", errors.New("provider down"), ErrEmbeddingUnavailable},
		{"canceled", context.Canceled, ErrCanceled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			adapter := &embedderAdapter{inner: &mockEmbedder{
				fn: func(context.Context, string) (EmbeddingResult, error) {
					return EmbeddingResult{}, tt.err
				},
			}}
			_, err := adapter.Embed(context.Background(), "hello")
			if !errors.Is(err, tt.want) {
				t.Errorf("got %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildEmbedder_CustomEmbedderValidated(t *testing.T) {
	tests := []struct {
		name string
		vec  []float32
	}{
		{"wrong length", []float32{0.1, 0.2}},
		{"nan", []float32{0.1, float32(math.NaN()), 0.3}},
		{"inf", []float32{0.1, 0.2, float32(math.Inf(-1))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &clientConfig{
				dimensions:   3,
				embedTimeout: time.Second,
				embedder: &mockEmbedder{
					fn: func(context.Context, string) (EmbeddingResult, error) {
						return EmbeddingResult{Embedding: tt.vec}, nil
					},
				},
			}
			emb, err := buildEmbedder(cfg, nil)
			if err != nil {
				t.Fatalf("buildEmbedder: %v", err)
			}
			_, err = emb.Embed(context.Background(), "ramp")
			if !errors.Is(err, ErrEmbeddingUnavailable) {
				t.Errorf("expected ErrEmbeddingUnavailable, got %v", err)
			}
		})
	}
}

func TestBuildEmbedder_CustomEmbedderDefaultDimensions(t *testing.T) {
	cfg := &clientConfig{
		embedTimeout: time.Second,
		embedder: &mockEmbedder{
			fn: func(context.Context, string) (EmbeddingResult, error) {
				return EmbeddingResult{Embedding: make([]float32, domain.DefaultDimensions)}, nil
			},
		},
	}
	emb, err := buildEmbedder(cfg, nil)
	if err != nil {
		t.Fatalf("buildEmbedder: %v", err)
	}
	result, err := emb.Embed(context.Background(), "ramp")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Embedding) != domain.DefaultDimensions {
		t.Errorf("len = %d, want %d", len(result.Embedding), domain.DefaultDimensions)
	}
}

func TestObserver_NilSafe(t *testing.T) {
	var obs *observer
	obs.observe("test", time.Now(), nil)
	obs.observe("test", time.Now(), errors.New("err"))
}

func TestObserver_ReusesRegisteredMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("newObserver: %v", err)
	}
	second, err := newObserver(nil, reg)
	if err != nil {
		t.Fatalf("second newObserver: %v", err)
	}

	first.observe("search", time.Now(), nil)
	second.observe("search", time.Now(), nil)

	if v := testutil.ToFloat64(first.metrics.operations.WithLabelValues("search", "ok")); v != 2 {
		t.Errorf("shared counter = %v, want 2", v)
	}
}
