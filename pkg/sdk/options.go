package kbsearch

import (
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Option configures the Client.
type Option interface {
	apply(*clientConfig)
}

// optionFunc adapts a function to the Option interface.
type optionFunc func(*clientConfig)

func (f optionFunc) apply(c *clientConfig) { f(c) }

type clientConfig struct {
	dsn            string
	matchProcedure string

	cacheAddrs    []string
	cachePassword string
	cacheTTL      time.Duration

	embedder        Embedder
	openAIKey       string
	openAIModel     string
	openAIBaseURL   string
	dimensions      int
	embedTimeout    time.Duration
	synonyms        map[string][]string
	scanLimit       int
	lexicalLimit    int
	readinessTimeout time.Duration

	logger     *slog.Logger
	metricsReg prometheus.Registerer
}

// WithPostgres sets the knowledge database DSN.
func WithPostgres(dsn string) Option {
	return optionFunc(func(c *clientConfig) {
		c.dsn = dsn
	})
}

// WithMatchProcedure overrides the name of the indexed vector search function.
func WithMatchProcedure(name string) Option {
	return optionFunc(func(c *clientConfig) {
		c.matchProcedure = name
	})
}

// WithCache enables the Redis/Valkey query embedding cache.
// A zero ttl keeps entries until the server evicts them.
func WithCache(addr, password string, ttl time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.cacheAddrs = []string{addr}
		c.cachePassword = password
		c.cacheTTL = ttl
	})
}

// WithOpenAI uses an OpenAI-compatible embeddings endpoint.
func WithOpenAI(apiKey, model string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIKey = apiKey
		c.openAIModel = model
	})
}

// WithOpenAIBaseURL points the OpenAI client at a compatible provider.
func WithOpenAIBaseURL(url string) Option {
	return optionFunc(func(c *clientConfig) {
		c.openAIBaseURL = url
	})
}

// WithEmbedder sets a custom query embedder. It takes precedence over WithOpenAI.
func WithEmbedder(e Embedder) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedder = e
	})
}

// WithVectorDimensions sets the expected query vector length. Defaults to 1536.
// Vectors from any embedder, including one set with WithEmbedder, must match it.
func WithVectorDimensions(dim int) Option {
	return optionFunc(func(c *clientConfig) {
		c.dimensions = dim
	})
}

// WithEmbeddingTimeout bounds each embedding call. Defaults to 10s.
func WithEmbeddingTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.embedTimeout = d
	})
}

// WithSynonyms extends the built-in query expansion dictionary.
func WithSynonyms(key string, synonyms ...string) Option {
	return optionFunc(func(c *clientConfig) {
		if c.synonyms == nil {
			c.synonyms = make(map[string][]string)
		}
		c.synonyms[key] = append(c.synonyms[key], synonyms...)
	})
}

// WithScanLimit caps rows loaded by the in-memory vector fallback. Default: 2000.
func WithScanLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.scanLimit = n
	})
}

// WithLexicalLimit caps candidate rows of the keyword tier. Default: 500.
func WithLexicalLimit(n int) Option {
	return optionFunc(func(c *clientConfig) {
		c.lexicalLimit = n
	})
}

// WithReadinessTimeout bounds the initial database wait in New. Default: 10s.
func WithReadinessTimeout(d time.Duration) Option {
	return optionFunc(func(c *clientConfig) {
		c.readinessTimeout = d
	})
}

// WithLogger enables structured logging for client operations.
// Pass nil to disable (default).
func WithLogger(l *slog.Logger) Option {
	return optionFunc(func(c *clientConfig) {
		c.logger = l
	})
}

// WithPrometheus registers client metrics (operation counts and durations)
// on the given registerer. Pass nil to disable (default).
func WithPrometheus(reg prometheus.Registerer) Option {
	return optionFunc(func(c *clientConfig) {
		c.metricsReg = reg
	})
}
