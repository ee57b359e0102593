package health

import (
	"context"

	"go.uber.org/zap"

	"github.com/kailas-cloud/kbsearch/internal/logger"
)

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates search still answers, possibly from a fallback tier.
	Degraded Status = "degraded"
	// Unhealthy indicates search cannot answer at all.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Component names used in Report.Checks.
const (
	ComponentDatabase  = "database"
	ComponentEmbedding = "embedding"
	ComponentCache     = "cache"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	db        Pinger
	embedding EmbeddingChecker
	cache     Pinger
}

// New creates a Service. embedding and cache can be nil.
func New(db Pinger, embedding EmbeddingChecker, cache Pinger) *Service {
	return &Service{db: db, embedding: embedding, cache: cache}
}

// Check runs health checks against all components.
// Every tier reads the datastore, so its failure is Unhealthy.
// Embedding or cache failures only degrade search to the keyword tier or uncached embeddings.
func (s *Service) Check(ctx context.Context) Report {
	log := logger.FromContext(ctx)
	checks := make(map[string]CheckResult)

	record := func(name string, err error) {
		if err != nil {
			log.Warn("Health check failed", zap.String("component", name), zap.Error(err))
			checks[name] = CheckError
			return
		}
		checks[name] = CheckOK
	}

	record(ComponentDatabase, s.db.Ping(ctx))
	if s.embedding != nil {
		record(ComponentEmbedding, s.embedding.HealthCheck(ctx))
	}
	if s.cache != nil {
		record(ComponentCache, s.cache.Ping(ctx))
	}

	status := Healthy
	switch {
	case checks[ComponentDatabase] == CheckError:
		status = Unhealthy
	case checks[ComponentEmbedding] == CheckError, checks[ComponentCache] == CheckError:
		status = Degraded
	}

	return Report{Status: status, Checks: checks}
}
