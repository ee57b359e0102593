package kbsearch

// Provenance identifies the ranking strategy that produced a hit.
type Provenance string

// Provenance values.
const (
	ProvenanceKnowledgeBase     Provenance = "knowledge-base"
	ProvenanceKnowledgeBaseScan Provenance = "knowledge-base-scan"
	ProvenanceKeywordFallback   Provenance = "keyword-fallback"
)

// SearchOptions describes one search.
type SearchOptions struct {
	Query string
	// TopK is the number of hits; zero means 5, values above 20 are clamped.
	TopK int
	// OrganizationID and EventID restrict results to one owner.
	// Documents without an owner are visible to every scope. Nil or "" means no restriction.
	OrganizationID *string
	EventID        *string
	// UseHybrid enables keyword reranking of vector hits. Nil means true.
	UseHybrid *bool
}

// SearchHit is one ranked passage.
type SearchHit struct {
	KnowledgeID string
	Title       string
	Content     string
	Score       float64
	Metadata    map[string]any
	Provenance  Provenance
}

// HealthStatus represents the aggregated system health.
type HealthStatus struct {
	Status string            // "ok", "degraded", "error"
	Checks map[string]string // component -> "ok"/"error"
}
