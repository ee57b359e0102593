package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	// SearchTransitionsTotal counts orchestrator state transitions.
	SearchTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbsearch",
			Name:      "search_transitions_total",
			Help:      "Search state machine transitions",
		},
		[]string{"from", "to"},
	)

	// SearchRequestsTotal counts finished searches by the tier that answered.
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "kbsearch",
			Name:      "search_requests_total",
			Help:      "Total number of search requests by answering tier and outcome",
		},
		[]string{"provenance", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kbsearch",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provenance"},
	)

	SearchHits = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "kbsearch",
			Name:      "search_hits",
			Help:      "Number of hits returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20},
		},
		[]string{"provenance"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchTransitionsTotal)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchHits)
	searchMetricsRegistered = true
}
