package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactdex",
			Name:      "search_queries_total",
			Help:      "Total number of search queries by method and status",
		},
		[]string{"method", "status"}, // method: "vector_search" / "database"
	)

	SearchFallbacksTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "contactdex",
			Name:      "search_fallbacks_total",
			Help:      "Total number of vector searches that fell back to database queries",
		},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "contactdex",
			Name:      "search_duration_seconds",
			Help:      "End-to-end search duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method"},
	)

	FilterExtractionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "contactdex",
			Name:      "filter_extractions_total",
			Help:      "Query filter extraction outcomes",
		},
		[]string{"outcome"}, // "llm" / "fallback"
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueriesTotal)
	prometheus.MustRegister(SearchFallbacksTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(FilterExtractionsTotal)
	searchMetricsRegistered = true
}
