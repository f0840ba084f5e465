package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace prefixes every bibdex metric.
const Namespace = "bibdex"

// Search and indexing Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_requests_total",
			Help:      "Total number of entity searches",
		},
		[]string{"entity", "status"},
	)

	SearchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: Namespace,
			Name:      "search_duration_seconds",
			Help:      "Search engine round trip duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"entity", "phase"}, // "results" / "aggregations"
	)

	SearchCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "search_cache_requests_total",
			Help:      "Search response cache lookups",
		},
		[]string{"result"}, // "hit" / "miss" / "error"
	)

	IndexBulkDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "index_bulk_documents_total",
			Help:      "Documents written by bulk operations",
		},
		[]string{"op", "status"},
	)

	VerseGroupsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "verse_groups_created_total",
			Help:      "Verse groups created by grouping runs",
		},
	)
)

var registerOnce sync.Once

// RegisterSearchMetrics registers the search and indexing metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			SearchRequestsTotal,
			SearchDuration,
			SearchCacheTotal,
			IndexBulkDocumentsTotal,
			VerseGroupsTotal,
		)
	})
}
