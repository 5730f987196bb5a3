package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheLookupsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "state_cache",
		Name:      "lookups_total",
		Help:      "Count of state cache lookups by result.",
	}, []string{"store", "result"})

	cacheOperationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "state_cache",
		Name:      "operations_total",
		Help:      "Count of state store operations.",
	}, []string{"store", "operation", "status"})

	cacheOperationDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "state_cache",
		Name:      "operation_duration_seconds",
		Help:      "Duration of state store operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"store", "operation", "status"})
)

// StateCache tracks metrics for the state cache and its backing store.
type StateCache struct {
	store string
}

// NewStateCache constructs a StateCache collector for the named store.
func NewStateCache(store string) *StateCache {
	if store == "" {
		store = unknown
	}
	return &StateCache{store: store}
}

// ObserveLookup records whether a lookup was served from the cache.
func (m StateCache) ObserveLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookupsTotal.WithLabelValues(m.store, result).Inc()
}

// Observe records a single store operation outcome and duration.
func (m StateCache) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	cacheOperationsTotal.WithLabelValues(m.store, operation, status).Inc()
	cacheOperationDuration.WithLabelValues(m.store, operation, status).Observe(time.Since(started).Seconds())
}
