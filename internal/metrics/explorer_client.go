package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	explorerRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "explorer_client",
		Name:      "operations_total",
		Help:      "Count of block explorer API operations.",
	}, []string{"operation", "coin", "status"})
	explorerRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "explorer_client",
		Name:      "operation_duration_seconds",
		Help:      "Duration of block explorer API operations.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"operation", "coin", "status"})
)

// ExplorerClient tracks metrics for calls to the block explorer.
type ExplorerClient struct {
	coin string
}

// NewExplorerClient constructs a metrics collector for explorer calls.
func NewExplorerClient(coin string) *ExplorerClient {
	if coin == "" {
		coin = unknown
	}
	return &ExplorerClient{coin: coin}
}

// Observe records a single explorer call outcome and duration.
func (m ExplorerClient) Observe(operation string, err error, started time.Time) {
	status := statusOf(err)
	explorerRequestsTotal.WithLabelValues(operation, m.coin, status).Inc()
	explorerRequestDuration.WithLabelValues(operation, m.coin, status).Observe(time.Since(started).Seconds())
}
