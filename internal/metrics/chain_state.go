// Package metrics holds the Prometheus collectors of the chain-state service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	namespace = "blockinsight7000"
	unknown   = "unknown"
)

var (
	fieldResolutionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_state",
		Name:      "field_resolutions_total",
		Help:      "Count of chain metric resolutions by field and source.",
	}, []string{"coin", "field", "source"})

	throughputSamplesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "chain_state",
		Name:      "throughput_samples_total",
		Help:      "Count of block throughput sampling attempts.",
	}, []string{"coin", "status"})

	throughputSampleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_state",
		Name:      "throughput_sample_duration_seconds",
		Help:      "Duration of block throughput sampling.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin", "status"})

	computeDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "chain_state",
		Name:      "compute_duration_seconds",
		Help:      "Duration of a full chain state computation.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"coin"})
)

// ChainState tracks metrics for chain state resolution and computation.
type ChainState struct {
	coin string
}

// NewChainState constructs a ChainState collector.
func NewChainState(coin string) *ChainState {
	if coin == "" {
		coin = unknown
	}
	return &ChainState{coin: coin}
}

// ObserveField records which source resolved a field.
func (m ChainState) ObserveField(field, source string) {
	fieldResolutionsTotal.WithLabelValues(m.coin, field, source).Inc()
}

// ObserveSample records a throughput sampling outcome and duration.
func (m ChainState) ObserveSample(err error, started time.Time) {
	status := statusOf(err)
	throughputSamplesTotal.WithLabelValues(m.coin, status).Inc()
	throughputSampleDuration.WithLabelValues(m.coin, status).Observe(time.Since(started).Seconds())
}

// ObserveCompute records the duration of a state computation.
func (m ChainState) ObserveCompute(started time.Time) {
	computeDuration.WithLabelValues(m.coin).Observe(time.Since(started).Seconds())
}

func statusOf(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}
