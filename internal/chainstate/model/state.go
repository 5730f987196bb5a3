// Package model defines the chain-state values shared by the resolver, the
// halving engine and the cache.
package model

// ChainMetrics holds the facts resolved from the upstream explorer.
// A zero value in any field means the field could not be resolved.
type ChainMetrics struct {
	Height     uint64
	Difficulty float64
	Supply     float64
	Hashrate   float64
}

// Resolved reports whether every field carries a value.
func (m ChainMetrics) Resolved() bool {
	return m.Height > 0 && m.Difficulty > 0 && m.Supply > 0 && m.Hashrate > 0
}

// BlockSample is a block header reduced to what throughput estimation needs.
type BlockSample struct {
	Hash         string
	TimestampSec int64
}

// Follows reports whether s is strictly later than prev, both being timestamped.
func (s BlockSample) Follows(prev BlockSample) bool {
	return prev.TimestampSec > 0 && s.TimestampSec > prev.TimestampSec
}

// Throughput describes the observed or nominal block production rate.
type Throughput struct {
	SecondsPerBlock float64
	BlocksPer24h    float64
	// Sampled is false when the nominal block time was used.
	Sampled bool
}

// Hashrate is a unit-scaled hashrate ready for display.
type Hashrate struct {
	Value float64 `json:"value"`
	Unit  string  `json:"unit"`
	Human string  `json:"human"`
}
