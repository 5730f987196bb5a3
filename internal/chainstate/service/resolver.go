package service

import (
	"context"
	"math"
	"sync"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/pkg/hashrate"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/pkg/numeric"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/pkg/safe"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/pkg/workerpool"
	"go.uber.org/zap"
)

// strategy yields a candidate value for a field; values <= 0 are discarded.
type strategy struct {
	source string
	value  func(ctx context.Context) float64
}

type field struct {
	name       string
	strategies []strategy
}

type chainMetricsResolver struct {
	client  ExplorerClient
	metrics ResolverMetrics
	logger  *zap.Logger
}

// Resolve gathers height, difficulty, hashrate and supply. Each field tries
// the dedicated endpoint first and the explorer summary second; a field no
// strategy resolves is left at zero.
func (r *chainMetricsResolver) Resolve(ctx context.Context) model.ChainMetrics {
	summary := &summaryLoader{client: r.client, logger: r.logger}
	fields := r.fields(summary)

	values, err := workerpool.Map(ctx, len(fields), fields, r.resolveField)
	if err != nil {
		r.logger.Warn("resolve chain metrics interrupted", zap.Error(err))
	}

	return model.ChainMetrics{
		Height:     toHeight(values[0]),
		Difficulty: values[1],
		Hashrate:   values[2],
		Supply:     values[3],
	}
}

// fields lists the resolution strategies. The order matches the value
// indexes read back in Resolve.
func (r *chainMetricsResolver) fields(summary *summaryLoader) []field {
	return []field{
		{name: fieldHeight, strategies: []strategy{
			{source: sourceDirect, value: r.blockCount},
			{source: sourceSummary, value: func(ctx context.Context) float64 {
				s := summary.get(ctx)
				for _, key := range summaryHeightKeys {
					if v := numeric.Parse(s[key]); v > 0 && v < math.MaxInt64 {
						return math.Floor(v)
					}
				}
				return 0
			}},
		}},
		{name: fieldDifficulty, strategies: []strategy{
			{source: sourceDirect, value: r.scalar(fieldDifficulty, r.client.Difficulty)},
			{source: sourceSummary, value: summary.number("difficulty")},
		}},
		{name: fieldHashrate, strategies: []strategy{
			{source: sourceDirect, value: r.scalar(fieldHashrate, r.client.NetworkHashPS)},
			{source: sourceSummary, value: func(ctx context.Context) float64 {
				return summaryHashrate(summary.get(ctx)["hashrate"])
			}},
		}},
		{name: fieldSupply, strategies: []strategy{
			{source: sourceDirect, value: r.scalar(fieldSupply, r.client.MoneySupply)},
			{source: sourceSummary, value: summary.number("supply")},
		}},
	}
}

func (r *chainMetricsResolver) resolveField(ctx context.Context, f field) float64 {
	for _, s := range f.strategies {
		if v := s.value(ctx); v > 0 {
			r.metrics.ObserveField(f.name, s.source)
			return v
		}
	}
	r.metrics.ObserveField(f.name, sourceUnresolved)
	r.logger.Warn("chain metric unresolved", zap.String("field", f.name))
	return 0
}

func (r *chainMetricsResolver) blockCount(ctx context.Context) float64 {
	count, err := r.client.BlockCount(ctx)
	if err != nil {
		r.logger.Debug("block count lookup failed", zap.Error(err))
		return 0
	}
	height, err := safe.Uint64(count)
	if err != nil {
		r.logger.Debug("block count out of range", zap.Error(err))
		return 0
	}
	return float64(height)
}

func (r *chainMetricsResolver) scalar(name string, fetch func(context.Context) (string, error)) func(context.Context) float64 {
	return func(ctx context.Context) float64 {
		raw, err := fetch(ctx)
		if err != nil {
			r.logger.Debug("scalar lookup failed", zap.String("field", name), zap.Error(err))
			return 0
		}
		return numeric.ParseString(raw)
	}
}

// toHeight converts a resolved height. Values outside the int64 range are
// treated as unresolved.
func toHeight(v float64) uint64 {
	if !(v > 0 && v < math.MaxInt64) {
		return 0
	}
	height, err := safe.Uint64(int64(v))
	if err != nil {
		return 0
	}
	return height
}

// summaryHashrate reads the summary hashrate, which explorers report either
// as a plain number or as a unit string such as "1.2 GH/s".
func summaryHashrate(v any) float64 {
	if s, ok := v.(string); ok {
		if hps, ok := hashrate.ParseString(s); ok {
			return hps
		}
	}
	return numeric.Parse(v)
}

// summaryLoader fetches the explorer summary at most once, on first use.
type summaryLoader struct {
	client  ExplorerClient
	logger  *zap.Logger
	once    sync.Once
	summary map[string]any
}

func (l *summaryLoader) get(ctx context.Context) map[string]any {
	l.once.Do(func() {
		summary, err := l.client.Summary(ctx)
		if err != nil {
			l.logger.Debug("summary lookup failed", zap.Error(err))
			return
		}
		l.summary = summary
	})
	return l.summary
}

func (l *summaryLoader) number(key string) func(context.Context) float64 {
	return func(ctx context.Context) float64 {
		return numeric.Parse(l.get(ctx)[key])
	}
}
