// Package service computes the chain state served to clients.
package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/clock"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/pkg/hashrate"
	"go.uber.org/zap"
)

// Config tunes throughput sampling.
type Config struct {
	SampleWindow     uint64
	NominalBlockTime time.Duration
}

// StateService serves the cached chain state, recomputing it when stale.
type StateService struct {
	cache     StateCache
	resolver  ChainMetricsResolver
	estimator ThroughputEstimator
	schedule  HalvingSchedule
	metrics   StateMetrics
	clock     clock.Clock
	logger    *zap.Logger
}

// NewStateService builds a StateService with dependencies. Zero Config
// values fall back to a 100 block window and a 600s block time.
func NewStateService(
	client ExplorerClient,
	schedule HalvingSchedule,
	cache StateCache,
	metrics StateMetrics,
	cfg Config,
	clk clock.Clock,
	logger *zap.Logger,
) (*StateService, error) {
	if client == nil {
		return nil, errors.New("explorer client is required")
	}
	if schedule == nil {
		return nil, errors.New("halving schedule is required")
	}
	if cache == nil {
		return nil, errors.New("state cache is required")
	}
	if metrics == nil {
		return nil, errors.New("state metrics is required")
	}
	if cfg.SampleWindow == 0 {
		cfg.SampleWindow = defaultSampleWindow
	}
	if cfg.NominalBlockTime <= 0 {
		cfg.NominalBlockTime = defaultNominalBlockTime
	}
	if clk == nil {
		clk = clock.System{}
	}

	return &StateService{
		cache:    cache,
		schedule: schedule,
		metrics:  metrics,
		clock:    clk,
		logger:   logger,
		resolver: &chainMetricsResolver{
			client:  client,
			metrics: metrics,
			logger:  logger.Named("resolver"),
		},
		estimator: &throughputEstimator{
			client:           client,
			window:           cfg.SampleWindow,
			nominalBlockTime: cfg.NominalBlockTime,
			metrics:          metrics,
			logger:           logger.Named("throughput"),
		},
	}, nil
}

// State returns the JSON state payload. A fresh cached payload is returned
// verbatim; otherwise the state is recomputed and cached.
func (s *StateService) State(ctx context.Context) ([]byte, error) {
	if payload, ok := s.cache.Lookup(ctx); ok {
		return payload, nil
	}

	started := time.Now()
	resp := s.compute(ctx)
	s.metrics.ObserveCompute(started)

	return s.cache.Store(ctx, resp)
}

func (s *StateService) compute(ctx context.Context) model.StateResponse {
	now := s.clock.Now()

	chain := s.resolver.Resolve(ctx)
	throughput := s.estimator.Estimate(ctx, chain.Height)
	projection := s.schedule.Project(chain.Height, now, throughput.SecondsPerBlock)
	hr := hashrate.Format(chain.Hashrate)

	if !chain.Resolved() {
		s.logger.Warn("serving degraded chain state",
			zap.Uint64("height", chain.Height),
			zap.Float64("difficulty", chain.Difficulty),
			zap.Float64("supply", chain.Supply),
			zap.Float64("hashrate", chain.Hashrate),
		)
	}

	return model.StateResponse{
		ServerTimeMs:     now.UnixMilli(),
		AsOfMs:           now.UnixMilli(),
		Block:            chain.Height,
		Difficulty:       chain.Difficulty,
		Supply:           chain.Supply,
		Hashrate:         model.Hashrate{Value: hr.Value, Unit: hr.Unit, Human: hr.Human},
		CurrentReward:    projection.CurrentReward,
		NextReward:       projection.NextReward,
		NextHalvingBlock: projection.NextHalvingBlock,
		NextHalvingName:  projection.NextHalvingName,
		BlocksRemaining:  projection.BlocksRemaining,
		ProgressPct:      projection.ProgressPct,
		TargetHalvingTs:  projection.TargetHalvingEpochMs,
		AvgBlocksPer24h:  round(throughput.BlocksPer24h, 2),
		ActualBlockTime:  round(throughput.SecondsPerBlock, 1),
	}
}

func round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
