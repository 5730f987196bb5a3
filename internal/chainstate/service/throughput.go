package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ErrNonIncreasingTimestamps is returned when the sampled blocks do not span
// a positive amount of time.
var ErrNonIncreasingTimestamps = errors.New("sampled block timestamps are not increasing")

type throughputEstimator struct {
	client           ExplorerClient
	window           uint64
	nominalBlockTime time.Duration
	metrics          ThroughputMetrics
	logger           *zap.Logger
}

// Estimate measures the block rate over the last window blocks below height.
// The nominal block time is used when height is below the window or the
// sample cannot be taken.
func (e *throughputEstimator) Estimate(ctx context.Context, height uint64) model.Throughput {
	if height < e.window {
		return e.nominal()
	}

	started := time.Now()
	secondsPerBlock, err := e.sample(ctx, height)
	e.metrics.ObserveSample(err, started)
	if err != nil {
		e.logger.Warn("block throughput sample failed, using nominal block time",
			zap.Uint64("height", height),
			zap.Error(err),
		)
		return e.nominal()
	}

	return model.Throughput{
		SecondsPerBlock: secondsPerBlock,
		BlocksPer24h:    secondsPerDay / secondsPerBlock,
		Sampled:         true,
	}
}

func (e *throughputEstimator) sample(ctx context.Context, height uint64) (float64, error) {
	var oldest, newest model.BlockSample

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		sample, err := e.blockSample(gctx, height-e.window)
		oldest = sample
		return err
	})
	g.Go(func() error {
		sample, err := e.blockSample(gctx, height)
		newest = sample
		return err
	})
	if err := g.Wait(); err != nil {
		return 0, err
	}

	if !newest.Follows(oldest) {
		return 0, fmt.Errorf("%w: %s at %d, %s at %d", ErrNonIncreasingTimestamps,
			oldest.Hash, oldest.TimestampSec, newest.Hash, newest.TimestampSec)
	}
	return float64(newest.TimestampSec-oldest.TimestampSec) / float64(e.window), nil
}

func (e *throughputEstimator) blockSample(ctx context.Context, height uint64) (model.BlockSample, error) {
	hash, err := e.client.BlockHash(ctx, height)
	if err != nil {
		return model.BlockSample{}, fmt.Errorf("block hash at %d: %w", height, err)
	}
	block, err := e.client.Block(ctx, hash)
	if err != nil {
		return model.BlockSample{}, fmt.Errorf("block %s: %w", hash, err)
	}
	return model.BlockSample{Hash: hash.String(), TimestampSec: block.Time}, nil
}

func (e *throughputEstimator) nominal() model.Throughput {
	seconds := e.nominalBlockTime.Seconds()
	return model.Throughput{
		SecondsPerBlock: seconds,
		BlocksPer24h:    secondsPerDay / seconds,
	}
}
