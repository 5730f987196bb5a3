package service

import (
	"context"
	"time"

	"github.com/btcsuite/btcd/btcjson"
	"github.com/btcsuite/btcd/chaincfg/chainhash"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

type (
	ExplorerClient interface {
		BlockCount(ctx context.Context) (int64, error)
		Difficulty(ctx context.Context) (string, error)
		NetworkHashPS(ctx context.Context) (string, error)
		MoneySupply(ctx context.Context) (string, error)
		Summary(ctx context.Context) (map[string]any, error)
		BlockHash(ctx context.Context, height uint64) (*chainhash.Hash, error)
		Block(ctx context.Context, hash *chainhash.Hash) (*btcjson.GetBlockVerboseResult, error)
	}
	ChainMetricsResolver interface {
		Resolve(ctx context.Context) model.ChainMetrics
	}
	ThroughputEstimator interface {
		Estimate(ctx context.Context, height uint64) model.Throughput
	}
	HalvingSchedule interface {
		Project(height uint64, now time.Time, secondsPerBlock float64) model.HalvingProjection
	}
	StateCache interface {
		Lookup(ctx context.Context) ([]byte, bool)
		Store(ctx context.Context, resp model.StateResponse) ([]byte, error)
	}

	ResolverMetrics interface {
		ObserveField(field, source string)
	}
	ThroughputMetrics interface {
		ObserveSample(err error, started time.Time)
	}
	StateMetrics interface {
		ObserveField(field, source string)
		ObserveSample(err error, started time.Time)
		ObserveCompute(started time.Time)
	}
)
