package halving

import (
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
	"github.com/shopspring/decimal"
)

// FixedCoinEvents is the FixedCoin emission table.
var FixedCoinEvents = []model.HalvingEvent{
	{Name: "First halving", TriggerBlock: 4200, RewardAfter: decimal.RequireFromString("0.5")},
	{Name: "Second halving", TriggerBlock: 8400, RewardAfter: decimal.RequireFromString("0.25")},
	{Name: "Third halving", TriggerBlock: 12600, RewardAfter: decimal.RequireFromString("0.125")},
	{Name: "Fourth halving", TriggerBlock: 16800, RewardAfter: decimal.RequireFromString("0.0625")},
	{Name: "Fifth halving", TriggerBlock: 21000, RewardAfter: decimal.RequireFromString("0.03125")},
	{Name: "Sixth halving", TriggerBlock: 25200, RewardAfter: decimal.RequireFromString("0.015625")},
	{Name: "Seventh halving", TriggerBlock: 29400, RewardAfter: decimal.RequireFromString("0.0078125")},
	{Name: "Eighth halving", TriggerBlock: 33600, RewardAfter: decimal.RequireFromString("0.00390625")},
	{Name: "Final blocks", TriggerBlock: 113400, RewardAfter: decimal.Zero},
}

// FixedCoinConfig holds the FixedCoin constants outside the table.
var FixedCoinConfig = Config{
	GenesisReward:        decimal.NewFromInt(1),
	PremineReward:        decimal.NewFromInt(1600),
	InitialReward:        decimal.NewFromInt(1),
	ContinuationInterval: 4200,
	ProgressAnchor:       2,
	NominalBlockTime:     600 * time.Second,
}

// FixedCoin returns the FixedCoin schedule using nominalBlockTime for
// projections, or the 600s target when it is zero.
func FixedCoin(nominalBlockTime time.Duration) *Schedule {
	cfg := FixedCoinConfig
	if nominalBlockTime > 0 {
		cfg.NominalBlockTime = nominalBlockTime
	}
	s, err := New(FixedCoinEvents, cfg)
	if err != nil {
		panic("invalid FixedCoin schedule: " + err.Error())
	}
	return s
}
