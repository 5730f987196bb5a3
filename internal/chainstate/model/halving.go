package model

import "github.com/shopspring/decimal"

// HalvingEvent is one entry of the emission schedule.
type HalvingEvent struct {
	Name         string
	TriggerBlock uint64
	RewardAfter  decimal.Decimal
}

// HalvingProjection is the schedule position for a given height.
type HalvingProjection struct {
	CurrentReward        float64
	NextReward           float64
	NextHalvingBlock     uint64
	NextHalvingName      string
	BlocksRemaining      uint64
	ProgressPct          float64
	TargetHalvingEpochMs int64
}
