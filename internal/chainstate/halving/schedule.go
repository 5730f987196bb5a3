// Package halving maps block heights onto the coin's emission schedule.
package halving

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
	"github.com/shopspring/decimal"
)

var half = decimal.New(5, -1)

// Config holds the schedule constants that are not part of the event table.
type Config struct {
	// GenesisReward is paid by block 0.
	GenesisReward decimal.Decimal
	// PremineReward is paid by block 1.
	PremineReward decimal.Decimal
	// InitialReward is paid by every other block before the first event.
	InitialReward decimal.Decimal
	// ContinuationInterval is the halving period applied after the last
	// event with a non-zero reward. Zero disables the continuation.
	ContinuationInterval uint64
	// ProgressAnchor is the height progress is measured from before the
	// first event.
	ProgressAnchor uint64
	// NominalBlockTime is used for projections when no estimate is given.
	NominalBlockTime time.Duration
}

// Schedule is an immutable emission schedule.
type Schedule struct {
	events       []model.HalvingEvent
	cfg          Config
	lastExplicit int
}

// New validates events and builds a Schedule. Events must be strictly
// increasing in trigger block and strictly decreasing in reward.
func New(events []model.HalvingEvent, cfg Config) (*Schedule, error) {
	if len(events) == 0 {
		return nil, errors.New("halving table is empty")
	}
	if cfg.NominalBlockTime <= 0 {
		return nil, errors.New("nominal block time must be positive")
	}
	if cfg.ProgressAnchor >= events[0].TriggerBlock {
		return nil, fmt.Errorf("progress anchor %d must precede first event at %d", cfg.ProgressAnchor, events[0].TriggerBlock)
	}
	if !events[0].RewardAfter.LessThan(cfg.InitialReward) {
		return nil, fmt.Errorf("%s reward %s must be below initial reward %s", events[0].Name, events[0].RewardAfter, cfg.InitialReward)
	}

	lastExplicit := -1
	for i, e := range events {
		if e.RewardAfter.IsNegative() {
			return nil, fmt.Errorf("%s has negative reward", e.Name)
		}
		if e.RewardAfter.IsPositive() {
			lastExplicit = i
		}
		if i == 0 {
			continue
		}
		prev := events[i-1]
		if e.TriggerBlock <= prev.TriggerBlock {
			return nil, fmt.Errorf("%s at %d does not follow %s at %d", e.Name, e.TriggerBlock, prev.Name, prev.TriggerBlock)
		}
		if !e.RewardAfter.LessThan(prev.RewardAfter) {
			return nil, fmt.Errorf("%s reward %s is not below %s reward %s", e.Name, e.RewardAfter, prev.Name, prev.RewardAfter)
		}
	}

	table := make([]model.HalvingEvent, len(events))
	copy(table, events)
	return &Schedule{events: table, cfg: cfg, lastExplicit: lastExplicit}, nil
}

// Reward returns the block reward paid at height.
func (s *Schedule) Reward(height uint64) decimal.Decimal {
	switch {
	case height == 0:
		return s.cfg.GenesisReward
	case height == 1:
		return s.cfg.PremineReward
	case height < s.events[0].TriggerBlock:
		return s.cfg.InitialReward
	}

	idx := s.nextIndex(height)
	if idx < 0 {
		return s.events[len(s.events)-1].RewardAfter
	}
	prev := s.events[idx-1]
	if idx-1 == s.lastExplicit && s.cfg.ContinuationInterval > 0 {
		halvings := (height - prev.TriggerBlock) / s.cfg.ContinuationInterval
		reward := prev.RewardAfter
		for i := uint64(0); i < halvings; i++ {
			reward = reward.Mul(half)
		}
		return reward
	}
	return prev.RewardAfter
}

// Project computes the schedule position at height. secondsPerBlock drives
// the halving ETA; a non-positive value falls back to the nominal block time.
func (s *Schedule) Project(height uint64, now time.Time, secondsPerBlock float64) model.HalvingProjection {
	nowMs := now.UnixMilli()
	projection := model.HalvingProjection{
		CurrentReward: s.Reward(height).InexactFloat64(),
	}

	idx := s.nextIndex(height)
	if idx < 0 {
		projection.NextHalvingBlock = s.events[len(s.events)-1].TriggerBlock
		projection.ProgressPct = 100
		projection.TargetHalvingEpochMs = nowMs
		return projection
	}

	next := s.events[idx]
	prevBoundary := s.cfg.ProgressAnchor
	if idx > 0 {
		prevBoundary = s.events[idx-1].TriggerBlock
	}
	interval := uint64(1)
	if next.TriggerBlock > prevBoundary {
		interval = next.TriggerBlock - prevBoundary
	}
	var done uint64
	if height > prevBoundary {
		done = height - prevBoundary
	}

	if secondsPerBlock <= 0 || math.IsNaN(secondsPerBlock) || math.IsInf(secondsPerBlock, 0) {
		secondsPerBlock = s.cfg.NominalBlockTime.Seconds()
	}

	projection.NextReward = next.RewardAfter.InexactFloat64()
	projection.NextHalvingBlock = next.TriggerBlock
	projection.NextHalvingName = next.Name
	projection.BlocksRemaining = next.TriggerBlock - height
	projection.ProgressPct = math.Max(0, math.Min(100, float64(done)/float64(interval)*100))
	projection.TargetHalvingEpochMs = nowMs + int64(float64(projection.BlocksRemaining)*secondsPerBlock*1000)
	return projection
}

// nextIndex returns the index of the first event above height, or -1.
func (s *Schedule) nextIndex(height uint64) int {
	for i, e := range s.events {
		if height < e.TriggerBlock {
			return i
		}
	}
	return -1
}
