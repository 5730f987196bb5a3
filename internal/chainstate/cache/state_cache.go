// Package cache keeps the last computed chain state for a short TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/chainstate/model"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/clock"
	"go.uber.org/zap"
)

// StateCache serves the stored state while it is younger than the TTL.
// Freshness is evaluated in whole seconds of the store's write time.
type StateCache struct {
	store   Store
	ttl     int64
	clock   clock.Clock
	metrics Metrics
	logger  *zap.Logger
}

// NewStateCache builds a StateCache over store. ttl must be at least one second.
func NewStateCache(store Store, ttl time.Duration, clk clock.Clock, metrics Metrics, logger *zap.Logger) (*StateCache, error) {
	if store == nil {
		return nil, errors.New("state store is required")
	}
	if ttl < time.Second {
		return nil, fmt.Errorf("cache ttl %s below one second", ttl)
	}
	if metrics == nil {
		return nil, errors.New("state cache metrics is required")
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &StateCache{
		store:   store,
		ttl:     int64(ttl / time.Second),
		clock:   clk,
		metrics: metrics,
		logger:  logger.Named("stateCache"),
	}, nil
}

// Lookup returns the stored payload if it is still fresh.
func (c *StateCache) Lookup(ctx context.Context) ([]byte, bool) {
	entry, err := c.load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			c.logger.Warn("load cached state failed", zap.Error(err))
		}
		c.metrics.ObserveLookup(false)
		return nil, false
	}
	if c.clock.Now().Unix()-entry.WrittenAt.Unix() >= c.ttl || len(entry.Payload) == 0 {
		c.metrics.ObserveLookup(false)
		return nil, false
	}
	c.metrics.ObserveLookup(true)
	return entry.Payload, true
}

// Age reports how long ago the stored state was written.
func (c *StateCache) Age(ctx context.Context) (time.Duration, bool) {
	entry, err := c.load(ctx)
	if err != nil {
		return 0, false
	}
	return c.clock.Now().Sub(entry.WrittenAt), true
}

// Store persists resp and returns the payload to serve. AsOfMs is rewritten
// to the write time reported by the store. Store failures are logged and the
// best payload available is returned; only encoding errors are returned.
func (c *StateCache) Store(ctx context.Context, resp model.StateResponse) ([]byte, error) {
	payload, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	if err := c.save(ctx, payload); err != nil {
		c.logger.Warn("persist state failed", zap.Error(err))
		return payload, nil
	}

	writtenAt, err := c.writtenAt(ctx)
	if err != nil {
		c.logger.Warn("read state write time failed", zap.Error(err))
		return payload, nil
	}

	resp.AsOfMs = writtenAt.Unix() * 1000
	patched, err := json.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}
	if err := c.save(ctx, patched); err != nil {
		c.logger.Warn("persist patched state failed", zap.Error(err))
		return payload, nil
	}
	return patched, nil
}

func (c *StateCache) load(ctx context.Context) (entry Entry, err error) {
	started := time.Now()
	defer func() {
		observed := err
		if errors.Is(err, ErrNotFound) {
			observed = nil
		}
		c.metrics.Observe("load", observed, started)
	}()
	return c.store.Load(ctx)
}

func (c *StateCache) save(ctx context.Context, payload []byte) (err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("save", err, started)
	}()
	return c.store.Save(ctx, payload)
}

func (c *StateCache) writtenAt(ctx context.Context) (at time.Time, err error) {
	started := time.Now()
	defer func() {
		c.metrics.Observe("written_at", err, started)
	}()
	return c.store.WrittenAt(ctx)
}
