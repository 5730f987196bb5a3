package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/clock"
)

// MemoryStore keeps the state in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	entry *Entry
	clock clock.Clock
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore(clk clock.Clock) *MemoryStore {
	if clk == nil {
		clk = clock.System{}
	}
	return &MemoryStore{clock: clk}
}

// Load returns a copy of the stored entry.
func (s *MemoryStore) Load(_ context.Context) (Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return Entry{}, ErrNotFound
	}
	return Entry{Payload: append([]byte(nil), s.entry.Payload...), WrittenAt: s.entry.WrittenAt}, nil
}

// Save replaces the stored entry.
func (s *MemoryStore) Save(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	entry := &Entry{Payload: append([]byte(nil), payload...), WrittenAt: s.clock.Now()}
	s.mu.Lock()
	s.entry = entry
	s.mu.Unlock()
	return nil
}

// WrittenAt returns the time of the last Save.
func (s *MemoryStore) WrittenAt(_ context.Context) (time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.entry == nil {
		return time.Time{}, ErrNotFound
	}
	return s.entry.WrittenAt, nil
}
