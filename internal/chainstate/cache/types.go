package cache

import (
	"context"
	"errors"
	"time"
)

//go:generate mockgen -source=$GOFILE -destination=mocks_test.go -package=$GOPACKAGE

// ErrNotFound is returned by a Store that holds no entry yet.
var ErrNotFound = errors.New("state entry not found")

// Entry is the persisted state payload with its write time.
type Entry struct {
	Payload   []byte
	WrittenAt time.Time
}

type (
	// Store is a single-slot persistence backend. Save must publish the
	// payload atomically: Load never observes a partial write.
	Store interface {
		Load(ctx context.Context) (Entry, error)
		Save(ctx context.Context, payload []byte) error
		WrittenAt(ctx context.Context) (time.Time, error)
	}
	// Metrics records cache lookups and store operations.
	Metrics interface {
		ObserveLookup(hit bool)
		Observe(operation string, err error, started time.Time)
	}
)
