package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goodnatureofminers/blockinsight7000-chainstate/internal/clock"
)

// Keys:
// Payload:    "state:payload"    -> serialized state
// Write time: "state:written_at" -> big-endian unix nanoseconds
var (
	payloadKey   = []byte("state:payload")
	writtenAtKey = []byte("state:written_at")
)

// BadgerStore keeps the state in BadgerDB. Payload and write time are set in
// one transaction.
type BadgerStore struct {
	db    *badger.DB
	clock clock.Clock
}

// NewBadgerStore opens a BadgerDB at path, or an in-memory one when path is
// empty.
func NewBadgerStore(path string, clk clock.Clock) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path)
	if path == "" {
		opts = opts.WithInMemory(true)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}
	if clk == nil {
		clk = clock.System{}
	}
	return &BadgerStore{db: db, clock: clk}, nil
}

// Close closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Load returns the stored payload and write time.
func (s *BadgerStore) Load(_ context.Context) (Entry, error) {
	var entry Entry
	err := s.db.View(func(txn *badger.Txn) error {
		payload, err := getValue(txn, payloadKey)
		if err != nil {
			return err
		}
		raw, err := getValue(txn, writtenAtKey)
		if err != nil {
			return err
		}
		at, err := decodeTime(raw)
		if err != nil {
			return err
		}
		entry = Entry{Payload: payload, WrittenAt: at}
		return nil
	})
	if err != nil {
		return Entry{}, err
	}
	return entry, nil
}

// Save stores payload stamped with the current time.
func (s *BadgerStore) Save(ctx context.Context, payload []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	stamp := make([]byte, 8)
	binary.BigEndian.PutUint64(stamp, uint64(s.clock.Now().UnixNano()))

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(payloadKey, payload); err != nil {
			return fmt.Errorf("set state payload: %w", err)
		}
		if err := txn.Set(writtenAtKey, stamp); err != nil {
			return fmt.Errorf("set state write time: %w", err)
		}
		return nil
	})
}

// WrittenAt returns the time of the last Save.
func (s *BadgerStore) WrittenAt(_ context.Context) (time.Time, error) {
	var at time.Time
	err := s.db.View(func(txn *badger.Txn) error {
		raw, err := getValue(txn, writtenAtKey)
		if err != nil {
			return err
		}
		at, err = decodeTime(raw)
		return err
	})
	return at, err
}

func getValue(txn *badger.Txn, key []byte) ([]byte, error) {
	item, err := txn.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	value, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", key, err)
	}
	return value, nil
}

func decodeTime(raw []byte) (time.Time, error) {
	if len(raw) != 8 {
		return time.Time{}, fmt.Errorf("invalid state write time length %d", len(raw))
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(raw))), nil
}
