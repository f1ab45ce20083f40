// Package store is the typed wrapper over durable key-value storage that
// holds the session records. Values are JSON encoded.
package store

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/logging"
)

// Op is one raw write: Value is stored under Key, or Key is removed when
// Delete is set.
type Op struct {
	Key    string
	Value  string
	Delete bool
}

// Backend is durable key-value storage. Apply must be atomic.
type Backend interface {
	Get(key string) (value string, ok bool, err error)
	Apply(ops []Op) error
}

// StorageFailure reports a record that could not be encoded, written or read
type StorageFailure struct {
	Op  string // "write", "remove" or "read"
	Key string
	Err error
}

func (e *StorageFailure) Error() string {
	return fmt.Sprintf("storage %s %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *StorageFailure) Unwrap() error {
	return e.Err
}

// Store reads and writes named records through a Backend
type Store struct {
	backend Backend
	logger  *zap.Logger
}

// New creates a store over backend. A nil logger discards output.
func New(backend Backend, logger *zap.Logger) *Store {
	return &Store{
		backend: backend,
		logger:  logging.OrNop(logger).Named("store"),
	}
}

// Set encodes value and stores it under key
func (s *Store) Set(key string, value any) error {
	return s.Batch().Set(key, value).Commit()
}

// Remove deletes key. Removing an absent key is not an error.
func (s *Store) Remove(key string) error {
	return s.Batch().Remove(key).Commit()
}

// Get decodes the record under key into dst. It reports false when the
// record is absent or cannot be decoded; a corrupt record is logged and
// otherwise treated as absent. Only backend read errors are returned.
func (s *Store) Get(key string, dst any) (bool, error) {
	raw, ok, err := s.backend.Get(key)
	if err != nil {
		return false, &StorageFailure{Op: "read", Key: key, Err: err}
	}
	if !ok {
		return false, nil
	}

	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		s.logger.Warn("Ignoring corrupt record", zap.String("key", key), zap.Error(err))
		return false, nil
	}
	return true, nil
}

// Batch starts a set of writes that commit atomically
func (s *Store) Batch() *Batch {
	return &Batch{store: s}
}

// Batch collects writes for a single atomic Apply
type Batch struct {
	store *Store
	ops   []Op
	err   error
}

// Set queues value under key
func (b *Batch) Set(key string, value any) *Batch {
	if b.err != nil {
		return b
	}
	data, err := json.Marshal(value)
	if err != nil {
		b.err = &StorageFailure{Op: "write", Key: key, Err: err}
		return b
	}
	b.ops = append(b.ops, Op{Key: key, Value: string(data)})
	return b
}

// Remove queues the removal of key
func (b *Batch) Remove(key string) *Batch {
	if b.err != nil {
		return b
	}
	b.ops = append(b.ops, Op{Key: key, Delete: true})
	return b
}

// Commit applies every queued write or none of them
func (b *Batch) Commit() error {
	if b.err != nil {
		return b.err
	}
	if len(b.ops) == 0 {
		return nil
	}

	if err := b.store.backend.Apply(b.ops); err != nil {
		first := b.ops[0]
		op := "write"
		if first.Delete {
			op = "remove"
		}
		return &StorageFailure{Op: op, Key: first.Key, Err: err}
	}

	b.store.logger.Debug("Committed records", zap.Int("count", len(b.ops)), zap.String("first_key", b.ops[0].Key))
	return nil
}
