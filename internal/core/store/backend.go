package store

import (
	"sync"

	"github.com/neilberkman/reviewrider/internal/core/db"
)

type sqliteBackend struct {
	db *db.DB
}

// NewSQLiteBackend stores records in the database's records table
func NewSQLiteBackend(database *db.DB) Backend {
	return &sqliteBackend{db: database}
}

func (b *sqliteBackend) Get(key string) (string, bool, error) {
	return b.db.GetRecord(key)
}

func (b *sqliteBackend) Apply(ops []Op) error {
	recordOps := make([]db.RecordOp, len(ops))
	for i, op := range ops {
		recordOps[i] = db.RecordOp{Key: op.Key, Value: op.Value, Delete: op.Delete}
	}
	return b.db.ApplyRecords(recordOps)
}

// MemoryBackend keeps records in process memory. It backs --ephemeral runs
// and tests.
type MemoryBackend struct {
	mu        sync.Mutex
	records   map[string]string
	writeErr  error
	readErr   error
	applyHits int
}

// NewMemoryBackend returns an empty in-memory backend
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{records: make(map[string]string)}
}

func (b *MemoryBackend) Get(key string) (string, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.readErr != nil {
		return "", false, b.readErr
	}
	v, ok := b.records[key]
	return v, ok, nil
}

func (b *MemoryBackend) Apply(ops []Op) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.writeErr != nil {
		return b.writeErr
	}
	for _, op := range ops {
		if op.Delete {
			delete(b.records, op.Key)
			continue
		}
		b.records[op.Key] = op.Value
	}
	b.applyHits++
	return nil
}

// FailWrites makes every later Apply return err, simulating a full or
// read-only disk. Pass nil to recover.
func (b *MemoryBackend) FailWrites(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.writeErr = err
}

// FailReads makes every later Get return err. Pass nil to recover.
func (b *MemoryBackend) FailReads(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.readErr = err
}

// Raw returns the encoded record under key
func (b *MemoryBackend) Raw(key string) (string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.records[key]
	return v, ok
}

// Commits returns how many Apply calls succeeded
func (b *MemoryBackend) Commits() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.applyHits
}
