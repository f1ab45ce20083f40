// Package history implements the bounded, newest-first log of completed
// analyses.
package history

import (
	"fmt"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

// Capacity is the maximum number of entries kept. Appending beyond it
// evicts the oldest entry.
const Capacity = 20

// Persister mirrors the full log to durable storage
type Persister interface {
	SetHistory(entries []models.HistoryEntry) error
}

// IndexOutOfRangeError is returned when deleting a position that does not
// exist. The log is not modified.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("history index %d out of range [0, %d)", e.Index, e.Len)
}

// Log is the in-memory history, newest first. Every mutation is written
// through to the Persister. Entries are addressed by position.
type Log struct {
	entries   []models.HistoryEntry
	persister Persister
}

// New returns a log seeded with entries (newest first). Entries beyond
// Capacity are dropped from the tail.
func New(persister Persister, entries []models.HistoryEntry) *Log {
	if len(entries) > Capacity {
		entries = entries[:Capacity]
	}
	seeded := make([]models.HistoryEntry, len(entries), Capacity+1)
	copy(seeded, entries)
	return &Log{entries: seeded, persister: persister}
}

// Append inserts entry at the head, evicting the tail when the log is
// full, and persists the result. The in-memory log is updated even when
// persisting fails.
func (l *Log) Append(entry models.HistoryEntry) error {
	l.entries = append(l.entries, models.HistoryEntry{})
	copy(l.entries[1:], l.entries)
	l.entries[0] = entry

	if len(l.entries) > Capacity {
		l.entries[Capacity] = models.HistoryEntry{}
		l.entries = l.entries[:Capacity]
	}
	return l.persist()
}

// DeleteAt removes the entry at index against the current ordering
func (l *Log) DeleteAt(index int) error {
	if index < 0 || index >= len(l.entries) {
		return &IndexOutOfRangeError{Index: index, Len: len(l.entries)}
	}

	l.entries = append(l.entries[:index], l.entries[index+1:]...)
	return l.persist()
}

// Clear empties the log
func (l *Log) Clear() error {
	l.entries = l.entries[:0]
	return l.persist()
}

// List returns a copy of the entries, newest first
func (l *Log) List() []models.HistoryEntry {
	out := make([]models.HistoryEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of entries
func (l *Log) Len() int {
	return len(l.entries)
}

// At returns the entry at index
func (l *Log) At(index int) (models.HistoryEntry, error) {
	if index < 0 || index >= len(l.entries) {
		return models.HistoryEntry{}, &IndexOutOfRangeError{Index: index, Len: len(l.entries)}
	}
	return l.entries[index], nil
}

func (l *Log) persist() error {
	if l.persister == nil {
		return nil
	}
	return l.persister.SetHistory(l.List())
}
