package history

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/store"
)

type recordingPersister struct {
	saved [][]models.HistoryEntry
	err   error
}

func (p *recordingPersister) SetHistory(entries []models.HistoryEntry) error {
	p.saved = append(p.saved, entries)
	return p.err
}

func (p *recordingPersister) last() []models.HistoryEntry {
	if len(p.saved) == 0 {
		return nil
	}
	return p.saved[len(p.saved)-1]
}

var baseTime = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

func entry(name string, n int) models.HistoryEntry {
	return models.HistoryEntry{
		Result:    models.SingleResult{ProductName: name, AnalysisText: "analysis of " + name},
		Timestamp: baseTime.Add(time.Duration(n) * time.Minute),
	}
}

func titles(entries []models.HistoryEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Result.DisplayTitle()
	}
	return out
}

func TestAppend_NewestFirst(t *testing.T) {
	p := &recordingPersister{}
	log := New(p, nil)

	for i, name := range []string{"A", "B", "C"} {
		if err := log.Append(entry(name, i)); err != nil {
			t.Fatalf("Append() error = %v", err)
		}
	}

	want := []string{"C", "B", "A"}
	if diff := cmp.Diff(want, titles(log.List())); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
	if len(p.saved) != 3 {
		t.Errorf("persisted %d times, want 3", len(p.saved))
	}
	if diff := cmp.Diff(want, titles(p.last())); diff != "" {
		t.Errorf("persisted log mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_CapacityInvariant(t *testing.T) {
	p := &recordingPersister{}
	log := New(p, nil)

	const total = 45
	for i := 0; i < total; i++ {
		if err := log.Append(entry(fmt.Sprintf("P%02d", i), i)); err != nil {
			t.Fatal(err)
		}
		if log.Len() > Capacity {
			t.Fatalf("after append %d: Len() = %d > %d", i, log.Len(), Capacity)
		}
		if len(p.last()) != log.Len() {
			t.Fatalf("after append %d: persisted %d entries, in memory %d", i, len(p.last()), log.Len())
		}
	}

	// The log holds the 20 most recent, newest first
	var want []string
	for i := total - 1; i >= total-Capacity; i-- {
		want = append(want, fmt.Sprintf("P%02d", i))
	}
	if diff := cmp.Diff(want, titles(log.List())); diff != "" {
		t.Errorf("List() mismatch (-want +got):\n%s", diff)
	}
}

func TestAppend_EvictsExactlyOneAtCapacity(t *testing.T) {
	log := New(nil, nil)
	for i := 0; i < Capacity; i++ {
		_ = log.Append(entry(fmt.Sprintf("P%02d", i), i))
	}
	if log.Len() != Capacity {
		t.Fatalf("Len() = %d, want %d", log.Len(), Capacity)
	}

	_ = log.Append(entry("newest", 99))

	got := log.List()
	if len(got) != Capacity {
		t.Fatalf("Len() = %d after 21st append", len(got))
	}
	if got[0].Result.DisplayTitle() != "newest" {
		t.Errorf("head = %q", got[0].Result.DisplayTitle())
	}
	if got[Capacity-1].Result.DisplayTitle() != "P01" {
		t.Errorf("tail = %q, want P01 (P00 evicted)", got[Capacity-1].Result.DisplayTitle())
	}
}

func TestDeleteAt_Positional(t *testing.T) {
	p := &recordingPersister{}
	log := New(p, []models.HistoryEntry{entry("A", 3), entry("B", 2), entry("C", 1)})

	if err := log.DeleteAt(1); err != nil {
		t.Fatalf("DeleteAt(1) error = %v", err)
	}
	if diff := cmp.Diff([]string{"A", "C"}, titles(log.List())); diff != "" {
		t.Errorf("after DeleteAt(1) (-want +got):\n%s", diff)
	}

	if err := log.DeleteAt(0); err != nil {
		t.Fatalf("DeleteAt(0) error = %v", err)
	}
	if diff := cmp.Diff([]string{"C"}, titles(log.List())); diff != "" {
		t.Errorf("after DeleteAt(0) (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"C"}, titles(p.last())); diff != "" {
		t.Errorf("persisted (-want +got):\n%s", diff)
	}
}

func TestDeleteAt_OutOfRange(t *testing.T) {
	p := &recordingPersister{}
	log := New(p, []models.HistoryEntry{entry("A", 1)})

	for _, idx := range []int{-1, 1, 20} {
		err := log.DeleteAt(idx)
		var oor *IndexOutOfRangeError
		if !errors.As(err, &oor) {
			t.Fatalf("DeleteAt(%d) error = %v, want *IndexOutOfRangeError", idx, err)
		}
		if oor.Index != idx || oor.Len != 1 {
			t.Errorf("IndexOutOfRangeError = %+v", oor)
		}
	}

	if log.Len() != 1 {
		t.Errorf("log mutated by out-of-range delete: Len() = %d", log.Len())
	}
	if len(p.saved) != 0 {
		t.Errorf("out-of-range delete persisted %d times", len(p.saved))
	}
}

func TestClear(t *testing.T) {
	p := &recordingPersister{}
	log := New(p, []models.HistoryEntry{entry("A", 1), entry("B", 2)})

	if err := log.Clear(); err != nil {
		t.Fatal(err)
	}
	if log.Len() != 0 {
		t.Errorf("Len() = %d after Clear", log.Len())
	}
	if last := p.last(); last == nil || len(last) != 0 {
		t.Errorf("persisted %v, want empty non-nil log", last)
	}
}

func TestAppend_PersistFailureKeepsMemory(t *testing.T) {
	failure := &store.StorageFailure{Op: "write", Key: store.KeyHistory, Err: errors.New("quota")}
	p := &recordingPersister{err: failure}
	log := New(p, nil)

	err := log.Append(entry("A", 1))
	if !errors.Is(err, failure) {
		t.Fatalf("Append() error = %v, want storage failure", err)
	}
	if log.Len() != 1 {
		t.Errorf("in-memory log not updated: Len() = %d", log.Len())
	}
}

func TestNew_TruncatesOversizedSeed(t *testing.T) {
	var seed []models.HistoryEntry
	for i := 0; i < Capacity+5; i++ {
		seed = append(seed, entry(fmt.Sprintf("P%02d", i), i))
	}
	log := New(nil, seed)
	if log.Len() != Capacity {
		t.Errorf("Len() = %d, want %d", log.Len(), Capacity)
	}
	if got := log.List()[0].Result.DisplayTitle(); got != "P00" {
		t.Errorf("head = %q, want P00", got)
	}
}

func TestList_ReturnsCopy(t *testing.T) {
	log := New(nil, []models.HistoryEntry{entry("A", 1)})
	list := log.List()
	list[0] = entry("mutated", 2)

	got, _ := log.At(0)
	if got.Result.DisplayTitle() != "A" {
		t.Error("List() exposed internal storage")
	}
}

func TestAt(t *testing.T) {
	log := New(nil, []models.HistoryEntry{entry("A", 1)})
	if _, err := log.At(1); err == nil {
		t.Error("At(1) succeeded on a one-entry log")
	}
}

func TestTruncateTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"short", "Keyboard", "Keyboard"},
		{"exactly 60", strings.Repeat("a", 60), strings.Repeat("a", 60)},
		{"61 chars", strings.Repeat("b", 61), strings.Repeat("b", 60) + "..."},
		{"multibyte 61", strings.Repeat("й", 61), strings.Repeat("й", 60) + "..."},
		{"multibyte 60", strings.Repeat("й", 60), strings.Repeat("й", 60)},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TruncateTitle(tt.in); got != tt.want {
				t.Errorf("TruncateTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDisplayTitleAndKind(t *testing.T) {
	multi := models.HistoryEntry{Result: models.MultiResult{ComparisonTitle: "Comparison: " + strings.Repeat("x", 60)}}

	if got := DisplayTitle(multi); got != "Comparison: "+strings.Repeat("x", 48)+"..." {
		t.Errorf("DisplayTitle() = %q", got)
	}
	if KindLabel(multi) != "Product comparison" {
		t.Errorf("KindLabel(multi) = %q", KindLabel(multi))
	}
	if KindLabel(entry("A", 1)) != "Single analysis" {
		t.Errorf("KindLabel(single) = %q", KindLabel(entry("A", 1)))
	}
}
