package store

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

// Durable record keys. These names are part of the on-disk layout.
const (
	KeyMode                 = "mode"
	KeyLastScreen           = "last_screen"
	KeyLastSingleResult     = "last_single_result"
	KeyLastComparisonResult = "last_comparison_result"
	KeyHistory              = "history"

	comparisonInputPrefix = "comparison_input_"
)

// ComparisonInputKey returns the record key for a 1-based comparison slot
func ComparisonInputKey(slot int) (string, error) {
	if slot < 1 || slot > models.ComparisonSlots {
		return "", fmt.Errorf("comparison slot %d out of range 1-%d", slot, models.ComparisonSlots)
	}
	return fmt.Sprintf("%s%d", comparisonInputPrefix, slot), nil
}

// SingleRecord is the persisted body of the last single result
type SingleRecord struct {
	ProductName string `json:"productName"`
	Analysis    string `json:"analysis"`
}

// ComparisonRecord is the persisted body of the last comparison result
type ComparisonRecord struct {
	Title              string                  `json:"title"`
	IndividualAnalyses []models.ComparisonItem `json:"individualAnalyses"`
	Recommendation     string                  `json:"recommendation"`
}

// NewSingleRecord converts a result into its persisted form
func NewSingleRecord(r models.SingleResult) SingleRecord {
	return SingleRecord{ProductName: r.ProductName, Analysis: r.AnalysisText}
}

// Result converts the record back into a result
func (r SingleRecord) Result() models.SingleResult {
	return models.SingleResult{ProductName: r.ProductName, AnalysisText: r.Analysis}
}

// NewComparisonRecord converts a result into its persisted form
func NewComparisonRecord(r models.MultiResult) ComparisonRecord {
	items := r.Items
	if items == nil {
		items = []models.ComparisonItem{}
	}
	return ComparisonRecord{Title: r.ComparisonTitle, IndividualAnalyses: items, Recommendation: r.OverallRecommendation}
}

// Result converts the record back into a result
func (r ComparisonRecord) Result() models.MultiResult {
	return models.MultiResult{
		ComparisonTitle:       r.Title,
		Items:                 r.IndividualAnalyses,
		OverallRecommendation: r.Recommendation,
	}
}

// Mode returns the persisted analysis mode
func (s *Store) Mode() (models.AnalysisMode, bool, error) {
	var raw string
	ok, err := s.Get(KeyMode, &raw)
	if err != nil || !ok {
		return "", false, err
	}
	mode, ok := models.ParseMode(raw)
	return mode, ok, nil
}

// SetMode persists the analysis mode
func (s *Store) SetMode(mode models.AnalysisMode) error {
	return s.Set(KeyMode, string(mode))
}

// ComparisonInput returns the persisted value of a 1-based comparison slot
func (s *Store) ComparisonInput(slot int) (string, bool, error) {
	key, err := ComparisonInputKey(slot)
	if err != nil {
		return "", false, err
	}
	var v string
	ok, err := s.Get(key, &v)
	return v, ok, err
}

// SetComparisonInput persists the value of a 1-based comparison slot
func (s *Store) SetComparisonInput(slot int, value string) error {
	key, err := ComparisonInputKey(slot)
	if err != nil {
		return err
	}
	return s.Set(key, value)
}

// LastScreen returns the persisted active screen. Unrecognized values are
// reported as absent.
func (s *Store) LastScreen() (models.Screen, bool, error) {
	var raw string
	ok, err := s.Get(KeyLastScreen, &raw)
	if err != nil || !ok {
		return "", false, err
	}
	screen, ok := models.ParseScreen(raw)
	return screen, ok, nil
}

// SetLastScreen persists the active screen
func (s *Store) SetLastScreen(screen models.Screen) error {
	return s.Set(KeyLastScreen, string(screen))
}

// LastSingle returns the cached single result
func (s *Store) LastSingle() (models.SingleResult, bool, error) {
	var rec SingleRecord
	ok, err := s.Get(KeyLastSingleResult, &rec)
	if err != nil || !ok {
		return models.SingleResult{}, false, err
	}
	return rec.Result(), true, nil
}

// LastComparison returns the cached comparison result
func (s *Store) LastComparison() (models.MultiResult, bool, error) {
	var rec ComparisonRecord
	ok, err := s.Get(KeyLastComparisonResult, &rec)
	if err != nil || !ok {
		return models.MultiResult{}, false, err
	}
	return rec.Result(), true, nil
}

// History returns the persisted history log, newest first
func (s *Store) History() ([]models.HistoryEntry, bool, error) {
	var entries []models.HistoryEntry
	ok, err := s.Get(KeyHistory, &entries)
	if err != nil || !ok {
		return nil, false, err
	}
	return entries, true, nil
}

// SetHistory persists the full history log
func (s *Store) SetHistory(entries []models.HistoryEntry) error {
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return s.Set(KeyHistory, entries)
}

// Snapshot loads every session record, substituting defaults for records
// that are absent, corrupt or unreadable. It never fails.
func (s *Store) Snapshot() models.SessionSnapshot {
	snap := models.SessionSnapshot{
		Mode:       models.ModeSingle,
		LastScreen: models.ScreenMain,
	}

	if mode, ok, err := s.Mode(); err != nil {
		s.logger.Warn("Failed to read mode", zap.Error(err))
	} else if ok {
		snap.Mode = mode
	}

	for slot := 1; slot <= models.ComparisonSlots; slot++ {
		v, _, err := s.ComparisonInput(slot)
		if err != nil {
			s.logger.Warn("Failed to read comparison input", zap.Int("slot", slot), zap.Error(err))
			continue
		}
		snap.ComparisonInputs[slot-1] = v
	}

	if screen, ok, err := s.LastScreen(); err != nil {
		s.logger.Warn("Failed to read last screen", zap.Error(err))
	} else if ok {
		snap.LastScreen = screen
	}

	if single, ok, err := s.LastSingle(); err != nil {
		s.logger.Warn("Failed to read last single result", zap.Error(err))
	} else if ok {
		snap.LastResult = single
	}

	if snap.LastResult == nil {
		if multi, ok, err := s.LastComparison(); err != nil {
			s.logger.Warn("Failed to read last comparison result", zap.Error(err))
		} else if ok {
			snap.LastResult = multi
		}
	}

	if entries, _, err := s.History(); err != nil {
		s.logger.Warn("Failed to read history", zap.Error(err))
	} else {
		snap.History = entries
	}

	return snap
}

// SaveSnapshot writes every session record in one atomic batch. Exactly one
// of the two result records survives, matching snap.LastResult.
func (s *Store) SaveSnapshot(snap models.SessionSnapshot) error {
	history := snap.History
	if history == nil {
		history = []models.HistoryEntry{}
	}

	b := s.Batch().
		Set(KeyMode, string(snap.Mode)).
		Set(KeyLastScreen, string(snap.LastScreen)).
		Set(KeyHistory, history)

	for slot := 1; slot <= models.ComparisonSlots; slot++ {
		key, _ := ComparisonInputKey(slot)
		b.Set(key, snap.ComparisonInputs[slot-1])
	}

	switch r := snap.LastResult.(type) {
	case models.SingleResult:
		b.Set(KeyLastSingleResult, NewSingleRecord(r)).Remove(KeyLastComparisonResult)
	case models.MultiResult:
		b.Set(KeyLastComparisonResult, NewComparisonRecord(r)).Remove(KeyLastSingleResult)
	default:
		b.Remove(KeyLastSingleResult).Remove(KeyLastComparisonResult)
	}

	return b.Commit()
}
