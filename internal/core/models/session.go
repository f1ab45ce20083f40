package models

import "time"

// AnalysisMode selects the request shape sent to the analysis service and
// the result shape expected back.
type AnalysisMode string

const (
	ModeSingle AnalysisMode = "single"
	ModeMulti  AnalysisMode = "multi"
)

// ComparisonSlots is the number of product inputs available in multi mode.
const ComparisonSlots = 4

// ParseMode converts a persisted or user-supplied value into a mode.
func ParseMode(s string) (AnalysisMode, bool) {
	switch AnalysisMode(s) {
	case ModeSingle:
		return ModeSingle, true
	case ModeMulti:
		return ModeMulti, true
	}
	return "", false
}

// Screen is one of the four mutually exclusive views.
type Screen string

const (
	ScreenMain    Screen = "main"
	ScreenResults Screen = "results"
	ScreenHistory Screen = "history"
	ScreenLoading Screen = "loading"
)

// ParseScreen converts a persisted value into a screen.
func ParseScreen(s string) (Screen, bool) {
	switch Screen(s) {
	case ScreenMain, ScreenResults, ScreenHistory, ScreenLoading:
		return Screen(s), true
	}
	return "", false
}

// State is the current screen. FromHistory is only meaningful on the
// results screen and records whether the result was opened from history.
type State struct {
	Screen      Screen
	FromHistory bool
}

// HistoryEntry is an immutable record of one completed analysis.
type HistoryEntry struct {
	Result    AnalysisResult
	Timestamp time.Time
}

// SessionSnapshot is the full durable session state.
type SessionSnapshot struct {
	Mode             AnalysisMode
	ComparisonInputs [ComparisonSlots]string
	LastScreen       Screen
	LastResult       AnalysisResult // nil when nothing is cached
	History          []HistoryEntry // newest first
}
