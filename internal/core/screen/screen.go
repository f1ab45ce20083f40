// Package screen is the navigation state machine. Exactly one screen is
// current at any time.
package screen

import (
	"errors"
	"fmt"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

// Event drives a transition
type Event int

const (
	StartAnalysis Event = iota
	AnalysisSucceeded
	AnalysisFailed
	OpenHistory
	ViewHistoryEntry
	Back
	BackToMain
)

// Events lists every event, in declaration order
var Events = []Event{
	StartAnalysis,
	AnalysisSucceeded,
	AnalysisFailed,
	OpenHistory,
	ViewHistoryEntry,
	Back,
	BackToMain,
}

func (e Event) String() string {
	switch e {
	case StartAnalysis:
		return "start_analysis"
	case AnalysisSucceeded:
		return "analysis_succeeded"
	case AnalysisFailed:
		return "analysis_failed"
	case OpenHistory:
		return "open_history"
	case ViewHistoryEntry:
		return "view_history_entry"
	case Back:
		return "back"
	case BackToMain:
		return "back_to_main"
	}
	return fmt.Sprintf("event(%d)", int(e))
}

// ErrInvalidTransition is returned for every (state, event) pair that has
// no transition
var ErrInvalidTransition = errors.New("invalid screen transition")

// Next returns the state reached from s on e. It has no side effects.
func Next(s models.State, e Event) (models.State, error) {
	switch {
	case e == StartAnalysis && s.Screen == models.ScreenMain:
		return models.State{Screen: models.ScreenLoading}, nil

	case e == AnalysisSucceeded && s.Screen == models.ScreenLoading:
		return models.State{Screen: models.ScreenResults}, nil

	case e == AnalysisFailed && s.Screen == models.ScreenLoading:
		return models.State{Screen: models.ScreenMain}, nil

	case e == OpenHistory && (s.Screen == models.ScreenMain || s.Screen == models.ScreenResults):
		return models.State{Screen: models.ScreenHistory}, nil

	case e == ViewHistoryEntry && s.Screen == models.ScreenHistory:
		return models.State{Screen: models.ScreenResults, FromHistory: true}, nil

	case e == Back && s.Screen == models.ScreenResults:
		if s.FromHistory {
			return models.State{Screen: models.ScreenHistory}, nil
		}
		return models.State{Screen: models.ScreenMain}, nil

	case e == BackToMain && s.Screen == models.ScreenHistory:
		return models.State{Screen: models.ScreenMain}, nil
	}

	return s, fmt.Errorf("%w: %s on %s", ErrInvalidTransition, e, s.Screen)
}

// Persister records the current screen durably
type Persister interface {
	SetLastScreen(models.Screen) error
}

// Machine owns the current state
type Machine struct {
	current   models.State
	persister Persister
}

// NewMachine starts on Main without persisting anything
func NewMachine(persister Persister) *Machine {
	return &Machine{
		current:   models.State{Screen: models.ScreenMain},
		persister: persister,
	}
}

// Current returns the current state
func (m *Machine) Current() models.State {
	return m.current
}

// Visible reports whether screen is the one being shown
func (m *Machine) Visible(screen models.Screen) bool {
	return m.current.Screen == screen
}

// Fire applies e. On an invalid transition the state is unchanged. A
// persistence error does not undo the transition; the new state is
// returned with it.
func (m *Machine) Fire(e Event) (models.State, error) {
	next, err := Next(m.current, e)
	if err != nil {
		return m.current, err
	}
	return next, m.Enter(next)
}

// Enter makes s current unconditionally. Used when restoring a session.
func (m *Machine) Enter(s models.State) error {
	if s.Screen != models.ScreenResults {
		s.FromHistory = false
	}
	m.current = s

	if m.persister == nil {
		return nil
	}
	return m.persister.SetLastScreen(s.Screen)
}
