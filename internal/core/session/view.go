package session

import (
	"github.com/neilberkman/reviewrider/internal/core/models"
)

// Progress of the outstanding analysis
type Progress struct {
	Fraction float64
	Message  string
}

// View is everything a front end needs to draw the current state
type View struct {
	State models.State

	// Result is only set while the results screen is current
	Result models.AnalysisResult

	History          []models.HistoryEntry
	Progress         Progress
	Mode             models.AnalysisMode
	SingleInput      string
	ComparisonInputs [models.ComparisonSlots]string

	// StorageWarning describes the latest write that did not reach disk
	StorageWarning string
}

// View returns the current state for rendering
func (c *Controller) View() View {
	v := View{
		State:            c.machine.Current(),
		History:          c.log.List(),
		Progress:         c.progress,
		Mode:             c.mode,
		SingleInput:      c.singleInput,
		ComparisonInputs: c.inputs,
		StorageWarning:   c.storageWarning,
	}
	if c.machine.Visible(models.ScreenResults) {
		v.Result = c.showing
	}
	return v
}

// Snapshot returns a copy of the session as it would be persisted
func (c *Controller) Snapshot() models.SessionSnapshot {
	return models.SessionSnapshot{
		Mode:             c.mode,
		ComparisonInputs: c.inputs,
		LastScreen:       c.machine.Current().Screen,
		LastResult:       c.cache.Get(),
		History:          c.log.List(),
	}
}
