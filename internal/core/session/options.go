package session

import (
	"time"

	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/logging"
)

// DefaultTimeout bounds a single analysis call
const DefaultTimeout = 3 * time.Minute

// Option configures a Controller
type Option func(*Controller)

// WithLogger sets the controller logger
func WithLogger(l *zap.Logger) Option {
	return func(c *Controller) { c.logger = logging.OrNop(l).Named("session") }
}

// WithClock replaces time.Now for history timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithTimeout bounds each analysis call. Non-positive values are ignored.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// Confirmer is asked before destructive history operations
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// AlwaysConfirm approves without asking
var AlwaysConfirm Confirmer = ConfirmFunc(func(string) bool { return true })
