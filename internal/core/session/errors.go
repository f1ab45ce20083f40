package session

import (
	"errors"
	"fmt"
)

// ErrAnalysisInProgress rejects a submission while one is outstanding
var ErrAnalysisInProgress = errors.New("analysis already in progress")

// ValidationError is returned when the inputs cannot be submitted. The
// session stays on the main screen.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Messages shown for rejected input
const (
	MsgSingleRequired = "Enter a product link or article number."
	MsgMultiRequired  = "Enter at least two products to compare."
)
