package history

import (
	"github.com/neilberkman/reviewrider/internal/core/models"
)

// TitleLimit is the number of characters of a title shown before truncation
const TitleLimit = 60

// TruncationMarker is appended to titles longer than TitleLimit
const TruncationMarker = "..."

// TruncateTitle keeps the first TitleLimit characters of s and appends the
// marker when anything was cut.
func TruncateTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= TitleLimit {
		return s
	}
	return string(runes[:TitleLimit]) + TruncationMarker
}

// DisplayTitle is the truncated title of an entry as shown in history lists
func DisplayTitle(entry models.HistoryEntry) string {
	if entry.Result == nil {
		return ""
	}
	return TruncateTitle(entry.Result.DisplayTitle())
}

// KindLabel describes the kind of analysis an entry holds
func KindLabel(entry models.HistoryEntry) string {
	switch entry.Result.(type) {
	case models.SingleResult:
		return "Single analysis"
	case models.MultiResult:
		return "Product comparison"
	}
	return "Unknown"
}
