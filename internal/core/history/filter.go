package history

import (
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

// Filter narrows a history listing
type Filter struct {
	Text      string              // matched against title and analysis text
	Kind      models.AnalysisMode // empty matches both kinds
	After     time.Time
	Before    time.Time
	HasAfter  bool
	HasBefore bool
}

// Row is an entry together with its position in the unfiltered log, so a
// filtered view can still address the right entry for deletion.
type Row struct {
	Index int
	Entry models.HistoryEntry
}

// ParseFilter extracts filters from a query string. Supports:
//   - type:single, type:multi
//   - after:<date>, before:<date>, date:<date> (same as after)
//
// Dates are ISO dates or natural language relative to now ("yesterday",
// "last-week"). Remaining words are free text.
func ParseFilter(query string, now time.Time) Filter {
	f := Filter{}

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	var textParts []string
	for _, token := range strings.Fields(query) {
		switch {
		case strings.HasPrefix(token, "type:"):
			if mode, ok := models.ParseMode(strings.TrimPrefix(token, "type:")); ok {
				f.Kind = mode
			}
			continue

		case strings.HasPrefix(token, "after:"), strings.HasPrefix(token, "date:"):
			dateStr := token[strings.Index(token, ":")+1:]
			if parsed := parseDate(w, dateStr, now); parsed != nil {
				f.After = *parsed
				f.HasAfter = true
			}
			continue

		case strings.HasPrefix(token, "before:"):
			if parsed := parseDate(w, strings.TrimPrefix(token, "before:"), now); parsed != nil {
				f.Before = *parsed
				f.HasBefore = true
			}
			continue
		}

		textParts = append(textParts, token)
	}

	f.Text = strings.Join(textParts, " ")
	return f
}

// parseDate tries fixed layouts first, then natural language
func parseDate(w *when.Parser, dateStr string, now time.Time) *time.Time {
	formats := []string{
		"2006-01-02",
		"2006-01-02T15:04:05",
		time.RFC3339,
		"2006/01/02",
	}
	for _, format := range formats {
		if t, err := time.ParseInLocation(format, dateStr, now.Location()); err == nil {
			return &t
		}
	}

	result, err := w.Parse(strings.ReplaceAll(dateStr, "-", " "), now)
	if err == nil && result != nil {
		return &result.Time
	}
	return nil
}

// IsZero reports whether the filter matches everything
func (f Filter) IsZero() bool {
	return f.Text == "" && f.Kind == "" && !f.HasAfter && !f.HasBefore
}

// Match reports whether entry passes every filter
func (f Filter) Match(entry models.HistoryEntry) bool {
	if entry.Result == nil {
		return false
	}
	if f.Kind != "" && entry.Result.Mode() != f.Kind {
		return false
	}
	if f.HasAfter && entry.Timestamp.Before(f.After) {
		return false
	}
	if f.HasBefore && !entry.Timestamp.Before(f.Before) {
		return false
	}
	if f.Text == "" {
		return true
	}

	needle := strings.ToLower(f.Text)
	for _, haystack := range searchableText(entry.Result) {
		if strings.Contains(strings.ToLower(haystack), needle) {
			return true
		}
	}
	return false
}

func searchableText(r models.AnalysisResult) []string {
	switch r := r.(type) {
	case models.SingleResult:
		return []string{r.ProductName, r.AnalysisText}
	case models.MultiResult:
		texts := []string{r.ComparisonTitle, r.OverallRecommendation}
		for _, item := range r.Items {
			texts = append(texts, item.ProductName, item.AnalysisText)
		}
		return texts
	}
	return nil
}

// Select returns the entries that match f, keeping their log positions
func Select(entries []models.HistoryEntry, f Filter) []Row {
	rows := make([]Row, 0, len(entries))
	for i, e := range entries {
		if f.Match(e) {
			rows = append(rows, Row{Index: i, Entry: e})
		}
	}
	return rows
}
