// Package export renders analysis results to markdown.
package export

import (
	"errors"
	"fmt"
	"time"

	"github.com/cbroglie/mustache"
	"github.com/dustin/go-humanize"

	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/models"
)

// TimestampLayout is how export timestamps are printed
const TimestampLayout = "2006-01-02 15:04"

// Data builds the template context for r. A zero timestamp leaves the
// timestamp keys empty.
func Data(r models.AnalysisResult, timestamp time.Time) map[string]interface{} {
	data := map[string]interface{}{
		"title":          r.DisplayTitle(),
		"kind":           history.KindLabel(models.HistoryEntry{Result: r}),
		"is_single":      false,
		"is_multi":       false,
		"product_name":   "",
		"analysis":       "",
		"items":          []map[string]interface{}{},
		"recommendation": "",
		"timestamp":      "",
		"time_since":     "",
	}

	if !timestamp.IsZero() {
		data["timestamp"] = timestamp.Local().Format(TimestampLayout)
		data["time_since"] = humanize.Time(timestamp)
	}

	switch r := r.(type) {
	case models.SingleResult:
		data["is_single"] = true
		data["product_name"] = r.ProductName
		data["analysis"] = r.AnalysisText

	case models.MultiResult:
		data["is_multi"] = true
		data["recommendation"] = r.OverallRecommendation

		items := make([]map[string]interface{}, 0, len(r.Items))
		for _, it := range r.Items {
			item := map[string]interface{}{
				"product_name":     it.ProductName,
				"analysis":         it.AnalysisText,
				"has_review_count": it.ReviewCount != nil,
				"review_count":     "",
			}
			if it.ReviewCount != nil {
				item["review_count"] = humanize.Comma(int64(*it.ReviewCount))
			}
			items = append(items, item)
		}
		data["items"] = items
	}

	return data
}

// Render fills tmpl with r
func Render(r models.AnalysisResult, timestamp time.Time, tmpl string) (string, error) {
	if r == nil {
		return "", errors.New("nothing to export")
	}
	out, err := mustache.Render(tmpl, Data(r, timestamp))
	if err != nil {
		return "", fmt.Errorf("failed to render export template: %w", err)
	}
	return out, nil
}
