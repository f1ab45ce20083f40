package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/session"
)

const textWidth = 80

// printResult writes a result as wrapped plain text
func printResult(w io.Writer, r models.AnalysisResult) {
	rule := strings.Repeat("─", textWidth)

	switch r := r.(type) {
	case models.SingleResult:
		fmt.Fprintln(w, r.ProductName)
		fmt.Fprintln(w, rule)
		fmt.Fprintln(w, wordwrap.String(r.AnalysisText, textWidth))

	case models.MultiResult:
		fmt.Fprintln(w, r.ComparisonTitle)
		fmt.Fprintln(w, rule)
		for _, it := range r.Items {
			header := it.ProductName
			if it.ReviewCount != nil {
				header += fmt.Sprintf(" (%s reviews)", humanize.Comma(int64(*it.ReviewCount)))
			}
			fmt.Fprintf(w, "\n%s\n", header)
			fmt.Fprintln(w, wordwrap.String(it.AnalysisText, textWidth))
		}
		fmt.Fprintf(w, "\nRecommendation\n%s\n", rule)
		fmt.Fprintln(w, wordwrap.String(r.OverallRecommendation, textWidth))
	}
}

// printEntryLine writes one history row with its 1-based number
func printEntryLine(w io.Writer, row history.Row) {
	fmt.Fprintf(w, "[%d] %s\n", row.Index+1, history.DisplayTitle(row.Entry))
	fmt.Fprintf(w, "    %s · %s\n", history.KindLabel(row.Entry), humanize.Time(row.Entry.Timestamp))
}

// warnStorage reports a write that did not reach disk
func warnStorage(w io.Writer, ctrl *session.Controller) {
	if warning := ctrl.View().StorageWarning; warning != "" {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}
