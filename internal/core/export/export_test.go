package export

import (
	"strings"
	"testing"
	"time"

	"github.com/neilberkman/reviewrider/internal/core/config"
	"github.com/neilberkman/reviewrider/internal/core/models"
)

func intPtr(n int) *int { return &n }

func TestRender_Single(t *testing.T) {
	r := models.SingleResult{ProductName: "Mouse <Pro>", AnalysisText: "Quiet & light."}
	ts := time.Now().Add(-2 * time.Hour)

	out, err := Render(r, ts, config.DefaultExportTemplate)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"# Mouse <Pro>",
		"Single analysis",
		"Quiet & light.",
		"2 hours ago",
		ts.Local().Format(TimestampLayout),
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Recommendation") {
		t.Errorf("single export rendered the comparison section:\n%s", out)
	}
}

func TestRender_Multi(t *testing.T) {
	r := models.MultiResult{
		ComparisonTitle: "Comparison: A, B",
		Items: []models.ComparisonItem{
			{ProductName: "A", ReviewCount: intPtr(1520), AnalysisText: "Solid."},
			{ProductName: "B", AnalysisText: "No reviews."},
		},
		OverallRecommendation: "Pick A.",
	}

	out, err := Render(r, time.Time{}, config.DefaultExportTemplate)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}

	for _, want := range []string{
		"# Comparison: A, B",
		"Product comparison",
		"## A (1,520 reviews)",
		"## B\n",
		"Solid.",
		"## Recommendation",
		"Pick A.",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "ago") {
		t.Errorf("zero timestamp rendered a relative time:\n%s", out)
	}
}

func TestRender_CustomTemplate(t *testing.T) {
	r := models.SingleResult{ProductName: "Mouse", AnalysisText: "ok"}

	out, err := Render(r, time.Time{}, "{{kind}}: {{title}}{{#is_multi}} multi{{/is_multi}}")
	if err != nil {
		t.Fatal(err)
	}
	if out != "Single analysis: Mouse" {
		t.Errorf("Render() = %q", out)
	}
}

func TestRender_Errors(t *testing.T) {
	if _, err := Render(nil, time.Time{}, config.DefaultExportTemplate); err == nil {
		t.Error("Render(nil) succeeded")
	}
	if _, err := Render(models.SingleResult{}, time.Time{}, "{{#open}}"); err == nil {
		t.Error("Render() accepted an unterminated section")
	}
}
