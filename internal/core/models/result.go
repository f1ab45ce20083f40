package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// AnalysisResult is either a SingleResult or a MultiResult. The set of
// variants is closed; use a type switch to inspect one.
type AnalysisResult interface {
	Mode() AnalysisMode
	DisplayTitle() string
	isAnalysisResult()
}

// SingleResult is the analysis of one product.
type SingleResult struct {
	ProductName  string
	AnalysisText string
}

func (SingleResult) Mode() AnalysisMode { return ModeSingle }
func (r SingleResult) DisplayTitle() string { return r.ProductName }
func (SingleResult) isAnalysisResult() {}

// ComparisonItem is one product's column of a comparison.
type ComparisonItem struct {
	ProductName  string `json:"product_name"`
	ReviewCount  *int   `json:"review_count,omitempty"`
	AnalysisText string `json:"analysis"`
}

// MultiResult is the comparison of several products.
type MultiResult struct {
	ComparisonTitle       string
	Items                 []ComparisonItem
	OverallRecommendation string
}

func (MultiResult) Mode() AnalysisMode { return ModeMulti }
func (r MultiResult) DisplayTitle() string { return r.ComparisonTitle }
func (MultiResult) isAnalysisResult() {}

// timestampLayout is ISO-8601 with millisecond precision.
const timestampLayout = "2006-01-02T15:04:05.000Z07:00"

// entryJSON is the flattened wire form of a history entry: the service
// response fields plus a timestamp.
type entryJSON struct {
	Type                      string           `json:"type"`
	ProductName               string           `json:"product_name,omitempty"`
	Analysis                  string           `json:"analysis,omitempty"`
	ComparisonTitle           string           `json:"comparison_title,omitempty"`
	IndividualProductAnalyses []ComparisonItem `json:"individual_product_analyses,omitempty"`
	OverallRecommendation     string           `json:"overall_recommendation,omitempty"`
	Timestamp                 string           `json:"timestamp"`
}

// MarshalJSON implements json.Marshaler
func (e HistoryEntry) MarshalJSON() ([]byte, error) {
	w := entryJSON{Timestamp: e.Timestamp.UTC().Format(timestampLayout)}
	switch r := e.Result.(type) {
	case SingleResult:
		w.Type = string(ModeSingle)
		w.ProductName = r.ProductName
		w.Analysis = r.AnalysisText
	case MultiResult:
		w.Type = string(ModeMulti)
		w.ComparisonTitle = r.ComparisonTitle
		w.IndividualProductAnalyses = r.Items
		w.OverallRecommendation = r.OverallRecommendation
	default:
		return nil, fmt.Errorf("history entry has no result")
	}
	return json.Marshal(w)
}

// UnmarshalJSON implements json.Unmarshaler
func (e *HistoryEntry) UnmarshalJSON(data []byte) error {
	var w entryJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	ts, err := time.Parse(time.RFC3339Nano, w.Timestamp)
	if err != nil {
		return fmt.Errorf("invalid timestamp %q: %w", w.Timestamp, err)
	}

	switch AnalysisMode(w.Type) {
	case ModeSingle:
		e.Result = SingleResult{ProductName: w.ProductName, AnalysisText: w.Analysis}
	case ModeMulti:
		e.Result = MultiResult{
			ComparisonTitle:       w.ComparisonTitle,
			Items:                 w.IndividualProductAnalyses,
			OverallRecommendation: w.OverallRecommendation,
		}
	default:
		return fmt.Errorf("unknown result type %q", w.Type)
	}
	e.Timestamp = ts
	return nil
}
