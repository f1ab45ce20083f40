package analysis

import (
	"github.com/neilberkman/reviewrider/internal/core/models"
)

// Request is one analysis submission
type Request struct {
	Mode models.AnalysisMode

	// ProductURL is used in single mode
	ProductURL string

	// ProductURLs is used in multi mode, in slot order with blanks removed
	ProductURLs []string
}

// ProgressFunc receives progress updates while a call is in flight
type ProgressFunc func(fraction float64, message string)

type analyzeRequest struct {
	Mode        string   `json:"mode"`
	ProductURL  string   `json:"product_url,omitempty"`
	ProductURLs []string `json:"product_urls,omitempty"`
}

type analyzeItem struct {
	ProductName string `json:"product_name"`
	ReviewCount *int   `json:"review_count"`
	Analysis    string `json:"analysis"`
}

type analyzeResponse struct {
	Type                      string        `json:"type"`
	ProductName               string        `json:"product_name"`
	Analysis                  string        `json:"analysis"`
	ComparisonTitle           string        `json:"comparison_title"`
	IndividualProductAnalyses []analyzeItem `json:"individual_product_analyses"`
	OverallRecommendation     string        `json:"overall_recommendation"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func newAnalyzeRequest(r Request) analyzeRequest {
	if r.Mode == models.ModeMulti {
		urls := r.ProductURLs
		if urls == nil {
			urls = []string{}
		}
		return analyzeRequest{Mode: string(models.ModeMulti), ProductURLs: urls}
	}
	return analyzeRequest{Mode: string(models.ModeSingle), ProductURL: r.ProductURL}
}

// toResult converts a decoded success body. ok is false for an unknown type.
func (r analyzeResponse) toResult() (models.AnalysisResult, bool) {
	switch models.AnalysisMode(r.Type) {
	case models.ModeSingle:
		return models.SingleResult{ProductName: r.ProductName, AnalysisText: r.Analysis}, true

	case models.ModeMulti:
		items := make([]models.ComparisonItem, 0, len(r.IndividualProductAnalyses))
		for _, it := range r.IndividualProductAnalyses {
			if it.ReviewCount != nil && *it.ReviewCount < 0 {
				it.ReviewCount = nil
			}
			items = append(items, models.ComparisonItem{
				ProductName:  it.ProductName,
				ReviewCount:  it.ReviewCount,
				AnalysisText: it.Analysis,
			})
		}
		return models.MultiResult{
			ComparisonTitle:       r.ComparisonTitle,
			Items:                 items,
			OverallRecommendation: r.OverallRecommendation,
		}, true
	}
	return nil, false
}
