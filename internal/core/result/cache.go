// Package result holds the most recent analysis result. The two result
// shapes are mutually exclusive on disk: writing one removes the other in
// the same batch.
package result

import (
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/store"
)

// Cache is the in-memory last result mirrored to the record store
type Cache struct {
	store   *store.Store
	current models.AnalysisResult
}

// New returns an empty cache backed by s. Call Load to pick up a
// persisted result.
func New(s *store.Store) *Cache {
	return &Cache{store: s}
}

// SetSingle caches a single-product result
func (c *Cache) SetSingle(productName, analysisText string) error {
	return c.Set(models.SingleResult{ProductName: productName, AnalysisText: analysisText})
}

// SetMulti caches a comparison result
func (c *Cache) SetMulti(title string, items []models.ComparisonItem, recommendation string) error {
	return c.Set(models.MultiResult{
		ComparisonTitle:       title,
		Items:                 items,
		OverallRecommendation: recommendation,
	})
}

// Set caches r, replacing whichever result was cached before. The
// in-memory value changes even when the write fails.
func (c *Cache) Set(r models.AnalysisResult) error {
	c.current = r

	b := c.store.Batch()
	switch r := r.(type) {
	case models.SingleResult:
		b.Set(store.KeyLastSingleResult, store.NewSingleRecord(r)).
			Remove(store.KeyLastComparisonResult)
	case models.MultiResult:
		b.Set(store.KeyLastComparisonResult, store.NewComparisonRecord(r)).
			Remove(store.KeyLastSingleResult)
	default:
		b.Remove(store.KeyLastSingleResult).
			Remove(store.KeyLastComparisonResult)
	}
	return b.Commit()
}

// Get returns the cached result, or nil
func (c *Cache) Get() models.AnalysisResult {
	return c.current
}

// Clear drops the cached result and both records
func (c *Cache) Clear() error {
	return c.Set(nil)
}

// Load reads the persisted result into memory without writing anything
// back. A single result wins over a comparison when both are somehow
// present. Unreadable records count as absent.
func (c *Cache) Load() models.AnalysisResult {
	c.current = nil

	if single, ok, err := c.store.LastSingle(); err == nil && ok {
		c.current = single
		return c.current
	}
	if multi, ok, err := c.store.LastComparison(); err == nil && ok {
		c.current = multi
	}
	return c.current
}
