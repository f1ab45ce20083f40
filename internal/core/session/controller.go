// Package session coordinates the screen machine, result cache and
// history log for one user session. A Controller is driven from a single
// goroutine and is not safe for concurrent use.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/neilberkman/reviewrider/internal/core/analysis"
	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/result"
	"github.com/neilberkman/reviewrider/internal/core/screen"
	"github.com/neilberkman/reviewrider/internal/core/store"
)

// Progress messages reported around the remote call
const (
	MsgConnecting = "Connecting to server..."
	MsgSending    = "Sending request..."
	MsgPreparing  = "Preparing results..."
	MsgComplete   = "Analysis complete!"
)

// Controller owns the in-memory session. The store is a write-through
// mirror of it.
type Controller struct {
	store   *store.Store
	client  analysis.Analyzer
	logger  *zap.Logger
	now     func() time.Time
	timeout time.Duration

	machine *screen.Machine
	cache   *result.Cache
	log     *history.Log

	mode        models.AnalysisMode
	singleInput string
	inputs      [models.ComparisonSlots]string
	progress    Progress

	// showing is the result on the results screen, nil elsewhere
	showing models.AnalysisResult

	storageWarning string
}

// New returns a controller on the main screen with an empty session. Call
// Restore to load the persisted one.
func New(s *store.Store, client analysis.Analyzer, opts ...Option) *Controller {
	c := &Controller{
		store:   s,
		client:  client,
		logger:  zap.NewNop(),
		now:     time.Now,
		timeout: DefaultTimeout,
		machine: screen.NewMachine(s),
		cache:   result.New(s),
		log:     history.New(s, nil),
		mode:    models.ModeSingle,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Restore reloads the persisted session: mode, comparison inputs, history,
// then the screen and its result. Unreadable records fall back to
// defaults; Restore itself never fails.
func (c *Controller) Restore() {
	if mode, ok, err := c.store.Mode(); err != nil {
		c.warn("read mode", err)
	} else if ok {
		c.mode = mode
	}

	for slot := 1; slot <= models.ComparisonSlots; slot++ {
		v, _, err := c.store.ComparisonInput(slot)
		if err != nil {
			c.warn("read comparison input", err)
			continue
		}
		c.inputs[slot-1] = v
	}

	entries, _, err := c.store.History()
	if err != nil {
		c.warn("read history", err)
	}
	c.log = history.New(c.store, entries)

	last, _, err := c.store.LastScreen()
	if err != nil {
		c.warn("read last screen", err)
	}

	target := models.State{Screen: models.ScreenMain}
	switch last {
	case models.ScreenResults:
		if r := c.cache.Load(); r != nil {
			c.showing = r
			target = models.State{Screen: models.ScreenResults}
		}
	case models.ScreenHistory:
		target = models.State{Screen: models.ScreenHistory}
	}

	c.track(c.machine.Enter(target))
	c.logger.Info("Session restored",
		zap.String("screen", string(target.Screen)),
		zap.String("mode", string(c.mode)),
		zap.Int("history", c.log.Len()))
}

// SetMode switches between single and comparison input
func (c *Controller) SetMode(mode models.AnalysisMode) error {
	if _, ok := models.ParseMode(string(mode)); !ok {
		return fmt.Errorf("unknown analysis mode %q", mode)
	}
	c.mode = mode
	c.track(c.store.SetMode(mode))
	return nil
}

// SetSingleInput sets the single-product identifier. It is not persisted.
func (c *Controller) SetSingleInput(v string) {
	c.singleInput = v
}

// SetComparisonInput sets a 1-based comparison slot
func (c *Controller) SetComparisonInput(slot int, v string) error {
	if slot < 1 || slot > models.ComparisonSlots {
		return fmt.Errorf("comparison slot %d out of range 1-%d", slot, models.ComparisonSlots)
	}
	c.inputs[slot-1] = v
	c.track(c.store.SetComparisonInput(slot, v))
	return nil
}

// Submit runs a complete analysis: Begin, the remote call, then Complete
func (c *Controller) Submit(ctx context.Context) (models.AnalysisResult, error) {
	req, err := c.Begin()
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.CallContext(ctx)
	defer cancel()

	resp, err := c.client.Analyze(ctx, req, c.ReportProgress)
	return c.Complete(resp, err)
}

// CallContext bounds ctx by the analysis timeout
func (c *Controller) CallContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, c.timeout)
}

// Client returns the analysis client
func (c *Controller) Client() analysis.Analyzer {
	return c.client
}

// Begin validates the inputs and moves to the loading screen. The returned
// request is what should be sent to the service.
func (c *Controller) Begin() (analysis.Request, error) {
	if c.machine.Visible(models.ScreenLoading) {
		return analysis.Request{}, ErrAnalysisInProgress
	}
	if _, err := screen.Next(c.machine.Current(), screen.StartAnalysis); err != nil {
		return analysis.Request{}, err
	}

	req, err := c.buildRequest()
	if err != nil {
		return analysis.Request{}, err
	}

	_, err = c.machine.Fire(screen.StartAnalysis)
	c.track(err)

	c.progress = Progress{Fraction: 0, Message: MsgConnecting}
	c.ReportProgress(0.1, MsgSending)

	c.logger.Info("Analysis started", zap.String("mode", string(req.Mode)))
	return req, nil
}

func (c *Controller) buildRequest() (analysis.Request, error) {
	if c.mode == models.ModeMulti {
		var urls []string
		for _, v := range c.inputs {
			if v = strings.TrimSpace(v); v != "" {
				urls = append(urls, v)
			}
		}
		if len(urls) < 2 {
			return analysis.Request{}, &ValidationError{Field: "comparison_inputs", Message: MsgMultiRequired}
		}
		return analysis.Request{Mode: models.ModeMulti, ProductURLs: urls}, nil
	}

	id := strings.TrimSpace(c.singleInput)
	if id == "" {
		return analysis.Request{}, &ValidationError{Field: "product_url", Message: MsgSingleRequired}
	}
	return analysis.Request{Mode: models.ModeSingle, ProductURL: id}, nil
}

// ReportProgress updates the loading progress. It is ignored unless the
// loading screen is current.
func (c *Controller) ReportProgress(fraction float64, message string) {
	if !c.machine.Visible(models.ScreenLoading) {
		return
	}
	if fraction < 0 {
		fraction = 0
	}
	if fraction > 1 {
		fraction = 1
	}
	c.progress = Progress{Fraction: fraction, Message: message}
}

// Complete finishes the outstanding analysis with the outcome of the
// remote call. On success the result is cached, appended to history and
// shown; on failure nothing is written and the session returns to main.
func (c *Controller) Complete(resp models.AnalysisResult, callErr error) (models.AnalysisResult, error) {
	if !c.machine.Visible(models.ScreenLoading) {
		_, err := screen.Next(c.machine.Current(), screen.AnalysisSucceeded)
		return nil, err
	}

	if callErr == nil && resp == nil {
		callErr = &analysis.RemoteCallError{Kind: analysis.KindDecode, Message: "empty analysis result"}
	}
	if callErr != nil {
		c.logger.Warn("Analysis failed", zap.Error(callErr))
		_, err := c.machine.Fire(screen.AnalysisFailed)
		c.track(err)
		c.progress = Progress{}
		return nil, callErr
	}

	c.ReportProgress(0.8, MsgPreparing)

	c.track(c.cache.Set(resp))
	c.track(c.log.Append(models.HistoryEntry{Result: resp, Timestamp: c.now()}))

	c.ReportProgress(1, MsgComplete)

	_, err := c.machine.Fire(screen.AnalysisSucceeded)
	c.track(err)
	c.showing = resp

	c.logger.Info("Analysis completed",
		zap.String("mode", string(resp.Mode())),
		zap.String("title", resp.DisplayTitle()))
	return resp, nil
}

// OpenHistory shows the history screen
func (c *Controller) OpenHistory() error {
	if err := c.fire(screen.OpenHistory); err != nil {
		return err
	}
	c.showing = nil
	return nil
}

// ViewHistoryEntry shows the entry at index. The entry becomes the cached
// result but is not appended to history again.
func (c *Controller) ViewHistoryEntry(index int) (models.HistoryEntry, error) {
	if _, err := screen.Next(c.machine.Current(), screen.ViewHistoryEntry); err != nil {
		return models.HistoryEntry{}, err
	}
	entry, err := c.log.At(index)
	if err != nil {
		return models.HistoryEntry{}, err
	}

	c.track(c.cache.Set(entry.Result))
	if err := c.fire(screen.ViewHistoryEntry); err != nil {
		return models.HistoryEntry{}, err
	}
	c.showing = entry.Result
	return entry, nil
}

// Back leaves the results screen for wherever it was opened from
func (c *Controller) Back() error {
	if err := c.fire(screen.Back); err != nil {
		return err
	}
	c.showing = nil
	return nil
}

// BackToMain leaves the history screen
func (c *Controller) BackToMain() error {
	return c.fire(screen.BackToMain)
}

// DeleteHistoryEntry removes the entry at index once confirm agrees. A
// declined confirmation returns false and changes nothing.
func (c *Controller) DeleteHistoryEntry(index int, confirm Confirmer) (bool, error) {
	entry, err := c.log.At(index)
	if err != nil {
		return false, err
	}

	prompt := fmt.Sprintf("Delete %q from history?", history.DisplayTitle(entry))
	if confirm == nil || !confirm.Confirm(prompt) {
		return false, nil
	}

	if err := c.log.DeleteAt(index); err != nil && !c.track(err) {
		return false, err
	}
	c.logger.Info("History entry deleted", zap.Int("index", index))
	return true, nil
}

// ClearHistory empties the history once confirm agrees
func (c *Controller) ClearHistory(confirm Confirmer) (bool, error) {
	prompt := fmt.Sprintf("Clear all %d history entries?", c.log.Len())
	if confirm == nil || !confirm.Confirm(prompt) {
		return false, nil
	}

	c.track(c.log.Clear())
	c.logger.Info("History cleared")
	return true, nil
}

// History returns the history entries, newest first
func (c *Controller) History() []models.HistoryEntry {
	return c.log.List()
}

// FilterHistory returns the entries matching query along with their
// positions in the full log
func (c *Controller) FilterHistory(query string) []history.Row {
	return history.Select(c.log.List(), history.ParseFilter(query, c.now()))
}

// DismissStorageWarning clears View().StorageWarning
func (c *Controller) DismissStorageWarning() {
	c.storageWarning = ""
}

func (c *Controller) fire(e screen.Event) error {
	_, err := c.machine.Fire(e)
	if err != nil && !c.track(err) {
		return err
	}
	return nil
}

// track absorbs storage failures into the warning and reports whether err
// was one. Nil counts as absorbed.
func (c *Controller) track(err error) bool {
	if err == nil {
		return true
	}
	var failure *store.StorageFailure
	if !errors.As(err, &failure) {
		return false
	}
	c.warn(failure.Op, failure)
	return true
}

func (c *Controller) warn(what string, err error) {
	c.logger.Warn("Storage failure, continuing in memory", zap.String("op", what), zap.Error(err))
	c.storageWarning = fmt.Sprintf("Changes may not be saved: %v", err)
}
