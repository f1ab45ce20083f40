package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/reviewrider/internal/core/analysis"
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/session"
	"github.com/neilberkman/reviewrider/internal/core/store"
)

type analyzerFunc func(ctx context.Context, req analysis.Request, progress analysis.ProgressFunc) (models.AnalysisResult, error)

func (f analyzerFunc) Analyze(ctx context.Context, req analysis.Request, progress analysis.ProgressFunc) (models.AnalysisResult, error) {
	return f(ctx, req, progress)
}

func returning(r models.AnalysisResult) analyzerFunc {
	return func(context.Context, analysis.Request, analysis.ProgressFunc) (models.AnalysisResult, error) {
		return r, nil
	}
}

func newTestModel(t *testing.T, client analysis.Analyzer) (Model, *session.Controller) {
	t.Helper()
	s := store.New(store.NewMemoryBackend(), nil)
	ctrl := session.New(s, client)
	ctrl.Restore()
	m := New(ctrl)
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(Model), ctrl
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(m Model, msgs ...tea.Msg) Model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func typeText(m Model, text string) Model {
	for _, r := range text {
		m = send(m, key(string(r)))
	}
	return m
}

func TestTypingUpdatesSession(t *testing.T) {
	m, ctrl := newTestModel(t, returning(nil))

	typeText(m, "12345")
	if got := ctrl.View().SingleInput; got != "12345" {
		t.Errorf("SingleInput = %q, want %q", got, "12345")
	}
}

func TestTabSwitchesModeAndSlots(t *testing.T) {
	m, ctrl := newTestModel(t, returning(nil))

	m = send(m, key("tab"))
	if got := ctrl.View().Mode; got != models.ModeMulti {
		t.Fatalf("Mode = %q, want multi", got)
	}

	m = typeText(m, "a")
	m = send(m, key("down"))
	typeText(m, "b")

	inputs := ctrl.View().ComparisonInputs
	if inputs[0] != "a" || inputs[1] != "b" {
		t.Errorf("ComparisonInputs = %q", inputs)
	}
}

func TestSubmitValidation(t *testing.T) {
	m, ctrl := newTestModel(t, returning(nil))

	m = send(m, key("enter"))
	if got := ctrl.View().State.Screen; got != models.ScreenMain {
		t.Errorf("Screen = %q, want main", got)
	}
	if m.status != session.MsgSingleRequired || !m.isErr {
		t.Errorf("status = %q (err=%v)", m.status, m.isErr)
	}
}

func TestAnalysisFlow(t *testing.T) {
	m, ctrl := newTestModel(t, returning(nil))

	m = typeText(m, "12345")
	m = send(m, key("enter"))
	if got := ctrl.View().State.Screen; got != models.ScreenLoading {
		t.Fatalf("Screen = %q, want loading", got)
	}
	if m.cancel == nil || m.events == nil {
		t.Fatal("analysis not started")
	}

	// keys are ignored while loading
	m = send(m, key("h"))
	if got := ctrl.View().State.Screen; got != models.ScreenLoading {
		t.Fatalf("Screen after key = %q, want loading", got)
	}

	m = send(m, progressMsg{fraction: 0.5, message: analysis.MsgProcessing})
	if p := ctrl.View().Progress; p.Fraction != 0.5 || p.Message != analysis.MsgProcessing {
		t.Errorf("Progress = %+v", p)
	}
	if !strings.Contains(m.View(), analysis.MsgProcessing) {
		t.Error("loading view does not show the progress message")
	}

	result := models.SingleResult{ProductName: "Wireless Mouse", AnalysisText: "Great battery life."}
	m = send(m, analysisDoneMsg{result: result})

	v := ctrl.View()
	if v.State.Screen != models.ScreenResults {
		t.Fatalf("Screen = %q, want results", v.State.Screen)
	}
	if len(v.History) != 1 {
		t.Errorf("History length = %d, want 1", len(v.History))
	}
	out := m.View()
	for _, want := range []string{"Wireless Mouse", "Great battery life."} {
		if !strings.Contains(out, want) {
			t.Errorf("results view missing %q", want)
		}
	}
}

func TestAnalysisFailure(t *testing.T) {
	m, ctrl := newTestModel(t, returning(nil))

	m = typeText(m, "12345")
	m = send(m, key("enter"))
	callErr := &analysis.RemoteCallError{Kind: analysis.KindServer, Message: "product not found"}
	m = send(m, analysisDoneMsg{err: callErr})

	v := ctrl.View()
	if v.State.Screen != models.ScreenMain {
		t.Errorf("Screen = %q, want main", v.State.Screen)
	}
	if len(v.History) != 0 {
		t.Errorf("History length = %d, want 0", len(v.History))
	}
	if m.status != "Analysis failed: product not found" {
		t.Errorf("status = %q", m.status)
	}
	if v.SingleInput != "12345" {
		t.Errorf("SingleInput = %q, want input kept", v.SingleInput)
	}
}

func seedHistory(t *testing.T, ctrl *session.Controller, names ...string) {
	t.Helper()
	for _, name := range names {
		ctrl.SetSingleInput(name)
		if _, err := ctrl.Submit(context.Background()); err != nil {
			t.Fatalf("Submit(%q) error = %v", name, err)
		}
		if err := ctrl.Back(); err != nil {
			t.Fatalf("Back() error = %v", err)
		}
	}
}

func TestHistoryOpenAndBack(t *testing.T) {
	client := analyzerFunc(func(_ context.Context, req analysis.Request, _ analysis.ProgressFunc) (models.AnalysisResult, error) {
		return models.SingleResult{ProductName: "Product " + req.ProductURL, AnalysisText: "ok"}, nil
	})
	m, ctrl := newTestModel(t, client)
	seedHistory(t, ctrl, "A", "B")
	m = New(ctrl)

	m = send(m, key("esc"), key("h"))
	if got := ctrl.View().State.Screen; got != models.ScreenHistory {
		t.Fatalf("Screen = %q, want history", got)
	}
	if !strings.Contains(m.View(), "Product B") {
		t.Error("history view missing newest entry")
	}

	m = send(m, key("enter"))
	v := ctrl.View()
	if v.State != (models.State{Screen: models.ScreenResults, FromHistory: true}) {
		t.Fatalf("State = %+v", v.State)
	}
	if v.Result.DisplayTitle() != "Product B" {
		t.Errorf("Result = %q, want Product B", v.Result.DisplayTitle())
	}
	if len(v.History) != 2 {
		t.Errorf("viewing an entry changed history length to %d", len(v.History))
	}

	send(m, key("esc"))
	if got := ctrl.View().State.Screen; got != models.ScreenHistory {
		t.Errorf("Screen after esc = %q, want history", got)
	}
}

func TestNewAnalysisFromHistoryResult(t *testing.T) {
	client := analyzerFunc(func(_ context.Context, req analysis.Request, _ analysis.ProgressFunc) (models.AnalysisResult, error) {
		return models.SingleResult{ProductName: req.ProductURL, AnalysisText: "ok"}, nil
	})
	m, ctrl := newTestModel(t, client)
	seedHistory(t, ctrl, "A")
	m = New(ctrl)

	m = send(m, key("esc"), key("h"), key("enter"))
	if got := ctrl.View().State; got != (models.State{Screen: models.ScreenResults, FromHistory: true}) {
		t.Fatalf("State = %+v, want results from history", got)
	}

	m = send(m, key("n"))
	if got := ctrl.View().State.Screen; got != models.ScreenMain {
		t.Fatalf("Screen after n = %q, want main", got)
	}
	if m.status != "" {
		t.Errorf("status = %q, want none", m.status)
	}
	if !m.editing {
		t.Error("input not focused after n")
	}

	// a fresh result goes straight back to Main as well
	m = typeText(m, "B")
	m = send(m, key("enter"), analysisDoneMsg{result: models.SingleResult{ProductName: "B", AnalysisText: "ok"}})
	if got := ctrl.View().State; got != (models.State{Screen: models.ScreenResults}) {
		t.Fatalf("State = %+v, want results", got)
	}
	send(m, key("n"))
	if got := ctrl.View().State.Screen; got != models.ScreenMain {
		t.Errorf("Screen after n = %q, want main", got)
	}
}

func TestHistoryDeleteNeedsConfirmation(t *testing.T) {
	client := analyzerFunc(func(_ context.Context, req analysis.Request, _ analysis.ProgressFunc) (models.AnalysisResult, error) {
		return models.SingleResult{ProductName: req.ProductURL, AnalysisText: "ok"}, nil
	})
	m, ctrl := newTestModel(t, client)
	seedHistory(t, ctrl, "A", "B")
	m = New(ctrl)
	m = send(m, key("esc"), key("h"))

	m = send(m, key("d"))
	if !strings.Contains(m.View(), `Delete "B" from history?`) {
		t.Error("delete prompt not shown")
	}
	m = send(m, key("n"))
	if got := len(ctrl.History()); got != 2 {
		t.Fatalf("declined delete removed entries, len = %d", got)
	}

	m = send(m, key("d"), key("y"))
	entries := ctrl.History()
	if len(entries) != 1 || entries[0].Result.DisplayTitle() != "A" {
		t.Fatalf("History after delete = %v", entries)
	}

	m = send(m, key("C"), key("y"))
	if got := len(ctrl.History()); got != 0 {
		t.Errorf("History after clear = %d entries", got)
	}
	if !strings.Contains(m.View(), "No analyses yet") {
		t.Error("empty history message not shown")
	}
}

func TestHistoryFilter(t *testing.T) {
	client := analyzerFunc(func(_ context.Context, req analysis.Request, _ analysis.ProgressFunc) (models.AnalysisResult, error) {
		return models.SingleResult{ProductName: req.ProductURL, AnalysisText: "ok"}, nil
	})
	m, ctrl := newTestModel(t, client)
	seedHistory(t, ctrl, "keyboard", "mouse")
	m = New(ctrl)
	m = send(m, key("esc"), key("h"), key("/"))
	m = typeText(m, "keyb")
	m = send(m, key("enter"))

	if len(m.rows) != 1 || m.rows[0].Index != 1 {
		t.Fatalf("filtered rows = %+v", m.rows)
	}

	// the kept index opens the right entry
	send(m, key("enter"))
	if got := ctrl.View().Result.DisplayTitle(); got != "keyboard" {
		t.Errorf("opened %q, want keyboard", got)
	}
}

func TestNewRestoresResults(t *testing.T) {
	s := store.New(store.NewMemoryBackend(), nil)
	ctrl := session.New(s, returning(models.SingleResult{ProductName: "Desk Lamp", AnalysisText: "Bright."}))
	ctrl.Restore()
	ctrl.SetSingleInput("1")
	if _, err := ctrl.Submit(context.Background()); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	restored := session.New(s, returning(nil))
	restored.Restore()
	m := New(restored)

	if !strings.Contains(m.View(), "Desk Lamp") {
		t.Error("restored results view missing the cached result")
	}
}

func TestErrorText(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"validation", &session.ValidationError{Field: "product_url", Message: session.MsgSingleRequired}, session.MsgSingleRequired},
		{"remote", &analysis.RemoteCallError{Kind: analysis.KindTimeout, Message: "request timed out"}, "Analysis failed: request timed out"},
		{"busy", session.ErrAnalysisInProgress, "An analysis is already running"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorText(tt.err); got != tt.want {
				t.Errorf("errorText() = %q, want %q", got, tt.want)
			}
		})
	}
}
