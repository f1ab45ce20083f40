package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/reviewrider/internal/core/analysis"
	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/models"
	"github.com/neilberkman/reviewrider/internal/core/session"
)

// confirmKind identifies a pending destructive history action
type confirmKind int

const (
	confirmNone confirmKind = iota
	confirmDelete
	confirmClear
)

type pendingConfirm struct {
	kind   confirmKind
	index  int
	prompt string
}

// Model renders whatever screen the session controller reports and turns
// key presses into controller operations.
type Model struct {
	ctrl *session.Controller

	// Main screen
	singleInput textinput.Model
	slotInputs  [models.ComparisonSlots]textinput.Model
	focus       int
	editing     bool

	// Loading screen
	spinner  spinner.Model
	progress progress.Model
	events   chan tea.Msg
	cancel   context.CancelFunc

	// Results screen
	viewport viewport.Model

	// History screen
	list        list.Model
	rows        []history.Row
	filterInput textinput.Model
	filtering   bool
	filterQuery string
	confirm     pendingConfirm

	showHelp bool
	status   string
	isErr    bool
	width    int
	height   int
}

// New creates a model over a restored controller
func New(ctrl *session.Controller) Model {
	v := ctrl.View()

	single := newInput("Product link or article number")
	single.SetValue(v.SingleInput)

	var slots [models.ComparisonSlots]textinput.Model
	for i := range slots {
		slots[i] = newInput(fmt.Sprintf("Product %d", i+1))
		slots[i].SetValue(v.ComparisonInputs[i])
	}

	filter := textinput.New()
	filter.Placeholder = "text, type:single, after:2024-01-01, before:yesterday"
	filter.Prompt = "/ "
	filter.CharLimit = 200

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = titleStyle

	m := Model{
		ctrl:        ctrl,
		singleInput: single,
		slotInputs:  slots,
		editing:     true,
		spinner:     s,
		progress:    progress.New(progress.WithDefaultGradient(), progress.WithWidth(40)),
		viewport:    createViewport(80, 24),
		list:        createHistoryList(nil, 80, 24),
		filterInput: filter,
	}
	m.focusInput()

	switch v.State.Screen {
	case models.ScreenResults:
		m.renderResult()
	case models.ScreenHistory:
		m.refreshHistory()
	}
	return m
}

func newInput(placeholder string) textinput.Model {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	ti.CharLimit = 500
	ti.Width = 60
	return ti
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		return m, nil

	case progressMsg:
		m.ctrl.ReportProgress(msg.fraction, msg.message)
		return m, waitForEvent(m.events)

	case analysisDoneMsg:
		return m.finishAnalysis(msg)

	case statusMsg:
		m.setStatus(msg.text, msg.isErr)
		return m, nil

	case spinner.TickMsg:
		if m.screen() != models.ScreenLoading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}

		if m.showHelp {
			m.showHelp = false
			return m, nil
		}

		switch m.screen() {
		case models.ScreenMain:
			return m.updateMain(msg)
		case models.ScreenLoading:
			return m, nil
		case models.ScreenResults:
			return m.updateResults(msg)
		case models.ScreenHistory:
			return m.updateHistory(msg)
		}
	}

	return m.updateComponents(msg)
}

// updateComponents forwards non-key messages such as cursor blinks to the
// component of the current screen.
func (m Model) updateComponents(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen() {
	case models.ScreenMain:
		if m.ctrl.View().Mode == models.ModeMulti {
			m.slotInputs[m.focus], cmd = m.slotInputs[m.focus].Update(msg)
		} else {
			m.singleInput, cmd = m.singleInput.Update(msg)
		}
	case models.ScreenResults:
		m.viewport, cmd = m.viewport.Update(msg)
	case models.ScreenHistory:
		if m.filtering {
			m.filterInput, cmd = m.filterInput.Update(msg)
		} else {
			m.list, cmd = m.list.Update(msg)
		}
	}
	return m, cmd
}

func (m Model) View() string {
	if m.showHelp {
		return m.helpView()
	}

	var body string
	switch m.screen() {
	case models.ScreenMain:
		body = m.mainView()
	case models.ScreenLoading:
		body = m.loadingView()
	case models.ScreenResults:
		body = m.resultsView()
	case models.ScreenHistory:
		body = m.historyView()
	}

	if warning := m.ctrl.View().StorageWarning; warning != "" {
		body += "\n" + warningStyle.Render("⚠ "+warning)
	}
	return body
}

func (m Model) screen() models.Screen {
	return m.ctrl.View().State.Screen
}

func (m *Model) resize() {
	m.viewport.Width = m.width
	m.viewport.Height = m.viewportHeight()
	if m.screen() == models.ScreenResults {
		m.renderResult()
	}
	m.list.SetSize(m.width, m.listHeight())
	m.progress.Width = min(m.width-4, 60)
}

func (m Model) viewportHeight() int {
	return max(m.height-6, 3)
}

func (m Model) listHeight() int {
	return max(m.height-6, 3)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = text
	m.isErr = isErr
}

func (m *Model) clearStatus() {
	m.status = ""
	m.isErr = false
}

func (m Model) statusLine() string {
	if m.status == "" {
		return ""
	}
	if m.isErr {
		return errorStyle.Render(m.status)
	}
	return noticeStyle.Render(m.status)
}

// startAnalysis moves the session to Loading and launches the remote call
func (m Model) startAnalysis() (tea.Model, tea.Cmd) {
	req, err := m.ctrl.Begin()
	if err != nil {
		m.setStatus(errorText(err), true)
		return m, nil
	}
	m.clearStatus()
	m.blurInputs()

	ctx, cancel := m.ctrl.CallContext(context.Background())
	m.cancel = cancel
	m.events = make(chan tea.Msg, 8)

	return m, tea.Batch(
		runAnalysis(ctx, m.ctrl.Client(), req, m.events),
		waitForEvent(m.events),
		m.spinner.Tick,
	)
}

func (m Model) finishAnalysis(msg analysisDoneMsg) (tea.Model, tea.Cmd) {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
	m.events = nil

	if _, err := m.ctrl.Complete(msg.result, msg.err); err != nil {
		m.setStatus(errorText(err), true)
		return m.withFocus()
	}
	m.renderResult()
	return m, nil
}

// errorText is the status line message for a failed operation
func errorText(err error) string {
	var verr *session.ValidationError
	if errors.As(err, &verr) {
		return verr.Message
	}
	var callErr *analysis.RemoteCallError
	if errors.As(err, &callErr) {
		return "Analysis failed: " + callErr.Message
	}
	if errors.Is(err, session.ErrAnalysisInProgress) {
		return "An analysis is already running"
	}
	return err.Error()
}
