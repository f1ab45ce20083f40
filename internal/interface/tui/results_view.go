package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/muesli/reflow/wordwrap"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

func createViewport(width, height int) viewport.Model {
	vp := viewport.New(width, max(height-6, 3))
	vp.YPosition = 0
	return vp
}

// renderResult fills the viewport with the result currently shown
func (m *Model) renderResult() {
	result := m.ctrl.View().Result
	if result == nil {
		m.viewport.SetContent("")
		return
	}
	width := m.width
	if width == 0 {
		width = 80
	}
	m.viewport.SetContent(renderAnalysis(result, width))
	m.viewport.GotoTop()
}

func renderAnalysis(result models.AnalysisResult, width int) string {
	wrapWidth := width - 10
	if wrapWidth < 40 {
		wrapWidth = 40
	}
	rule := strings.Repeat("─", max(width, 1))

	var b strings.Builder
	switch r := result.(type) {
	case models.SingleResult:
		b.WriteString(titleStyle.Render(r.ProductName) + "\n")
		b.WriteString(rule + "\n\n")
		b.WriteString(wordwrap.String(r.AnalysisText, wrapWidth))
		b.WriteString("\n")

	case models.MultiResult:
		b.WriteString(titleStyle.Render(r.ComparisonTitle) + "\n")
		b.WriteString(rule + "\n\n")
		for _, item := range r.Items {
			header := productStyle.Render(item.ProductName)
			if item.ReviewCount != nil {
				header += " " + timestampStyle.Render(fmt.Sprintf("(%s reviews)", humanize.Comma(int64(*item.ReviewCount))))
			}
			b.WriteString(header + "\n")
			b.WriteString(wordwrap.String(item.AnalysisText, wrapWidth))
			b.WriteString("\n\n")
		}
		b.WriteString(rule + "\n")
		b.WriteString(recommendationStyle.Render("Recommendation") + "\n")
		b.WriteString(wordwrap.String(r.OverallRecommendation, wrapWidth))
		b.WriteString("\n")
	}
	return b.String()
}

// plainAnalysis is the unstyled text copied to the clipboard
func plainAnalysis(result models.AnalysisResult) string {
	switch r := result.(type) {
	case models.SingleResult:
		return r.ProductName + "\n\n" + r.AnalysisText
	case models.MultiResult:
		var b strings.Builder
		b.WriteString(r.ComparisonTitle + "\n\n")
		for _, item := range r.Items {
			b.WriteString(item.ProductName + "\n" + item.AnalysisText + "\n\n")
		}
		b.WriteString("Recommendation\n" + r.OverallRecommendation)
		return b.String()
	}
	return ""
}

func (m Model) updateResults(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "esc", "b":
		fromHistory := m.ctrl.View().State.FromHistory
		if err := m.ctrl.Back(); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		m.clearStatus()
		if fromHistory {
			m.refreshHistory()
			return m, nil
		}
		return m.withFocus()

	case "n":
		// Back lands on History for a history result; Main is one more step
		if err := m.ctrl.Back(); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		if m.screen() == models.ScreenHistory {
			if err := m.ctrl.BackToMain(); err != nil {
				m.setStatus(errorText(err), true)
				return m, nil
			}
		}
		m.clearStatus()
		return m.withFocus()

	case "h":
		if err := m.ctrl.OpenHistory(); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		m.clearStatus()
		m.refreshHistory()
		return m, nil

	case "c":
		if result := m.ctrl.View().Result; result != nil {
			return m, copyToClipboard(plainAnalysis(result))
		}
		return m, nil

	case "w":
		m.ctrl.DismissStorageWarning()
		return m, nil

	case "g":
		m.viewport.GotoTop()
		return m, nil

	case "G":
		m.viewport.GotoBottom()
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) resultsView() string {
	content := m.viewport.View()

	footer := fmt.Sprintf("\n%3.f%%", m.viewport.ScrollPercent()*100)
	if line := m.statusLine(); line != "" {
		footer += "  " + line
	}
	back := "esc/n: back to search"
	if m.ctrl.View().State.FromHistory {
		back = "esc: back to history | n: new analysis"
	}
	footer += "\n\nc: copy | j/k: scroll | g/G: top/bottom | h: history | " + back + " | q: quit"
	return content + helpStyle.Render(footer)
}
