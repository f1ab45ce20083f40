package tui

import (
	"context"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/reviewrider/internal/core/analysis"
	"github.com/neilberkman/reviewrider/internal/core/models"
)

type progressMsg struct {
	fraction float64
	message  string
}

type analysisDoneMsg struct {
	result models.AnalysisResult
	err    error
}

type statusMsg struct {
	text  string
	isErr bool
}

// runAnalysis performs the remote call off the event loop. Progress and the
// outcome are delivered through events; nothing here touches the session.
func runAnalysis(ctx context.Context, client analysis.Analyzer, req analysis.Request, events chan<- tea.Msg) tea.Cmd {
	return func() tea.Msg {
		result, err := client.Analyze(ctx, req, func(fraction float64, message string) {
			events <- progressMsg{fraction: fraction, message: message}
		})
		events <- analysisDoneMsg{result: result, err: err}
		return nil
	}
}

// waitForEvent delivers the next message from the running analysis
func waitForEvent(events <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return <-events
	}
}

func copyToClipboard(text string) tea.Cmd {
	return func() tea.Msg {
		// Use cross-platform clipboard library
		if err := clipboard.WriteAll(text); err != nil {
			return statusMsg{text: "Clipboard unavailable: " + err.Error(), isErr: true}
		}
		return statusMsg{text: "Analysis copied to clipboard!"}
	}
}
