package tui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"

	"github.com/neilberkman/reviewrider/internal/core/history"
	"github.com/neilberkman/reviewrider/internal/core/session"
)

type historyListItem struct {
	row history.Row
}

func (i historyListItem) FilterValue() string {
	return history.DisplayTitle(i.row.Entry)
}

func (i historyListItem) Title() string {
	if title := history.DisplayTitle(i.row.Entry); title != "" {
		return title
	}
	return "(untitled)"
}

func (i historyListItem) Description() string {
	return fmt.Sprintf("%s | %s", history.KindLabel(i.row.Entry), formatTime(i.row.Entry.Timestamp))
}

type historyDelegate struct {
	list.DefaultDelegate
}

func (d historyDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	h, ok := item.(historyListItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	title := h.Title()
	desc := h.Description()

	if index == m.Index() {
		title = selectedItemStyle.Render(title)
		desc = selectedItemStyle.Faint(true).Render(desc)
	} else {
		title = itemStyle.Render(title)
		desc = itemStyle.Render(timestampStyle.Render(desc))
	}

	fmt.Fprintf(w, "%s\n%s", title, desc)
}

func createHistoryList(rows []history.Row, width, height int) list.Model {
	delegate := historyDelegate{DefaultDelegate: list.NewDefaultDelegate()}

	l := list.New(historyItems(rows), delegate, width, max(height-6, 3))
	l.Title = ""
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetShowTitle(false)
	l.SetFilteringEnabled(false) // filtering goes through history.ParseFilter on /

	return l
}

func historyItems(rows []history.Row) []list.Item {
	items := make([]list.Item, len(rows))
	for i, r := range rows {
		items[i] = historyListItem{row: r}
	}
	return items
}

// refreshHistory reloads the list from the controller with the active filter
func (m *Model) refreshHistory() {
	m.rows = m.ctrl.FilterHistory(m.filterQuery)
	m.list.SetItems(historyItems(m.rows))
	if m.list.Index() >= len(m.rows) && len(m.rows) > 0 {
		m.list.Select(len(m.rows) - 1)
	}
}

func (m Model) selectedRow() (history.Row, bool) {
	if selected, ok := m.list.SelectedItem().(historyListItem); ok {
		return selected.row, true
	}
	return history.Row{}, false
}

func (m Model) updateHistory(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.confirm.kind != confirmNone {
		return m.updateConfirm(msg)
	}
	if m.filtering {
		return m.updateFilter(msg)
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "?":
		m.showHelp = true
		return m, nil

	case "esc":
		if m.filterQuery != "" {
			m.filterQuery = ""
			m.filterInput.SetValue("")
			m.refreshHistory()
			return m, nil
		}
		if err := m.ctrl.BackToMain(); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		m.clearStatus()
		return m.withFocus()

	case "enter":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		if _, err := m.ctrl.ViewHistoryEntry(row.Index); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		m.clearStatus()
		m.renderResult()
		return m, nil

	case "/":
		m.filtering = true
		cmd := m.filterInput.Focus()
		return m, cmd

	case "d":
		row, ok := m.selectedRow()
		if !ok {
			return m, nil
		}
		m.confirm = pendingConfirm{
			kind:   confirmDelete,
			index:  row.Index,
			prompt: fmt.Sprintf("Delete %q from history? (y/n)", history.DisplayTitle(row.Entry)),
		}
		return m, nil

	case "C":
		if len(m.ctrl.History()) == 0 {
			return m, nil
		}
		m.confirm = pendingConfirm{
			kind:   confirmClear,
			prompt: "Clear all history? (y/n)",
		}
		return m, nil

	case "w":
		m.ctrl.DismissStorageWarning()
		return m, nil
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// updateConfirm resolves a pending delete or clear. The y/n answer here is
// the confirmation, so the controller is called with AlwaysConfirm.
func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	pending := m.confirm
	m.confirm = pendingConfirm{}

	if msg.String() != "y" && msg.String() != "Y" {
		return m, nil
	}

	var err error
	switch pending.kind {
	case confirmDelete:
		_, err = m.ctrl.DeleteHistoryEntry(pending.index, session.AlwaysConfirm)
		if err == nil {
			m.setStatus("Entry deleted", false)
		}
	case confirmClear:
		_, err = m.ctrl.ClearHistory(session.AlwaysConfirm)
		if err == nil {
			m.setStatus("History cleared", false)
		}
	}
	if err != nil {
		m.setStatus(errorText(err), true)
	}
	m.refreshHistory()
	return m, nil
}

func (m Model) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.filtering = false
		m.filterInput.Blur()
		m.filterQuery = strings.TrimSpace(m.filterInput.Value())
		m.refreshHistory()
		return m, nil

	case "esc":
		m.filtering = false
		m.filterInput.Blur()
		m.filterInput.SetValue(m.filterQuery)
		return m, nil
	}

	var cmd tea.Cmd
	m.filterInput, cmd = m.filterInput.Update(msg)
	return m, cmd
}

func (m Model) historyView() string {
	var b strings.Builder
	total := len(m.ctrl.History())

	header := fmt.Sprintf("Analysis History (%d/%d)", total, history.Capacity)
	b.WriteString(titleStyle.Render(header))
	if m.filterQuery != "" {
		b.WriteString(timestampStyle.Render(fmt.Sprintf("  filter: %s (%d shown)", m.filterQuery, len(m.rows))))
	}
	b.WriteString("\n\n")

	if m.filtering {
		b.WriteString(m.filterInput.View())
		b.WriteString("\n\n")
	}

	switch {
	case total == 0:
		b.WriteString(itemStyle.Render("No analyses yet. Results appear here once an analysis completes."))
		b.WriteString("\n")
	case len(m.rows) == 0:
		b.WriteString(itemStyle.Render("No entries match the filter."))
		b.WriteString("\n")
	default:
		b.WriteString(m.list.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case m.confirm.kind != confirmNone:
		b.WriteString(confirmStyle.Render(m.confirm.prompt))
	case m.status != "":
		b.WriteString(m.statusLine())
	}
	b.WriteString("\n")

	if m.filtering {
		b.WriteString(helpStyle.Render("enter: apply filter | esc: cancel"))
	} else {
		b.WriteString(helpStyle.Render("enter: open | /: filter | d: delete | C: clear all | esc: back | ?: help | q: quit"))
	}
	return b.String()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "unknown time"
	}
	return humanize.Time(t)
}
