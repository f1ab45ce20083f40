package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/neilberkman/reviewrider/internal/core/models"
)

func (m Model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	mode := m.ctrl.View().Mode

	switch msg.String() {
	case "enter":
		return m.startAnalysis()

	case "tab":
		next := models.ModeMulti
		if mode == models.ModeMulti {
			next = models.ModeSingle
		}
		if err := m.ctrl.SetMode(next); err != nil {
			m.setStatus(errorText(err), true)
			return m, nil
		}
		m.focus = 0
		return m.withFocus()

	case "up", "shift+tab":
		if mode == models.ModeMulti && m.focus > 0 {
			m.focus--
			return m.withFocus()
		}
		return m, nil

	case "down":
		if mode == models.ModeMulti && m.focus < models.ComparisonSlots-1 {
			m.focus++
			return m.withFocus()
		}
		return m, nil
	}

	if !m.editing {
		switch msg.String() {
		case "q":
			return m, tea.Quit
		case "?":
			m.showHelp = true
			return m, nil
		case "h":
			if err := m.ctrl.OpenHistory(); err != nil {
				m.setStatus(errorText(err), true)
				return m, nil
			}
			m.clearStatus()
			m.refreshHistory()
			return m, nil
		case "w":
			m.ctrl.DismissStorageWarning()
			return m, nil
		case "i", "e":
			m.editing = true
			return m.withFocus()
		}
		return m, nil
	}

	if msg.String() == "esc" {
		m.editing = false
		m.blurInputs()
		return m, nil
	}

	var cmd tea.Cmd
	if mode == models.ModeMulti {
		m.slotInputs[m.focus], cmd = m.slotInputs[m.focus].Update(msg)
		if err := m.ctrl.SetComparisonInput(m.focus+1, m.slotInputs[m.focus].Value()); err != nil {
			m.setStatus(errorText(err), true)
		}
	} else {
		m.singleInput, cmd = m.singleInput.Update(msg)
		m.ctrl.SetSingleInput(m.singleInput.Value())
	}
	return m, cmd
}

// withFocus returns the model with the current input focused
func (m Model) withFocus() (tea.Model, tea.Cmd) {
	cmd := m.focusInput()
	return m, cmd
}

// focusInput focuses the input for the current mode and slot
func (m *Model) focusInput() tea.Cmd {
	m.blurInputs()
	m.editing = true
	if m.ctrl.View().Mode == models.ModeMulti {
		return m.slotInputs[m.focus].Focus()
	}
	return m.singleInput.Focus()
}

func (m *Model) blurInputs() {
	m.singleInput.Blur()
	for i := range m.slotInputs {
		m.slotInputs[i].Blur()
	}
}

func (m Model) mainView() string {
	v := m.ctrl.View()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Product Review Analysis"))
	b.WriteString("  ")
	if v.Mode == models.ModeMulti {
		b.WriteString(modeStyle.Render("Compare products"))
	} else {
		b.WriteString(modeStyle.Render("Single product"))
	}
	b.WriteString("\n\n")

	if v.Mode == models.ModeMulti {
		b.WriteString(labelStyle.Render("Enter two to four products to compare:"))
		b.WriteString("\n\n")
		for i := range m.slotInputs {
			label := labelStyle
			if m.editing && i == m.focus {
				label = activeLabelStyle
			}
			b.WriteString(label.Render(fmt.Sprintf("Product %d", i+1)))
			b.WriteString("\n")
			b.WriteString(m.slotInputs[i].View())
			b.WriteString("\n")
		}
	} else {
		b.WriteString(labelStyle.Render("Enter a product link or article number:"))
		b.WriteString("\n\n")
		b.WriteString(m.singleInput.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if line := m.statusLine(); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	if m.editing {
		b.WriteString(helpStyle.Render("enter: analyze • tab: switch mode • ↑/↓: product • esc: stop editing • ctrl+c: quit"))
	} else {
		b.WriteString(helpStyle.Render(fmt.Sprintf("enter: analyze • tab: switch mode • i: edit • h: history (%d) • ?: help • q: quit", len(v.History))))
	}
	return b.String()
}
