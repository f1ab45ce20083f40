package tui

import (
	"fmt"
	"strings"
)

func (m Model) loadingView() string {
	p := m.ctrl.View().Progress
	var b strings.Builder

	b.WriteString(titleStyle.Render("Analyzing reviews"))
	b.WriteString("\n\n")
	b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), p.Message))
	b.WriteString(m.progress.ViewAs(p.Fraction))
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("This can take a few minutes • ctrl+c: quit"))
	return b.String()
}
