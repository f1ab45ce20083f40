package tui

func (m Model) helpView() string {
	help := `
Product Review Analysis - Help
══════════════════════════════

MAIN VIEW
─────────
  Type         Edit the product link or article number
  Tab          Switch between single and comparison mode
  ↑/↓          Move between comparison products
  Enter        Start the analysis
  esc          Stop editing (enables the keys below)
  i            Resume editing
  h            Show analysis history
  ?            Show this help
  q            Quit

RESULTS VIEW
────────────
  c            Copy the analysis to the clipboard
  j/k          Scroll line by line
  g/G          Jump to top/bottom
  h            Show analysis history
  esc          Back to search, or to history when opened from there
  n            New analysis (back to search)
  q            Quit

HISTORY VIEW
────────────
  ↑/↓, j/k     Navigate entries
  Enter        Open the selected analysis
  /            Filter (text, type:single, type:multi, after:DATE, before:DATE)
  d            Delete the selected entry
  C            Clear all history
  esc          Back to search
  q            Quit

  w            Dismiss a storage warning
  ctrl+c       Quit from anywhere

Press any key to return
`

	return helpStyle.Render(help)
}
