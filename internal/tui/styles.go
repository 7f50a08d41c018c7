package tui

import "github.com/charmbracelet/lipgloss"

var (
	accent  = lipgloss.Color("#5B8DEF")
	success = lipgloss.Color("#4CAF50")
	danger  = lipgloss.Color("#FF6B6B")
	muted   = lipgloss.Color("#888888")
	subtle  = lipgloss.Color("#444444")

	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(accent)
	subtitleStyle = lipgloss.NewStyle().Foreground(muted)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(subtle).
			Padding(0, 1)
	focusedPanelStyle = panelStyle.BorderForeground(accent)
	panelTitleStyle   = lipgloss.NewStyle().Bold(true)
	labelStyle        = lipgloss.NewStyle().Foreground(muted)

	errorStyle = lipgloss.NewStyle().
			Foreground(danger).
			Border(lipgloss.NormalBorder()).
			BorderForeground(danger).
			Padding(0, 1)

	tabStyle       = lipgloss.NewStyle().Padding(0, 1).Foreground(muted)
	activeTabStyle = lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(accent)

	cursorStyle    = lipgloss.NewStyle().Foreground(accent).Bold(true)
	openTitle      = lipgloss.NewStyle().Bold(true)
	doneTitle      = lipgloss.NewStyle().Strikethrough(true).Foreground(muted)
	descStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#AAAAAA"))
	doneDescStyle  = descStyle.Strikethrough(true).Foreground(muted)
	datesStyle     = lipgloss.NewStyle().Foreground(muted)
	activeCount    = lipgloss.NewStyle().Foreground(accent).Bold(true)
	completedCount = lipgloss.NewStyle().Foreground(success).Bold(true)
	emptyStyle     = lipgloss.NewStyle().Foreground(muted).Italic(true).Padding(1, 2)
)
