package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tasktrack/internal/output"
	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

const (
	defaultWidth = 100
	// Below this width the panels stack instead of sitting side by side.
	twoColumnWidth = 90
)

// View renders the model.
func (m *Model) View() string {
	if m.mirror.Loading() {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderHeader(),
			"",
			m.spinner.View()+" Loading tasks...",
		)
	}

	sections := []string{m.renderHeader()}
	if banner := m.renderError(); banner != "" {
		sections = append(sections, banner)
	}
	sections = append(sections, m.renderBody(), m.renderHelp())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) renderHeader() string {
	head := titleStyle.Render("Task Tracker")
	if m.pending > 0 {
		head += " " + m.spinner.View()
	}
	return lipgloss.JoinVertical(lipgloss.Left, head, subtitleStyle.Render("Manage your tasks efficiently"))
}

func (m *Model) renderError() string {
	msg := m.mirror.Err()
	if msg == "" {
		return ""
	}
	return errorStyle.Render(msg + "  " + subtitleStyle.Render("(x to dismiss)"))
}

func (m *Model) renderBody() string {
	width := m.totalWidth()
	if width < twoColumnWidth {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderForm(width),
			m.renderStats(width),
			m.renderTasks(width),
		)
	}
	left := lipgloss.JoinVertical(lipgloss.Left,
		m.renderForm(m.formWidth()),
		m.renderStats(m.formWidth()),
	)
	return lipgloss.JoinHorizontal(lipgloss.Top, left, m.renderTasks(width-m.formWidth()-1))
}

func (m *Model) renderForm(width int) string {
	heading := "Add New Task"
	if m.mode == modeEdit {
		heading = "Edit Task"
	}
	lines := []string{
		panelTitleStyle.Render(heading),
		labelStyle.Render("Title *"),
		m.title.View(),
		labelStyle.Render("Description"),
		m.desc.View(),
	}
	if m.mode == modeBrowse {
		lines = append(lines, subtitleStyle.Render("press n to add a task"))
	}
	style := panelStyle
	if m.mode != modeBrowse {
		style = focusedPanelStyle
	}
	return style.Width(panelInner(width)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderStats(width int) string {
	s := m.mirror.Stats()
	lines := []string{
		panelTitleStyle.Render("Statistics"),
		fmt.Sprintf("%s %d", labelStyle.Render("Total:    "), s.Total),
		fmt.Sprintf("%s %s", labelStyle.Render("Active:   "), activeCount.Render(fmt.Sprint(s.Active))),
		fmt.Sprintf("%s %s", labelStyle.Render("Completed:"), completedCount.Render(fmt.Sprint(s.Completed))),
	}
	return panelStyle.Width(panelInner(width)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTasks(width int) string {
	stats := m.mirror.Stats()
	current := m.mirror.Filter()

	tabs := make([]string, 0, len(tasklist.Filters))
	for _, f := range tasklist.Filters {
		style := tabStyle
		if f == current {
			style = activeTabStyle
		}
		tabs = append(tabs, style.Render(output.FilterTab(f, stats)))
	}
	lines := []string{lipgloss.JoinHorizontal(lipgloss.Top, tabs...), ""}

	visible := m.mirror.Visible()
	if len(visible) == 0 {
		lines = append(lines, emptyStyle.Render(current.EmptyMessage()))
	}
	for i, task := range visible {
		lines = append(lines, m.renderTask(task, i == m.cursor && m.mode == modeBrowse))
	}

	style := panelStyle
	if m.mode == modeBrowse {
		style = focusedPanelStyle
	}
	return style.Width(panelInner(width)).Render(strings.Join(lines, "\n"))
}

func (m *Model) renderTask(task service.Task, selected bool) string {
	marker := "  "
	if selected {
		marker = cursorStyle.Render("> ")
	}
	box, title, desc := "[ ]", openTitle, descStyle
	if task.Completed {
		box, title, desc = "[x]", doneTitle, doneDescStyle
	}

	lines := []string{marker + box + " " + title.Render(task.Title)}
	if d := strings.TrimSpace(task.Description); d != "" {
		for _, line := range strings.Split(d, "\n") {
			lines = append(lines, "      "+desc.Render(line))
		}
	}
	if !task.CreatedAt.IsZero() {
		lines = append(lines, "      "+datesStyle.Render(output.DatesLine(task)))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderHelp() string {
	if m.mode == modeBrowse {
		return m.help.View(m.browse)
	}
	return m.help.View(m.form)
}

func (m *Model) totalWidth() int {
	if m.width <= 0 {
		return defaultWidth
	}
	return m.width
}

func (m *Model) formWidth() int {
	w := m.totalWidth()
	if w < twoColumnWidth {
		return w
	}
	return w / 3
}

// panelInner is the content width of a bordered, padded panel.
func panelInner(width int) int {
	return max(20, width-4)
}
