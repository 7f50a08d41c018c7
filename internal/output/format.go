// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

// DateLayout is the layout of the created/updated lines.
const DateLayout = "Jan 2, 2006, 03:04 PM"

// Location is the zone dates are shown in.
var Location = time.Local

var titleCaser = cases.Title(language.English)

// FormatTask formats a task row.
// Format: "{N:>4}  [ ] {TITLE}\n", with [x] for completed tasks.
func FormatTask(w io.Writer, num int, task service.Task) {
	fmt.Fprintf(w, "%4d  %s %s\n", num, checkbox(task.Completed), normalizeTitle(task.Title))
}

// FormatTaskLong formats a task row followed by its description and dates.
// The updated date is only shown when it differs from the created one.
func FormatTaskLong(w io.Writer, num int, task service.Task) {
	FormatTask(w, num, task)
	const indent = "          "
	if desc := strings.TrimSpace(task.Description); desc != "" {
		for _, line := range strings.Split(desc, "\n") {
			fmt.Fprintf(w, "%s%s\n", indent, strings.TrimRight(line, "\r"))
		}
	}
	if !task.CreatedAt.IsZero() {
		fmt.Fprintf(w, "%s%s\n", indent, DatesLine(task))
	}
}

// DatesLine returns "Created: ..." and, when the task changed, " • Updated: ...".
func DatesLine(task service.Task) string {
	line := "Created: " + FormatDate(task.CreatedAt)
	if task.WasUpdated() {
		line += " • Updated: " + FormatDate(task.UpdatedAt)
	}
	return line
}

// FormatDate formats t in Location.
func FormatDate(t time.Time) string {
	return t.In(Location).Format(DateLayout)
}

// FormatStats prints the total, active and completed counts.
func FormatStats(w io.Writer, s tasklist.Stats) {
	fmt.Fprintf(w, "Total:     %d\n", s.Total)
	fmt.Fprintf(w, "Active:    %d\n", s.Active)
	fmt.Fprintf(w, "Completed: %d\n", s.Completed)
}

// FilterLabel returns the display label of a filter ("All", "Active", ...).
func FilterLabel(f tasklist.Filter) string {
	return titleCaser.String(f.String())
}

// FilterTab returns a filter label with its count, e.g. "Active (2)".
func FilterTab(f tasklist.Filter, s tasklist.Stats) string {
	return fmt.Sprintf("%s (%d)", FilterLabel(f), s.Count(f))
}

// WriteJSON writes tasks in their wire representation. A nil slice is
// written as an empty array.
func WriteJSON(w io.Writer, tasks []service.Task) error {
	if tasks == nil {
		tasks = []service.Task{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tasks)
}

func checkbox(done bool) string {
	if done {
		return "[x]"
	}
	return "[ ]"
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
