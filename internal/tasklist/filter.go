package tasklist

import (
	"fmt"
	"strings"

	"tasktrack/internal/service"
)

// Filter is a client-only view predicate over the mirror.
type Filter int

const (
	FilterAll Filter = iota
	FilterActive
	FilterCompleted
)

// Filters lists every filter in display order.
var Filters = []Filter{FilterAll, FilterActive, FilterCompleted}

func (f Filter) String() string {
	switch f {
	case FilterActive:
		return "active"
	case FilterCompleted:
		return "completed"
	default:
		return "all"
	}
}

// ParseFilter parses a filter name (case-insensitive). Empty means all.
func ParseFilter(s string) (Filter, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "all":
		return FilterAll, nil
	case "active":
		return FilterActive, nil
	case "completed":
		return FilterCompleted, nil
	}
	return FilterAll, fmt.Errorf("invalid filter: %s", s)
}

// Match reports whether a task is visible under the filter.
func (f Filter) Match(t service.Task) bool {
	switch f {
	case FilterActive:
		return !t.Completed
	case FilterCompleted:
		return t.Completed
	default:
		return true
	}
}

// Next returns the following filter, wrapping around.
func (f Filter) Next() Filter {
	return Filters[(int(f)+1)%len(Filters)]
}

// EmptyMessage is shown when nothing matches the filter.
func (f Filter) EmptyMessage() string {
	switch f {
	case FilterActive:
		return "No active tasks. Great job!"
	case FilterCompleted:
		return "No completed tasks yet."
	default:
		return "No tasks yet. Create your first task!"
	}
}

// Stats are counts derived from the mirror.
type Stats struct {
	Total     int
	Active    int
	Completed int
}

// Count returns the number of tasks the filter would show.
func (s Stats) Count(f Filter) int {
	switch f {
	case FilterActive:
		return s.Active
	case FilterCompleted:
		return s.Completed
	default:
		return s.Total
	}
}
