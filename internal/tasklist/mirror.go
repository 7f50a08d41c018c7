// Package tasklist holds the local mirror of the remote task collection and
// reconciles it with backend responses.
//
// Mutations are never speculative: an action reaches the mirror only as an
// Outcome, after the backend has answered. The mirror is not safe for
// concurrent use; the goroutine that owns it applies every outcome.
package tasklist

import (
	"tasktrack/internal/service"
)

// Mirror is the client's in-memory copy of the server's task collection
// plus the active filter and the current error banner.
type Mirror struct {
	tasks   []service.Task
	filter  Filter
	errMsg  string
	loading bool
}

// NewMirror returns an empty mirror showing all tasks.
func NewMirror() *Mirror {
	return &Mirror{}
}

// Tasks returns a copy of the full collection in mirror order.
func (m *Mirror) Tasks() []service.Task {
	out := make([]service.Task, len(m.tasks))
	copy(out, m.tasks)
	return out
}

// Len returns the number of mirrored tasks.
func (m *Mirror) Len() int { return len(m.tasks) }

// Filter returns the active filter.
func (m *Mirror) Filter() Filter { return m.filter }

// SetFilter changes the active filter.
func (m *Mirror) SetFilter(f Filter) { m.filter = f }

// Loading reports whether a full load is in flight.
func (m *Mirror) Loading() bool { return m.loading }

// BeginLoad marks a full load as in flight.
func (m *Mirror) BeginLoad() { m.loading = true }

// Err returns the banner message, or "" when there is none.
func (m *Mirror) Err() string { return m.errMsg }

// DismissError clears the banner.
func (m *Mirror) DismissError() { m.errMsg = "" }

// Visible returns the tasks matching the active filter, in mirror order.
func (m *Mirror) Visible() []service.Task {
	return m.Select(m.filter)
}

// Select returns the tasks matching f, in mirror order.
func (m *Mirror) Select(f Filter) []service.Task {
	out := make([]service.Task, 0, len(m.tasks))
	for _, t := range m.tasks {
		if f.Match(t) {
			out = append(out, t)
		}
	}
	return out
}

// Stats counts the mirror by completion state.
func (m *Mirror) Stats() Stats {
	s := Stats{Total: len(m.tasks)}
	for _, t := range m.tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}

// Find returns the task with the given ID and its position in the mirror.
func (m *Mirror) Find(id service.ID) (service.Task, int, bool) {
	for i, t := range m.tasks {
		if t.ID == id {
			return t, i, true
		}
	}
	return service.Task{}, -1, false
}

// At returns the task at a 1-based position in the full mirror.
func (m *Mirror) At(num int) (service.Task, bool) {
	if num < 1 || num > len(m.tasks) {
		return service.Task{}, false
	}
	return m.tasks[num-1], true
}

// CanEdit reports whether the task exists and is still open.
// Completed tasks are toggled or deleted, not edited.
func (m *Mirror) CanEdit(id service.ID) bool {
	t, _, ok := m.Find(id)
	return ok && !t.Completed
}

// Apply reconciles the mirror with one backend answer and returns its error.
func (m *Mirror) Apply(o Outcome) error {
	if o.Action == ActionLoad {
		m.loading = false
	}
	if o.Err != nil {
		if o.Action == ActionLoad {
			m.tasks = nil
		}
		m.errMsg = o.Action.Message()
		return o.Err
	}

	switch o.Action {
	case ActionLoad:
		m.tasks = append([]service.Task(nil), o.Tasks...)
		m.errMsg = ""
	case ActionCreate:
		m.tasks = append([]service.Task{o.Task}, m.tasks...)
	case ActionUpdate, ActionToggle:
		if _, i, ok := m.Find(o.ID); ok {
			m.tasks[i] = o.Task
		}
	case ActionDelete:
		if _, i, ok := m.Find(o.ID); ok {
			m.tasks = append(m.tasks[:i:i], m.tasks[i+1:]...)
		}
	}
	return nil
}
