package tasklist

import (
	"context"
	"log/slog"

	"tasktrack/internal/service"
)

// Action identifies the user action behind a backend call.
type Action int

const (
	ActionLoad Action = iota
	ActionCreate
	ActionUpdate
	ActionToggle
	ActionDelete
)

func (a Action) String() string {
	switch a {
	case ActionCreate:
		return "create"
	case ActionUpdate:
		return "update"
	case ActionToggle:
		return "toggle"
	case ActionDelete:
		return "delete"
	default:
		return "load"
	}
}

// Message is the user-facing banner for a failed action.
// Every failure of an action collapses to its single message.
func (a Action) Message() string {
	switch a {
	case ActionCreate:
		return "Failed to create task"
	case ActionUpdate, ActionToggle:
		return "Failed to update task"
	case ActionDelete:
		return "Failed to delete task"
	default:
		return "Failed to load tasks. Make sure the backend is running."
	}
}

// Outcome is the result of one backend round trip.
type Outcome struct {
	Action Action
	ID     service.ID     // target of update, toggle and delete
	Task   service.Task   // server representation after create, update, toggle
	Tasks  []service.Task // full collection after load
	Err    error
}

// Remote performs backend calls and reports each as an Outcome.
// It never touches a Mirror, so calls can run off the UI goroutine.
type Remote struct {
	svc    service.Service
	logger *slog.Logger
}

// NewRemote wraps a backend. A nil logger discards records.
func NewRemote(svc service.Service, logger *slog.Logger) *Remote {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Remote{svc: svc, logger: logger.With("component", "tasklist")}
}

// Load fetches the full collection.
func (r *Remote) Load(ctx context.Context) Outcome {
	tasks, err := r.svc.ListTasks(ctx)
	o := Outcome{Action: ActionLoad, Tasks: tasks, Err: err}
	r.report(o)
	return o
}

// Create submits a validated draft.
func (r *Remote) Create(ctx context.Context, d Draft) Outcome {
	task, err := r.svc.CreateTask(ctx, d.Title, d.Description)
	o := Outcome{Action: ActionCreate, ID: task.ID, Task: task, Err: err}
	r.report(o)
	return o
}

// Update applies a partial update to one task.
func (r *Remote) Update(ctx context.Context, id service.ID, u service.TaskUpdate) Outcome {
	task, err := r.svc.UpdateTask(ctx, id, u)
	o := Outcome{Action: ActionUpdate, ID: id, Task: task, Err: err}
	r.report(o)
	return o
}

// Toggle flips a task's completion flag.
func (r *Remote) Toggle(ctx context.Context, id service.ID) Outcome {
	task, err := r.svc.ToggleTask(ctx, id)
	o := Outcome{Action: ActionToggle, ID: id, Task: task, Err: err}
	r.report(o)
	return o
}

// Delete removes a task.
func (r *Remote) Delete(ctx context.Context, id service.ID) Outcome {
	err := r.svc.DeleteTask(ctx, id)
	o := Outcome{Action: ActionDelete, ID: id, Err: err}
	r.report(o)
	return o
}

func (r *Remote) report(o Outcome) {
	if o.Err != nil {
		r.logger.Error("task action failed",
			"action", o.Action.String(),
			"task_id", o.ID.String(),
			"error", o.Err)
		return
	}
	if o.Action == ActionLoad {
		r.logger.Debug("tasks loaded", "count", len(o.Tasks))
		return
	}
	r.logger.Debug("task action done", "action", o.Action.String(), "task_id", o.ID.String())
}
