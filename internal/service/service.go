// Package service defines the backend-agnostic interface for task operations.
package service

import "context"

// Service defines the interface for task backend operations.
// Every remote call goes through this interface.
// Commands and the UI never import a backend SDK directly.
//
// Each method is a single round trip. Implementations do not retry.
type Service interface {
	// ListTasks returns every task in backend order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task. An empty description is omitted.
	// Returns the server representation of the new task.
	CreateTask(ctx context.Context, title, description string) (Task, error)

	// UpdateTask applies a partial update and returns the updated task.
	UpdateTask(ctx context.Context, id ID, update TaskUpdate) (Task, error)

	// DeleteTask deletes a task.
	DeleteTask(ctx context.Context, id ID) error

	// ToggleTask flips the completion flag and returns the updated task.
	ToggleTask(ctx context.Context, id ID) (Task, error)
}
