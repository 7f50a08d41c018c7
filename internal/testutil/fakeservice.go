// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"strconv"
	"sync"
	"time"

	"tasktrack/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// New tasks are placed first, matching the reference backend's newest-first order.
type FakeService struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int
	now    func() time.Time

	// Error injection for testing
	ListErr   error
	CreateErr error
	UpdateErr error
	DeleteErr error
	ToggleErr error

	// Calls counts backend calls by method name.
	Calls map[string]int
}

// NewFakeService creates an empty FakeService.
func NewFakeService() *FakeService {
	base := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	return &FakeService{
		nextID: 1,
		Calls:  make(map[string]int),
		now: func() time.Time {
			tick++
			return base.Add(time.Duration(tick) * time.Minute)
		},
	}
}

// AddTask appends a task as if it had been created earlier and returns its ID.
func (f *FakeService) AddTask(title, description string, completed bool) service.ID {
	f.mu.Lock()
	defer f.mu.Unlock()
	ts := f.now()
	task := service.Task{
		ID:          service.ID(strconv.Itoa(f.nextID)),
		Title:       title,
		Description: description,
		Completed:   completed,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	f.nextID++
	f.tasks = append(f.tasks, task)
	return task.ID
}

// Snapshot returns the backend's current tasks.
func (f *FakeService) Snapshot() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

func (f *FakeService) record(name string) {
	f.Calls[name]++
}

func (f *FakeService) index(id service.ID) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// ListTasks implements service.Service.
func (f *FakeService) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ListTasks")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out, nil
}

// CreateTask implements service.Service.
func (f *FakeService) CreateTask(ctx context.Context, title, description string) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	if f.CreateErr != nil {
		return service.Task{}, f.CreateErr
	}
	ts := f.now()
	task := service.Task{
		ID:          service.ID(strconv.Itoa(f.nextID)),
		Title:       title,
		Description: description,
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	f.nextID++
	f.tasks = append([]service.Task{task}, f.tasks...)
	return task, nil
}

// UpdateTask implements service.Service.
func (f *FakeService) UpdateTask(ctx context.Context, id service.ID, update service.TaskUpdate) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	if f.UpdateErr != nil {
		return service.Task{}, f.UpdateErr
	}
	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	if update.Title != nil {
		f.tasks[i].Title = *update.Title
	}
	if update.Description != nil {
		f.tasks[i].Description = *update.Description
	}
	f.tasks[i].UpdatedAt = f.now()
	return f.tasks[i], nil
}

// DeleteTask implements service.Service.
func (f *FakeService) DeleteTask(ctx context.Context, id service.ID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask")
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	i := f.index(id)
	if i < 0 {
		return service.ErrNotFound
	}
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return nil
}

// ToggleTask implements service.Service.
func (f *FakeService) ToggleTask(ctx context.Context, id service.ID) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("ToggleTask")
	if f.ToggleErr != nil {
		return service.Task{}, f.ToggleErr
	}
	i := f.index(id)
	if i < 0 {
		return service.Task{}, service.ErrNotFound
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	f.tasks[i].UpdatedAt = f.now()
	return f.tasks[i], nil
}
