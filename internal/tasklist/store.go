package tasklist

import (
	"context"
	"log/slog"

	"tasktrack/internal/service"
)

// Store couples a Remote with a Mirror for synchronous callers.
// Each method waits for the backend, applies the outcome, and returns
// the backend error.
type Store struct {
	remote *Remote
	mirror *Mirror
}

// NewStore creates a store over an empty mirror.
func NewStore(svc service.Service, logger *slog.Logger) *Store {
	return &Store{
		remote: NewRemote(svc, logger),
		mirror: NewMirror(),
	}
}

// Mirror exposes the local collection.
func (s *Store) Mirror() *Mirror { return s.mirror }

// Load replaces the mirror with the backend collection.
func (s *Store) Load(ctx context.Context) error {
	s.mirror.BeginLoad()
	return s.mirror.Apply(s.remote.Load(ctx))
}

// Create creates a task and prepends it.
func (s *Store) Create(ctx context.Context, d Draft) (service.Task, error) {
	o := s.remote.Create(ctx, d)
	return o.Task, s.mirror.Apply(o)
}

// Update applies a partial update and replaces the mirrored entry.
func (s *Store) Update(ctx context.Context, id service.ID, u service.TaskUpdate) (service.Task, error) {
	o := s.remote.Update(ctx, id, u)
	return o.Task, s.mirror.Apply(o)
}

// Toggle flips completion and replaces the mirrored entry.
func (s *Store) Toggle(ctx context.Context, id service.ID) (service.Task, error) {
	o := s.remote.Toggle(ctx, id)
	return o.Task, s.mirror.Apply(o)
}

// Delete removes a task from the backend and the mirror.
func (s *Store) Delete(ctx context.Context, id service.ID) error {
	return s.mirror.Apply(s.remote.Delete(ctx, id))
}
