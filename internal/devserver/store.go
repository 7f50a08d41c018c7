// Package devserver is an in-memory stand-in for the remote task service.
// It serves the same JSON CRUD API the restapi client talks to, so the
// client can run end to end without the real backend.
package devserver

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"
)

// MaxTitleLength is the longest title the service accepts.
const MaxTitleLength = 200

var errNotFound = errors.New("not found")

// validationError is a rejected field, reported as {"field": ["message"]}.
type validationError struct {
	Field   string
	Message string
}

func (e *validationError) Error() string { return e.Field + ": " + e.Message }

var (
	errTitleRequired = &validationError{"title", "This field is required."}
	errTitleBlank    = &validationError{"title", "This field may not be blank."}
	errTitleTooLong  = &validationError{"title", "Ensure this field has no more than 200 characters."}
)

// Todo is the service-side record.
type Todo struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// patch carries the writable fields of a request body.
type patch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// Store keeps todos in memory. Safe for concurrent use.
type Store struct {
	mu     sync.Mutex
	todos  map[int]*Todo
	nextID int
	now    func() time.Time
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		todos:  make(map[int]*Todo),
		nextID: 1,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// List returns todos newest first.
func (s *Store) List() []Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Todo, 0, len(s.todos))
	for _, t := range s.todos {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// Get returns one todo.
func (s *Store) Get(id int) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return Todo{}, errNotFound
	}
	return *t, nil
}

// Create adds a todo. Title is required.
func (s *Store) Create(p patch) (Todo, error) {
	if p.Title == nil {
		return Todo{}, errTitleRequired
	}
	title, err := cleanTitle(*p.Title)
	if err != nil {
		return Todo{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	t := &Todo{
		ID:        s.nextID,
		Title:     title,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	s.nextID++
	s.todos[t.ID] = t
	return *t, nil
}

// Update applies p. With full set (PUT) the title is required; absent
// optional fields keep their values either way.
func (s *Store) Update(id int, p patch, full bool) (Todo, error) {
	if full && p.Title == nil {
		return Todo{}, errTitleRequired
	}
	var title string
	if p.Title != nil {
		var err error
		if title, err = cleanTitle(*p.Title); err != nil {
			return Todo{}, err
		}
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return Todo{}, errNotFound
	}
	if p.Title != nil {
		t.Title = title
	}
	if p.Description != nil {
		t.Description = strings.TrimSpace(*p.Description)
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	t.UpdatedAt = s.now()
	return *t, nil
}

// Toggle flips completion.
func (s *Store) Toggle(id int) (Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return Todo{}, errNotFound
	}
	t.Completed = !t.Completed
	t.UpdatedAt = s.now()
	return *t, nil
}

// Delete removes a todo.
func (s *Store) Delete(id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.todos[id]; !ok {
		return errNotFound
	}
	delete(s.todos, id)
	return nil
}

func cleanTitle(title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", errTitleBlank
	}
	if len([]rune(title)) > MaxTitleLength {
		return "", errTitleTooLong
	}
	return title, nil
}
