package tasklist

import (
	"errors"
	"strings"

	"tasktrack/internal/service"
)

// ErrTitleRequired is returned for a title that is empty after trimming.
var ErrTitleRequired = errors.New("title required")

// Draft is validated form input: both fields trimmed, title non-empty.
type Draft struct {
	Title       string
	Description string
}

// NewDraft trims the input and rejects an empty title.
func NewDraft(title, description string) (Draft, error) {
	d := Draft{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
	if d.Title == "" {
		return Draft{}, ErrTitleRequired
	}
	return d, nil
}

// Update converts an edit form into a partial update carrying both fields.
func (d Draft) Update() service.TaskUpdate {
	title, desc := d.Title, d.Description
	return service.TaskUpdate{Title: &title, Description: &desc}
}

// PartialUpdate trims the fields that are set and rejects a blank title.
// Unset fields stay nil so the backend leaves them unchanged.
func PartialUpdate(title, description *string) (service.TaskUpdate, error) {
	var u service.TaskUpdate
	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return service.TaskUpdate{}, ErrTitleRequired
		}
		u.Title = &t
	}
	if description != nil {
		d := strings.TrimSpace(*description)
		u.Description = &d
	}
	return u, nil
}
