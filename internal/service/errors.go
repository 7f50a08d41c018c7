package service

import (
	"errors"
	"fmt"
)

// Error kinds a backend may surface. Callers treat all of them as a
// generic failure; the kinds only feed logs and exit codes.
var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrTimeout      = errors.New("request timed out")
	ErrUnavailable  = errors.New("backend unavailable")
	ErrMalformed    = errors.New("malformed response")
)

// StatusError is a non-2xx response that has no more specific kind.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.Code)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.Code, e.Body)
}

// IsAuth reports whether err means the credentials were rejected.
func IsAuth(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}
