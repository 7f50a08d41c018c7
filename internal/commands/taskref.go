package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num int        // 1-based position as printed by list; 0 when ID is set
	ID  service.ID // server ID given as #<id>
}

// HasID reports whether the reference names a server ID.
func (r TaskRef) HasID() bool { return r.ID != "" }

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Parsing rules:
//  1. All digits → position in the full list (as printed by list)
//  2. #<id> → server ID
//  3. Otherwise → error: invalid task reference: <ref>
//
// Exactly one reference is accepted.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := strings.TrimSpace(args[0])
	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}
	if id, ok := strings.CutPrefix(arg, "#"); ok && strings.TrimSpace(id) != "" {
		return TaskRef{ID: service.ID(strings.TrimSpace(id))}, nil
	}
	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// ResolveTaskRef finds the referenced task in a loaded mirror.
func ResolveTaskRef(m *tasklist.Mirror, ref TaskRef) (service.Task, error) {
	if ref.HasID() {
		task, _, ok := m.Find(ref.ID)
		if !ok {
			return service.Task{}, fmt.Errorf("task not found: %s", ref.ID)
		}
		return task, nil
	}
	task, ok := m.At(ref.Num)
	if !ok {
		return service.Task{}, fmt.Errorf("task number out of range: %d", ref.Num)
	}
	return task, nil
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
