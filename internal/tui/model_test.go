package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"tasktrack/internal/tasklist"
	"tasktrack/internal/testutil"
)

// runCommands executes cmd and everything it batches, feeding backend
// outcomes back into the model. Timer-driven messages are dropped.
func runCommands(m *Model, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case outcomeMsg:
			_, follow := m.Update(msg)
			queue = append(queue, follow)
		}
	}
}

func press(m *Model, s string) tea.Cmd {
	var msg tea.KeyMsg
	switch s {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	_, cmd := m.Update(msg)
	return cmd
}

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

// newLoaded returns a model over two tasks: "Write report" (open) and
// "Buy milk" (completed), after the initial load.
func newLoaded(t *testing.T) (*Model, *testutil.FakeService) {
	t.Helper()
	fake := testutil.NewFakeService()
	fake.AddTask("Write report", "Quarterly numbers", false)
	fake.AddTask("Buy milk", "", true)

	m := New(context.Background(), fake, nil)
	runCommands(m, m.Init())
	if m.Mirror().Len() != 2 {
		t.Fatalf("expected 2 tasks after load, got %d", m.Mirror().Len())
	}
	return m, fake
}

func TestInitialLoad(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("Write report", "", false)

	m := New(context.Background(), fake, nil)
	if !m.Mirror().Loading() {
		t.Fatal("expected loading before Init runs")
	}
	if !strings.Contains(m.View(), "Loading tasks...") {
		t.Errorf("expected loading screen, got:\n%s", m.View())
	}

	runCommands(m, m.Init())

	if m.Mirror().Loading() {
		t.Error("expected loading to finish")
	}
	if fake.Calls["ListTasks"] != 1 {
		t.Errorf("expected 1 list call, got %d", fake.Calls["ListTasks"])
	}
	view := m.View()
	for _, want := range []string{"Task Tracker", "Write report", "All (1)", "Active (1)", "Completed (0)"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q, got:\n%s", want, view)
		}
	}
}

func TestLoadFailureBanner(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.ListErr = errors.New("connection refused")

	m := New(context.Background(), fake, nil)
	runCommands(m, m.Init())

	want := "Failed to load tasks. Make sure the backend is running."
	if m.Mirror().Err() != want {
		t.Fatalf("expected %q, got %q", want, m.Mirror().Err())
	}
	if !strings.Contains(m.View(), want) {
		t.Errorf("expected banner in view, got:\n%s", m.View())
	}

	press(m, "x")
	if m.Mirror().Err() != "" {
		t.Errorf("expected banner dismissed, got %q", m.Mirror().Err())
	}
}

func TestReloadClearsError(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.ListErr = errors.New("connection refused")
	m := New(context.Background(), fake, nil)
	runCommands(m, m.Init())

	fake.ListErr = nil
	fake.AddTask("Write report", "", false)
	runCommands(m, press(m, "r"))

	if m.Mirror().Err() != "" {
		t.Errorf("expected error cleared, got %q", m.Mirror().Err())
	}
	if m.Mirror().Len() != 1 {
		t.Errorf("expected 1 task, got %d", m.Mirror().Len())
	}
}

func TestCreateTask(t *testing.T) {
	m, fake := newLoaded(t)

	press(m, "n")
	if m.mode != modeCreate {
		t.Fatalf("expected create mode, got %v", m.mode)
	}
	typeText(m, "  Call mom ")
	press(m, "tab")
	typeText(m, "Sunday")
	press(m, "shift+tab")
	cmd := press(m, "enter")

	if m.mode != modeBrowse {
		t.Errorf("expected form closed on submit, got %v", m.mode)
	}
	if m.title.Value() != "" || m.desc.Value() != "" {
		t.Errorf("expected cleared form, got %q / %q", m.title.Value(), m.desc.Value())
	}

	runCommands(m, cmd)

	if fake.Calls["CreateTask"] != 1 {
		t.Fatalf("expected 1 create call, got %d", fake.Calls["CreateTask"])
	}
	first := m.Mirror().Tasks()[0]
	if first.Title != "Call mom" || first.Description != "Sunday" {
		t.Errorf("expected new task first, got %+v", first)
	}
	if m.Mirror().Len() != 3 {
		t.Errorf("expected 3 tasks, got %d", m.Mirror().Len())
	}
}

func TestCreateBlankTitleDoesNotSubmit(t *testing.T) {
	m, fake := newLoaded(t)

	press(m, "n")
	typeText(m, "   ")
	if cmd := press(m, "enter"); cmd != nil {
		t.Error("expected no command for a blank title")
	}
	if m.mode != modeCreate {
		t.Errorf("expected form to stay open, got %v", m.mode)
	}
	if fake.Calls["CreateTask"] != 0 {
		t.Errorf("expected no create call, got %d", fake.Calls["CreateTask"])
	}
}

func TestEnterInDescriptionAddsNewline(t *testing.T) {
	m, fake := newLoaded(t)

	press(m, "n")
	typeText(m, "Title")
	press(m, "tab")
	typeText(m, "one")
	press(m, "enter")
	typeText(m, "two")

	if m.mode != modeCreate {
		t.Fatalf("expected form to stay open, got %v", m.mode)
	}
	if m.desc.Value() != "one\ntwo" {
		t.Errorf("expected multi-line description, got %q", m.desc.Value())
	}
	if fake.Calls["CreateTask"] != 0 {
		t.Errorf("expected no create call, got %d", fake.Calls["CreateTask"])
	}
}

func TestCancelForm(t *testing.T) {
	m, fake := newLoaded(t)

	press(m, "n")
	typeText(m, "draft")
	press(m, "esc")

	if m.mode != modeBrowse {
		t.Errorf("expected browse mode, got %v", m.mode)
	}
	if m.title.Value() != "" {
		t.Errorf("expected cleared title, got %q", m.title.Value())
	}
	if fake.Calls["CreateTask"] != 0 {
		t.Errorf("expected no create call, got %d", fake.Calls["CreateTask"])
	}
}

func TestToggleTask(t *testing.T) {
	m, fake := newLoaded(t)

	runCommands(m, press(m, "space"))

	if fake.Calls["ToggleTask"] != 1 {
		t.Fatalf("expected 1 toggle call, got %d", fake.Calls["ToggleTask"])
	}
	if !m.Mirror().Tasks()[0].Completed {
		t.Error("expected first task completed")
	}
	if m.pending != 0 {
		t.Errorf("expected no pending calls, got %d", m.pending)
	}
}

func TestToggleFailureKeepsTasks(t *testing.T) {
	m, fake := newLoaded(t)
	fake.ToggleErr = errors.New("boom")

	runCommands(m, press(m, "t"))

	if m.Mirror().Err() != "Failed to update task" {
		t.Errorf("expected update banner, got %q", m.Mirror().Err())
	}
	if m.Mirror().Tasks()[0].Completed {
		t.Error("expected task unchanged")
	}
}

func TestDeleteTask(t *testing.T) {
	m, fake := newLoaded(t)

	press(m, "j")
	runCommands(m, press(m, "d"))

	if m.Mirror().Len() != 1 {
		t.Fatalf("expected 1 task, got %d", m.Mirror().Len())
	}
	if m.Mirror().Tasks()[0].Title != "Write report" {
		t.Errorf("expected the selected task deleted, got %+v", m.Mirror().Tasks())
	}
	if len(fake.Snapshot()) != 1 {
		t.Errorf("expected backend to hold 1 task, got %d", len(fake.Snapshot()))
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestEditTask(t *testing.T) {
	m, fake := newLoaded(t)

	press(m, "e")
	if m.mode != modeEdit {
		t.Fatalf("expected edit mode, got %v", m.mode)
	}
	if m.title.Value() != "Write report" || m.desc.Value() != "Quarterly numbers" {
		t.Errorf("expected prefilled form, got %q / %q", m.title.Value(), m.desc.Value())
	}
	if !strings.Contains(m.View(), "Edit Task") {
		t.Errorf("expected edit heading, got:\n%s", m.View())
	}

	m.title.SetValue("Write the report")
	runCommands(m, press(m, "enter"))

	if fake.Calls["UpdateTask"] != 1 {
		t.Fatalf("expected 1 update call, got %d", fake.Calls["UpdateTask"])
	}
	got := m.Mirror().Tasks()[0]
	if got.Title != "Write the report" || got.Description != "Quarterly numbers" {
		t.Errorf("unexpected task after edit: %+v", got)
	}
}

func TestEditCompletedTaskIgnored(t *testing.T) {
	m, _ := newLoaded(t)

	press(m, "j")
	press(m, "e")
	if m.mode != modeBrowse {
		t.Errorf("expected completed task not editable, got %v", m.mode)
	}
}

func TestFilters(t *testing.T) {
	m, _ := newLoaded(t)

	press(m, "j")
	press(m, "tab")
	if m.Mirror().Filter() != tasklist.FilterActive {
		t.Errorf("expected active filter, got %v", m.Mirror().Filter())
	}
	if m.cursor != 0 {
		t.Errorf("expected cursor reset, got %d", m.cursor)
	}
	if len(m.Mirror().Visible()) != 1 {
		t.Errorf("expected 1 active task, got %d", len(m.Mirror().Visible()))
	}

	press(m, "tab")
	if m.Mirror().Filter() != tasklist.FilterCompleted {
		t.Errorf("expected completed filter, got %v", m.Mirror().Filter())
	}
	press(m, "tab")
	if m.Mirror().Filter() != tasklist.FilterAll {
		t.Errorf("expected wrap to all, got %v", m.Mirror().Filter())
	}

	press(m, "3")
	if task, ok := m.selected(); !ok || task.Title != "Buy milk" {
		t.Errorf("expected Buy milk selected, got %+v", task)
	}
	press(m, "2")
	if m.Mirror().Filter() != tasklist.FilterActive {
		t.Errorf("expected active filter, got %v", m.Mirror().Filter())
	}
	press(m, "1")
	if m.Mirror().Filter() != tasklist.FilterAll {
		t.Errorf("expected all filter, got %v", m.Mirror().Filter())
	}
}

func TestEmptyFilterMessage(t *testing.T) {
	fake := testutil.NewFakeService()
	fake.AddTask("Write report", "", false)
	m := New(context.Background(), fake, nil)
	runCommands(m, m.Init())

	press(m, "3")
	if !strings.Contains(m.View(), "No completed tasks yet.") {
		t.Errorf("expected empty message, got:\n%s", m.View())
	}
}

func TestLayoutWidths(t *testing.T) {
	for _, width := range []int{60, 120} {
		m, _ := newLoaded(t)
		m.Update(tea.WindowSizeMsg{Width: width, Height: 40})
		view := m.View()
		for _, want := range []string{"Add New Task", "Statistics", "Write report", "Buy milk"} {
			if !strings.Contains(view, want) {
				t.Errorf("width %d: expected %q in view", width, want)
			}
		}
	}
}

func TestQuit(t *testing.T) {
	m, _ := newLoaded(t)

	cmd := press(m, "q")
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}
