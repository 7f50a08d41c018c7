// Package tui is the interactive terminal front end.
//
// Every backend call runs inside a tea.Cmd and comes back as an outcomeMsg.
// Update applies it to the mirror, so the mirror is only ever touched by
// the bubbletea event loop.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

// mode is what currently has keyboard focus.
type mode int

const (
	modeBrowse mode = iota // task list
	modeCreate             // "Add New Task" form
	modeEdit               // editing an open task
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
)

// outcomeMsg carries one finished backend call back to Update.
type outcomeMsg struct {
	tasklist.Outcome
}

// Model is the bubbletea model.
type Model struct {
	ctx    context.Context
	remote *tasklist.Remote
	mirror *tasklist.Mirror
	logger *slog.Logger

	browse  browseKeys
	form    formKeys
	help    help.Model
	spinner spinner.Model
	title   textinput.Model
	desc    textarea.Model

	mode    mode
	field   formField
	editing service.ID
	cursor  int
	pending int

	width  int
	height int
}

// New creates the model. The initial load starts with Init.
func New(ctx context.Context, svc service.Service, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	title := textinput.New()
	title.Placeholder = "Enter task title..."
	title.Prompt = ""
	title.CharLimit = 200
	title.Cursor.SetMode(cursor.CursorStatic)

	desc := textarea.New()
	desc.Placeholder = "Enter description (optional)..."
	desc.ShowLineNumbers = false
	desc.SetHeight(3)
	desc.Cursor.SetMode(cursor.CursorStatic)

	sp := spinner.New(spinner.WithSpinner(spinner.Dot))
	sp.Style = titleStyle

	m := &Model{
		ctx:     ctx,
		remote:  tasklist.NewRemote(svc, logger),
		mirror:  tasklist.NewMirror(),
		logger:  logger.With("component", "tui"),
		browse:  newBrowseKeys(),
		form:    newFormKeys(),
		help:    help.New(),
		spinner: sp,
		title:   title,
		desc:    desc,
	}
	m.mirror.BeginLoad()
	return m
}

// Mirror exposes the local collection.
func (m *Model) Mirror() *tasklist.Mirror { return m.mirror }

// Init starts the spinner and the initial load.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.call(m.remote.Load))
}

// Update is called when a message is received.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resizeInputs()
		return m, nil

	case outcomeMsg:
		if m.pending > 0 {
			m.pending--
		}
		// Remote already logged the failure; the mirror keeps the banner.
		_ = m.mirror.Apply(msg.Outcome)
		m.clampCursor()
		return m, nil

	case spinner.TickMsg:
		if !m.busy() {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if m.mode == modeBrowse {
			return m.updateBrowse(msg)
		}
		return m.updateForm(msg)
	}

	if m.mode != modeBrowse {
		return m, m.forwardToField(msg)
	}
	return m, nil
}

func (m *Model) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.browse
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, k.Down):
		if m.cursor < len(m.mirror.Visible())-1 {
			m.cursor++
		}
	case key.Matches(msg, k.Toggle):
		if task, ok := m.selected(); ok {
			id := task.ID
			return m, m.call(func(ctx context.Context) tasklist.Outcome { return m.remote.Toggle(ctx, id) })
		}
	case key.Matches(msg, k.New):
		return m, m.openForm(modeCreate, service.Task{})
	case key.Matches(msg, k.Edit):
		if task, ok := m.selected(); ok && m.mirror.CanEdit(task.ID) {
			return m, m.openForm(modeEdit, task)
		}
	case key.Matches(msg, k.Delete):
		if task, ok := m.selected(); ok {
			id := task.ID
			return m, m.call(func(ctx context.Context) tasklist.Outcome { return m.remote.Delete(ctx, id) })
		}
	case key.Matches(msg, k.Filter):
		m.setFilter(m.mirror.Filter().Next())
	case key.Matches(msg, k.All):
		m.setFilter(tasklist.FilterAll)
	case key.Matches(msg, k.Active):
		m.setFilter(tasklist.FilterActive)
	case key.Matches(msg, k.Done):
		m.setFilter(tasklist.FilterCompleted)
	case key.Matches(msg, k.Reload):
		if m.mirror.Loading() {
			return m, nil
		}
		m.mirror.BeginLoad()
		return m, tea.Batch(m.spinner.Tick, m.call(m.remote.Load))
	case key.Matches(msg, k.Dismiss):
		m.mirror.DismissError()
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := m.form
	switch {
	case key.Matches(msg, k.Quit):
		return m, tea.Quit
	case key.Matches(msg, k.Cancel):
		m.closeForm()
		return m, nil
	case key.Matches(msg, k.Next):
		return m, m.focusField(1 - m.field)
	case key.Matches(msg, k.Submit) && m.field == fieldTitle:
		return m, m.submit()
	}
	return m, m.forwardToField(msg)
}

// submit sends the form when the trimmed title is non-empty. The form
// closes right away; the result arrives as an outcomeMsg.
func (m *Model) submit() tea.Cmd {
	draft, err := tasklist.NewDraft(m.title.Value(), m.desc.Value())
	if err != nil {
		return nil
	}

	var cmd tea.Cmd
	switch m.mode {
	case modeCreate:
		cmd = m.call(func(ctx context.Context) tasklist.Outcome { return m.remote.Create(ctx, draft) })
	case modeEdit:
		id, update := m.editing, draft.Update()
		cmd = m.call(func(ctx context.Context) tasklist.Outcome { return m.remote.Update(ctx, id, update) })
	}
	m.closeForm()
	return cmd
}

func (m *Model) openForm(md mode, task service.Task) tea.Cmd {
	m.mode = md
	m.editing = task.ID
	m.title.SetValue(task.Title)
	m.desc.SetValue(task.Description)
	return m.focusField(fieldTitle)
}

func (m *Model) closeForm() {
	m.mode = modeBrowse
	m.editing = ""
	m.title.Reset()
	m.desc.Reset()
	m.title.Blur()
	m.desc.Blur()
}

func (m *Model) focusField(f formField) tea.Cmd {
	m.field = f
	if f == fieldTitle {
		m.desc.Blur()
		return m.title.Focus()
	}
	m.title.Blur()
	return m.desc.Focus()
}

func (m *Model) forwardToField(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if m.field == fieldTitle {
		m.title, cmd = m.title.Update(msg)
	} else {
		m.desc, cmd = m.desc.Update(msg)
	}
	return cmd
}

// call runs fn off the event loop and reports back with an outcomeMsg.
func (m *Model) call(fn func(context.Context) tasklist.Outcome) tea.Cmd {
	wasBusy := m.busy()
	m.pending++
	ctx := m.ctx
	run := func() tea.Msg {
		return outcomeMsg{fn(ctx)}
	}
	if wasBusy {
		return run
	}
	return tea.Batch(m.spinner.Tick, run)
}

func (m *Model) busy() bool {
	return m.mirror.Loading() || m.pending > 0
}

func (m *Model) selected() (service.Task, bool) {
	visible := m.mirror.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) setFilter(f tasklist.Filter) {
	m.mirror.SetFilter(f)
	m.cursor = 0
}

func (m *Model) clampCursor() {
	n := len(m.mirror.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m *Model) resizeInputs() {
	w := m.formWidth() - 4
	if w < 10 {
		w = 10
	}
	m.title.Width = w
	m.desc.SetWidth(w)
}
