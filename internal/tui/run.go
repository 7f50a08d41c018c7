package tui

import (
	"context"
	"errors"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"tasktrack/internal/service"
)

// Run shows the interactive UI until the user quits or ctx is cancelled.
func Run(ctx context.Context, svc service.Service, logger *slog.Logger, opts ...tea.ProgramOption) error {
	m := New(ctx, svc, logger)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx), tea.WithAltScreen()}, opts...)

	m.logger.Info("tui started")
	_, err := tea.NewProgram(m, opts...).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}
	m.logger.Info("tui stopped", "tasks", m.mirror.Len())
	return err
}
