package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
	"tasktrack/internal/tui"
)

func init() {
	Register(&TuiCmd{})
}

// TuiRunner starts the interactive UI.
type TuiRunner func(ctx context.Context, svc service.Service, logger *slog.Logger) error

// TuiCmd implements the tui command.
type TuiCmd struct {
	run TuiRunner
}

// SetRunner replaces the UI entry point (for testing).
func (c *TuiCmd) SetRunner(r TuiRunner) {
	c.run = r
}

func (c *TuiCmd) Name() string       { return "tui" }
func (c *TuiCmd) Aliases() []string  { return nil }
func (c *TuiCmd) Synopsis() string   { return "Open the interactive task manager" }
func (c *TuiCmd) Usage() string      { return "tasktrack tui" }
func (c *TuiCmd) NeedsBackend() bool { return true }
func (c *TuiCmd) OwnsTerminal() bool { return true }

func (c *TuiCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *TuiCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	run := c.run
	if run == nil {
		run = func(ctx context.Context, svc service.Service, logger *slog.Logger) error {
			return tui.Run(ctx, svc, logger)
		}
	}
	if err := run(ctx, svc, cfg.Log()); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
