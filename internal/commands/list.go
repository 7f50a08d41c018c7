package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/output"
	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
// Handles both `tasktrack` (no args) and `tasktrack list`.
type ListCmd struct {
	filter string
	long   bool
	json   bool
}

// SetFilter sets the filter name (for testing).
func (c *ListCmd) SetFilter(filter string) {
	c.filter = filter
}

// SetLong enables the long format (for testing).
func (c *ListCmd) SetLong(long bool) {
	c.long = long
}

// SetJSON enables JSON output (for testing).
func (c *ListCmd) SetJSON(json bool) {
	c.json = json
}

func (c *ListCmd) Name() string      { return "list" }
func (c *ListCmd) Aliases() []string { return []string{"ls"} }
func (c *ListCmd) Synopsis() string  { return "List tasks" }
func (c *ListCmd) Usage() string {
	return "tasktrack list [--filter all|active|completed] [--long] [--json]"
}
func (c *ListCmd) NeedsBackend() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.filter, "filter", "all", "")
	fs.StringVar(&c.filter, "f", "all", "")
	fs.BoolVar(&c.long, "long", false, "")
	fs.BoolVar(&c.long, "l", false, "")
	fs.BoolVar(&c.json, "json", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	filter, err := tasklist.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	store, code := loadStore(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return code
	}
	mirror := store.Mirror()
	mirror.SetFilter(filter)

	if c.json {
		if err := output.WriteJSON(out, mirror.Visible()); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		return exitcode.Success
	}

	// Numbers are positions in the full list so that refs stay stable
	// across filters.
	shown := 0
	for i, task := range mirror.Tasks() {
		if !filter.Match(task) {
			continue
		}
		if c.long {
			output.FormatTaskLong(out, i+1, task)
		} else {
			output.FormatTask(out, i+1, task)
		}
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, filter.EmptyMessage())
	}
	return exitcode.Success
}
