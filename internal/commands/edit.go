package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

func init() {
	Register(&EditCmd{})
}

// optionalString is a string flag that remembers whether it was given.
type optionalString struct {
	value string
	set   bool
}

func (o *optionalString) String() string { return o.value }

func (o *optionalString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

func (o *optionalString) ptr() *string {
	if !o.set {
		return nil
	}
	v := o.value
	return &v
}

// EditCmd implements the edit command.
type EditCmd struct {
	title       optionalString
	description optionalString
}

// SetTitle sets the new title (for testing).
func (c *EditCmd) SetTitle(title string) { _ = c.title.Set(title) }

// SetDescription sets the new description (for testing).
func (c *EditCmd) SetDescription(desc string) { _ = c.description.Set(desc) }

func (c *EditCmd) Name() string       { return "edit" }
func (c *EditCmd) Aliases() []string  { return nil }
func (c *EditCmd) Synopsis() string   { return "Change the title or description of an open task" }
func (c *EditCmd) Usage() string      { return "tasktrack edit [--title <title>] [--desc <text>] <ref>" }
func (c *EditCmd) NeedsBackend() bool { return true }

func (c *EditCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description = optionalString{}, optionalString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.title, "t", "")
	fs.Var(&c.description, "desc", "")
	fs.Var(&c.description, "d", "")
}

func (c *EditCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	update, err := tasklist.PartialUpdate(c.title.ptr(), c.description.ptr())
	if err != nil {
		if errors.Is(err, tasklist.ErrTitleRequired) {
			fmt.Fprintln(errOut, "error: title required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return exitcode.UserError
	}
	if update.Empty() {
		fmt.Fprintln(errOut, "error: nothing to change (use --title or --desc)")
		return exitcode.UserError
	}

	store, task, code := lookupTask(ctx, cfg, svc, args, errOut)
	if code != exitcode.Success {
		return code
	}
	if !store.Mirror().CanEdit(task.ID) {
		fmt.Fprintln(errOut, "error: completed tasks cannot be edited")
		return exitcode.UserError
	}

	if _, err := store.Update(ctx, task.ID, update); err != nil {
		return failed(errOut, store)
	}
	return done(cfg, out)
}
