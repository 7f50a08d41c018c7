package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
	"tasktrack/internal/tasklist"
)

// loadStore loads the backend collection into a fresh store.
// On failure it prints the load message and returns BackendError.
func loadStore(ctx context.Context, cfg *config.Config, svc service.Service, errOut io.Writer) (*tasklist.Store, int) {
	store := tasklist.NewStore(svc, cfg.Log())
	if err := store.Load(ctx); err != nil {
		return nil, failed(errOut, store)
	}
	return store, exitcode.Success
}

// lookupTask parses a task reference, loads the collection and resolves it.
func lookupTask(ctx context.Context, cfg *config.Config, svc service.Service, args []string, errOut io.Writer) (*tasklist.Store, service.Task, int) {
	ref, err := ParseTaskRef(args)
	if err != nil {
		if errors.Is(err, ErrTaskRefRequired) {
			fmt.Fprintln(errOut, "error: task reference required")
		} else {
			fmt.Fprintf(errOut, "error: %v\n", err)
		}
		return nil, service.Task{}, exitcode.UserError
	}

	store, code := loadStore(ctx, cfg, svc, errOut)
	if code != exitcode.Success {
		return nil, service.Task{}, code
	}

	task, err := ResolveTaskRef(store.Mirror(), ref)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return nil, service.Task{}, exitcode.UserError
	}
	return store, task, exitcode.Success
}

// failed prints the mirror's error banner.
func failed(errOut io.Writer, store *tasklist.Store) int {
	fmt.Fprintf(errOut, "error: %s\n", store.Mirror().Err())
	return exitcode.BackendError
}

// done prints "ok" unless quiet.
func done(cfg *config.Config, out io.Writer) int {
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
