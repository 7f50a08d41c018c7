// Package cli parses the command line, builds config, logger and backend,
// and dispatches to a command.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"

	"tasktrack/internal/backend/googletasks"
	"tasktrack/internal/backend/restapi"
	"tasktrack/internal/commands"
	"tasktrack/internal/config"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/logging"
	"tasktrack/internal/service"
)

// ServiceFactory creates a Service from config.
// Used to inject the backend during dispatch.
type ServiceFactory func(ctx context.Context, cfg *config.Config) (service.Service, error)

// DefaultFactory builds the backend selected by cfg.Backend.
func DefaultFactory(ctx context.Context, cfg *config.Config) (service.Service, error) {
	switch cfg.Backend {
	case config.BackendGoogle:
		c, err := googletasks.New(ctx, cfg, cfg.Log())
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		c, err := restapi.NewFromConfig(cfg, cfg.Log())
		if err != nil {
			return nil, err
		}
		return c, nil
	}
}

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  ServiceFactory
}

// NewDispatcher creates a new dispatcher with the given registry and service
// factory. A nil factory means DefaultFactory.
func NewDispatcher(registry *commands.Registry, factory ServiceFactory) *Dispatcher {
	if factory == nil {
		factory = DefaultFactory
	}
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// No args or only flags -> list
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return d.dispatch(ctx, "list", args, out, errOut)
	}
	return d.dispatch(ctx, args[0], args[1:], out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, out, errOut)
}

// commonFlags are accepted by every command.
type commonFlags struct {
	configDir string
	quiet     bool
	debug     bool
	apiURL    string
	backend   string
}

func (f *commonFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.configDir, "config", "", "")
	fs.BoolVar(&f.quiet, "quiet", false, "")
	fs.BoolVar(&f.debug, "debug", false, "")
	fs.StringVar(&f.apiURL, "api-url", "", "")
	fs.StringVar(&f.backend, "backend", "", "")
}

func (f *commonFlags) apply(cfg *config.Config) error {
	cfg.Quiet = f.quiet
	cfg.Debug = f.debug
	if f.apiURL != "" {
		cfg.APIURL = f.apiURL
	}
	if f.backend != "" {
		cfg.Backend = f.backend
	}
	return cfg.Validate()
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	var common commonFlags
	common.register(fs)
	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	cfg, err := config.Load(common.configDir)
	if err == nil {
		err = common.apply(cfg)
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}

	logger, err := newLogger(cmd, cfg, errOut)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	defer logger.Close()
	cfg.Logger = logger.With("command", cmd.Name())

	var svc service.Service
	if cmd.NeedsBackend() {
		svc, err = d.factory(ctx, cfg)
		if err != nil {
			if service.IsAuth(err) {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
			} else {
				fmt.Fprintf(errOut, "error: %s\n", err)
			}
			return exitcode.AuthError
		}
	}

	return cmd.Run(ctx, cfg, svc, positionalArgs, out, errOut)
}

// newLogger logs to errOut, or to the log file when the command takes over
// the terminal.
func newLogger(cmd commands.Command, cfg *config.Config, errOut io.Writer) (*logging.Logger, error) {
	opts := logging.Options{
		Writer:  errOut,
		Level:   logging.LevelFor(cfg),
		NoColor: !isTerminal(errOut),
		Fluent:  cfg.Fluent,
	}
	if owner, ok := cmd.(commands.TerminalOwner); ok && owner.OwnsTerminal() {
		if err := cfg.EnsureDir(); err != nil {
			return nil, fmt.Errorf("failed to create config directory: %w", err)
		}
		opts.FilePath = cfg.LogPath()
	}
	return logging.New(opts)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
		return "flag needs an argument: " + name
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		name := strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
		return "unknown flag: " + name
	}
	return msg
}
