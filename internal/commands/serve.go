package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"tasktrack/internal/backend/restapi"
	"tasktrack/internal/config"
	"tasktrack/internal/devserver"
	"tasktrack/internal/exitcode"
	"tasktrack/internal/service"
)

func init() {
	Register(&ServeCmd{})
}

// ServeCmd runs the in-memory development task service.
type ServeCmd struct {
	addr string
}

func (c *ServeCmd) Name() string       { return "serve" }
func (c *ServeCmd) Aliases() []string  { return nil }
func (c *ServeCmd) Synopsis() string   { return "Run the in-memory development task service" }
func (c *ServeCmd) Usage() string      { return "tasktrack serve [--addr <host:port>]" }
func (c *ServeCmd) NeedsBackend() bool { return false }

func (c *ServeCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.addr, "addr", "", "")
}

func (c *ServeCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	addr := c.addr
	if addr == "" {
		addr = cfg.ServeAddr
	}
	if addr == "" {
		addr = config.DefaultServeAddr
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "serving %s on %s\n", restapi.CollectionPath, addr)
	}
	if err := devserver.New(cfg.Log()).Run(ctx, addr); err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}
	return exitcode.Success
}
