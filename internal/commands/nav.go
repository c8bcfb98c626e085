package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/nav"
	"taskhub/internal/output"
	"taskhub/internal/routes"
)

func init() {
	Register(&NavCmd{})
}

// NavCmd implements the nav command.
type NavCmd struct {
	route string
}

func (c *NavCmd) Name() string       { return "nav" }
func (c *NavCmd) Aliases() []string  { return nil }
func (c *NavCmd) Synopsis() string   { return "Show navigation links" }
func (c *NavCmd) Usage() string      { return "taskhub nav [common flags] [--route <path>]" }
func (c *NavCmd) NeedsBackend() bool { return true }

func (c *NavCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.route, "route", routes.Root, "")
}

// SetRoute sets the current route (for testing).
func (c *NavCmd) SetRoute(route string) {
	c.route = route
}

func (c *NavCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	r, err := routes.Resolve(c.route)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}
	if bar, visible := nav.Build(r.Path, st); visible {
		output.FormatNav(out, bar)
	}
	return exitcode.Success
}
