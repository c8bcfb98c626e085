package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

func init() {
	Register(&StatusCmd{})
}

// StatusCmd implements the status command.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return []string{"whoami"} }
func (c *StatusCmd) Synopsis() string   { return "Show the signed-in account" }
func (c *StatusCmd) Usage() string      { return "taskhub status [common flags]" }
func (c *StatusCmd) NeedsBackend() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}
	fmt.Fprintln(out, session.Match(st,
		func() string { return "signed out" },
		func(u service.User) string { return "signed in as " + u.Email },
	))
	return exitcode.Success
}
