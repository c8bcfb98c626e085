package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/output"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command: the full task, as opened by Read More.
type ShowCmd struct{}

func (c *ShowCmd) Name() string       { return "show" }
func (c *ShowCmd) Aliases() []string  { return []string{"readmore"} }
func (c *ShowCmd) Synopsis() string   { return "Show a task with its full description" }
func (c *ShowCmd) Usage() string      { return "taskhub show [common flags] <id|number>" }
func (c *ShowCmd) NeedsBackend() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}
	return session.Match(st,
		func() int {
			fmt.Fprintln(errOut, msgNotLoggedIn)
			return exitcode.AuthError
		},
		func(service.User) int {
			task, code := lookupTask(ctx, env, ref, errOut)
			if code != exitcode.Success {
				return code
			}
			output.FormatDetail(out, task)
			return exitcode.Success
		},
	)
}
