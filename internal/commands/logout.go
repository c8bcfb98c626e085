package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/session"
)

func init() {
	Register(&LogoutCmd{})
}

// LogoutCmd implements the logout command.
type LogoutCmd struct{}

func (c *LogoutCmd) Name() string       { return "logout" }
func (c *LogoutCmd) Aliases() []string  { return nil }
func (c *LogoutCmd) Synopsis() string   { return "Sign out" }
func (c *LogoutCmd) Usage() string      { return "taskhub logout [common flags]" }
func (c *LogoutCmd) NeedsBackend() bool { return true }

func (c *LogoutCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *LogoutCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}

	// Nothing to do when signed out
	if _, signedIn := st.(session.SignedIn); !signedIn {
		if !cfg.Quiet {
			fmt.Fprintln(out, "not logged in")
		}
		return exitcode.Success
	}

	if err := env.Auth.Logout(ctx); err != nil {
		fmt.Fprintf(errOut, "error: failed to log out: %v\n", err)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
