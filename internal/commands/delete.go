package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/session"
)

// deleteQuestion is asked before a task is deleted.
const deleteQuestion = "Are you sure you want to delete this task?"

func init() {
	Register(&DeleteCmd{})
}

// DeleteCmd implements the delete command.
type DeleteCmd struct {
	yes bool
}

func (c *DeleteCmd) Name() string       { return "delete" }
func (c *DeleteCmd) Aliases() []string  { return []string{"rm"} }
func (c *DeleteCmd) Synopsis() string   { return "Delete a task" }
func (c *DeleteCmd) Usage() string      { return "taskhub delete [common flags] [--yes] <id|number>" }
func (c *DeleteCmd) NeedsBackend() bool { return true }

func (c *DeleteCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.yes, "yes", false, "")
	fs.BoolVar(&c.yes, "y", false, "")
}

// SetYes skips the confirmation prompt (for testing).
func (c *DeleteCmd) SetYes(yes bool) {
	c.yes = yes
}

func (c *DeleteCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}
	if _, signedIn := st.(session.SignedIn); !signedIn {
		fmt.Fprintln(errOut, msgNotLoggedIn)
		return exitcode.AuthError
	}

	id, err := resolveID(ctx, env.Tasks, ref)
	if errors.Is(err, errNumberOutOfRange) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	if err != nil {
		return reportStoreError(env, errOut, ref.String(), err)
	}

	// Ask unless --yes
	if !c.yes {
		confirmed, err := env.Confirm(errOut, deleteQuestion)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		if !confirmed {
			fmt.Fprintln(errOut, "error: cancelled")
			return exitcode.UserError
		}
	}

	if err := env.Tasks.Delete(ctx, id); err != nil {
		return reportStoreError(env, errOut, id, err)
	}
	env.Log.Debug("task deleted", "id", id)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}

	// Show the list as re-fetched from the store.
	return showDefaultList(ctx, cfg, env, out, errOut)
}
