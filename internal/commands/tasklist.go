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
	"taskhub/internal/tasks"
)

func init() {
	Register(&TaskListCmd{})
}

// TaskListCmd implements the tasklist command.
type TaskListCmd struct {
	sortBy string
	filter string
}

func (c *TaskListCmd) Name() string      { return "tasklist" }
func (c *TaskListCmd) Aliases() []string { return []string{"list", "ls"} }
func (c *TaskListCmd) Synopsis() string  { return "List tasks" }
func (c *TaskListCmd) Usage() string {
	return "taskhub tasklist [common flags] [--sort title|dueDate|status] [--filter All|Pending|InProgress|Done]"
}
func (c *TaskListCmd) NeedsBackend() bool { return true }

func (c *TaskListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.sortBy, "sort", string(tasks.DefaultSort), "")
	fs.StringVar(&c.filter, "filter", string(tasks.FilterAll), "")
}

// SetView sets the sort key and filter (for testing).
func (c *TaskListCmd) SetView(sortBy, filter string) {
	c.sortBy = sortBy
	c.filter = filter
}

func (c *TaskListCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	key, err := tasks.ParseSortKey(c.sortBy)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	filter, err := tasks.ParseFilter(c.filter)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	return showTaskList(ctx, cfg, env, key, filter, out, errOut)
}

// showTaskList fetches every task, applies filter and sort, and prints the cards.
// Signed-out sessions are sent to login instead.
func showTaskList(ctx context.Context, cfg *config.Config, env *Env, key tasks.SortKey, filter tasks.Filter, out, errOut io.Writer) int {
	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}

	return session.Match(st,
		func() int {
			fmt.Fprintln(errOut, msgNotLoggedIn)
			return exitcode.AuthError
		},
		func(u service.User) int {
			all, err := env.Tasks.All(ctx)
			if err != nil {
				return reportStoreError(env, errOut, "", err)
			}
			shown := tasks.Sort(tasks.Apply(all, filter), key)
			env.Log.Debug("task list", "total", len(all), "shown", len(shown), "sort", key, "filter", filter)

			output.FormatListHeader(out, key, filter)
			if len(shown) == 0 && !cfg.Quiet {
				fmt.Fprintln(out, "no tasks found")
			}
			for i, t := range shown {
				output.FormatCard(out, i+1, t)
			}
			return exitcode.Success
		},
	)
}

// showDefaultList renders the list with the default sort and filter.
func showDefaultList(ctx context.Context, cfg *config.Config, env *Env, out, errOut io.Writer) int {
	return showTaskList(ctx, cfg, env, tasks.DefaultSort, tasks.FilterAll, out, errOut)
}
