package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "taskhub help" }
func (c *HelpCmd) NeedsBackend() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	writeCommandList(out, DefaultRegistry)
	return exitcode.Success
}

// writeCommandList prints one line per registered command with its aliases.
func writeCommandList(w io.Writer, r *Registry) {
	fmt.Fprintln(w, "\nCommands:")
	for _, c := range r.All() {
		name := c.Name()
		if aliases := c.Aliases(); len(aliases) > 0 {
			name += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(w, "  %-24s %s\n", name, c.Synopsis())
	}
}

const helpText = `Usage:
  taskhub                                            List tasks (sorted by due date)
  taskhub <route>                                    Open a route: / /tasklist /login /register
                                                     /taskform /taskform/<id>
  taskhub tasklist [common flags] [--sort <key>] [--filter <status>]
  taskhub show [common flags] <id>
  taskhub taskform [common flags] [--title <t>] [--description <d>] [--due <YYYY-MM-DD>]
                   [--status <s>] [<id>]
  taskhub add [common flags] [form flags]
  taskhub edit [common flags] [form flags] <id>
  taskhub delete [common flags] [--yes] <id>
  taskhub login [common flags] [--email <e>] [--password <p>]
  taskhub register [common flags] [--email <e>] [--password <p>] [--confirm <p>]
  taskhub logout [common flags]
  taskhub status [common flags]
  taskhub nav [common flags] [--route <path>]
  taskhub help
  taskhub version

Sort keys: title, dueDate, status
Filters:   All, Pending, InProgress, Done

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr
`
