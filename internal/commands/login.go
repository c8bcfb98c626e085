package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
)

// msgLoginFailed is shown for every rejected login.
const msgLoginFailed = "Invalid email or password. Please try again."

func init() {
	Register(&LoginCmd{})
}

// LoginCmd implements the login command.
type LoginCmd struct {
	email    string
	password string
}

func (c *LoginCmd) Name() string       { return "login" }
func (c *LoginCmd) Aliases() []string  { return nil }
func (c *LoginCmd) Synopsis() string   { return "Sign in with email and password" }
func (c *LoginCmd) Usage() string      { return "taskhub login [common flags] [--email <e>] [--password <p>]" }
func (c *LoginCmd) NeedsBackend() bool { return true }

func (c *LoginCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
}

// SetCredentials sets the email and password flags (for testing).
func (c *LoginCmd) SetCredentials(email, password string) {
	c.email = email
	c.password = password
}

func (c *LoginCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	// Prompt for anything not given as a flag
	email, password := c.email, c.password
	var err error
	if email == "" {
		if email, err = env.Prompt(errOut, "Email: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}
	if password == "" {
		if password, err = env.Prompt(errOut, "Password: "); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	if err := env.Validator.Login(email, password); err != nil {
		return reportValidation(errOut, err)
	}

	if _, err := env.Auth.Login(ctx, email, password); err != nil {
		env.Log.Debug("login rejected", "error", err)
		fmt.Fprintf(errOut, "error: %s\n", msgLoginFailed)
		return exitcode.AuthError
	}

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return showDefaultList(ctx, cfg, env, out, errOut)
}
