package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/service"
)

func init() {
	Register(&RegisterCmd{})
}

// RegisterCmd implements the register command.
type RegisterCmd struct {
	email    string
	password string
	confirm  string
}

func (c *RegisterCmd) Name() string      { return "register" }
func (c *RegisterCmd) Aliases() []string { return []string{"signup"} }
func (c *RegisterCmd) Synopsis() string  { return "Create an account" }
func (c *RegisterCmd) Usage() string {
	return "taskhub register [common flags] [--email <e>] [--password <p>] [--confirm <p>]"
}
func (c *RegisterCmd) NeedsBackend() bool { return true }

func (c *RegisterCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.email, "email", "", "")
	fs.StringVar(&c.password, "password", "", "")
	fs.StringVar(&c.confirm, "confirm", "", "")
}

// SetCredentials sets the form flags (for testing).
func (c *RegisterCmd) SetCredentials(email, password, confirm string) {
	c.email = email
	c.password = password
	c.confirm = confirm
}

func (c *RegisterCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}

	email, password, confirm := c.email, c.password, c.confirm
	values := []struct {
		dst   *string
		label string
	}{
		{&email, "Email: "},
		{&password, "Password: "},
		{&confirm, "Confirm Password: "},
	}
	for _, v := range values {
		if *v.dst != "" {
			continue
		}
		answer, err := env.Prompt(errOut, v.label)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		*v.dst = answer
	}

	if err := env.Validator.Register(email, password, confirm); err != nil {
		return reportValidation(errOut, err)
	}

	u, err := env.Auth.Register(ctx, email, password)
	if err != nil {
		env.Log.Debug("register rejected", "error", err)
		switch {
		case service.IsAuthKind(err, service.AuthEmailInUse):
			fmt.Fprintln(errOut, "error: Email already in use")
			return exitcode.AuthError
		case service.IsAuthKind(err, service.AuthWeakPassword):
			fmt.Fprintln(errOut, "error: Password is too weak")
			return exitcode.AuthError
		default:
			fmt.Fprintln(errOut, "error: Registration failed. Please try again.")
			return exitcode.BackendError
		}
	}
	env.Log.Debug("registered", "uid", u.UID)

	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
