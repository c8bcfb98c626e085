// Package cli parses the command line and dispatches to commands.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strings"

	"taskhub/internal/commands"
	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/routes"
	"taskhub/internal/service"
)

// BackendFactory opens the identity provider and document store for cfg.
// Used to inject the backend during dispatch.
type BackendFactory func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*service.Backend, error)

// Dispatcher handles command-line parsing and dispatch.
type Dispatcher struct {
	registry *commands.Registry
	factory  BackendFactory
}

// NewDispatcher creates a new dispatcher with the given registry and backend factory.
func NewDispatcher(registry *commands.Registry, factory BackendFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		factory:  factory,
	}
}

// Run parses arguments and dispatches to the appropriate command.
// in supplies answers to interactive prompts.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	// No args -> the task list, as at "/"
	if len(args) == 0 {
		return d.dispatch(ctx, "tasklist", nil, in, out, errOut)
	}

	cmdName := args[0]

	// A route path opens the command mounted there
	if routes.IsRoute(cmdName) {
		r, err := routes.Resolve(cmdName)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
		// Flags come before the route's positional arguments.
		return d.dispatch(ctx, r.Command, append(slices.Clone(args[1:]), r.Args...), in, out, errOut)
	}

	// If first token starts with -, it's an error (flags require a command)
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Look up command
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	// Parse flags
	remaining := args[1:]
	return d.dispatchCommand(ctx, cmd, remaining, in, out, errOut)
}

func (d *Dispatcher) dispatch(ctx context.Context, cmdName string, args []string, in io.Reader, out, errOut io.Writer) int {
	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}
	return d.dispatchCommand(ctx, cmd, args, in, out, errOut)
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, in io.Reader, out, errOut io.Writer) int {
	// Create flag set with custom error handling
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard) // We handle errors ourselves

	// Common flags
	var configDir string
	var quiet bool
	var debug bool

	fs.StringVar(&configDir, "config", "", "")
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&debug, "debug", false, "")

	// Register command-specific flags
	cmd.RegisterFlags(fs)

	// Parse flags
	if err := fs.Parse(args); err != nil {
		return reportFlagError(errOut, err)
	}

	// Check if first positional arg starts with - (should have been parsed as flag)
	positionalArgs := fs.Args()
	if len(positionalArgs) > 0 && strings.HasPrefix(positionalArgs[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positionalArgs[0])
		return exitcode.UserError
	}

	// Create config
	cfg, err := config.New(configDir)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.UserError
	}
	cfg.Quiet = quiet
	cfg.Debug = debug
	logger := cfg.Logger(errOut)

	if !cmd.NeedsBackend() {
		return cmd.Run(ctx, cfg, nil, positionalArgs, out, errOut)
	}

	if d.factory == nil {
		fmt.Fprintln(errOut, "error: no backend configured")
		return exitcode.BackendError
	}
	backend, err := d.factory(ctx, cfg, logger)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(errOut, "error: cancelled")
			return exitcode.BackendError
		}
		fmt.Fprintf(errOut, "error: backend error: %s\n", err)
		return exitcode.BackendError
	}
	if backend.Close != nil {
		defer func() {
			if err := backend.Close(); err != nil {
				logger.Debug("closing backend", "error", err)
			}
		}()
	}

	env, err := commands.NewEnv(backend, cfg.Settings.Collection, in, logger)
	if err != nil {
		fmt.Fprintf(errOut, "error: %s\n", err)
		return exitcode.BackendError
	}
	defer env.Close()

	// Run command
	return cmd.Run(ctx, cfg, env, positionalArgs, out, errOut)
}

// reportFlagError prints a flag parse error and returns the exit code.
func reportFlagError(errOut io.Writer, err error) int {
	errStr := err.Error()

	// Missing flag value
	if name, ok := strings.CutPrefix(errStr, "flag needs an argument: "); ok {
		fmt.Fprintf(errOut, "error: flag needs an argument: %s\n", name)
		return exitcode.UserError
	}

	// Unknown flag
	if name, ok := strings.CutPrefix(errStr, "flag provided but not defined: "); ok {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", name)
		return exitcode.UserError
	}

	fmt.Fprintf(errOut, "error: %s\n", errStr)
	return exitcode.UserError
}
