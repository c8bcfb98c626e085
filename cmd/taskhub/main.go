// Package main is the entry point for the taskhub CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"taskhub/internal/backend"
	"taskhub/internal/cli"
	"taskhub/internal/commands"
)

func main() {
	// Create context that cancels on interrupt
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		cancel()
	}()

	// Create dispatcher; the backend is chosen by config.yaml
	dispatcher := cli.NewDispatcher(commands.DefaultRegistry, backend.Open)

	// Run and exit with code
	code := dispatcher.Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(code)
}
