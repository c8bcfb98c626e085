package commands

import (
	"context"
	"errors"
	"fmt"
	"io"

	"taskhub/internal/exitcode"
	"taskhub/internal/form"
	"taskhub/internal/output"
	"taskhub/internal/service"
	"taskhub/internal/session"
)

// msgNotLoggedIn is printed when a command needs a signed-in session.
const msgNotLoggedIn = "error: not logged in (run: taskhub login)"

// waitSession blocks until the session has loaded.
// ok is false if the wait was cancelled; the error has been reported.
func waitSession(ctx context.Context, env *Env, errOut io.Writer) (st session.State, ok bool) {
	st, err := env.Session.Wait(ctx)
	if err != nil {
		fmt.Fprintln(errOut, "error: cancelled")
		return nil, false
	}
	return st, true
}

// reportValidation prints field errors and returns the user error code.
// Other errors are reported as backend errors.
func reportValidation(errOut io.Writer, err error) int {
	var ve *form.ValidationError
	if errors.As(err, &ve) {
		output.FormatValidation(errOut, ve)
		return exitcode.UserError
	}
	fmt.Fprintf(errOut, "error: %v\n", err)
	return exitcode.BackendError
}

// msgStoreFailed is shown for every failed store request. The cause is logged.
const msgStoreFailed = "error: Something went wrong talking to the task store. Please try again."

// reportStoreError maps store failures onto exit codes.
func reportStoreError(env *Env, errOut io.Writer, id string, err error) int {
	if service.IsNotFound(err) {
		fmt.Fprintf(errOut, "error: task not found: %s\n", id)
		return exitcode.UserError
	}
	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.BackendError
	}
	env.Log.Debug("store request failed", "id", id, "error", err)
	fmt.Fprintln(errOut, msgStoreFailed)
	return exitcode.BackendError
}
