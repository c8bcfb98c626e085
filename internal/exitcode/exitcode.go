// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates successful completion.
	Success = 0

	// UserError indicates a user error (bad args, failed validation, unknown task).
	UserError = 1

	// AuthError indicates a sign-in problem (not logged in, rejected credentials).
	AuthError = 2

	// BackendError indicates a backend, store or network error.
	BackendError = 3
)
