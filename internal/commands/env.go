package commands

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"taskhub/internal/auth"
	"taskhub/internal/form"
	"taskhub/internal/service"
	"taskhub/internal/session"
	"taskhub/internal/store"
	"taskhub/internal/tasks"
)

// Env carries the providers a command runs against.
type Env struct {
	Session   *session.Provider
	Auth      *auth.Provider
	Tasks     *tasks.Repo
	Validator *form.Validator
	Log       *slog.Logger

	in *bufio.Reader
}

// NewEnv wires the providers over backend and starts the session subscription.
// Call Close when the command is done.
func NewEnv(backend *service.Backend, collection string, in io.Reader, logger *slog.Logger) (*Env, error) {
	validator, err := form.NewValidator()
	if err != nil {
		return nil, err
	}
	if in == nil {
		in = strings.NewReader("")
	}

	sess := session.New(backend.Identity, logger.With("component", "session"))
	sess.Start()

	return &Env{
		Session:   sess,
		Auth:      auth.New(backend.Identity, logger.With("component", "auth")),
		Tasks:     tasks.NewRepo(store.New(backend.Store, logger.With("component", "store")), collection),
		Validator: validator,
		Log:       logger,
		in:        bufio.NewReader(in),
	}, nil
}

// Close stops the session subscription.
func (e *Env) Close() {
	e.Session.Close()
}

// Prompt writes label to w and reads one line from stdin.
// The trailing newline is removed. EOF with no input yields "".
func (e *Env) Prompt(w io.Writer, label string) (string, error) {
	fmt.Fprint(w, label)
	line, err := e.in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Confirm asks a yes/no question and reports whether the answer was yes.
func (e *Env) Confirm(w io.Writer, question string) (bool, error) {
	answer, err := e.Prompt(w, question+" [y/N]: ")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
