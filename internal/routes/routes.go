// Package routes maps application paths onto commands.
package routes

import (
	"errors"
	"fmt"
	"strings"
)

// Route paths.
const (
	Root     = "/"
	TaskList = "/tasklist"
	Login    = "/login"
	Register = "/register"
	TaskForm = "/taskform"
)

// ErrUnknownRoute is returned by Resolve for paths with no command.
var ErrUnknownRoute = errors.New("unknown route")

// Route is a resolved path: the command to run and its positional arguments.
type Route struct {
	Path    string
	Command string
	Args    []string
}

var table = map[string]string{
	Root:     "tasklist",
	TaskList: "tasklist",
	Login:    "login",
	Register: "register",
	TaskForm: "taskform",
}

// Resolve maps a path to a command. "/taskform/{id}" passes id as the argument.
// A trailing slash is ignored.
func Resolve(path string) (Route, error) {
	clean := path
	if len(clean) > 1 {
		clean = strings.TrimSuffix(clean, "/")
	}

	if cmd, ok := table[clean]; ok {
		return Route{Path: clean, Command: cmd}, nil
	}
	if id, ok := strings.CutPrefix(clean, TaskForm+"/"); ok && id != "" && !strings.Contains(id, "/") {
		return Route{Path: clean, Command: "taskform", Args: []string{id}}, nil
	}
	return Route{}, fmt.Errorf("%w: %s", ErrUnknownRoute, path)
}

// EditTask returns the edit route for a task.
func EditTask(id string) string {
	return TaskForm + "/" + id
}

// IsRoute reports whether arg looks like a route path rather than a command name.
func IsRoute(arg string) bool {
	return strings.HasPrefix(arg, "/")
}
