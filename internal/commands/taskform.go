package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"taskhub/internal/config"
	"taskhub/internal/exitcode"
	"taskhub/internal/form"
	"taskhub/internal/output"
	"taskhub/internal/service"
	"taskhub/internal/session"
	"taskhub/internal/tasks"
)

// msgPleaseLogin is printed when the form is used while signed out.
const msgPleaseLogin = "error: Please Login"

func init() {
	Register(&TaskFormCmd{})
}

// optString is a string flag that remembers whether it was set.
type optString struct {
	value string
	set   bool
}

func (o *optString) String() string { return o.value }

func (o *optString) Set(s string) error {
	o.value = s
	o.set = true
	return nil
}

// TaskFormCmd implements the taskform command: create without an ID, edit with one.
type TaskFormCmd struct {
	title       optString
	description optString
	due         optString
	status      optString
}

func (c *TaskFormCmd) Name() string      { return "taskform" }
func (c *TaskFormCmd) Aliases() []string { return []string{"add", "edit"} }
func (c *TaskFormCmd) Synopsis() string  { return "Create a task, or edit one by ID" }
func (c *TaskFormCmd) Usage() string {
	return "taskhub taskform [common flags] [--title <t>] [--description <d>] [--due <YYYY-MM-DD>] [--status <s>] [id|number]"
}
func (c *TaskFormCmd) NeedsBackend() bool { return true }

func (c *TaskFormCmd) RegisterFlags(fs *flag.FlagSet) {
	c.title, c.description, c.due, c.status = optString{}, optString{}, optString{}, optString{}
	fs.Var(&c.title, "title", "")
	fs.Var(&c.description, "description", "")
	fs.Var(&c.due, "due", "")
	fs.Var(&c.status, "status", "")
}

// SetFields sets form flags (for testing). Empty values are left unset.
func (c *TaskFormCmd) SetFields(title, description, due, status string) {
	for _, f := range []struct {
		dst *optString
		v   string
	}{{&c.title, title}, {&c.description, description}, {&c.due, due}, {&c.status, status}} {
		*f.dst = optString{}
		if f.v != "" {
			f.dst.Set(f.v)
		}
	}
}

func (c *TaskFormCmd) anySet() bool {
	return c.title.set || c.description.set || c.due.set || c.status.set
}

// apply overlays the set flags on the form state.
func (c *TaskFormCmd) apply(f form.Task) form.Task {
	if c.title.set {
		f.Title = c.title.value
	}
	if c.description.set {
		f.Description = c.description.value
	}
	if c.due.set {
		f.DueDate = c.due.value
	}
	if c.status.set {
		f.Status = c.status.value
		if st, err := tasks.ParseStatus(c.status.value); err == nil {
			f.Status = string(st)
		}
	}
	return f
}

func (c *TaskFormCmd) Run(ctx context.Context, cfg *config.Config, env *Env, args []string, out, errOut io.Writer) int {
	editing := len(args) > 0
	var ref TaskRef
	if editing {
		var err error
		if ref, err = ParseTaskRef(args); err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			return exitcode.UserError
		}
	}

	// Wait for the initial session load before showing the form.
	st, ok := waitSession(ctx, env, errOut)
	if !ok {
		return exitcode.BackendError
	}

	// Pre-fill from the stored task when editing
	state := cleared()
	var existing tasks.Task
	if editing {
		if _, signedIn := st.(session.SignedIn); !signedIn {
			fmt.Fprintln(errOut, msgPleaseLogin)
			return exitcode.AuthError
		}
		t, code := lookupTask(ctx, env, ref, errOut)
		if code != exitcode.Success {
			return code
		}
		existing = t
		state = toForm(t)

		if !c.anySet() {
			output.FormatForm(out, "Edit Task", state)
			return exitcode.Success
		}
	}

	state = c.apply(state)
	if err := env.Validator.Task(state); err != nil {
		return reportValidation(errOut, err)
	}

	return session.Match(st,
		func() int {
			fmt.Fprintln(errOut, msgPleaseLogin)
			return exitcode.AuthError
		},
		func(u service.User) int {
			if editing {
				return c.update(ctx, cfg, env, existing, fromForm(existing.ID, state), out, errOut)
			}
			return c.create(ctx, cfg, env, fromForm("", state), out, errOut)
		},
	)
}

func (c *TaskFormCmd) create(ctx context.Context, cfg *config.Config, env *Env, task tasks.Task, out, errOut io.Writer) int {
	id, err := env.Tasks.Create(ctx, task)
	if err != nil {
		return reportStoreError(env, errOut, "", err)
	}
	env.Log.Debug("task created", "id", id)

	if !cfg.Quiet {
		fmt.Fprintf(out, "Task Added Successfully (id: %s)\n", id)
	}

	// The form starts over for the next task.
	c.SetFields("", "", "", "")
	return exitcode.Success
}

func (c *TaskFormCmd) update(ctx context.Context, cfg *config.Config, env *Env, existing, updated tasks.Task, out, errOut io.Writer) int {
	changes := tasks.Changes(existing, updated)
	if len(changes) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no changes")
		}
		return exitcode.Success
	}

	if err := env.Tasks.Update(ctx, existing.ID, changes); err != nil {
		return reportStoreError(env, errOut, existing.ID, err)
	}
	env.Log.Debug("task updated", "id", existing.ID, "fields", len(changes))

	if !cfg.Quiet {
		fmt.Fprintln(out, "Task Updated Successfully")
	}
	return showDefaultList(ctx, cfg, env, out, errOut)
}

// cleared is the empty create form.
func cleared() form.Task {
	return form.Task{Status: string(tasks.StatusPending)}
}

func toForm(t tasks.Task) form.Task {
	return form.Task{
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Status:      string(t.Status),
	}
}

func fromForm(id string, f form.Task) tasks.Task {
	return tasks.Task{
		ID:          id,
		Title:       f.Title,
		Description: f.Description,
		DueDate:     f.DueDate,
		Status:      tasks.Status(f.Status),
	}
}
