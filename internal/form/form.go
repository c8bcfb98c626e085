// Package form validates task, login and registration input against
// embedded JSON schemas before anything reaches a backend.
package form

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/santhosh-tekuri/jsonschema/v6/kind"
)

//go:embed schemas/*.json
var schemaFS embed.FS

const schemaBase = "https://taskhub.local/schemas/"

// MsgPasswordMismatch is reported on confirmPassword when it differs from password.
const MsgPasswordMismatch = "Passwords do not match"

// FieldError is one failed field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every failed field in form order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Message returns the first message for field, or "".
func (e *ValidationError) Message(field string) string {
	for _, f := range e.Fields {
		if f.Field == field {
			return f.Message
		}
	}
	return ""
}

// Task is the task form state.
type Task struct {
	Title       string
	Description string
	DueDate     string
	Status      string
}

// Validator holds the compiled form schemas. It is safe for concurrent use.
type Validator struct {
	task     *jsonschema.Schema
	login    *jsonschema.Schema
	register *jsonschema.Schema
}

// NewValidator compiles the embedded schemas.
func NewValidator() (*Validator, error) {
	c := jsonschema.NewCompiler()
	c.AssertFormat()

	for _, name := range []string{"task.json", "login.json", "register.json"} {
		data, err := schemaFS.ReadFile("schemas/" + name)
		if err != nil {
			return nil, err
		}
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("parse schema %s: %w", name, err)
		}
		if err := c.AddResource(schemaBase+name, doc); err != nil {
			return nil, fmt.Errorf("add schema %s: %w", name, err)
		}
	}

	v := &Validator{}
	for name, dst := range map[string]**jsonschema.Schema{
		"task.json":     &v.task,
		"login.json":    &v.login,
		"register.json": &v.register,
	} {
		sch, err := c.Compile(schemaBase + name)
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		*dst = sch
	}
	return v, nil
}

var taskOrder = []string{"title", "description", "dueDate", "status"}

// Task validates the task form.
func (v *Validator) Task(t Task) error {
	inst := map[string]any{
		"title":       t.Title,
		"description": t.Description,
		"dueDate":     t.DueDate,
		"status":      t.Status,
	}
	return collect(v.task.Validate(inst), taskOrder, nil)
}

// Login validates the login form.
func (v *Validator) Login(email, password string) error {
	inst := map[string]any{"email": email, "password": password}
	return collect(v.login.Validate(inst), []string{"email", "password"}, nil)
}

// Register validates the registration form, including that both passwords match.
func (v *Validator) Register(email, password, confirm string) error {
	inst := map[string]any{"email": email, "password": password, "confirmPassword": confirm}

	var extra []FieldError
	if password != confirm {
		extra = append(extra, FieldError{Field: "confirmPassword", Message: MsgPasswordMismatch})
	}
	return collect(v.register.Validate(inst), []string{"email", "password", "confirmPassword"}, extra)
}

// collect flattens a schema validation error into one FieldError per field.
func collect(err error, order []string, extra []FieldError) error {
	byField := make(map[string]string)

	var ve *jsonschema.ValidationError
	if errors.As(err, &ve) {
		walk(ve, byField)
	} else if err != nil {
		return err
	}
	for _, fe := range extra {
		if _, ok := byField[fe.Field]; !ok {
			byField[fe.Field] = fe.Message
		}
	}
	if len(byField) == 0 {
		return nil
	}

	out := &ValidationError{}
	for _, field := range order {
		if msg, ok := byField[field]; ok {
			out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
			delete(byField, field)
		}
	}
	// Fields outside the declared order, sorted for stable output.
	rest := make([]string, 0, len(byField))
	for field := range byField {
		rest = append(rest, field)
	}
	slices.Sort(rest)
	for _, field := range rest {
		out.Fields = append(out.Fields, FieldError{Field: field, Message: byField[field]})
	}
	return out
}

func walk(ve *jsonschema.ValidationError, byField map[string]string) {
	if len(ve.Causes) > 0 {
		for _, c := range ve.Causes {
			walk(c, byField)
		}
		return
	}

	if req, ok := ve.ErrorKind.(*kind.Required); ok {
		for _, field := range req.Missing {
			setOnce(byField, field, "Required")
		}
		return
	}

	field := "form"
	if len(ve.InstanceLocation) > 0 {
		field = ve.InstanceLocation[0]
	}
	setOnce(byField, field, message(ve.ErrorKind))
}

func setOnce(m map[string]string, field, msg string) {
	if _, ok := m[field]; !ok {
		m[field] = msg
	}
}

func message(k jsonschema.ErrorKind) string {
	switch k := k.(type) {
	case *kind.MinLength:
		if k.Got == 0 {
			return "Required"
		}
		return fmt.Sprintf("Must contain at least %d character(s)", k.Want)
	case *kind.MaxLength:
		return fmt.Sprintf("Must contain at most %d character(s)", k.Want)
	case *kind.Format:
		switch k.Want {
		case "email":
			return "Invalid email"
		case "date":
			return "Invalid date (want YYYY-MM-DD)"
		}
		return "Invalid " + k.Want
	case *kind.Enum:
		want := make([]string, len(k.Want))
		for i, w := range k.Want {
			want[i] = fmt.Sprint(w)
		}
		return "Must be one of " + strings.Join(want, ", ")
	case *kind.Type:
		return "Must be a " + strings.Join(k.Want, " or ")
	default:
		return "Invalid value"
	}
}
