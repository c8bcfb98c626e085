// Package tasks holds the task model, its store mapping and the client-side
// filter and sort applied by the task list.
package tasks

import (
	"fmt"
	"strings"
	"time"

	"taskhub/internal/service"
)

// DateLayout is the due date format.
const DateLayout = "2006-01-02"

// Field names of a task document.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldDueDate     = "dueDate"
	FieldStatus      = "status"
)

// Status is the task workflow state.
type Status string

const (
	StatusPending    Status = "Pending"
	StatusInProgress Status = "InProgress"
	StatusDone       Status = "Done"
)

// Statuses lists every status in workflow order.
var Statuses = []Status{StatusPending, StatusInProgress, StatusDone}

// ParseStatus accepts a status name case-insensitively, ignoring spaces,
// dashes and underscores ("in progress" is InProgress).
func ParseStatus(s string) (Status, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.TrimSpace(s))
	for _, st := range Statuses {
		if strings.EqualFold(key, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status: %q (want Pending, InProgress or Done)", s)
}

// Task is a stored task.
type Task struct {
	ID          string
	Title       string
	Description string
	DueDate     string
	Status      Status
}

// FromDocument maps a stored document to a Task.
// Missing or non-string fields become empty strings.
func FromDocument(d service.Document) Task {
	return Task{
		ID:          d.ID,
		Title:       d.Fields.String(FieldTitle),
		Description: d.Fields.String(FieldDescription),
		DueDate:     d.Fields.String(FieldDueDate),
		Status:      Status(d.Fields.String(FieldStatus)),
	}
}

// Fields returns the document fields for t. The ID is not a field.
func (t Task) Fields() service.Fields {
	return service.Fields{
		FieldTitle:       t.Title,
		FieldDescription: t.Description,
		FieldDueDate:     t.DueDate,
		FieldStatus:      string(t.Status),
	}
}

// Due parses the due date. ok is false for empty or malformed dates.
func (t Task) Due() (due time.Time, ok bool) {
	d, err := time.Parse(DateLayout, strings.TrimSpace(t.DueDate))
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

// Changes returns the fields of updated that differ from old.
func Changes(old, updated Task) service.Fields {
	changes := service.Fields{}
	if old.Title != updated.Title {
		changes[FieldTitle] = updated.Title
	}
	if old.Description != updated.Description {
		changes[FieldDescription] = updated.Description
	}
	if old.DueDate != updated.DueDate {
		changes[FieldDueDate] = updated.DueDate
	}
	if old.Status != updated.Status {
		changes[FieldStatus] = string(updated.Status)
	}
	return changes
}
