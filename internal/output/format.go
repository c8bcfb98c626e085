// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"taskhub/internal/form"
	"taskhub/internal/nav"
	"taskhub/internal/tasks"
)

const (
	// ListSeparator is the separator line around the list header.
	ListSeparator = "------------"

	// MaxCardDescription is the number of description characters shown on a card.
	MaxCardDescription = 300

	// Ellipsis marks a truncated description.
	Ellipsis = "..."

	// cardIndent aligns card detail lines under the title.
	cardIndent = "      "
)

// FormatListHeader formats the task list header with the active sort and filter.
func FormatListHeader(w io.Writer, sort tasks.SortKey, filter tasks.Filter) {
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "Task List  sort: %s  filter: %s\n", sort, filter)
	fmt.Fprintln(w, ListSeparator)
}

// FormatCard formats one task card.
// Format: "{N:>4}  {TITLE} [{STATUS}]" followed by indented description,
// due date and ID lines. Long descriptions end in "..." and get a Read More line.
func FormatCard(w io.Writer, num int, task tasks.Task) {
	fmt.Fprintf(w, "%4d  %s [%s]\n", num, normalizeTitle(task.Title), task.Status)

	desc, truncated := Truncate(task.Description)
	fmt.Fprintf(w, "%s%s\n", cardIndent, flatten(desc))
	fmt.Fprintf(w, "%sDue Date: %s\n", cardIndent, task.DueDate)
	fmt.Fprintf(w, "%sID: %s\n", cardIndent, task.ID)
	if truncated {
		fmt.Fprintf(w, "%sRead More: taskhub show %s\n", cardIndent, task.ID)
	}
}

// FormatDetail formats the full task, as shown by Read More.
func FormatDetail(w io.Writer, task tasks.Task) {
	fmt.Fprintln(w, normalizeTitle(task.Title))
	fmt.Fprintln(w, ListSeparator)
	fmt.Fprintf(w, "Status: %s\n", task.Status)
	fmt.Fprintf(w, "Due Date: %s\n", task.DueDate)
	fmt.Fprintf(w, "ID: %s\n", task.ID)
	fmt.Fprintln(w)
	fmt.Fprintln(w, task.Description)
}

// FormatForm formats task form state under a heading.
func FormatForm(w io.Writer, heading string, f form.Task) {
	fmt.Fprintln(w, heading)
	fmt.Fprintf(w, "  status:      %s\n", f.Status)
	fmt.Fprintf(w, "  title:       %s\n", f.Title)
	fmt.Fprintf(w, "  description: %s\n", flatten(f.Description))
	fmt.Fprintf(w, "  dueDate:     %s\n", f.DueDate)
}

// FormatValidation prints one "error: field: message" line per failed field.
func FormatValidation(w io.Writer, err *form.ValidationError) {
	for _, f := range err.Fields {
		fmt.Fprintf(w, "error: %s: %s\n", f.Field, f.Message)
	}
}

// FormatNav formats the navigation bar as "label target" lines.
func FormatNav(w io.Writer, bar nav.Bar) {
	fmt.Fprintf(w, "%s -> %s\n", bar.Brand.Label, bar.Brand.Target)
	for _, l := range bar.Links {
		if l.Target == "" {
			fmt.Fprintln(w, l.Label)
			continue
		}
		fmt.Fprintf(w, "%s %s\n", l.Label, l.Target)
	}
}

// Truncate shortens s to MaxCardDescription characters plus Ellipsis.
// truncated reports whether anything was cut.
func Truncate(s string) (out string, truncated bool) {
	if utf8.RuneCountInString(s) <= MaxCardDescription {
		return s, false
	}
	runes := []rune(s)
	return string(runes[:MaxCardDescription]) + Ellipsis, true
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = flatten(title)
	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}

// flatten replaces line breaks with spaces.
func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}
