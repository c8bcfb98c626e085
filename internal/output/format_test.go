package output

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"taskhub/internal/form"
	"taskhub/internal/nav"
	"taskhub/internal/session"
	"taskhub/internal/tasks"
	"taskhub/internal/testutil"
)

func TestTruncate(t *testing.T) {
	long := strings.Repeat("a", 301)
	got, truncated := Truncate(long)
	if !truncated {
		t.Error("Truncate(301 chars) truncated = false")
	}
	if utf8.RuneCountInString(got) != 303 || !strings.HasSuffix(got, "...") {
		t.Errorf("Truncate(301 chars) = %d chars, want 303 ending in ...", utf8.RuneCountInString(got))
	}

	crlf := strings.Repeat("a", 150) + "\r\n" + strings.Repeat("b", 149)
	got, truncated = Truncate(crlf)
	if !truncated || utf8.RuneCountInString(got) != 303 {
		t.Errorf("Truncate(301 chars with CRLF) = %d chars (truncated=%v), want 303", utf8.RuneCountInString(got), truncated)
	}

	exact := strings.Repeat("é", 300)
	got, truncated = Truncate(exact)
	if truncated || got != exact {
		t.Errorf("Truncate(300 chars) changed the text (truncated=%v)", truncated)
	}
}

func TestFormatCardReadMore(t *testing.T) {
	var buf bytes.Buffer
	FormatCard(&buf, 1, tasks.Task{ID: "doc-1", Title: "Long", Description: strings.Repeat("x", 400), DueDate: "2024-01-01", Status: tasks.StatusPending})
	out := buf.String()
	if !strings.Contains(out, strings.Repeat("x", 300)+"...\n") {
		t.Error("card does not show 300 characters followed by ...")
	}
	if strings.Contains(out, strings.Repeat("x", 301)) {
		t.Error("card shows more than 300 characters")
	}
	if !strings.Contains(out, "Read More: taskhub show doc-1") {
		t.Errorf("card missing Read More affordance:\n%s", out)
	}

	// Line breaks count toward the limit.
	buf.Reset()
	crlf := strings.Repeat("a", 150) + "\r\n" + strings.Repeat("b", 149)
	FormatCard(&buf, 3, tasks.Task{ID: "doc-3", Title: "Lines", Description: crlf, DueDate: "2024-01-01", Status: tasks.StatusPending})
	want := "      " + strings.Repeat("a", 150) + " " + strings.Repeat("b", 148) + "...\n"
	if !strings.Contains(buf.String(), want) {
		t.Errorf("CRLF card not truncated to 300 characters:\n%s", buf.String())
	}
	if !strings.Contains(buf.String(), "Read More: taskhub show doc-3") {
		t.Errorf("CRLF card missing Read More affordance:\n%s", buf.String())
	}

	buf.Reset()
	FormatCard(&buf, 2, tasks.Task{ID: "doc-2", Title: "Short", Description: "brief", DueDate: "2024-01-01", Status: tasks.StatusDone})
	if strings.Contains(buf.String(), "Read More") {
		t.Errorf("short card has Read More:\n%s", buf.String())
	}
}

func TestFormatCardGolden(t *testing.T) {
	var buf bytes.Buffer
	FormatListHeader(&buf, tasks.SortDueDate, tasks.FilterAll)
	FormatCard(&buf, 1, tasks.Task{ID: "doc-1", Title: "Write report", Description: "Quarterly\nnumbers", DueDate: "2024-03-01", Status: tasks.StatusInProgress})
	FormatCard(&buf, 12, tasks.Task{ID: "doc-2", Title: "  ", Description: "No title", DueDate: "", Status: tasks.StatusPending})
	testutil.Golden(t, "cards", buf.Bytes())
}

func TestFormatDetail(t *testing.T) {
	var buf bytes.Buffer
	desc := strings.Repeat("y", 450)
	FormatDetail(&buf, tasks.Task{ID: "doc-1", Title: "Long", Description: desc, DueDate: "2024-01-01", Status: tasks.StatusDone})
	if !strings.Contains(buf.String(), desc+"\n") {
		t.Error("detail does not show the full description")
	}
}

func TestFormatForm(t *testing.T) {
	var buf bytes.Buffer
	FormatForm(&buf, "Edit Task", form.Task{Title: "a", Description: "b", DueDate: "2024-01-01", Status: "Done"})
	want := "Edit Task\n  status:      Done\n  title:       a\n  description: b\n  dueDate:     2024-01-01\n"
	if buf.String() != want {
		t.Errorf("FormatForm() =\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestFormatValidation(t *testing.T) {
	var buf bytes.Buffer
	FormatValidation(&buf, &form.ValidationError{Fields: []form.FieldError{
		{Field: "title", Message: "Required"},
		{Field: "dueDate", Message: "Invalid date (want YYYY-MM-DD)"},
	}})
	want := "error: title: Required\nerror: dueDate: Invalid date (want YYYY-MM-DD)\n"
	if buf.String() != want {
		t.Errorf("FormatValidation() = %q, want %q", buf.String(), want)
	}
}

func TestFormatNav(t *testing.T) {
	bar, _ := nav.Build("/", session.SignedOut{})
	var buf bytes.Buffer
	FormatNav(&buf, bar)
	want := "Task Hub -> /\nTasks /tasklist\nAdd Task /taskform\nRegister /register\nLogin /login\n"
	if buf.String() != want {
		t.Errorf("FormatNav() =\n%s\nwant\n%s", buf.String(), want)
	}
}
