package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"

	"taskhub/internal/exitcode"
	"taskhub/internal/tasks"
)

// TaskRef names a task either by document ID or by its card number.
type TaskRef struct {
	ID  string
	Num int // 1-based card number in the default list; 0 if ID is set
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task id required")

// errNumberOutOfRange is returned when a card number has no task.
var errNumberOutOfRange = errors.New("task number out of range")

// ParseTaskRef parses a task reference from args.
//
// An all-digit argument is a card number as printed by the default list
// (sorted by due date, no filter). Anything else is a document ID.
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 || args[0] == "" {
		return TaskRef{}, ErrTaskRefRequired
	}
	if len(args) > 1 {
		return TaskRef{}, fmt.Errorf("unexpected argument: %s", args[1])
	}

	arg := args[0]
	if !isAllDigits(arg) {
		return TaskRef{ID: arg}, nil
	}
	num, err := strconv.Atoi(arg)
	if err != nil || num < 1 {
		return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
	}
	return TaskRef{Num: num}, nil
}

// String returns the reference as typed.
func (r TaskRef) String() string {
	if r.Num > 0 {
		return strconv.Itoa(r.Num)
	}
	return r.ID
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// resolveID returns the document ID for ref. Card numbers are looked up in
// a fresh fetch of the collection.
func resolveID(ctx context.Context, repo *tasks.Repo, ref TaskRef) (string, error) {
	if ref.Num == 0 {
		return ref.ID, nil
	}
	all, err := repo.All(ctx)
	if err != nil {
		return "", err
	}
	shown := tasks.Sort(all, tasks.DefaultSort)
	if ref.Num > len(shown) {
		return "", fmt.Errorf("%w: %d", errNumberOutOfRange, ref.Num)
	}
	return shown[ref.Num-1].ID, nil
}

// lookupTask resolves ref and fetches the task, reporting failures to errOut.
// code is exitcode.Success when the task was found.
func lookupTask(ctx context.Context, env *Env, ref TaskRef, errOut io.Writer) (task tasks.Task, code int) {
	id, err := resolveID(ctx, env.Tasks, ref)
	if errors.Is(err, errNumberOutOfRange) {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return tasks.Task{}, exitcode.UserError
	}
	if err != nil {
		return tasks.Task{}, reportStoreError(env, errOut, ref.String(), err)
	}

	task, err = env.Tasks.Get(ctx, id)
	if err != nil {
		return tasks.Task{}, reportStoreError(env, errOut, id, err)
	}
	return task, exitcode.Success
}
