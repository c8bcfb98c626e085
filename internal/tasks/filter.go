package tasks

import (
	"strings"
)

// Filter selects tasks by status. FilterAll selects every task.
type Filter string

// FilterAll is the default filter.
const FilterAll Filter = "All"

// ParseFilter accepts "All" or a status name. An empty string is FilterAll.
func ParseFilter(s string) (Filter, error) {
	if s = strings.TrimSpace(s); s == "" || strings.EqualFold(s, string(FilterAll)) {
		return FilterAll, nil
	}
	st, err := ParseStatus(s)
	if err != nil {
		return "", err
	}
	return Filter(st), nil
}

// Apply returns the tasks matching f, preserving order.
func Apply(ts []Task, f Filter) []Task {
	out := make([]Task, 0, len(ts))
	for _, t := range ts {
		if f == FilterAll || Filter(t.Status) == f {
			out = append(out, t)
		}
	}
	return out
}
