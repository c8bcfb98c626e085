package tasks

import (
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// SortKey names the list ordering.
type SortKey string

const (
	SortTitle   SortKey = "title"
	SortDueDate SortKey = "dueDate"
	SortStatus  SortKey = "status"
)

// DefaultSort is the list ordering when none is given.
const DefaultSort = SortDueDate

// ParseSortKey accepts a key case-insensitively. An empty string is DefaultSort.
func ParseSortKey(s string) (SortKey, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return DefaultSort, nil
	}
	for _, k := range []SortKey{SortTitle, SortDueDate, SortStatus} {
		if strings.EqualFold(s, string(k)) {
			return k, nil
		}
	}
	if strings.EqualFold(s, "due") {
		return SortDueDate, nil
	}
	return "", fmt.Errorf("invalid sort key: %q (want title, dueDate or status)", s)
}

// Sort returns a stably sorted copy of ts.
// Title and status use English collation. Due dates sort chronologically,
// with empty or malformed dates last.
func Sort(ts []Task, key SortKey) []Task {
	out := slices.Clone(ts)
	col := collate.New(language.English)

	var cmp func(a, b Task) int
	switch key {
	case SortTitle:
		cmp = func(a, b Task) int { return col.CompareString(a.Title, b.Title) }
	case SortStatus:
		cmp = func(a, b Task) int { return col.CompareString(string(a.Status), string(b.Status)) }
	default:
		cmp = compareDue
	}
	slices.SortStableFunc(out, cmp)
	return out
}

func compareDue(a, b Task) int {
	ad, aok := a.Due()
	bd, bok := b.Due()
	switch {
	case aok && bok:
		return ad.Compare(bd)
	case aok:
		return -1
	case bok:
		return 1
	default:
		return 0
	}
}
