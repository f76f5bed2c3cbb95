package sorting

import (
	"strings"

	"github.com/nibzard/tasktxt/internal/task"
)

// DefaultNoHeader is the header title for tasks without a value for the
// grouping key.
const DefaultNoHeader = "-"

// Line is one display line: a header or a task row.
type Line struct {
	// Header is the group title; empty for task rows.
	Header string
	// Count is the number of task rows under a header.
	Count int
	Task  *task.Task
}

// IsHeader reports whether l is a header line.
func (l Line) IsHeader() bool {
	return l.Task == nil
}

// GroupOptions control header generation.
type GroupOptions struct {
	// NoHeader replaces an empty group value. Defaults to DefaultNoHeader.
	NoHeader          string
	CreateIsThreshold bool
	// CaseSensitive must match the sort options so that contexts and
	// projects differing only in case share a group.
	CaseSensitive bool
}

// GroupKey returns the key that drives grouping: the first term that is not
// completed or in_future. It returns false when no term can group.
func (s Spec) GroupKey() (Key, bool) {
	for _, term := range s {
		switch term.Key {
		case Completed, InFuture:
			continue
		}
		return term.Key, true
	}
	return 0, false
}

// Header returns the group value of t for key, or "" when the key does not
// produce headers.
func Header(t *task.Task, key Key, opts GroupOptions) string {
	noHeader := opts.NoHeader
	if noHeader == "" {
		noHeader = DefaultNoHeader
	}
	orEmpty := func(v string) string {
		if v == "" {
			return noHeader
		}
		return v
	}

	switch key {
	case ByContext:
		return orEmpty(firstName(t.Lists(), opts.CaseSensitive))
	case ByProject:
		return orEmpty(firstName(t.Tags(), opts.CaseSensitive))
	case ByThresholdDate:
		return orEmpty(thresholdOf(t, opts.CreateIsThreshold))
	case ByPriority:
		return t.Priority().Code()
	case ByDueDate:
		return orEmpty(t.Due())
	default:
		return ""
	}
}

// Group turns sorted tasks into display lines, inserting a header whenever
// the group value of the spec's grouping key changes. Keys without group
// values produce task rows only. A header is titled with the spelling of
// the first task in its group.
func Group(tasks []*task.Task, spec Spec, opts GroupOptions) []Line {
	key, ok := spec.GroupKey()
	fold := !opts.CaseSensitive && (key == ByContext || key == ByProject)
	lines := make([]Line, 0, len(tasks))
	current := ""
	headerAt := -1
	for _, t := range tasks {
		if ok {
			h := Header(t, key, opts)
			id := h
			if fold {
				id = strings.ToLower(h)
			}
			if id != current {
				current = id
				headerAt = len(lines)
				lines = append(lines, Line{Header: h})
			}
		}
		if headerAt >= 0 {
			lines[headerAt].Count++
		}
		lines = append(lines, Line{Task: t})
	}
	return lines
}
