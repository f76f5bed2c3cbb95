package sorting

import (
	"cmp"
	"slices"
	"strings"

	"github.com/nibzard/tasktxt/internal/task"
)

// lastDate sorts missing dates after every real one.
const lastDate = "9999-99-99"

// Options tune the comparators.
type Options struct {
	// Today is the YYYY-MM-DD date used by in_future.
	Today             string
	CaseSensitive     bool
	CreateIsThreshold bool
}

type entry struct {
	task *task.Task
	pos  int
}

type comparator func(a, b entry) int

// Sort returns the tasks ordered by spec. The input slice is not modified.
//
// Terms are applied left to right. The original position always breaks
// ties; a file_order term ends the chain and a reversed file_order term
// flips that final tiebreak.
func Sort(tasks []*task.Task, spec Spec, opts Options) []*task.Task {
	entries := make([]entry, len(tasks))
	for i, t := range tasks {
		entries[i] = entry{task: t, pos: i}
	}

	cmps, fileOrderReversed := build(spec, opts)
	slices.SortFunc(entries, func(a, b entry) int {
		for _, c := range cmps {
			if r := c(a, b); r != 0 {
				return r
			}
		}
		if fileOrderReversed {
			return cmp.Compare(b.pos, a.pos)
		}
		return cmp.Compare(a.pos, b.pos)
	})

	out := make([]*task.Task, len(entries))
	for i, e := range entries {
		out[i] = e.task
	}
	return out
}

func build(spec Spec, opts Options) ([]comparator, bool) {
	var cmps []comparator
	for _, term := range spec {
		if term.Key == FileOrder {
			return cmps, term.Reversed
		}
		c := keyComparator(term.Key, opts)
		if c == nil {
			continue
		}
		if term.Reversed {
			c = reverse(c)
		}
		cmps = append(cmps, c)
	}
	return cmps, false
}

func reverse(c comparator) comparator {
	return func(a, b entry) int { return c(b, a) }
}

func by[T cmp.Ordered](value func(*task.Task) T) comparator {
	return func(a, b entry) int {
		return cmp.Compare(value(a.task), value(b.task))
	}
}

func byBool(value func(*task.Task) bool) comparator {
	return by(func(t *task.Task) int {
		if value(t) {
			return 1
		}
		return 0
	})
}

func keyComparator(key Key, opts Options) comparator {
	switch key {
	case ByContext:
		return byName((*task.Task).Lists, opts.CaseSensitive)
	case ByProject:
		return byName((*task.Task).Tags, opts.CaseSensitive)
	case Alphabetical:
		return by(func(t *task.Task) string {
			if opts.CaseSensitive {
				return t.AlphaText()
			}
			return strings.ToLower(t.AlphaText())
		})
	case ByPriority:
		return by(func(t *task.Task) int { return t.Priority().Rank() })
	case Completed:
		return byBool((*task.Task).Completed)
	case ByCreationDate:
		return by(func(t *task.Task) string { return orLast(t.CreateDate()) })
	case InFuture:
		return byBool(func(t *task.Task) bool { return t.InFuture(opts.Today, opts.CreateIsThreshold) })
	case ByDueDate:
		return by(func(t *task.Task) string { return orLast(t.Due()) })
	case ByThresholdDate:
		return by(func(t *task.Task) string { return orLast(thresholdOf(t, opts.CreateIsThreshold)) })
	case ByCompletionDate:
		return by(func(t *task.Task) string { return orLast(t.CompletionDate()) })
	default:
		return nil
	}
}

// byName orders tasks by their alphabetically first name. Tasks without
// any name sort after the rest.
func byName(names func(*task.Task) []string, caseSensitive bool) comparator {
	return func(a, b entry) int {
		na := firstName(names(a.task), caseSensitive)
		nb := firstName(names(b.task), caseSensitive)
		switch {
		case na == "" && nb == "":
			return 0
		case na == "":
			return 1
		case nb == "":
			return -1
		}
		return cmp.Compare(nameKey(na, caseSensitive), nameKey(nb, caseSensitive))
	}
}

// firstName returns the alphabetically first name in its original
// spelling, or "" when there is none.
func firstName(names []string, caseSensitive bool) string {
	if len(names) == 0 {
		return ""
	}
	first := names[0]
	for _, n := range names[1:] {
		if nameKey(n, caseSensitive) < nameKey(first, caseSensitive) {
			first = n
		}
	}
	return first
}

// nameKey is the form names are compared in.
func nameKey(name string, caseSensitive bool) string {
	if caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

func orLast(date string) string {
	if date == "" {
		return lastDate
	}
	return date
}

func thresholdOf(t *task.Task, createIsThreshold bool) string {
	if th := t.Threshold(); th != "" {
		return th
	}
	if createIsThreshold {
		return t.CreateDate()
	}
	return ""
}
