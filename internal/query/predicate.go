package query

import (
	"strings"

	"github.com/nibzard/tasktxt/internal/task"
)

// Predicate decides whether a task belongs to a view.
type Predicate interface {
	Match(t *task.Task) bool
}

// And matches when every predicate matches. An empty And matches all.
type And []Predicate

func (a And) Match(t *task.Task) bool {
	for _, p := range a {
		if !p.Match(t) {
			return false
		}
	}
	return true
}

// ByPriority matches tasks whose priority is in the set. NoPriority in the
// set matches unprioritized tasks.
type ByPriority struct {
	Priorities []task.Priority
	Not        bool
}

func (p ByPriority) Match(t *task.Task) bool {
	prio := t.Priority()
	for _, want := range p.Priorities {
		if want == prio {
			return !p.Not
		}
	}
	return p.Not
}

// ByContext matches tasks with at least one of the contexts.
type ByContext struct {
	Contexts []string
	Not      bool
}

func (p ByContext) Match(t *task.Task) bool {
	return matchNames(p.Contexts, t.Lists(), p.Not)
}

// ByProject matches tasks with at least one of the projects.
type ByProject struct {
	Projects []string
	Not      bool
}

func (p ByProject) Match(t *task.Task) bool {
	return matchNames(p.Projects, t.Tags(), p.Not)
}

func matchNames(want, have []string, not bool) bool {
	if len(want) == 0 {
		return true
	}
	match := false
	for _, w := range want {
		if w == NoneCriterion && len(have) == 0 {
			match = true
			break
		}
		for _, h := range have {
			if w == h {
				match = true
				break
			}
		}
		if match {
			break
		}
	}
	return match != not
}

// ByText matches tasks whose search text contains Search as one
// substring. Runs of whitespace in Search count as a single space.
type ByText struct {
	Search        string
	CaseSensitive bool
}

func (p ByText) Match(t *task.Task) bool {
	text := t.SearchText()
	search := strings.Join(strings.Fields(p.Search), " ")
	if !p.CaseSensitive {
		text = strings.ToLower(text)
		search = strings.ToLower(search)
	}
	return strings.Contains(text, search)
}
