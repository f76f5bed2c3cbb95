// Package query holds the filter and sort specification of one task view
// and applies it to a task list.
//
// A Filter reduces tasks with a conjunction of predicates (priority,
// context, project, text) after dropping blank, completed, future and
// hidden tasks as requested. An optional script predicate runs last through
// an injected ScriptEngine; a failing script keeps the task. Run then sorts
// and groups the survivors into display lines.
//
// Filters persist as a flat key/value map (Values, FromValues) or as a
// versioned JSON/YAML document validated against an embedded JSON Schema.
package query

import (
	"github.com/nibzard/tasktxt/internal/sorting"
	"github.com/nibzard/tasktxt/internal/task"
)

// NoneCriterion in a context or project set matches tasks that have no
// contexts or projects at all.
const NoneCriterion = "-"

// Filter is the combined filter criteria and sort specification of a view.
// It is not modified by Apply or Run.
type Filter struct {
	Priorities    []task.Priority
	PrioritiesNot bool
	Contexts      []string
	ContextsNot   bool
	Projects      []string
	ProjectsNot   bool
	Search        string

	HideCompleted  bool
	HideFuture     bool
	HideHidden     bool
	HideLists      bool
	HideTags       bool
	HideCreateDate bool

	// CreateIsThreshold treats the creation date as the threshold date of
	// tasks that have none.
	CreateIsThreshold bool

	Sort sorting.Spec

	Script         string
	UseScript      bool
	ScriptTestTask string
}

// New returns a filter with the defaults of a fresh view.
func New() *Filter {
	return &Filter{HideHidden: true}
}

// Clone returns a deep copy of f.
func (f *Filter) Clone() *Filter {
	c := *f
	c.Priorities = append([]task.Priority(nil), f.Priorities...)
	c.Contexts = append([]string(nil), f.Contexts...)
	c.Projects = append([]string(nil), f.Projects...)
	c.Sort = append(sorting.Spec(nil), f.Sort...)
	return &c
}

// HasScript reports whether the script predicate is enabled.
func (f *Filter) HasScript() bool {
	return f.UseScript && f.Script != ""
}

// Predicate returns the conjunction of the configured criteria. Criteria
// with an empty set or search are left out.
func (f *Filter) Predicate(caseSensitive bool) And {
	var and And
	if len(f.Priorities) > 0 {
		and = append(and, ByPriority{Priorities: f.Priorities, Not: f.PrioritiesNot})
	}
	if len(f.Contexts) > 0 {
		and = append(and, ByContext{Contexts: f.Contexts, Not: f.ContextsNot})
	}
	if len(f.Projects) > 0 {
		and = append(and, ByProject{Projects: f.Projects, Not: f.ProjectsNot})
	}
	if f.Search != "" {
		and = append(and, ByText{Search: f.Search, CaseSensitive: caseSensitive})
	}
	return and
}
