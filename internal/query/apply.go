package query

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktxt/internal/sorting"
	"github.com/nibzard/tasktxt/internal/task"
)

// Options carry the inputs of Apply and Run that do not belong to the
// persisted filter.
type Options struct {
	// Today is the YYYY-MM-DD date used to decide what lies in the future.
	Today         string
	CaseSensitive bool
	// Scripts compiles the filter script. Without it scripts are ignored.
	Scripts ScriptEngine
	// NoHeader titles the group of tasks without a grouping value.
	NoHeader string
	Logger   *log.Logger
}

func (o Options) logger() *log.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return log.New(io.Discard)
}

// Apply returns the tasks that pass the filter, in their original order.
func (f *Filter) Apply(tasks []*task.Task, opts Options) []*task.Task {
	logger := opts.logger()
	pred := f.Predicate(opts.CaseSensitive)
	eval := f.compileScript(opts.Scripts, logger)
	if c, ok := eval.(io.Closer); ok {
		defer c.Close()
	}

	out := make([]*task.Task, 0, len(tasks))
	for i, t := range tasks {
		if !f.visible(t, opts.Today) || !pred.Match(t) {
			continue
		}
		if eval != nil && !scriptMatch(eval, i, t, logger) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// visible applies the exclusions that run before the criteria.
func (f *Filter) visible(t *task.Task, today string) bool {
	switch {
	case t.Blank():
		return false
	case f.HideCompleted && t.Completed():
		return false
	// A future due date alone does not hide a task.
	case f.HideFuture && t.InFuture(today, f.CreateIsThreshold):
		return false
	case f.HideHidden && t.Hidden():
		return false
	}
	return true
}

func (f *Filter) compileScript(engine ScriptEngine, logger *log.Logger) Evaluator {
	if !f.HasScript() || engine == nil {
		return nil
	}
	eval, err := engine.Compile(f.Script)
	if err != nil {
		logger.Warn("filter script failed to load, ignoring it", "err", err)
		return nil
	}
	return eval
}

// scriptMatch keeps the task when the script fails.
func scriptMatch(eval Evaluator, index int, t *task.Task, logger *log.Logger) bool {
	ok, err := eval.Evaluate(index, FieldsOf(t))
	if err != nil {
		logger.Warn("filter script error, keeping task", "task", t.String(), "err", err)
		return true
	}
	return ok
}

// TestScript evaluates the script against ScriptTestTask.
func (f *Filter) TestScript(engine ScriptEngine) (bool, error) {
	eval, err := engine.Compile(f.Script)
	if err != nil {
		return false, err
	}
	if c, ok := eval.(io.Closer); ok {
		defer c.Close()
	}
	return eval.Evaluate(0, FieldsOf(task.Parse(f.ScriptTestTask)))
}

// SortOptions returns the comparator options implied by f.
func (f *Filter) SortOptions(opts Options) sorting.Options {
	return sorting.Options{
		Today:             opts.Today,
		CaseSensitive:     opts.CaseSensitive,
		CreateIsThreshold: f.CreateIsThreshold,
	}
}

// Run filters, sorts and groups tasks into display lines.
func (f *Filter) Run(tasks []*task.Task, opts Options) []sorting.Line {
	visible := f.Apply(tasks, opts)
	ordered := sorting.Sort(visible, f.Sort, f.SortOptions(opts))
	return sorting.Group(ordered, f.Sort, sorting.GroupOptions{
		NoHeader:          opts.NoHeader,
		CreateIsThreshold: f.CreateIsThreshold,
		CaseSensitive:     opts.CaseSensitive,
	})
}
