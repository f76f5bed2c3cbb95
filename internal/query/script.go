package query

import (
	"github.com/nibzard/tasktxt/internal/recur"
	"github.com/nibzard/tasktxt/internal/task"
)

// Fields is the view of a task handed to a script predicate. Dates are
// Unix seconds at UTC midnight; nil means the task has no valid date.
type Fields struct {
	Task           string
	Due            *int64
	Threshold      *int64
	CreateDate     *int64
	CompletionDate *int64
	// Recurrence is the raw rec: value, empty when absent.
	Recurrence string
	Completed  bool
	// Priority is the priority letter or "-".
	Priority   string
	Tags       []string
	Lists      []string
	Extensions map[string]string
}

// FieldsOf builds the script fields of t.
func FieldsOf(t *task.Task) Fields {
	return Fields{
		Task:           t.String(),
		Due:            epoch(t.Due()),
		Threshold:      epoch(t.Threshold()),
		CreateDate:     epoch(t.CreateDate()),
		CompletionDate: epoch(t.CompletionDate()),
		Recurrence:     t.Recurrence(),
		Completed:      t.Completed(),
		Priority:       t.Priority().Code(),
		Tags:           t.SortedTags(),
		Lists:          t.SortedLists(),
		Extensions:     t.Extensions(),
	}
}

func epoch(date string) *int64 {
	d, ok := recur.ParseDate(date)
	if !ok {
		return nil
	}
	secs := d.Unix()
	return &secs
}

// Evaluator runs a compiled script predicate for one task. index is the
// task's position in the list passed to Apply.
type Evaluator interface {
	Evaluate(index int, fields Fields) (bool, error)
}

// ScriptEngine compiles script source into an Evaluator. If the returned
// Evaluator also has a Close method, Apply calls it when done.
type ScriptEngine interface {
	Compile(script string) (Evaluator, error)
}
