package task

import "github.com/nibzard/tasktxt/internal/recur"

// Occurrence holds the dates of the next instance of a recurring task.
// A field is empty when the task has no such date.
type Occurrence struct {
	Due       string
	Threshold string
}

// NextOccurrence computes the next due and threshold dates for a task
// completed on completionDate.
//
// A "+" pattern advances each date from its own current value; a plain
// pattern advances from completionDate. A plain pattern on a task with
// neither date sets a due date that far from completionDate. It returns
// false when the task does not recur or a base date is not a valid date.
func (t *Task) NextOccurrence(completionDate string) (Occurrence, bool) {
	p, ok := t.RecurrencePattern()
	if !ok {
		return Occurrence{}, false
	}
	var next Occurrence
	if t.Due() == "" && t.Threshold() == "" {
		if !p.Strict {
			if next.Due, ok = p.Advance(completionDate); !ok {
				return Occurrence{}, false
			}
		}
		return next, true
	}
	if due := t.Due(); due != "" {
		base := completionDate
		if p.Strict {
			base = due
		}
		if next.Due, ok = p.Advance(base); !ok {
			return Occurrence{}, false
		}
	}
	if threshold := t.Threshold(); threshold != "" {
		base := completionDate
		if p.Strict {
			base = threshold
		}
		if next.Threshold, ok = p.Advance(base); !ok {
			return Occurrence{}, false
		}
	}
	return next, true
}

// DeferDue changes the due date. when is an absolute date, an empty string
// (clear) or an interval such as "3d" added to from. A "+" interval, or an
// empty from, starts at the current due date instead. It reports whether the
// task changed.
func (t *Task) DeferDue(when, from string) bool {
	return t.deferDate(when, from, t.Due(), t.SetDue)
}

// DeferThreshold is DeferDue for the threshold date.
func (t *Task) DeferThreshold(when, from string) bool {
	return t.deferDate(when, from, t.Threshold(), t.SetThreshold)
}

func (t *Task) deferDate(when, from, current string, set func(string)) bool {
	if when == "" || recur.IsDateShaped(when) {
		set(when)
		return true
	}
	p, ok := recur.ParseInterval(when)
	if !ok {
		return false
	}
	base := from
	if p.Strict || base == "" {
		base = current
	}
	next, ok := p.Advance(base)
	if !ok {
		return false
	}
	set(next)
	return true
}
