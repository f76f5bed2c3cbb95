// Package sorting orders tasks by a multi-key sort specification and
// groups the ordered tasks under header lines.
package sorting

import (
	"strings"

	"github.com/charmbracelet/log"
)

// Key names one sort criterion.
type Key int

const (
	FileOrder Key = iota
	ByContext
	ByProject
	Alphabetical
	ByPriority
	Completed
	ByCreationDate
	InFuture
	ByDueDate
	ByThresholdDate
	ByCompletionDate
)

var keyNames = [...]string{
	FileOrder:        "file_order",
	ByContext:        "by_context",
	ByProject:        "by_project",
	Alphabetical:     "alphabetical",
	ByPriority:       "by_prio",
	Completed:        "completed",
	ByCreationDate:   "by_creation_date",
	InFuture:         "in_future",
	ByDueDate:        "by_due_date",
	ByThresholdDate:  "by_threshold_date",
	ByCompletionDate: "by_completion_date",
}

func (k Key) String() string {
	if k < 0 || int(k) >= len(keyNames) {
		return "unknown"
	}
	return keyNames[k]
}

// ParseKey looks up a key by its persisted name.
func ParseKey(name string) (Key, bool) {
	for k, n := range keyNames {
		if n == name {
			return Key(k), true
		}
	}
	return 0, false
}

// Direction and separator characters of a persisted sort token,
// e.g. "+!by_prio" or "-!by_due_date".
const (
	Ascending  = "+"
	Descending = "-"
	Separator  = "!"
)

// Term is one key of a sort specification.
type Term struct {
	Key      Key
	Reversed bool
}

func (t Term) String() string {
	dir := Ascending
	if t.Reversed {
		dir = Descending
	}
	return dir + Separator + t.Key.String()
}

// Spec is an ordered list of sort terms. An empty Spec sorts in file order.
type Spec []Term

// ParseTerm parses "+!key", "-!key" or a bare "key".
func ParseTerm(token string) (Term, bool) {
	token = strings.TrimSpace(token)
	name := token
	reversed := false
	if dir, rest, ok := strings.Cut(token, Separator); ok {
		name = rest
		reversed = dir == Descending
	}
	key, ok := ParseKey(name)
	if !ok {
		return Term{}, false
	}
	return Term{Key: key, Reversed: reversed}, true
}

// ParseSpec parses persisted sort tokens. Unknown keys are logged and
// skipped; empty tokens are ignored.
func ParseSpec(tokens []string, logger *log.Logger) Spec {
	spec := make(Spec, 0, len(tokens))
	for _, tok := range tokens {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		term, ok := ParseTerm(tok)
		if !ok {
			if logger != nil {
				logger.Warn("unknown sort", "sort", tok)
			}
			continue
		}
		spec = append(spec, term)
	}
	return spec
}

// Strings returns the persisted form of the spec.
func (s Spec) Strings() []string {
	out := make([]string, len(s))
	for i, term := range s {
		out[i] = term.String()
	}
	return out
}
