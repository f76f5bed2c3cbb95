package task

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nibzard/tasktxt/internal/recur"
)

// Task is one parsed todo.txt line.
//
// The token sequence is authoritative; the rendered text is kept in sync
// after every mutation. A Task is not safe for concurrent mutation.
type Task struct {
	tokens []Token
	text   string
}

var (
	priorityPattern  = regexp.MustCompile(`^\(([A-Z])\)$`)
	extensionPattern = regexp.MustCompile(`^([^:\s]+):(\S+)$`)
)

// Parse builds a Task from one line of text. It never fails; anything it
// does not recognize is kept as plain text.
func Parse(text string) *Task {
	t := &Task{tokens: lex(text)}
	t.text = render(t.tokens)
	return t
}

// piece is a delimited part of a line and the delimiter before it.
type piece struct {
	sep  string
	text string
}

// split cuts text at every single space or tab. Consecutive delimiters give
// empty pieces, so joining the pieces back restores text exactly.
func split(text string) []piece {
	var pieces []piece
	start, sep := 0, ""
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case ' ':
			pieces = append(pieces, piece{sep: sep, text: text[start:i]})
			start, sep = i+1, ""
		case '\t':
			pieces = append(pieces, piece{sep: sep, text: text[start:i]})
			start, sep = i+1, "\t"
		}
	}
	return append(pieces, piece{sep: sep, text: text[start:]})
}

func lex(text string) []Token {
	pieces := split(text)
	parts := make([]string, len(pieces))
	for i, p := range pieces {
		parts[i] = p.text
	}
	tokens := lexParts(parts, pieces)
	for i := range tokens {
		tokens[i].Sep = pieces[i].sep
	}
	return tokens
}

// lexParts classifies each part into exactly one token.
func lexParts(parts []string, pieces []piece) []Token {
	tokens := make([]Token, 0, len(parts))
	i := 0

	if i < len(parts) && parts[i] == "x" {
		tokens = append(tokens, Token{Kind: KindCompleted, Text: "x"})
		i++
		if i < len(parts) && recur.IsDateShaped(parts[i]) {
			tokens = append(tokens, dateToken(KindCompletionDate, parts[i]))
			i++
			if i < len(parts) && recur.IsDateShaped(parts[i]) {
				tokens = append(tokens, dateToken(KindCreateDate, parts[i]))
				i++
			}
		}
	}

	if i+1 < len(parts) && pieces[i+1].sep == "" {
		if m := priorityPattern.FindStringSubmatch(parts[i]); m != nil {
			tokens = append(tokens, Token{Kind: KindPriority, Text: parts[i], Value: m[1]})
			i++
		}
	}

	if i < len(parts) && recur.IsDateShaped(parts[i]) && !hasKind(tokens, KindCreateDate) {
		tokens = append(tokens, dateToken(KindCreateDate, parts[i]))
		i++
	}

	for ; i < len(parts); i++ {
		tokens = append(tokens, classify(parts[i]))
	}
	return tokens
}

// classify handles the pieces after the positional prefix.
func classify(s string) Token {
	switch {
	case len(s) > 1 && s[0] == '@' && s[1] != '@':
		return Token{Kind: KindContext, Text: s, Value: s[1:]}
	case len(s) > 1 && s[0] == '+' && s[1] != '+':
		return Token{Kind: KindProject, Text: s, Value: s[1:]}
	}

	key, value, ok := strings.Cut(s, ":")
	if !ok {
		return textToken(s)
	}
	switch strings.ToLower(key) {
	case "due":
		if recur.IsDateShaped(value) {
			return Token{Kind: KindDue, Text: s, Value: value}
		}
	case "t":
		if recur.IsDateShaped(value) {
			return Token{Kind: KindThreshold, Text: s, Value: value}
		}
	case "rec":
		if _, ok := recur.Parse(value); ok {
			return Token{Kind: KindRecurrence, Text: s, Value: value}
		}
	case "h":
		if value == "0" || value == "1" {
			return Token{Kind: KindHidden, Text: s, Value: value}
		}
	}
	return textToken(s)
}

func render(tokens []Token) string {
	var b strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			if tok.Sep != "" {
				b.WriteString(tok.Sep)
			} else {
				b.WriteByte(' ')
			}
		}
		b.WriteString(tok.Text)
	}
	return b.String()
}

func hasKind(tokens []Token, kind Kind) bool {
	for _, tok := range tokens {
		if tok.Kind == kind {
			return true
		}
	}
	return false
}

// String returns the task line.
func (t *Task) String() string {
	return t.text
}

// Tokens returns a copy of the token sequence.
func (t *Task) Tokens() []Token {
	out := make([]Token, len(t.tokens))
	copy(out, t.tokens)
	return out
}

// Clone returns an independent copy of t.
func (t *Task) Clone() *Task {
	return &Task{tokens: t.Tokens(), text: t.text}
}

func (t *Task) first(kind Kind) (Token, bool) {
	for _, tok := range t.tokens {
		if tok.Kind == kind {
			return tok, true
		}
	}
	return Token{}, false
}

func (t *Task) value(kind Kind) string {
	tok, _ := t.first(kind)
	return tok.Value
}

// Priority returns the task priority or NoPriority.
func (t *Task) Priority() Priority {
	return ParsePriority(t.value(KindPriority))
}

// Due returns the due date, or "" when there is none.
func (t *Task) Due() string { return t.value(KindDue) }

// Threshold returns the threshold (start) date, or "".
func (t *Task) Threshold() string { return t.value(KindThreshold) }

// CreateDate returns the creation date, or "".
func (t *Task) CreateDate() string { return t.value(KindCreateDate) }

// CompletionDate returns the completion date, or "".
func (t *Task) CompletionDate() string { return t.value(KindCompletionDate) }

// Completed reports whether the line starts with the "x" marker.
func (t *Task) Completed() bool {
	_, ok := t.first(KindCompleted)
	return ok
}

// Hidden reports whether the task carries h:1.
func (t *Task) Hidden() bool {
	return t.value(KindHidden) == "1"
}

// Recurrence returns the raw rec: value, or "".
func (t *Task) Recurrence() string { return t.value(KindRecurrence) }

// RecurrencePattern returns the parsed rec: value.
func (t *Task) RecurrencePattern() (recur.Pattern, bool) {
	tok, ok := t.first(KindRecurrence)
	if !ok {
		return recur.Pattern{}, false
	}
	return recur.Parse(tok.Value)
}

// Blank reports whether the line has no visible text.
func (t *Task) Blank() bool {
	return isBlank(t.text)
}

// Tags returns the project names in order of first appearance.
func (t *Task) Tags() []string { return t.names(KindProject) }

// Lists returns the context names in order of first appearance.
func (t *Task) Lists() []string { return t.names(KindContext) }

// SortedTags returns the project names sorted for display.
func (t *Task) SortedTags() []string { return sorted(t.Tags()) }

// SortedLists returns the context names sorted for display.
func (t *Task) SortedLists() []string { return sorted(t.Lists()) }

func (t *Task) names(kind Kind) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tok := range t.tokens {
		if tok.Kind != kind || seen[tok.Value] {
			continue
		}
		seen[tok.Value] = true
		out = append(out, tok.Value)
	}
	return out
}

func sorted(names []string) []string {
	sort.Strings(names)
	return names
}

// HasTag reports whether the task carries +name.
func (t *Task) HasTag(name string) bool { return contains(t.Tags(), name) }

// HasList reports whether the task carries @name.
func (t *Task) HasList(name string) bool { return contains(t.Lists(), name) }

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

// Extensions returns unrecognized key:value pairs. URLs are not extensions.
func (t *Task) Extensions() map[string]string {
	ext := make(map[string]string)
	for _, tok := range t.tokens {
		if key, value, ok := extension(tok); ok {
			if _, dup := ext[key]; !dup {
				ext[key] = value
			}
		}
	}
	return ext
}

func extension(tok Token) (string, string, bool) {
	if tok.Kind != KindText || strings.Contains(tok.Text, "://") {
		return "", "", false
	}
	m := extensionPattern.FindStringSubmatch(tok.Text)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}

// InFuture reports whether the threshold date lies after today. With
// createIsThreshold the creation date stands in for a missing threshold.
func (t *Task) InFuture(today string, createIsThreshold bool) bool {
	date := t.Threshold()
	if date == "" && createIsThreshold {
		date = t.CreateDate()
	}
	return date != "" && date > today
}

// AlphaText returns the words of the task without dates, tags, contexts
// or key:value fields. It is the text used for alphabetical sorting.
func (t *Task) AlphaText() string {
	return t.project(func(tok Token) bool {
		if tok.Kind != KindText {
			return false
		}
		_, _, ext := extension(tok)
		return !ext
	})
}

// SearchText returns the task words, contexts and projects without
// priority, dates, completion info or key:value fields, joined by single
// spaces. It is the text searched by free-text filters.
func (t *Task) SearchText() string {
	return t.project(func(tok Token) bool {
		switch tok.Kind {
		case KindText:
			_, _, ext := extension(tok)
			return !ext && tok.Text != ""
		case KindContext, KindProject:
			return true
		}
		return false
	})
}

// Display renders the task with the selected fields left out.
// The stored text is not changed.
func (t *Task) Display(hideLists, hideTags, hideCreateDate bool) string {
	if !hideLists && !hideTags && !hideCreateDate {
		return t.text
	}
	return t.project(func(tok Token) bool {
		switch tok.Kind {
		case KindContext:
			return !hideLists
		case KindProject:
			return !hideTags
		case KindCreateDate:
			return !hideCreateDate
		case KindWhitespace:
			return false
		}
		return true
	})
}

func (t *Task) project(keep func(Token) bool) string {
	var parts []string
	for _, tok := range t.tokens {
		if keep(tok) {
			parts = append(parts, tok.Text)
		}
	}
	return strings.Join(parts, " ")
}
