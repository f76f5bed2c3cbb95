package task

import "fmt"

// Kind identifies what a token represents.
type Kind int

const (
	KindText Kind = iota
	KindWhitespace
	KindPriority
	KindCompleted
	KindCompletionDate
	KindCreateDate
	KindDue
	KindThreshold
	KindRecurrence
	KindHidden
	KindProject
	KindContext
)

var kindNames = map[Kind]string{
	KindText:           "text",
	KindWhitespace:     "whitespace",
	KindPriority:       "priority",
	KindCompleted:      "completed",
	KindCompletionDate: "completion-date",
	KindCreateDate:     "create-date",
	KindDue:            "due",
	KindThreshold:      "threshold",
	KindRecurrence:     "recurrence",
	KindHidden:         "hidden",
	KindProject:        "project",
	KindContext:        "context",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Token is one space or tab delimited piece of a task line.
type Token struct {
	Kind Kind
	// Text is the exact source text of the token.
	Text string
	// Value is the payload: a date, a project or context name, a priority
	// letter, a rec: pattern or the h: flag. Empty for text and whitespace.
	Value string
	// Sep is the delimiter before the token when it is a tab. Empty means a
	// single space.
	Sep string
}

func textToken(s string) Token {
	if isBlank(s) {
		return Token{Kind: KindWhitespace, Text: s}
	}
	return Token{Kind: KindText, Text: s}
}

func priorityToken(p Priority) Token {
	return Token{Kind: KindPriority, Text: "(" + string(rune(p)) + ")", Value: string(rune(p))}
}

func dateToken(kind Kind, date string) Token {
	return Token{Kind: kind, Text: date, Value: date}
}

func keyToken(kind Kind, key, value string) Token {
	return Token{Kind: kind, Text: key + ":" + value, Value: value}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\r' && r != '\n' && r != '\f' && r != '\v' {
			return false
		}
	}
	return true
}
