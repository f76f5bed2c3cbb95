package task

import "strings"

func (t *Task) setTokens(tokens []Token) {
	t.tokens = tokens
	t.text = render(tokens)
}

func (t *Task) without(drop func(Token) bool) []Token {
	out := make([]Token, 0, len(t.tokens))
	for _, tok := range t.tokens {
		if !drop(tok) {
			out = append(out, tok)
		}
	}
	return out
}

func ofKind(kinds ...Kind) func(Token) bool {
	return func(tok Token) bool {
		for _, k := range kinds {
			if tok.Kind == k {
				return true
			}
		}
		return false
	}
}

// prefixLen returns how many leading tokens hold completion info, and
// priority too when withPriority is set.
func prefixLen(tokens []Token, withPriority bool) int {
	n := 0
	if n < len(tokens) && tokens[n].Kind == KindCompleted {
		n++
		if n < len(tokens) && tokens[n].Kind == KindCompletionDate {
			n++
		}
	}
	if withPriority && n < len(tokens) && tokens[n].Kind == KindPriority {
		n++
	}
	return n
}

func insertAt(tokens []Token, at int, tok Token) []Token {
	out := make([]Token, 0, len(tokens)+1)
	out = append(out, tokens[:at]...)
	out = append(out, tok)
	return append(out, tokens[at:]...)
}

// replaceOrAppend swaps the first token of kind for tok and drops any
// further ones. Without an existing token, tok is appended.
func (t *Task) replaceOrAppend(kind Kind, tok Token) {
	out := make([]Token, 0, len(t.tokens)+1)
	replaced := false
	for _, cur := range t.tokens {
		if cur.Kind != kind {
			out = append(out, cur)
			continue
		}
		if !replaced {
			tok.Sep = cur.Sep
			out = append(out, tok)
			replaced = true
		}
	}
	if !replaced {
		out = append(out, tok)
	}
	t.setTokens(out)
}

// SetPriority sets or, with NoPriority, removes the priority.
// A new priority goes right after any completion info.
func (t *Task) SetPriority(p Priority) {
	if !p.Valid() {
		t.setTokens(t.without(ofKind(KindPriority)))
		return
	}
	tok := priorityToken(p)
	for i, cur := range t.tokens {
		if cur.Kind == KindPriority {
			out := t.Tokens()
			tok.Sep = cur.Sep
			out[i] = tok
			t.setTokens(out)
			return
		}
	}
	t.setTokens(insertAt(t.tokens, prefixLen(t.tokens, false), tok))
}

// SetDue sets the due date. An empty date removes it.
func (t *Task) SetDue(date string) {
	t.setKeyed(KindDue, "due", date)
}

// SetThreshold sets the threshold date. An empty date removes it.
func (t *Task) SetThreshold(date string) {
	t.setKeyed(KindThreshold, "t", date)
}

func (t *Task) setKeyed(kind Kind, key, date string) {
	if date == "" {
		t.setTokens(t.without(ofKind(kind)))
		return
	}
	// keep the key spelling already in use, e.g. DUE:
	if cur, ok := t.first(kind); ok {
		if k, _, found := strings.Cut(cur.Text, ":"); found {
			key = k
		}
	}
	t.replaceOrAppend(kind, keyToken(kind, key, date))
}

// SetCreateDate sets the creation date, placed after completion info and
// priority. An empty date removes it.
func (t *Task) SetCreateDate(date string) {
	tokens := t.without(ofKind(KindCreateDate))
	if date == "" {
		t.setTokens(tokens)
		return
	}
	t.setTokens(insertAt(tokens, prefixLen(tokens, true), dateToken(KindCreateDate, date)))
}

// AddTag appends +name for every whitespace separated name not already
// present.
func (t *Task) AddTag(names string) {
	t.addNames(KindProject, "+", names)
}

// AddList appends @name for every whitespace separated name not already
// present.
func (t *Task) AddList(names string) {
	t.addNames(KindContext, "@", names)
}

func (t *Task) addNames(kind Kind, sigil, names string) {
	tokens := t.Tokens()
	present := make(map[string]bool)
	for _, name := range t.names(kind) {
		present[name] = true
	}
	for _, name := range strings.Fields(names) {
		name = strings.TrimPrefix(name, sigil)
		if name == "" || present[name] {
			continue
		}
		present[name] = true
		tokens = append(tokens, Token{Kind: kind, Text: sigil + name, Value: name})
	}
	t.setTokens(tokens)
}

// RemoveTag removes every +name. Asking for "+name" also removes the
// escaped "++name" text.
func (t *Task) RemoveTag(name string) {
	t.removeName(KindProject, "+", name)
}

// RemoveList removes every @name. Asking for "@name" also removes the
// escaped "@@name" text.
func (t *Task) RemoveList(name string) {
	t.removeName(KindContext, "@", name)
}

func (t *Task) removeName(kind Kind, sigil, name string) {
	escaped := ""
	if strings.HasPrefix(name, sigil) {
		escaped = sigil + name
	}
	t.setTokens(t.without(func(tok Token) bool {
		if tok.Kind == kind && tok.Value == name {
			return true
		}
		return escaped != "" && tok.Kind == KindText && tok.Text == escaped
	}))
}

// MarkComplete prepends "x onDate" unless the task is already complete.
//
// For a recurring task it returns the next occurrence: a fresh task built
// from the text before completion, with due and threshold dates advanced and
// the creation date (when the task had one) set to onDate. It returns nil
// when nothing recurs.
func (t *Task) MarkComplete(onDate string) *Task {
	if t.Completed() {
		return nil
	}
	before := t.text
	next, ok := t.NextOccurrence(onDate)
	hadCreateDate := t.CreateDate() != ""

	prefix := []Token{{Kind: KindCompleted, Text: "x"}, dateToken(KindCompletionDate, onDate)}
	t.setTokens(append(prefix, t.tokens...))

	if !ok {
		return nil
	}
	repeat := Parse(before)
	if next.Due != "" {
		repeat.SetDue(next.Due)
	}
	if next.Threshold != "" {
		repeat.SetThreshold(next.Threshold)
	}
	if hadCreateDate {
		repeat.SetCreateDate(onDate)
	}
	return repeat
}

// MarkIncomplete removes the completion marker and completion date.
func (t *Task) MarkIncomplete() {
	t.setTokens(t.without(ofKind(KindCompleted, KindCompletionDate)))
}
