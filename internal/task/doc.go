// Package task parses single todo.txt lines into structured tasks and
// renders them back to text.
//
// Parsing never fails. A line is split at every space or tab and each piece is
// classified into a Token; anything that is not recognized stays plain text,
// so String() always returns the exact input:
//
//	t := task.Parse("(A) 2024-01-02 Call mom @phone +family due:2024-01-05")
//	t.Priority()   // 'A'
//	t.CreateDate() // "2024-01-02"
//	t.Lists()      // [phone]
//	t.String()     // the original line
//
// Recognized fields:
//
//   - "x" at line start, optionally followed by a completion date and a
//     creation date
//   - "(A)".."(Z)" priority at line start (after completion info) when more
//     text follows
//   - a creation date after the priority
//   - +project and @context (a doubled "++" or "@@" is an escape and stays
//     plain text)
//   - due:DATE, t:DATE (threshold), rec:[+]N[dwmyb], h:1 (hidden)
//
// Mutations rewrite only the tokens of the field they touch, so the rest of
// the line keeps its spacing.
package task
