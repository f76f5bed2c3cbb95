// Package todo reads, updates, and writes todo.txt files.
//
// A todo.txt file holds one task per line:
//
//	(A) 2024-01-02 Call the plumber @phone +house due:2024-01-05
//	x 2024-01-03 2024-01-01 Pay rent rec:1m
//
// Tasks are addressed by 1-based line number, matching what `tasktxt ls`
// prints. Blank lines are preserved so numbers stay stable until the file is
// archived.
//
// # Line Endings
//
// The file's line ending (LF or CRLF) is detected on load and kept on save.
// Saving writes a temporary file in the same directory and renames it over
// the original.
//
// # Validation
//
// Validate reports lines that look like they carry a date but don't parse
// (for example due:2024-13-01). Those lines still load; the bad field is
// treated as plain text.
package todo
