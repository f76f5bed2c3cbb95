package todo

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/nibzard/tasktxt/internal/recur"
	"github.com/nibzard/tasktxt/internal/task"
)

// ErrLineOutOfRange is returned when a line number does not address a task.
var ErrLineOutOfRange = errors.New("line out of range")

// File is a loaded todo.txt file.
type File struct {
	Path  string
	Tasks []*task.Task
	crlf  bool
}

// Load reads the todo.txt file at path. A missing file loads as empty.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return &File{Path: path}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	f := Parse(data)
	f.Path = path
	return f, nil
}

// Parse splits data into tasks, one per line. Lines have no length limit
// and a last line without a newline is kept.
func Parse(data []byte) *File {
	f := &File{crlf: bytes.Contains(data, []byte("\r\n"))}
	if len(data) == 0 {
		return f
	}
	lines := bytes.Split(bytes.TrimSuffix(data, []byte("\n")), []byte("\n"))
	f.Tasks = make([]*task.Task, 0, len(lines))
	for _, line := range lines {
		f.Tasks = append(f.Tasks, task.Parse(string(bytes.TrimSuffix(line, []byte("\r")))))
	}
	return f
}

// Bytes renders the file contents.
func (f *File) Bytes() []byte {
	eol := "\n"
	if f.crlf {
		eol = "\r\n"
	}
	var b bytes.Buffer
	for _, t := range f.Tasks {
		b.WriteString(t.String())
		b.WriteString(eol)
	}
	return b.Bytes()
}

// Save writes the file back to its path.
func (f *File) Save() error {
	if f.Path == "" {
		return errors.New("todo file has no path")
	}
	return writeAtomic(f.Path, f.Bytes())
}

func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create todo dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}
	return nil
}

// Get returns the task on line n (1-based).
func (f *File) Get(n int) (*task.Task, error) {
	if n < 1 || n > len(f.Tasks) || f.Tasks[n-1].Blank() {
		return nil, fmt.Errorf("%w: %d", ErrLineOutOfRange, n)
	}
	return f.Tasks[n-1], nil
}

// LineOf returns the 1-based line of t, or 0 if t is not in the file.
func (f *File) LineOf(t *task.Task) int {
	for i, have := range f.Tasks {
		if have == t {
			return i + 1
		}
	}
	return 0
}

// Lines maps each task to its 1-based line number.
func (f *File) Lines() map[*task.Task]int {
	lines := make(map[*task.Task]int, len(f.Tasks))
	for i, t := range f.Tasks {
		lines[t] = i + 1
	}
	return lines
}

// Add appends a task parsed from text and returns it with its line number.
// When today is non-empty and the task has no create date, today is used.
func (f *File) Add(text, today string) (*task.Task, int) {
	t := task.Parse(strings.TrimSpace(text))
	if today != "" && t.CreateDate() == "" && !t.Completed() {
		t.SetCreateDate(today)
	}
	f.Tasks = append(f.Tasks, t)
	return t, len(f.Tasks)
}

// Remove deletes the tasks on the given lines.
func (f *File) Remove(lines ...int) ([]*task.Task, error) {
	for _, n := range lines {
		if _, err := f.Get(n); err != nil {
			return nil, err
		}
	}
	sorted := append([]int(nil), lines...)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	var removed []*task.Task
	last := 0
	for _, n := range sorted {
		if n == last {
			continue
		}
		last = n
		removed = append(removed, f.Tasks[n-1])
		f.Tasks = append(f.Tasks[:n-1], f.Tasks[n:]...)
	}
	return removed, nil
}

// Complete marks line n done on date. If the task recurs, the next occurrence
// is appended and returned.
func (f *File) Complete(n int, date string) (*task.Task, error) {
	t, err := f.Get(n)
	if err != nil {
		return nil, err
	}
	repeat := t.MarkComplete(date)
	if repeat != nil {
		f.Tasks = append(f.Tasks, repeat)
	}
	return repeat, nil
}

// Uncomplete reopens line n.
func (f *File) Uncomplete(n int) error {
	t, err := f.Get(n)
	if err != nil {
		return err
	}
	t.MarkIncomplete()
	return nil
}

// Archive moves completed tasks to the done file at donePath and drops blank
// lines. It returns the number of tasks moved.
func (f *File) Archive(donePath string) (int, error) {
	var done, keep []*task.Task
	for _, t := range f.Tasks {
		switch {
		case t.Blank():
		case t.Completed():
			done = append(done, t)
		default:
			keep = append(keep, t)
		}
	}
	if len(done) == 0 {
		return 0, nil
	}

	doneFile, err := Load(donePath)
	if err != nil {
		return 0, err
	}
	if len(doneFile.Tasks) == 0 {
		doneFile.crlf = f.crlf
	}
	doneFile.Tasks = append(doneFile.Tasks, done...)
	if err := doneFile.Save(); err != nil {
		return 0, fmt.Errorf("archive: %w", err)
	}
	f.Tasks = keep
	return len(done), nil
}

// ValidationError is a problem found on one line.
type ValidationError struct {
	Line int
	Err  error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// ValidationResult contains validation results.
type ValidationResult struct {
	Valid    bool
	Errors   []error
	Warnings []string
}

// Validate checks every line for fields that look like dates or recurrences
// but don't parse.
func (f *File) Validate() *ValidationResult {
	result := &ValidationResult{Valid: true}
	for i, t := range f.Tasks {
		for _, tok := range t.Tokens() {
			if tok.Kind != task.KindText {
				continue
			}
			key, value, ok := strings.Cut(tok.Text, ":")
			if !ok {
				continue
			}
			switch strings.ToLower(key) {
			case "due", "t":
				if !recur.IsDateShaped(value) {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("line %d: %s is not a date, kept as text", i+1, tok.Text))
				}
			case "rec":
				if _, ok := recur.Parse(value); !ok {
					result.Warnings = append(result.Warnings,
						fmt.Sprintf("line %d: %s is not a recurrence, kept as text", i+1, tok.Text))
				}
			}
		}
		for _, date := range []string{t.Due(), t.Threshold(), t.CreateDate(), t.CompletionDate()} {
			if date == "" {
				continue
			}
			if _, ok := recur.ParseDate(date); !ok {
				result.Valid = false
				result.Errors = append(result.Errors, &ValidationError{
					Line: i + 1,
					Err:  fmt.Errorf("invalid date %s", date),
				})
			}
		}
	}
	return result
}
