package sorting

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasktxt/internal/task"
)

func parseAll(lines ...string) []*task.Task {
	tasks := make([]*task.Task, len(lines))
	for i, l := range lines {
		tasks[i] = task.Parse(l)
	}
	return tasks
}

func texts(tasks []*task.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.String()
	}
	return out
}

func mustSpec(t *testing.T, tokens ...string) Spec {
	t.Helper()
	spec := ParseSpec(tokens, nil)
	require.Len(t, spec, len(tokens))
	return spec
}

func TestParseTerm(t *testing.T) {
	tests := []struct {
		in     string
		want   Term
		wantOK bool
	}{
		{"+!by_prio", Term{Key: ByPriority}, true},
		{"-!by_context", Term{Key: ByContext, Reversed: true}, true},
		{"alphabetical", Term{Key: Alphabetical}, true},
		{" +!file_order ", Term{Key: FileOrder}, true},
		{"+!by_lua", Term{}, false},
		{"-!", Term{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParseTerm(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseSpecSkipsUnknown(t *testing.T) {
	var buf bytes.Buffer
	logger := log.New(&buf)

	spec := ParseSpec([]string{"+!by_prio", "+!nonsense", "", "-!by_due_date"}, logger)

	assert.Equal(t, Spec{{Key: ByPriority}, {Key: ByDueDate, Reversed: true}}, spec)
	assert.Contains(t, buf.String(), "unknown sort")
	assert.Contains(t, buf.String(), "+!nonsense")
	assert.Equal(t, []string{"+!by_prio", "-!by_due_date"}, spec.Strings())
}

func TestKeyNames(t *testing.T) {
	for k := FileOrder; k <= ByCompletionDate; k++ {
		got, ok := ParseKey(k.String())
		require.True(t, ok, k.String())
		assert.Equal(t, k, got)
	}
	assert.Equal(t, "unknown", Key(-1).String())
}

func TestSort(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		spec  []string
		opts  Options
		want  []string
	}{
		{
			name:  "empty spec keeps file order",
			lines: []string{"b", "a", "c"},
			want:  []string{"b", "a", "c"},
		},
		{
			name:  "reversed file order",
			lines: []string{"b", "a", "c"},
			spec:  []string{"-!file_order"},
			want:  []string{"c", "a", "b"},
		},
		{
			name:  "context reversed",
			lines: []string{"@a", "@b"},
			spec:  []string{"-!by_context"},
			want:  []string{"@b", "@a"},
		},
		{
			name:  "context uses first alphabetical list, none last",
			lines: []string{"one @z @b", "two", "three @c"},
			spec:  []string{"+!by_context"},
			want:  []string{"one @z @b", "three @c", "two"},
		},
		{
			name:  "project uses tags, none last",
			lines: []string{"one +b @a", "two @a", "three +a"},
			spec:  []string{"+!by_project"},
			want:  []string{"three +a", "one +b @a", "two @a"},
		},
		{
			name:  "context reversed puts none first",
			lines: []string{"@a", "none", "@b"},
			spec:  []string{"-!by_context"},
			want:  []string{"none", "@b", "@a"},
		},
		{
			name:  "context names differing in case tie",
			lines: []string{"a @home", "b @Home", "c @home"},
			spec:  []string{"+!by_context"},
			want:  []string{"a @home", "b @Home", "c @home"},
		},
		{
			name:  "context case insensitive by default",
			lines: []string{"@b", "@A"},
			spec:  []string{"+!by_context"},
			want:  []string{"@A", "@b"},
		},
		{
			name:  "context case sensitive",
			lines: []string{"@a", "@B"},
			spec:  []string{"+!by_context"},
			opts:  Options{CaseSensitive: true},
			want:  []string{"@B", "@a"},
		},
		{
			name:  "priority puts none last",
			lines: []string{"none", "(B) b", "(A) a", "(Z) z"},
			spec:  []string{"+!by_prio"},
			want:  []string{"(A) a", "(B) b", "(Z) z", "none"},
		},
		{
			name:  "completed last",
			lines: []string{"x done", "open", "x 2000-01-01 also done", "open too"},
			spec:  []string{"+!completed"},
			want:  []string{"open", "open too", "x done", "x 2000-01-01 also done"},
		},
		{
			name:  "alphabetical ignores fields",
			lines: []string{"2014-01-01 banana", "(A) @z Apple", "cherry +a"},
			spec:  []string{"+!alphabetical"},
			want:  []string{"(A) @z Apple", "2014-01-01 banana", "cherry +a"},
		},
		{
			name:  "alphabetical case sensitive",
			lines: []string{"apple", "Banana"},
			spec:  []string{"+!alphabetical"},
			opts:  Options{CaseSensitive: true},
			want:  []string{"Banana", "apple"},
		},
		{
			name:  "due date missing last",
			lines: []string{"none", "b due:2014-02-01", "a due:2014-01-01"},
			spec:  []string{"+!by_due_date"},
			want:  []string{"a due:2014-01-01", "b due:2014-02-01", "none"},
		},
		{
			name:  "due date reversed puts missing first",
			lines: []string{"b due:2014-02-01", "none", "a due:2014-01-01"},
			spec:  []string{"-!by_due_date"},
			want:  []string{"none", "b due:2014-02-01", "a due:2014-01-01"},
		},
		{
			name:  "creation date",
			lines: []string{"none", "2014-02-01 b", "2014-01-01 a"},
			spec:  []string{"+!by_creation_date"},
			want:  []string{"2014-01-01 a", "2014-02-01 b", "none"},
		},
		{
			name:  "completion date",
			lines: []string{"x 2014-02-01 b", "x a", "x 2014-01-01 c"},
			spec:  []string{"+!by_completion_date"},
			want:  []string{"x 2014-01-01 c", "x 2014-02-01 b", "x a"},
		},
		{
			name:  "threshold with create fallback",
			lines: []string{"2014-03-01 c", "b t:2014-02-01", "2014-01-01 a"},
			spec:  []string{"+!by_threshold_date"},
			opts:  Options{CreateIsThreshold: true},
			want:  []string{"2014-01-01 a", "b t:2014-02-01", "2014-03-01 c"},
		},
		{
			name:  "threshold without create fallback",
			lines: []string{"2014-03-01 c", "b t:2014-02-01", "2014-01-01 a"},
			spec:  []string{"+!by_threshold_date"},
			want:  []string{"b t:2014-02-01", "2014-03-01 c", "2014-01-01 a"},
		},
		{
			name:  "in future last",
			lines: []string{"later t:2030-01-01", "now"},
			spec:  []string{"+!in_future"},
			opts:  Options{Today: "2020-01-01"},
			want:  []string{"now", "later t:2030-01-01"},
		},
		{
			name:  "keys chain left to right",
			lines: []string{"(B) @b", "(A) @b", "(B) @a", "(A) @a"},
			spec:  []string{"+!by_context", "+!by_prio"},
			want:  []string{"(A) @a", "(B) @a", "(A) @b", "(B) @b"},
		},
		{
			name:  "file order ends the chain",
			lines: []string{"(B) one", "(A) two"},
			spec:  []string{"+!file_order", "+!by_prio"},
			want:  []string{"(B) one", "(A) two"},
		},
		{
			name:  "ties keep file order",
			lines: []string{"(A) 1", "(A) 2", "(A) 3"},
			spec:  []string{"-!by_prio"},
			want:  []string{"(A) 1", "(A) 2", "(A) 3"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tasks := parseAll(tt.lines...)
			got := Sort(tasks, mustSpec(t, tt.spec...), tt.opts)
			assert.Equal(t, tt.want, texts(got))
			assert.Equal(t, tt.lines, texts(tasks), "input must not be reordered")
		})
	}
}

func TestGroupHeaderCount(t *testing.T) {
	spec := mustSpec(t, "+!by_context")
	tasks := Sort(parseAll("@c", "@a", "@b"), spec, Options{})

	lines := Group(tasks, spec, GroupOptions{})

	require.Len(t, lines, 6)
	assert.Equal(t, Line{Header: "a", Count: 1}, lines[0])
	assert.Equal(t, "@a", lines[1].Task.String())
	assert.True(t, lines[2].IsHeader())
	assert.Equal(t, "b", lines[2].Header)
	assert.Equal(t, "c", lines[4].Header)
}

func TestGroup(t *testing.T) {
	t.Run("no value gets no header title", func(t *testing.T) {
		spec := mustSpec(t, "+!by_context")
		tasks := Sort(parseAll("plain", "@a one", "@a two"), spec, Options{})

		lines := Group(tasks, spec, GroupOptions{NoHeader: "(none)"})

		require.Len(t, lines, 5)
		assert.Equal(t, Line{Header: "a", Count: 2}, lines[0])
		assert.Equal(t, Line{Header: "(none)", Count: 1}, lines[3])
	})

	t.Run("case insensitive names share a group", func(t *testing.T) {
		spec := mustSpec(t, "+!by_context")
		tasks := Sort(parseAll("a @home", "b @Home", "c @home"), spec, Options{})

		lines := Group(tasks, spec, GroupOptions{})

		require.Len(t, lines, 4)
		assert.Equal(t, Line{Header: "home", Count: 3}, lines[0])
	})

	t.Run("case sensitive names split groups", func(t *testing.T) {
		spec := mustSpec(t, "+!by_context")
		opts := Options{CaseSensitive: true}
		tasks := Sort(parseAll("a @home", "b @Home", "c @home"), spec, opts)

		lines := Group(tasks, spec, GroupOptions{CaseSensitive: true})

		require.Len(t, lines, 5)
		assert.Equal(t, Line{Header: "Home", Count: 1}, lines[0])
		assert.Equal(t, Line{Header: "home", Count: 2}, lines[2])
	})

	t.Run("header follows the sort name", func(t *testing.T) {
		spec := mustSpec(t, "+!by_context")
		tasks := Sort(parseAll("x1 @a @B", "x2 @a"), spec, Options{})

		lines := Group(tasks, spec, GroupOptions{})

		require.Len(t, lines, 3)
		assert.Equal(t, Line{Header: "a", Count: 2}, lines[0])
	})

	t.Run("skips completed and in_future", func(t *testing.T) {
		spec := mustSpec(t, "+!completed", "+!in_future", "+!by_prio")
		tasks := Sort(parseAll("(B) b", "(A) a", "c"), spec, Options{Today: "2020-01-01"})

		lines := Group(tasks, spec, GroupOptions{})

		var headers []string
		for _, l := range lines {
			if l.IsHeader() {
				headers = append(headers, l.Header)
			}
		}
		assert.Equal(t, []string{"A", "B", "-"}, headers)
	})

	t.Run("alphabetical has no headers", func(t *testing.T) {
		spec := mustSpec(t, "+!alphabetical")
		lines := Group(parseAll("a", "b"), spec, GroupOptions{})
		assert.Len(t, lines, 2)
	})

	t.Run("empty spec has no headers", func(t *testing.T) {
		lines := Group(parseAll("a", "b"), nil, GroupOptions{})
		assert.Len(t, lines, 2)
		assert.False(t, lines[0].IsHeader())
	})

	t.Run("only completed has no headers", func(t *testing.T) {
		spec := mustSpec(t, "+!completed")
		_, ok := spec.GroupKey()
		assert.False(t, ok)
		assert.Len(t, Group(parseAll("a", "x b"), spec, GroupOptions{}), 2)
	})

	t.Run("threshold headers", func(t *testing.T) {
		spec := mustSpec(t, "+!by_threshold_date")
		tasks := parseAll("a t:2014-01-01", "b t:2014-01-01", "2014-02-02 c")

		lines := Group(tasks, spec, GroupOptions{CreateIsThreshold: true})

		require.Len(t, lines, 5)
		assert.Equal(t, Line{Header: "2014-01-01", Count: 2}, lines[0])
		assert.Equal(t, Line{Header: "2014-02-02", Count: 1}, lines[3])
	})

	t.Run("project and due headers", func(t *testing.T) {
		tasks := parseAll("a +x due:2014-01-01")
		assert.Equal(t, "x", Header(tasks[0], ByProject, GroupOptions{}))
		assert.Equal(t, "2014-01-01", Header(tasks[0], ByDueDate, GroupOptions{}))
		assert.Equal(t, "-", Header(tasks[0], ByContext, GroupOptions{}))
		assert.Equal(t, "", Header(tasks[0], Alphabetical, GroupOptions{}))
	})
}
