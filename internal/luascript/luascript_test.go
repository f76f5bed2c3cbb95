package luascript

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nibzard/tasktxt/internal/query"
	"github.com/nibzard/tasktxt/internal/task"
)

func evaluate(t *testing.T, script, line string) (bool, error) {
	t.Helper()
	s, err := Load(script, time.Second)
	require.NoError(t, err)
	defer s.Close()
	return s.Evaluate(0, query.FieldsOf(task.Parse(line)))
}

func TestEvaluate(t *testing.T) {
	tests := []struct {
		name   string
		script string
		line   string
		want   bool
	}{
		{
			name:   "priority",
			script: `function onFilter(t, f, e) return f.priority == "A" end`,
			line:   "(A) Test",
			want:   true,
		},
		{
			name:   "no priority is a dash",
			script: `function onFilter(t, f, e) return f.priority == "-" end`,
			line:   "Test",
			want:   true,
		},
		{
			name:   "task text",
			script: `function onFilter(t, f, e) return string.find(t, "milk") ~= nil end`,
			line:   "Buy milk",
			want:   true,
		},
		{
			name:   "tags as set",
			script: `function onFilter(t, f, e) return f.tags["garden"] == true and f.lists["home"] == nil end`,
			line:   "Weed +garden @yard",
			want:   true,
		},
		{
			name:   "missing due is nil",
			script: `function onFilter(t, f, e) return f.due == nil end`,
			line:   "Test t:2014-01-01",
			want:   true,
		},
		{
			name:   "due as epoch seconds",
			script: `function onFilter(t, f, e) return f.due == 1388534400 end`,
			line:   "Test due:2014-01-01",
			want:   true,
		},
		{
			name:   "extensions",
			script: `function onFilter(t, f, e) return e.misc == "mine" end`,
			line:   "Test misc:mine",
			want:   true,
		},
		{
			name:   "completed and recurrence",
			script: `function onFilter(t, f, e) return f.completed and f.recurrence == "+1w" end`,
			line:   "x Test rec:+1w",
			want:   true,
		},
		{
			name:   "nil result is false",
			script: `function onFilter(t, f, e) end`,
			line:   "Test",
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := evaluate(t, tt.script, tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEvaluateIndex(t *testing.T) {
	s, err := Load(`function onFilter(t, f, e) return f.index % 2 == 0 end`, 0)
	require.NoError(t, err)
	defer s.Close()

	even, err := s.Evaluate(4, query.FieldsOf(task.Parse("a")))
	require.NoError(t, err)
	assert.True(t, even)

	odd, err := s.Evaluate(3, query.FieldsOf(task.Parse("a")))
	require.NoError(t, err)
	assert.False(t, odd)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(`function onFilter(`, 0)
	assert.Error(t, err)

	_, err = Load(`x = 1`, 0)
	assert.True(t, errors.Is(err, ErrNoFilter))
}

func TestRuntimeError(t *testing.T) {
	_, err := evaluate(t, `function onFilter(t, f, e) return f.missing.field end`, "Test")
	assert.Error(t, err)
}

func TestTimeout(t *testing.T) {
	s, err := Load(`function onFilter(t, f, e) while true do end end`, 20*time.Millisecond)
	require.NoError(t, err)
	defer s.Close()

	_, err = s.Evaluate(0, query.FieldsOf(task.Parse("a")))
	assert.Error(t, err)
}

func TestClosed(t *testing.T) {
	s, err := Load(`function onFilter() return true end`, 0)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	_, err = s.Evaluate(0, query.Fields{})
	assert.Error(t, err)
}

func TestEngineFailOpen(t *testing.T) {
	f := query.New()
	f.UseScript = true
	f.Script = `function onFilter(t, f, e) if string.find(t, "boom") then error("bad") end return f.priority == "A" end`

	got := f.Apply([]*task.Task{
		task.Parse("(A) keep"),
		task.Parse("drop"),
		task.Parse("boom kept anyway"),
	}, query.Options{Scripts: NewEngine(time.Second)})

	require.Len(t, got, 2)
	assert.Equal(t, "(A) keep", got[0].String())
	assert.Equal(t, "boom kept anyway", got[1].String())
}
