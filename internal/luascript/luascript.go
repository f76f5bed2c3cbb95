// Package luascript evaluates filter scripts written in Lua.
//
// A script defines a global function
//
//	function onFilter(task, fields, extensions)
//	    return fields.priority == "A"
//	end
//
// where task is the task line, fields holds the parsed fields (dates as Unix
// seconds, tags and lists as sets) and extensions maps unknown key:value
// fields. The function is called once per task; a truthy result keeps it.
package luascript

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"

	"github.com/nibzard/tasktxt/internal/query"
)

// FilterFunc is the global the script must define.
const FilterFunc = "onFilter"

// ErrNoFilter is returned when a script does not define onFilter.
var ErrNoFilter = errors.New("script does not define " + FilterFunc)

// Engine compiles Lua filter scripts.
type Engine struct {
	// Timeout bounds each onFilter call. Zero means no limit.
	Timeout time.Duration
}

// NewEngine returns an engine with the given per-call timeout.
func NewEngine(timeout time.Duration) *Engine {
	return &Engine{Timeout: timeout}
}

// Compile loads script into a fresh Lua state.
func (e *Engine) Compile(script string) (query.Evaluator, error) {
	return Load(script, e.Timeout)
}

// Script is a loaded filter script. It is safe for use by one goroutine at
// a time; Evaluate serializes calls.
type Script struct {
	mu      sync.Mutex
	state   *lua.LState
	fn      *lua.LFunction
	timeout time.Duration
}

// Load runs script and looks up its onFilter function.
func Load(script string, timeout time.Duration) (*Script, error) {
	L := lua.NewState()
	if err := L.DoString(script); err != nil {
		L.Close()
		return nil, fmt.Errorf("load script: %w", err)
	}
	fn, ok := L.GetGlobal(FilterFunc).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoFilter
	}
	return &Script{state: L, fn: fn, timeout: timeout}, nil
}

// Evaluate calls onFilter for one task.
func (s *Script) Evaluate(index int, fields query.Fields) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	L := s.state
	if L == nil {
		return false, errors.New("script is closed")
	}
	if s.timeout > 0 {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()
		L.SetContext(ctx)
		defer L.RemoveContext()
	}

	table := fieldTable(L, fields)
	table.RawSetString("index", lua.LNumber(index))
	err := L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true},
		lua.LString(fields.Task), table, stringTable(L, fields.Extensions))
	if err != nil {
		return false, fmt.Errorf("%s: %w", FilterFunc, err)
	}
	ret := L.Get(-1)
	L.Pop(1)
	return lua.LVAsBool(ret), nil
}

// Close releases the Lua state.
func (s *Script) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil {
		s.state.Close()
		s.state = nil
	}
	return nil
}

func fieldTable(L *lua.LState, f query.Fields) *lua.LTable {
	t := L.NewTable()
	t.RawSetString("task", lua.LString(f.Task))
	setDate(t, "due", f.Due)
	setDate(t, "threshold", f.Threshold)
	setDate(t, "createdate", f.CreateDate)
	setDate(t, "completiondate", f.CompletionDate)
	if f.Recurrence != "" {
		t.RawSetString("recurrence", lua.LString(f.Recurrence))
	}
	t.RawSetString("completed", lua.LBool(f.Completed))
	t.RawSetString("priority", lua.LString(f.Priority))
	t.RawSetString("tags", setTable(L, f.Tags))
	t.RawSetString("lists", setTable(L, f.Lists))
	return t
}

func setDate(t *lua.LTable, key string, secs *int64) {
	if secs != nil {
		t.RawSetString(key, lua.LNumber(*secs))
	}
}

func setTable(L *lua.LState, names []string) *lua.LTable {
	t := L.NewTable()
	for _, n := range names {
		t.RawSetString(n, lua.LTrue)
	}
	return t
}

func stringTable(L *lua.LState, m map[string]string) *lua.LTable {
	t := L.NewTable()
	for k, v := range m {
		t.RawSetString(k, lua.LString(v))
	}
	return t
}
