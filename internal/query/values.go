package query

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktxt/internal/sorting"
	"github.com/nibzard/tasktxt/internal/task"
)

// Keys of the flat key/value form. Lists are joined with newlines.
const (
	KeyContexts          = "CONTEXTS"
	KeyContextsNot       = "CONTEXTSnot"
	KeyProjects          = "PROJECTS"
	KeyProjectsNot       = "PROJECTSnot"
	KeyPriorities        = "PRIORITIES"
	KeyPrioritiesNot     = "PRIORITIESnot"
	KeySorts             = "SORTS"
	KeySearch            = "query"
	KeyHideCompleted     = "HIDECOMPLETED"
	KeyHideFuture        = "HIDEFUTURE"
	KeyHideHidden        = "HIDEHIDDEN"
	KeyHideLists         = "HIDELISTS"
	KeyHideTags          = "HIDETAGS"
	KeyHideCreateDate    = "HIDECREATEDATE"
	KeyCreateIsThreshold = "CREATEISTHRESHOLD"
	KeyScript            = "LUASCRIPT"
	KeyUseScript         = "USE_SCRIPT"
	KeyScriptTestTask    = "LUASCRIPT_TEST_TASK"
)

const listSeparator = "\n"

// Values returns the flat key/value form of f.
func (f *Filter) Values() map[string]string {
	codes := make([]string, len(f.Priorities))
	for i, p := range f.Priorities {
		codes[i] = p.Code()
	}
	return map[string]string{
		KeyContexts:          strings.Join(f.Contexts, listSeparator),
		KeyContextsNot:       strconv.FormatBool(f.ContextsNot),
		KeyProjects:          strings.Join(f.Projects, listSeparator),
		KeyProjectsNot:       strconv.FormatBool(f.ProjectsNot),
		KeyPriorities:        strings.Join(codes, listSeparator),
		KeyPrioritiesNot:     strconv.FormatBool(f.PrioritiesNot),
		KeySorts:             strings.Join(f.Sort.Strings(), listSeparator),
		KeySearch:            f.Search,
		KeyHideCompleted:     strconv.FormatBool(f.HideCompleted),
		KeyHideFuture:        strconv.FormatBool(f.HideFuture),
		KeyHideHidden:        strconv.FormatBool(f.HideHidden),
		KeyHideLists:         strconv.FormatBool(f.HideLists),
		KeyHideTags:          strconv.FormatBool(f.HideTags),
		KeyHideCreateDate:    strconv.FormatBool(f.HideCreateDate),
		KeyCreateIsThreshold: strconv.FormatBool(f.CreateIsThreshold),
		KeyScript:            f.Script,
		KeyUseScript:         strconv.FormatBool(f.UseScript),
		KeyScriptTestTask:    f.ScriptTestTask,
	}
}

// FromValues rebuilds a filter from its key/value form. Missing keys take
// their defaults; HIDEHIDDEN defaults to true. Unknown sort keys are logged
// and dropped.
func FromValues(values map[string]string, logger *log.Logger) *Filter {
	f := &Filter{
		Contexts:          splitList(values[KeyContexts]),
		ContextsNot:       boolValue(values, KeyContextsNot, false),
		Projects:          splitList(values[KeyProjects]),
		ProjectsNot:       boolValue(values, KeyProjectsNot, false),
		PrioritiesNot:     boolValue(values, KeyPrioritiesNot, false),
		Search:            values[KeySearch],
		HideCompleted:     boolValue(values, KeyHideCompleted, false),
		HideFuture:        boolValue(values, KeyHideFuture, false),
		HideHidden:        boolValue(values, KeyHideHidden, true),
		HideLists:         boolValue(values, KeyHideLists, false),
		HideTags:          boolValue(values, KeyHideTags, false),
		HideCreateDate:    boolValue(values, KeyHideCreateDate, false),
		CreateIsThreshold: boolValue(values, KeyCreateIsThreshold, false),
		Script:            values[KeyScript],
		UseScript:         boolValue(values, KeyUseScript, false),
		ScriptTestTask:    values[KeyScriptTestTask],
	}
	f.Priorities = ParsePriorities(splitList(values[KeyPriorities]))
	f.Sort = sorting.ParseSpec(splitList(values[KeySorts]), logger)
	return f
}

// ParsePriorities converts priority codes to priorities. "-" stands for
// NoPriority; invalid codes are dropped.
func ParsePriorities(codes []string) []task.Priority {
	var out []task.Priority
	for _, code := range codes {
		if code == "-" {
			out = append(out, task.NoPriority)
			continue
		}
		if p := task.ParsePriority(code); p.Valid() {
			out = append(out, p)
		}
	}
	return out
}

func splitList(s string) []string {
	var out []string
	for _, item := range strings.Split(s, listSeparator) {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func boolValue(values map[string]string, key string, def bool) bool {
	v, ok := values[key]
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}
