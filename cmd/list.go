package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/nibzard/tasktxt/internal/query"
	"github.com/nibzard/tasktxt/internal/sorting"
	"github.com/nibzard/tasktxt/internal/utils"
)

// filterFlags are the filter options shared by ls and query save.
type filterFlags struct {
	fs          *flag.FlagSet
	contexts    string
	projects    string
	priorities  string
	notContext  bool
	notProject  bool
	notPriority bool
	sort        string
	all         bool
	queryName   string
	scriptFile  string
	hideLists   bool
	hideTags    bool
	hideCreate  bool
}

func newFilterFlags(name string) *filterFlags {
	ff := &filterFlags{fs: flag.NewFlagSet(name, flag.ContinueOnError)}
	fs := ff.fs
	fs.StringVar(&ff.contexts, "context", "", "Comma-separated contexts ('-' for none)")
	fs.StringVar(&ff.projects, "project", "", "Comma-separated projects ('-' for none)")
	fs.StringVar(&ff.priorities, "priority", "", "Comma-separated priorities ('-' for none)")
	fs.BoolVar(&ff.notContext, "not-context", false, "Exclude the given contexts")
	fs.BoolVar(&ff.notProject, "not-project", false, "Exclude the given projects")
	fs.BoolVar(&ff.notPriority, "not-priority", false, "Exclude the given priorities")
	fs.StringVar(&ff.sort, "sort", "", "Comma-separated sort terms")
	fs.BoolVar(&ff.all, "all", false, "Show completed and future tasks")
	fs.StringVar(&ff.queryName, "query", "", "Start from a saved query")
	fs.StringVar(&ff.scriptFile, "script", "", "Lua filter script file")
	fs.BoolVar(&ff.hideLists, "hide-lists", false, "Hide @contexts in output")
	fs.BoolVar(&ff.hideTags, "hide-tags", false, "Hide +projects in output")
	fs.BoolVar(&ff.hideCreate, "hide-create-date", false, "Hide creation dates in output")
	return ff
}

// filter builds the filter: a saved query or the configured defaults, then
// every flag that was set on top. Remaining arguments become the search text.
func (a *app) filter(ctx context.Context, ff *filterFlags) (*query.Filter, error) {
	f := query.New()
	f.HideCompleted = a.cfg.HideCompleted
	f.HideFuture = a.cfg.HideFuture
	f.HideHidden = a.cfg.HideHidden
	f.CreateIsThreshold = a.cfg.CreateIsThreshold

	if ff.queryName != "" {
		s, err := a.openStore()
		if err != nil {
			return nil, err
		}
		defer s.Close()
		saved, err := s.Get(ctx, ff.queryName)
		if err != nil {
			return nil, err
		}
		f = query.FromValues(saved.Values, a.log)
	}

	var err error
	ff.fs.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "context":
			f.Contexts = utils.SplitAndTrim(ff.contexts, ",")
		case "project":
			f.Projects = utils.SplitAndTrim(ff.projects, ",")
		case "priority":
			f.Priorities = query.ParsePriorities(utils.SplitAndTrim(ff.priorities, ","))
		case "not-context":
			f.ContextsNot = ff.notContext
		case "not-project":
			f.ProjectsNot = ff.notProject
		case "not-priority":
			f.PrioritiesNot = ff.notPriority
		case "sort":
			f.Sort = sorting.ParseSpec(utils.SplitAndTrim(ff.sort, ","), a.log)
		case "all":
			if ff.all {
				f.HideCompleted = false
				f.HideFuture = false
			}
		case "hide-lists":
			f.HideLists = ff.hideLists
		case "hide-tags":
			f.HideTags = ff.hideTags
		case "hide-create-date":
			f.HideCreateDate = ff.hideCreate
		case "script":
			data, readErr := os.ReadFile(ff.scriptFile)
			if readErr != nil {
				err = fmt.Errorf("reading script: %w", readErr)
				return
			}
			f.Script = string(data)
			f.UseScript = true
		}
	})
	if err != nil {
		return nil, err
	}
	if words := ff.fs.Args(); len(words) > 0 {
		f.Search = strings.Join(words, " ")
	}
	return f, nil
}

// lsCommand prints the visible tasks, sorted and grouped.
func (a *app) lsCommand(ctx context.Context, args []string) error {
	ff := newFilterFlags("tasktxt ls")
	ff.fs.SetOutput(a.stderr)
	headers := ff.fs.Bool("headers", true, "Print group headers")
	numbers := ff.fs.Bool("n", true, "Print line numbers")
	if err := ff.fs.Parse(args); err != nil {
		return err
	}

	f, err := a.filter(ctx, ff)
	if err != nil {
		return err
	}
	if len(f.Sort) == 0 {
		f.Sort = sorting.ParseSpec(a.cfg.DefaultSort, a.log)
	}

	file, err := a.loadTodo()
	if err != nil {
		return err
	}
	lineOf := file.Lines()
	width := len(strconv.Itoa(len(file.Tasks)))

	shown := 0
	for _, line := range f.Run(file.Tasks, a.queryOptions()) {
		if line.IsHeader() {
			if *headers {
				fmt.Fprintf(a.stdout, "--- %s (%d)\n", line.Header, line.Count)
			}
			continue
		}
		shown++
		text := line.Task.Display(f.HideLists, f.HideTags, f.HideCreateDate)
		if *numbers {
			fmt.Fprintf(a.stdout, "%*d %s\n", width, lineOf[line.Task], text)
		} else {
			fmt.Fprintln(a.stdout, text)
		}
	}
	a.log.Debug("listed tasks", "shown", shown, "total", len(file.Tasks), "file", file.Path)
	return nil
}
