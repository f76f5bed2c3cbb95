package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/nibzard/tasktxt/internal/luascript"
	"github.com/nibzard/tasktxt/internal/query"
)

// queryCommand manages saved queries.
func (a *app) queryCommand(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("usage: tasktxt query save|ls|show|rm|export|import|test")
	}
	sub, rest := args[0], args[1:]
	switch sub {
	case "save":
		return a.querySave(ctx, rest)
	case "ls":
		return a.queryList(ctx)
	case "show", "export":
		return a.queryExport(ctx, sub, rest)
	case "rm":
		return a.queryRemove(ctx, rest)
	case "import":
		return a.queryImport(ctx, rest)
	case "test":
		return a.queryTest(ctx, rest)
	default:
		return fmt.Errorf("unknown query command: %s", sub)
	}
}

// querySave stores the filter described by ls-style flags under NAME.
// Unlike ls, nothing is inherited from the config defaults except HideHidden.
func (a *app) querySave(ctx context.Context, args []string) error {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return errors.New("usage: tasktxt query save NAME [ls options] [words]")
	}
	name := args[0]
	ff := newFilterFlags("tasktxt query save")
	ff.fs.SetOutput(a.stderr)
	hideCompleted := ff.fs.Bool("hide-completed", false, "Hide completed tasks")
	hideFuture := ff.fs.Bool("hide-future", false, "Hide tasks with a future threshold")
	showHidden := ff.fs.Bool("show-hidden", false, "Show h:1 tasks")
	if err := ff.fs.Parse(args[1:]); err != nil {
		return err
	}

	f, err := a.filter(ctx, ff)
	if err != nil {
		return err
	}
	if ff.queryName == "" {
		f.HideCompleted = *hideCompleted
		f.HideFuture = *hideFuture
		f.HideHidden = !*showHidden
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	saved, err := s.Save(ctx, name, f.Values())
	if err != nil {
		return err
	}
	a.log.Debug("saved query", "name", saved.Name, "id", saved.ID)
	fmt.Fprintf(a.stdout, "saved query %s\n", saved.Name)
	return nil
}

func (a *app) queryList(ctx context.Context) error {
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	list, err := s.List(ctx)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.stdout, "No saved queries.")
		return nil
	}
	for _, q := range list {
		f := query.FromValues(q.Values, a.log)
		fmt.Fprintf(a.stdout, "%-20s %s\n", q.Name, summarize(f))
	}
	return nil
}

// summarize renders the non-default parts of f on one line.
func summarize(f *query.Filter) string {
	var parts []string
	list := func(label string, items []string, not bool) {
		if len(items) == 0 {
			return
		}
		if not {
			label = "not " + label
		}
		parts = append(parts, label+"="+strings.Join(items, ","))
	}
	list("context", f.Contexts, f.ContextsNot)
	list("project", f.Projects, f.ProjectsNot)
	var prios []string
	for _, p := range f.Priorities {
		prios = append(prios, p.Code())
	}
	list("priority", prios, f.PrioritiesNot)
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	list("sort", f.Sort.Strings(), false)
	if f.HasScript() {
		parts = append(parts, "script")
	}
	if len(parts) == 0 {
		return "(all tasks)"
	}
	return strings.Join(parts, " ")
}

// queryExport prints (show) or writes (export) a saved query as a document.
func (a *app) queryExport(ctx context.Context, sub string, args []string) error {
	fs := flag.NewFlagSet("tasktxt query "+sub, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	format := fs.String("format", "yaml", "Document format (yaml|json)")
	out := fs.String("o", "", "Write to file instead of stdout")
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return fmt.Errorf("usage: tasktxt query %s NAME [-format yaml|json] [-o FILE]", sub)
	}
	name := args[0]
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}

	f, err := a.savedFilter(ctx, name)
	if err != nil {
		return err
	}

	var data []byte
	switch *format {
	case "yaml", "yml":
		data, err = query.MarshalYAML(f)
	case "json":
		data, err = query.MarshalJSON(f)
	default:
		return fmt.Errorf("unknown format %q", *format)
	}
	if err != nil {
		return err
	}
	if *out == "" {
		_, err = a.stdout.Write(data)
		return err
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", *out, err)
	}
	fmt.Fprintf(a.stdout, "exported %s to %s\n", name, *out)
	return nil
}

func (a *app) queryRemove(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: tasktxt query rm NAME")
	}
	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	if err := s.Delete(ctx, args[0]); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "removed query %s\n", args[0])
	return nil
}

// queryImport reads a YAML or JSON document (by extension, JSON otherwise)
// and saves it under NAME.
func (a *app) queryImport(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return errors.New("usage: tasktxt query import NAME FILE")
	}
	name, path := args[0], args[1]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	var f *query.Filter
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		f, err = query.UnmarshalYAML(data, a.log)
	default:
		f, err = query.UnmarshalJSON(data, a.log)
	}
	if err != nil {
		return fmt.Errorf("importing %s: %w", path, err)
	}

	s, err := a.openStore()
	if err != nil {
		return err
	}
	defer s.Close()
	if _, err := s.Save(ctx, name, f.Values()); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "imported query %s\n", name)
	return nil
}

// queryTest runs a query's script against its test task, or against -task.
func (a *app) queryTest(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasktxt query test", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	scriptFile := fs.String("script", "", "Script file to test instead of a saved query")
	testTask := fs.String("task", "", "Task line to test against")
	name := ""
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		name, args = args[0], args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	f := query.New()
	switch {
	case *scriptFile != "":
		data, err := os.ReadFile(*scriptFile)
		if err != nil {
			return fmt.Errorf("reading script: %w", err)
		}
		f.Script = string(data)
	case name != "":
		saved, err := a.savedFilter(ctx, name)
		if err != nil {
			return err
		}
		f = saved
	default:
		return errors.New("usage: tasktxt query test NAME|-script FILE [-task TEXT]")
	}
	if *testTask != "" {
		f.ScriptTestTask = *testTask
	}
	if f.Script == "" {
		return errors.New("query has no script")
	}

	ok, err := f.TestScript(luascript.NewEngine(a.cfg.ScriptTimeout))
	if err != nil {
		return fmt.Errorf("script error: %w", err)
	}
	fmt.Fprintf(a.stdout, "%q -> %t\n", f.ScriptTestTask, ok)
	return nil
}

func (a *app) savedFilter(ctx context.Context, name string) (*query.Filter, error) {
	s, err := a.openStore()
	if err != nil {
		return nil, err
	}
	defer s.Close()
	saved, err := s.Get(ctx, name)
	if err != nil {
		return nil, err
	}
	return query.FromValues(saved.Values, a.log), nil
}
