package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"sort"

	"github.com/nibzard/tasktxt/internal/config"
	"github.com/nibzard/tasktxt/internal/sorting"
	"github.com/nibzard/tasktxt/internal/todo"
)

func (a *app) configCommand(args []string) error {
	if len(args) != 1 || args[0] != "example" {
		return errors.New("usage: tasktxt config example")
	}
	fmt.Fprint(a.stdout, config.ExampleConfig())
	return nil
}

// doctorCommand reports where each setting came from and checks the todo
// file, done file and query store.
func (a *app) doctorCommand(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("tasktxt doctor", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	verbose := fs.Bool("v", false, "Verbose output")
	if err := fs.Parse(args); err != nil {
		return err
	}
	w := a.stdout

	fmt.Fprintln(w, "tasktxt doctor")
	fmt.Fprintln(w, "==============")
	fmt.Fprintln(w)

	allOK := true

	// Config
	fmt.Fprintln(w, "Config:")
	if file := a.cws.GetConfigFile(); file != "" {
		fmt.Fprintf(w, "  File: %s\n", file)
	} else {
		fmt.Fprintln(w, "  File: (none, using defaults)")
	}
	if *verbose {
		fields := make([]string, 0, len(a.cws.Sources))
		for field := range a.cws.Sources {
			fields = append(fields, field)
		}
		sort.Strings(fields)
		for _, field := range fields {
			fmt.Fprintf(w, "  %-20s %s\n", field, a.cws.Sources[field])
		}
	}
	var badSort []string
	for _, token := range a.cfg.DefaultSort {
		if _, ok := sorting.ParseTerm(token); !ok {
			badSort = append(badSort, token)
		}
	}
	if len(badSort) > 0 {
		fmt.Fprintf(w, "  ❌ default_sort: unknown terms %v\n", badSort)
		allOK = false
	} else {
		fmt.Fprintln(w, "  ✅ default_sort OK")
	}
	fmt.Fprintf(w, "  Today: %s\n", a.today)
	fmt.Fprintln(w)

	// Todo file
	fmt.Fprintf(w, "Todo file: %s\n", a.cfg.TodoFile)
	if !a.checkTodoFile(a.cfg.TodoFile, true, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Done file
	fmt.Fprintf(w, "Done file: %s\n", a.cfg.DoneFile)
	if !a.checkTodoFile(a.cfg.DoneFile, false, *verbose) {
		allOK = false
	}
	fmt.Fprintln(w)

	// Query store
	fmt.Fprintf(w, "Query store: %s\n", a.cfg.QueryDB)
	if s, err := a.openStore(); err != nil {
		fmt.Fprintf(w, "  ❌ %v\n", err)
		allOK = false
	} else {
		names, err := s.Names(ctx)
		s.Close()
		if err != nil {
			fmt.Fprintf(w, "  ❌ %v\n", err)
			allOK = false
		} else {
			fmt.Fprintf(w, "  ✅ OK (%d saved queries)\n", len(names))
		}
	}
	fmt.Fprintln(w)

	if allOK {
		fmt.Fprintln(w, "✅ All checks passed!")
		return nil
	}
	fmt.Fprintln(w, "⚠️  Some checks failed.")
	return fmt.Errorf("doctor checks failed")
}

func (a *app) checkTodoFile(path string, required, verbose bool) bool {
	w := a.stdout
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		if required {
			fmt.Fprintln(w, "  ⚠️  Not found (created by the first add)")
		} else {
			fmt.Fprintln(w, "  ⚠️  Not found (created by the first archive)")
		}
		return true
	case err != nil:
		fmt.Fprintf(w, "  ❌ Error: %v\n", err)
		return false
	case info.IsDir():
		fmt.Fprintln(w, "  ❌ Error: path is a directory")
		return false
	}

	f, err := todo.Load(path)
	if err != nil {
		fmt.Fprintf(w, "  ❌ Load error: %v\n", err)
		return false
	}
	result := f.Validate()
	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "  ⚠️  %s\n", warning)
	}
	if !result.Valid {
		fmt.Fprintln(w, "  ❌ Validation failed:")
		for _, e := range result.Errors {
			fmt.Fprintf(w, "     - %v\n", e)
		}
		return false
	}

	fmt.Fprintln(w, "  ✅ Valid")
	if verbose {
		done := 0
		for _, t := range f.Tasks {
			if t.Completed() {
				done++
			}
		}
		fmt.Fprintf(w, "  Lines: %d, completed: %d\n", len(f.Tasks), done)
	}
	return true
}
