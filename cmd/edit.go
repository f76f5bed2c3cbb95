package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/nibzard/tasktxt/internal/task"
	"github.com/nibzard/tasktxt/internal/todo"
	"github.com/nibzard/tasktxt/internal/utils"
)

// edit loads the todo file, applies fn and saves the result.
func (a *app) edit(fn func(f *todo.File) error) error {
	f, err := a.loadTodo()
	if err != nil {
		return err
	}
	if err := fn(f); err != nil {
		return err
	}
	if err := f.Save(); err != nil {
		return fmt.Errorf("saving todo file: %w", err)
	}
	return nil
}

func (a *app) printTask(n int, t *task.Task) {
	fmt.Fprintf(a.stdout, "%d %s\n", n, t.String())
}

func (a *app) addCommand(args []string) error {
	text := strings.TrimSpace(strings.Join(args, " "))
	if text == "" {
		return errors.New("usage: tasktxt add TEXT")
	}
	return a.edit(func(f *todo.File) error {
		t, n := f.Add(text, a.cfg.CreateDateFor(a.today))
		a.printTask(n, t)
		return nil
	})
}

func (a *app) doCommand(args []string) error {
	lines, err := utils.ParseLineNumbers(args)
	if err != nil {
		return fmt.Errorf("usage: tasktxt do N...: %w", err)
	}
	return a.edit(func(f *todo.File) error {
		for _, n := range lines {
			t, err := f.Get(n)
			if err != nil {
				return err
			}
			if t.Completed() {
				a.log.Warn("task already completed", "line", n)
				continue
			}
			repeat, err := f.Complete(n, a.today)
			if err != nil {
				return err
			}
			a.printTask(n, t)
			if repeat != nil {
				a.printTask(len(f.Tasks), repeat)
			}
		}
		return nil
	})
}

func (a *app) undoCommand(args []string) error {
	lines, err := utils.ParseLineNumbers(args)
	if err != nil {
		return fmt.Errorf("usage: tasktxt undo N...: %w", err)
	}
	return a.edit(func(f *todo.File) error {
		for _, n := range lines {
			if err := f.Uncomplete(n); err != nil {
				return err
			}
			t, _ := f.Get(n)
			a.printTask(n, t)
		}
		return nil
	})
}

// lineArg parses the leading line number of a single-task command.
func lineArg(args []string, usage string) (int, []string, error) {
	if len(args) == 0 {
		return 0, nil, fmt.Errorf("usage: %s", usage)
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 {
		return 0, nil, fmt.Errorf("invalid line number %q", args[0])
	}
	return n, args[1:], nil
}

func (a *app) priCommand(args []string) error {
	const usage = "tasktxt pri N A-Z|-"
	n, rest, err := lineArg(args, usage)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: %s", usage)
	}
	p := task.ParsePriority(rest[0])
	if !p.Valid() && rest[0] != "-" {
		return fmt.Errorf("invalid priority %q", rest[0])
	}
	return a.edit(func(f *todo.File) error {
		t, err := f.Get(n)
		if err != nil {
			return err
		}
		t.SetPriority(p)
		a.printTask(n, t)
		return nil
	})
}

// dueCommand sets the due date, or the threshold date when threshold is set.
// "-" clears the date; an interval moves it from today ("+" intervals move it
// from the current date).
func (a *app) dueCommand(args []string, threshold bool) error {
	usage := "tasktxt due N DATE|INTERVAL|-"
	if threshold {
		usage = "tasktxt defer N DATE|INTERVAL|-"
	}
	n, rest, err := lineArg(args, usage)
	if err != nil {
		return err
	}
	if len(rest) != 1 {
		return fmt.Errorf("usage: %s", usage)
	}
	when := rest[0]
	if when == "-" {
		when = ""
	}
	return a.edit(func(f *todo.File) error {
		t, err := f.Get(n)
		if err != nil {
			return err
		}
		set := t.DeferDue
		if threshold {
			set = t.DeferThreshold
		}
		if !set(when, a.today) {
			return fmt.Errorf("cannot apply %q to line %d", rest[0], n)
		}
		a.printTask(n, t)
		return nil
	})
}

// namesCommand edits projects (tag) or contexts (list).
func (a *app) namesCommand(kind string, args []string) error {
	usage := fmt.Sprintf("tasktxt %s N add|rm NAMES...", kind)
	n, rest, err := lineArg(args, usage)
	if err != nil {
		return err
	}
	if len(rest) < 2 || (rest[0] != "add" && rest[0] != "rm") {
		return fmt.Errorf("usage: %s", usage)
	}
	op, names := rest[0], rest[1:]
	return a.edit(func(f *todo.File) error {
		t, err := f.Get(n)
		if err != nil {
			return err
		}
		switch {
		case kind == "tag" && op == "add":
			t.AddTag(strings.Join(names, " "))
		case kind == "tag":
			for _, name := range names {
				t.RemoveTag(strings.TrimPrefix(name, "+"))
			}
		case op == "add":
			t.AddList(strings.Join(names, " "))
		default:
			for _, name := range names {
				t.RemoveList(strings.TrimPrefix(name, "@"))
			}
		}
		a.printTask(n, t)
		return nil
	})
}

func (a *app) rmCommand(args []string) error {
	lines, err := utils.ParseLineNumbers(args)
	if err != nil {
		return fmt.Errorf("usage: tasktxt rm N...: %w", err)
	}
	return a.edit(func(f *todo.File) error {
		removed, err := f.Remove(lines...)
		if err != nil {
			return err
		}
		for _, t := range removed {
			fmt.Fprintf(a.stdout, "removed: %s\n", t.String())
		}
		return nil
	})
}

func (a *app) archiveCommand() error {
	return a.edit(func(f *todo.File) error {
		moved, err := f.Archive(a.cfg.DoneFile)
		if err != nil {
			return err
		}
		a.log.Info("archived completed tasks", "count", moved, "done", a.cfg.DoneFile)
		fmt.Fprintf(a.stdout, "%d task(s) archived\n", moved)
		return nil
	})
}
