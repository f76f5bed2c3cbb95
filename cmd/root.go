// Package cmd implements the CLI command structure for tasktxt.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/nibzard/tasktxt/internal/config"
	"github.com/nibzard/tasktxt/internal/logging"
	"github.com/nibzard/tasktxt/internal/luascript"
	"github.com/nibzard/tasktxt/internal/query"
	"github.com/nibzard/tasktxt/internal/store"
	"github.com/nibzard/tasktxt/internal/todo"
)

// Version is set via ldflags at build time.
var Version = "dev"

// now is the clock used to derive today's date.
var now = time.Now

// app is the state shared by one command invocation.
type app struct {
	cfg    *config.Config
	cws    *config.ConfigWithSources
	log    *log.Logger
	stdout io.Writer
	stderr io.Writer
	today  string
}

// Run executes the tasktxt CLI.
func Run(ctx context.Context, args []string) error {
	return run(ctx, args, os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tasktxt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		printUsage(fs, stderr)
	}
	help := fs.Bool("help", false, "Show help")
	fs.BoolVar(help, "h", false, "Show help")
	showVersion := fs.Bool("version", false, "Show version")
	fs.BoolVar(showVersion, "v", false, "Show version")

	// Global flags
	cws, err := config.LoadWithSources(fs, args)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	cfg := cws.Config
	if *help {
		printUsage(fs, stdout)
		return nil
	}
	if *showVersion {
		return versionCommand(stdout)
	}

	a := &app{
		cfg:    cfg,
		cws:    cws,
		log:    logging.NewFromConfig(stderr, cfg.LogLevel, cfg.LogFormat, cfg.LogTimestamps, cfg.LogCaller),
		stdout: stdout,
		stderr: stderr,
		today:  cfg.TodayDate(now()),
	}

	// Default to ls, like todo.sh
	subcommand := "ls"
	remainingArgs := fs.Args()
	if len(remainingArgs) > 0 && !strings.HasPrefix(remainingArgs[0], "-") {
		subcommand = remainingArgs[0]
		remainingArgs = remainingArgs[1:]
	}

	switch subcommand {
	case "ls", "list-tasks":
		return a.lsCommand(ctx, remainingArgs)
	case "add", "a":
		return a.addCommand(remainingArgs)
	case "do":
		return a.doCommand(remainingArgs)
	case "undo":
		return a.undoCommand(remainingArgs)
	case "pri":
		return a.priCommand(remainingArgs)
	case "due":
		return a.dueCommand(remainingArgs, false)
	case "defer":
		return a.dueCommand(remainingArgs, true)
	case "tag":
		return a.namesCommand("tag", remainingArgs)
	case "list":
		return a.namesCommand("list", remainingArgs)
	case "rm", "del":
		return a.rmCommand(remainingArgs)
	case "archive":
		return a.archiveCommand()
	case "query", "q":
		return a.queryCommand(ctx, remainingArgs)
	case "config":
		return a.configCommand(remainingArgs)
	case "doctor":
		return a.doctorCommand(ctx, remainingArgs)
	case "version":
		return versionCommand(stdout)
	case "help":
		printUsage(fs, stdout)
		return nil
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", subcommand)
		printUsage(fs, stderr)
		return fmt.Errorf("unknown command: %s", subcommand)
	}
}

// loadTodo loads the configured todo file.
func (a *app) loadTodo() (*todo.File, error) {
	f, err := todo.Load(a.cfg.TodoFile)
	if err != nil {
		return nil, fmt.Errorf("loading todo file: %w", err)
	}
	return f, nil
}

// openStore opens the saved query database.
func (a *app) openStore() (*store.Store, error) {
	s, err := store.Open(a.cfg.QueryDB)
	if err != nil {
		return nil, fmt.Errorf("opening query store: %w", err)
	}
	return s, nil
}

// queryOptions returns the per-invocation inputs of query.Filter.Run.
func (a *app) queryOptions() query.Options {
	return query.Options{
		Today:         a.today,
		CaseSensitive: a.cfg.CaseSensitive,
		Scripts:       luascript.NewEngine(a.cfg.ScriptTimeout),
		NoHeader:      a.cfg.NoHeaderTitle,
		Logger:        a.log,
	}
}

func versionCommand(w io.Writer) error {
	fmt.Fprintf(w, "tasktxt version %s\n", Version)
	return nil
}

func printUsage(fs *flag.FlagSet, w io.Writer) {
	fmt.Fprintln(w, "tasktxt - query and edit todo.txt files")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  tasktxt [global options] [command] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  ls [options] [words]        List tasks (default command)")
	fmt.Fprintln(w, "  add TEXT                    Add a task")
	fmt.Fprintln(w, "  do N...                     Complete tasks; recurring tasks get a new copy")
	fmt.Fprintln(w, "  undo N...                   Mark tasks not done")
	fmt.Fprintln(w, "  pri N A-Z|-                 Set or clear the priority")
	fmt.Fprintln(w, "  due N DATE|INTERVAL|-       Set, move or clear the due date")
	fmt.Fprintln(w, "  defer N DATE|INTERVAL|-     Set, move or clear the threshold date")
	fmt.Fprintln(w, "  tag N add|rm NAMES...       Edit +projects")
	fmt.Fprintln(w, "  list N add|rm NAMES...      Edit @contexts")
	fmt.Fprintln(w, "  rm N...                     Delete tasks")
	fmt.Fprintln(w, "  archive                     Move completed tasks to the done file")
	fmt.Fprintln(w, "  query save|ls|show|rm|export|import|test")
	fmt.Fprintln(w, "                              Manage saved queries")
	fmt.Fprintln(w, "  config example              Print an example config file")
	fmt.Fprintln(w, "  doctor                      Check config, files and the query store")
	fmt.Fprintln(w, "  version                     Show version information")
	fmt.Fprintln(w, "  help                        Show this help message")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "N is a 1-based line number as printed by ls. INTERVAL is [+]<n><d|w|m|y|b>.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Global Options:")
	fs.SetOutput(w)
	fs.PrintDefaults()
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Ls Options (also accepted by 'query save'):")
	fmt.Fprintln(w, "  -context, -project, -priority LIST")
	fmt.Fprintln(w, "        Comma-separated criteria; '-' matches tasks without any")
	fmt.Fprintln(w, "  -not-context, -not-project, -not-priority")
	fmt.Fprintln(w, "        Invert the matching criterion")
	fmt.Fprintln(w, "  -sort LIST")
	fmt.Fprintln(w, "        Comma-separated sort terms, e.g. +!by_context,-!by_due_date")
	fmt.Fprintln(w, "  -all  Show completed and future tasks")
	fmt.Fprintln(w, "  -query NAME")
	fmt.Fprintln(w, "        Start from a saved query")
	fmt.Fprintln(w, "  -script FILE")
	fmt.Fprintln(w, "        Lua filter script defining onFilter(task, fields, extensions)")
	fmt.Fprintln(w, "  -headers")
	fmt.Fprintln(w, "        Print group headers (default true)")
	fmt.Fprintln(w, "  -n    Print line numbers (default true)")
}
