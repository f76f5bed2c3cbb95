package config

import (
	"flag"
	"strings"

	"github.com/nibzard/tasktxt/internal/utils"
)

// flagToSource maps flag names to config field names.
var flagToSource = map[string]string{
	"todo":                "todo_file",
	"done":                "done_file",
	"query-db":            "query_db",
	"case-sensitive":      "case_sensitive",
	"create-is-threshold": "create_is_threshold",
	"no-header":           "no_header_title",
	"default-sort":        "default_sort",
	"script-timeout":      "script_timeout",
	"today":               "today",
	"log-level":           "log_level",
	"log-format":          "log_format",
	"log-timestamps":      "log_timestamps",
	"log-caller":          "log_caller",
}

// parseFlags defines the global flags on fs and parses args. Values are only
// applied for flags present on the command line, so they override the
// earlier layers without resetting them.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string, sources map[string]ConfigSource) error {
	if fs == nil {
		fs = flag.NewFlagSet("tasktxt", flag.ContinueOnError)
	}

	todoFile := fs.String("todo", cfg.TodoFile, "Path to todo.txt")
	doneFile := fs.String("done", cfg.DoneFile, "Path to done.txt (relative to the todo file)")
	queryDB := fs.String("query-db", cfg.QueryDB, "Path to the saved query database")
	caseSensitive := fs.Bool("case-sensitive", cfg.CaseSensitive, "Case sensitive text search and sorting")
	createIsThreshold := fs.Bool("create-is-threshold", cfg.CreateIsThreshold, "Use the creation date as threshold when none is set")
	noHeader := fs.String("no-header", cfg.NoHeaderTitle, "Header title for tasks without a group value")
	defaultSort := fs.String("default-sort", strings.Join(cfg.DefaultSort, ","), "Comma-separated default sort terms")
	scriptTimeout := fs.Duration("script-timeout", cfg.ScriptTimeout, "Time limit for each filter script call")
	today := fs.String("today", cfg.Today, "Override today's date (YYYY-MM-DD)")

	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug|info|warn|error)")
	logFormat := fs.String("log-format", cfg.LogFormat, "Log format (text|json|logfmt)")
	logTimestamps := fs.Bool("log-timestamps", cfg.LogTimestamps, "Include timestamps in logs")
	logCaller := fs.Bool("log-caller", cfg.LogCaller, "Include caller in logs")

	if err := fs.Parse(args); err != nil {
		return err
	}

	fs.Visit(func(f *flag.Flag) {
		if field, ok := flagToSource[f.Name]; ok {
			setSource(sources, field, SourceFlag)
		}
		switch f.Name {
		case "todo":
			cfg.TodoFile = *todoFile
		case "done":
			cfg.DoneFile = *doneFile
		case "query-db":
			cfg.QueryDB = *queryDB
		case "case-sensitive":
			cfg.CaseSensitive = *caseSensitive
		case "create-is-threshold":
			cfg.CreateIsThreshold = *createIsThreshold
		case "no-header":
			cfg.NoHeaderTitle = *noHeader
		case "default-sort":
			cfg.DefaultSort = utils.SplitAndTrim(*defaultSort, ",")
		case "script-timeout":
			cfg.ScriptTimeout = *scriptTimeout
		case "today":
			cfg.Today = *today
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		case "log-timestamps":
			cfg.LogTimestamps = *logTimestamps
		case "log-caller":
			cfg.LogCaller = *logCaller
		}
	})

	return nil
}
