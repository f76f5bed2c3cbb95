package config

import "time"

// ConfigSource represents where a configuration value came from.
type ConfigSource string

const (
	SourceDefault  ConfigSource = "default"
	SourceUserFile ConfigSource = "user file"
	SourceProjFile ConfigSource = "project file"
	SourceEnv      ConfigSource = "environment"
	SourceFlag     ConfigSource = "flag"
)

// ConfigWithSources holds configuration along with source information for each field.
type ConfigWithSources struct {
	Config  *Config
	Sources map[string]ConfigSource
	// Files lists the config files read, lowest precedence first.
	Files []string
}

// Default values.
const (
	DefaultTodoFile      = "todo.txt"
	DefaultDoneFile      = "done.txt"
	DefaultQueryDB       = "~/.tasktxt/queries.db"
	DefaultNoHeaderTitle = "-"
	DefaultScriptTimeout = 2 * time.Second
)

// DefaultSort is the sort order used when neither the query nor the config
// names one.
func DefaultSort() []string {
	return []string{"+!completed", "+!by_prio", "+!file_order"}
}

// Config holds the tasktxt configuration.
type Config struct {
	// Files. Relative paths resolve against ProjectRoot; a relative done
	// file resolves next to the todo file.
	TodoFile    string `toml:"todo_file"`
	DoneFile    string `toml:"done_file"`
	QueryDB     string `toml:"query_db"`
	ProjectRoot string `toml:"-"`

	// Query behavior
	CaseSensitive     bool          `toml:"case_sensitive"`
	CreateIsThreshold bool          `toml:"create_is_threshold"`
	AddCreateDate     bool          `toml:"add_create_date"`
	NoHeaderTitle     string        `toml:"no_header_title"`
	DefaultSort       []string      `toml:"default_sort"`
	HideCompleted     bool          `toml:"hide_completed"`
	HideFuture        bool          `toml:"hide_future"`
	HideHidden        bool          `toml:"hide_hidden"`
	ScriptTimeout     time.Duration `toml:"script_timeout"`

	// Today overrides the local date (YYYY-MM-DD). Env and flag only.
	Today string `toml:"-"`

	// Logging configuration
	LogLevel      string `toml:"log_level"`
	LogFormat     string `toml:"log_format"`
	LogTimestamps bool   `toml:"log_timestamps"`
	LogCaller     bool   `toml:"log_caller"`
}
