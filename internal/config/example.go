package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# tasktxt configuration file
# Values can be overridden by TASKTXT_* environment variables or CLI flags

# Task file (relative to the current directory; supports ~ expansion)
todo_file = "todo.txt"

# Archive target for completed tasks (relative to the todo file)
done_file = "done.txt"

# Saved query database
query_db = "~/.tasktxt/queries.db"

# Match search text and sort names case sensitively
case_sensitive = false

# Treat the creation date as the threshold date when t: is missing
create_is_threshold = false

# Prefix new tasks with today's date
add_create_date = true

# Group header shown for tasks without a value for the group key
no_header_title = "-"

# Sort order when a query names none. Terms are [+|-]!key
default_sort = ["+!completed", "+!by_prio", "+!file_order"]

# Default visibility for ad hoc queries
hide_completed = false
hide_future = false
hide_hidden = true

# Time limit for each Lua filter call
script_timeout = "2s"

# Logging
log_level = "info"      # debug, info, warn, error
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
