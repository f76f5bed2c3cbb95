package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/nibzard/tasktxt/internal/utils"
)

// loadFromEnv overrides config from TASKTXT_* environment variables.
// If sources is non-nil, it tracks the source of each value.
func loadFromEnv(cfg *Config, sources map[string]ConfigSource) error {
	str := func(env, field string, target *string) {
		if v := os.Getenv(env); v != "" {
			*target = v
			setSource(sources, field, SourceEnv)
		}
	}
	boolean := func(env, field string, target *bool) {
		if v := os.Getenv(env); v != "" {
			*target = boolFromString(v)
			setSource(sources, field, SourceEnv)
		}
	}

	str("TASKTXT_TODO", "todo_file", &cfg.TodoFile)
	str("TASKTXT_DONE", "done_file", &cfg.DoneFile)
	str("TASKTXT_QUERY_DB", "query_db", &cfg.QueryDB)
	str("TASKTXT_NO_HEADER", "no_header_title", &cfg.NoHeaderTitle)
	str("TASKTXT_TODAY", "today", &cfg.Today)
	str("TASKTXT_LOG_LEVEL", "log_level", &cfg.LogLevel)
	str("TASKTXT_LOG_FORMAT", "log_format", &cfg.LogFormat)

	boolean("TASKTXT_CASE_SENSITIVE", "case_sensitive", &cfg.CaseSensitive)
	boolean("TASKTXT_CREATE_IS_THRESHOLD", "create_is_threshold", &cfg.CreateIsThreshold)
	boolean("TASKTXT_ADD_CREATE_DATE", "add_create_date", &cfg.AddCreateDate)
	boolean("TASKTXT_HIDE_COMPLETED", "hide_completed", &cfg.HideCompleted)
	boolean("TASKTXT_HIDE_FUTURE", "hide_future", &cfg.HideFuture)
	boolean("TASKTXT_HIDE_HIDDEN", "hide_hidden", &cfg.HideHidden)
	boolean("TASKTXT_LOG_TIMESTAMPS", "log_timestamps", &cfg.LogTimestamps)
	boolean("TASKTXT_LOG_CALLER", "log_caller", &cfg.LogCaller)

	if v := os.Getenv("TASKTXT_SORT"); v != "" {
		cfg.DefaultSort = utils.SplitAndTrim(v, ",")
		setSource(sources, "default_sort", SourceEnv)
	}
	if v := os.Getenv("TASKTXT_SCRIPT_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("TASKTXT_SCRIPT_TIMEOUT: %w", err)
		}
		cfg.ScriptTimeout = d
		setSource(sources, "script_timeout", SourceEnv)
	}
	return nil
}

func boolFromString(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "true", "yes", "on":
		return true
	}
	return false
}
