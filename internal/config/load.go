package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/nibzard/tasktxt/internal/recur"
)

// Load loads configuration from multiple sources in priority order:
// 1. Defaults
// 2. User config file (~/.tasktxt/tasktxt.toml or OS-specific config dir)
// 3. Project config file (tasktxt.toml or .tasktxt.toml in current directory)
// 4. Environment variables
// 5. CLI flags
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cws, err := load(fs, args, nil)
	if err != nil {
		return nil, err
	}
	return cws.Config, nil
}

// LoadWithSources loads configuration and tracks the source of each value.
// Returns ConfigWithSources containing the config and a map of field names to their sources.
func LoadWithSources(fs *flag.FlagSet, args []string) (*ConfigWithSources, error) {
	sources := make(map[string]ConfigSource)
	for _, field := range configFields() {
		sources[field] = SourceDefault
	}
	return load(fs, args, sources)
}

func load(fs *flag.FlagSet, args []string, sources map[string]ConfigSource) (*ConfigWithSources, error) {
	cfg := &Config{}
	var files []string

	// 1. Set defaults
	setDefaults(cfg)

	// 2. Try to load from user config file
	userConfigFile := findUserConfigFile()
	if userConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, userConfigFile, sources, SourceUserFile); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", userConfigFile, err)
		}
		files = append(files, userConfigFile)
	}

	// 3. Try to load from project config file (overrides user config)
	projectConfigFile := findProjectConfigFile()
	if projectConfigFile != "" {
		if err := loadConfigFileWithSources(cfg, projectConfigFile, sources, SourceProjFile); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", projectConfigFile, err)
		}
		files = append(files, projectConfigFile)
	}

	// 4. Override from environment
	if err := loadFromEnv(cfg, sources); err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}

	// 5. Parse CLI flags (they override everything)
	if err := parseFlags(cfg, fs, args, sources); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	// 6. Compute derived values
	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}

	return &ConfigWithSources{Config: cfg, Sources: sources, Files: files}, nil
}

// configFields returns the list of configurable field names for source tracking.
func configFields() []string {
	return []string{
		"todo_file",
		"done_file",
		"query_db",
		"case_sensitive",
		"create_is_threshold",
		"add_create_date",
		"no_header_title",
		"default_sort",
		"hide_completed",
		"hide_future",
		"hide_hidden",
		"script_timeout",
		"today",
		"log_level",
		"log_format",
		"log_timestamps",
		"log_caller",
	}
}

// loadConfigFile loads TOML config from the given file.
func loadConfigFile(cfg *Config, path string) error {
	return loadConfigFileWithSources(cfg, path, nil, "")
}

// loadConfigFileWithSources decodes path over cfg and marks every key the
// file defines.
func loadConfigFileWithSources(cfg *Config, path string, sources map[string]ConfigSource, source ConfigSource) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	if sources == nil {
		return nil
	}
	for _, field := range configFields() {
		if md.IsDefined(field) {
			sources[field] = source
		}
	}
	return nil
}

// finalizeConfig computes derived values and validates paths.
func finalizeConfig(cfg *Config) error {
	if cfg.ProjectRoot == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		cfg.ProjectRoot = wd
	}

	cfg.TodoFile = resolvePath(cfg.TodoFile, cfg.ProjectRoot)
	cfg.DoneFile = resolvePath(cfg.DoneFile, filepath.Dir(cfg.TodoFile))
	cfg.QueryDB = expandPath(cfg.QueryDB)

	if cfg.Today != "" {
		if _, ok := recur.ParseDate(cfg.Today); !ok {
			return fmt.Errorf("today %q is not a YYYY-MM-DD date", cfg.Today)
		}
	}
	if cfg.ScriptTimeout < 0 {
		return fmt.Errorf("script_timeout must not be negative, got %s", cfg.ScriptTimeout)
	}
	if cfg.NoHeaderTitle == "" {
		cfg.NoHeaderTitle = DefaultNoHeaderTitle
	}
	return nil
}

func setSource(sources map[string]ConfigSource, name string, source ConfigSource) {
	if sources != nil {
		sources[name] = source
	}
}
