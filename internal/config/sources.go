package config

import (
	"os"
	"path/filepath"
)

// projectConfigNames are looked up in the working directory, in order.
var projectConfigNames = []string{"tasktxt.toml", ".tasktxt.toml"}

// findProjectConfigFile returns the first project config file in the working
// directory, or "".
func findProjectConfigFile() string {
	return firstExisting(projectConfigNames...)
}

// findUserConfigFile returns ~/.tasktxt/tasktxt.toml, or tasktxt/tasktxt.toml
// under the OS config directory (XDG_CONFIG_HOME, ~/Library/Application
// Support, %AppData%), whichever exists first.
func findUserConfigFile() string {
	var candidates []string
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".tasktxt", "tasktxt.toml"))
	}
	if dir, err := os.UserConfigDir(); err == nil {
		candidates = append(candidates, filepath.Join(dir, "tasktxt", "tasktxt.toml"))
	}
	return firstExisting(candidates...)
}

func firstExisting(paths ...string) string {
	for _, p := range paths {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p
		}
	}
	return ""
}

// setDefaults applies default values to the config.
func setDefaults(cfg *Config) {
	cfg.TodoFile = DefaultTodoFile
	cfg.DoneFile = DefaultDoneFile
	cfg.QueryDB = DefaultQueryDB
	cfg.AddCreateDate = true
	cfg.NoHeaderTitle = DefaultNoHeaderTitle
	cfg.DefaultSort = DefaultSort()
	cfg.HideHidden = true
	cfg.ScriptTimeout = DefaultScriptTimeout

	cfg.LogLevel = "info"
	cfg.LogFormat = "text"
}

// GetConfigFile returns the config file with the highest precedence that
// was read, or "" when only defaults, environment and flags apply.
func (cws *ConfigWithSources) GetConfigFile() string {
	if len(cws.Files) == 0 {
		return ""
	}
	return cws.Files[len(cws.Files)-1]
}
