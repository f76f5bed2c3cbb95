// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
// 1. Built-in defaults
// 2. User config file (~/.tasktxt/tasktxt.toml or OS-specific config directory)
// 3. Project config file (tasktxt.toml or .tasktxt.toml in the current directory)
// 4. Environment variables (TASKTXT_*)
// 5. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
//
// User-level config locations:
// - ~/.tasktxt/tasktxt.toml (preferred)
// - Windows: %APPDATA%\tasktxt\tasktxt.toml
// - macOS: ~/Library/Application Support/tasktxt/tasktxt.toml
// - Linux/BSD: $XDG_CONFIG_HOME/tasktxt/tasktxt.toml or ~/.config/tasktxt/tasktxt.toml
//
// Project-level config locations (overrides user config):
// - ./tasktxt.toml (preferred)
// - ./.tasktxt.toml
package config
