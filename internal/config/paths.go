package config

import (
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
)

var windowsEnvPattern = regexp.MustCompile(`%([^%]+)%`)

// resolvePath expands p and makes it absolute against base. An empty base
// leaves relative paths relative.
func resolvePath(p, base string) string {
	p = expandPath(p)
	if p == "" || base == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// expandPath expands environment variables (plus %VAR% on Windows) and a
// leading ~ in p.
func expandPath(p string) string {
	if p == "" {
		return p
	}
	p = os.ExpandEnv(p)
	if runtime.GOOS == "windows" {
		p = windowsEnvPattern.ReplaceAllStringFunc(p, func(m string) string {
			if val, ok := os.LookupEnv(m[1 : len(m)-1]); ok {
				return val
			}
			return m
		})
	}

	rest, ok := homeRelative(p)
	if !ok {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, rest)
}

// homeRelative reports whether p starts at the home directory and returns
// the remainder.
func homeRelative(p string) (string, bool) {
	switch {
	case p == "~":
		return "", true
	case strings.HasPrefix(p, "~/"):
		return p[2:], true
	case runtime.GOOS == "windows" && strings.HasPrefix(p, `~\`):
		return p[2:], true
	}
	return "", false
}
