// Package utils provides small helpers shared by the config, query and cmd
// packages.
package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// SplitAndTrim splits s by sep and trims whitespace from each part.
// Empty parts are omitted from the result.
func SplitAndTrim(s, sep string) []string {
	parts := strings.Split(s, sep)
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ParseLineNumbers parses 1-based line numbers given as separate arguments
// or comma lists ("3", "1,4").
func ParseLineNumbers(args []string) ([]int, error) {
	var lines []int
	for _, arg := range args {
		for _, part := range SplitAndTrim(arg, ",") {
			n, err := strconv.Atoi(part)
			if err != nil || n < 1 {
				return nil, fmt.Errorf("invalid line number %q", part)
			}
			lines = append(lines, n)
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("no line number given")
	}
	return lines, nil
}

// JSONPointerToPath converts a JSON Pointer (RFC 6901) to a dot-notation path,
// so "#/sort/0" becomes "sort[0]".
func JSONPointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(strings.TrimPrefix(ptr, "#"), "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		// ~1 is "/" and ~0 is "~"
		part = strings.ReplaceAll(part, "~1", "/")
		part = strings.ReplaceAll(part, "~0", "~")
		if part == "" {
			continue
		}
		if idx, err := strconv.Atoi(part); err == nil {
			fmt.Fprintf(&b, "[%d]", idx)
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
