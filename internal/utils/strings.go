package utils

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseCSV splits a comma-separated list such as CORS_ORIGINS into trimmed,
// non-empty entries. Blank input gives nil.
func ParseCSV(s string) []string {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' })
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// ParseInts parses a comma-separated list of integers, e.g. oracle values
// "1,0,1,1". Blank input gives nil.
func ParseInts(s string) ([]int, error) {
	fields := ParseCSV(s)
	if fields == nil {
		return nil, nil
	}
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("value %q at position %d: %w", f, i, err)
		}
		values[i] = v
	}
	return values, nil
}
