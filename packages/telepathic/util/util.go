package util

import (
	"fmt"
	"strings"
)

// ReplaceAllOccurrences replaces every non-overlapping occurrence of search in s.
// An empty search leaves s untouched.
func ReplaceAllOccurrences(s, search, replacement string) string {
	if search == "" {
		return s
	}
	return strings.Join(strings.Split(s, search), replacement)
}

// SplitAround splits s at every occurrence of sep and returns the pieces with
// the separators interleaved, e.g. SplitAround("a-b", "-") is ["a", "-", "b"].
// Empty pieces are dropped.
func SplitAround(s, sep string) []string {
	if sep == "" {
		return []string{s}
	}
	var result []string
	for {
		index := strings.Index(s, sep)
		if index == -1 {
			break
		}
		if index > 0 {
			result = append(result, s[:index])
		}
		result = append(result, sep)
		s = s[index+len(sep):]
	}
	if s != "" {
		result = append(result, s)
	}
	return result
}

// Uniq returns the distinct values of input in first-seen order
func Uniq[T comparable](input []T) []T {
	seen := make(map[T]bool, len(input))
	result := make([]T, 0, len(input))
	for _, v := range input {
		if seen[v] {
			continue
		}
		seen[v] = true
		result = append(result, v)
	}
	return result
}

// Stringify converts a value to its string representation
func Stringify(token interface{}) string {
	if s, ok := token.(string); ok {
		return s
	}

	if arr, ok := token.([]interface{}); ok {
		parts := make([]string, len(arr))
		for i, v := range arr {
			parts[i] = Stringify(v)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}

	if token == nil {
		return ""
	}

	if s, ok := token.(fmt.Stringer); ok {
		return s.String()
	}

	return fmt.Sprintf("%v", token)
}
