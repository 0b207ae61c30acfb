// Package pathset parses search-path strings into ordered directory lists.
package pathset

import "strings"

// Parse splits raw on any rune contained in delimiters, drops empty segments
// and keeps the original order. The result is never empty: a raw string
// without segments yields ".".
func Parse(raw string, delimiters string) []string {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return strings.ContainsRune(delimiters, r)
	})
	if len(fields) == 0 {
		return []string{"."}
	}
	return fields
}

// Split parses raw with the host's path delimiters.
func Split(raw string) []string {
	return Parse(raw, Delimiters)
}

// Join concatenates the non-empty segments with the host's default delimiter.
func Join(segments ...string) string {
	kept := make([]string, 0, len(segments))
	for _, s := range segments {
		if s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, DefaultDelimiter)
}
