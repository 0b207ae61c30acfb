// Package plugin provides utility functions for the loader.
// This file contains file name and file system helpers.
package plugin

import (
	"os"
	"strings"
)

// shortName strips the "lib" prefix and the library extension from a file
// name: "libclock.so" becomes "clock".
func shortName(filename, ext string) string {
	s := strings.TrimPrefix(filename, "lib")
	if ext != "" {
		if i := strings.LastIndex(s, ext); i >= 0 {
			s = s[:i]
		}
	}
	return s
}

// isRegularFile follows symlinks.
func isRegularFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
