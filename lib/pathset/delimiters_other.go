//go:build !windows

package pathset

const (
	// Delimiters separate entries of a search path.
	Delimiters = ":;"
	// DefaultDelimiter is used when composing search paths.
	DefaultDelimiter = ":"
)
