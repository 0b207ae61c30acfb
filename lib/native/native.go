// Package native opens shared libraries and binds their exported symbols to
// typed Go functions.
//
// An opened Library only supports two operations: resolving a symbol into a
// function pointer and closing the handle. Two backends are provided:
//
//   - DL binds C-ABI symbols through purego (dlopen/dlsym, no cgo needed).
//   - GoPlugin binds symbols of modules built with -buildmode=plugin.
package native

import (
	"errors"
	"fmt"
)

var (
	// ErrSymbolNotFound is returned by Lookup when the library does not export the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")
	// ErrUnsupported is returned by Open when the backend is unavailable on this platform or build.
	ErrUnsupported = errors.New("native libraries are not supported in this build")
	// ErrClosed is returned when a closed library is used.
	ErrClosed = errors.New("library is closed")
)

// Library is an opened native module.
type Library interface {
	// Path returns the path the library was opened from.
	Path() string
	// Lookup binds the exported symbol name into fptr, which must be a
	// pointer to a func variable.
	Lookup(name string, fptr any) error
	// Close releases the handle. Further lookups fail with ErrClosed.
	Close() error
}

// Opener opens native libraries.
type Opener interface {
	Open(path string) (Library, error)
}

// OpenerFunc adapts a function to the Opener interface.
type OpenerFunc func(path string) (Library, error)

// Open calls f(path).
func (f OpenerFunc) Open(path string) (Library, error) {
	return f(path)
}

// SymbolTypeError reports a symbol whose type does not match the requested signature.
type SymbolTypeError struct {
	Symbol string
	Got    string
	Want   string
}

func (e *SymbolTypeError) Error() string {
	return fmt.Sprintf("symbol %s has type %s, want %s", e.Symbol, e.Got, e.Want)
}
