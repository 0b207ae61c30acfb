//go:build darwin || freebsd || linux

package native

import (
	"fmt"
	"sync"

	"github.com/ebitengine/purego"
)

type dlLibrary struct {
	path string

	mu     sync.Mutex
	handle uintptr
}

type dlOpener struct{}

// DL returns the C-ABI backend. Symbols are bound with purego.RegisterFunc, so
// the destination func types must only use types purego can marshal
// (integers, uintptr, bool, string returns).
func DL() Opener {
	return dlOpener{}
}

func (dlOpener) Open(path string) (Library, error) {
	h, err := purego.Dlopen(path, purego.RTLD_NOW|purego.RTLD_GLOBAL)
	if err != nil {
		return nil, fmt.Errorf("dlopen %s: %w", path, err)
	}
	return &dlLibrary{path: path, handle: h}, nil
}

func (l *dlLibrary) Path() string {
	return l.path
}

func (l *dlLibrary) Lookup(name string, fptr any) (err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == 0 {
		return ErrClosed
	}

	addr, err := purego.Dlsym(l.handle, name)
	if err != nil || addr == 0 {
		return fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, l.path)
	}

	// RegisterFunc panics on signatures it cannot marshal.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("native: bind %s in %s: %v", name, l.path, r)
		}
	}()
	purego.RegisterFunc(fptr, addr)
	return nil
}

func (l *dlLibrary) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.handle == 0 {
		return ErrClosed
	}
	h := l.handle
	l.handle = 0
	if err := purego.Dlclose(h); err != nil {
		return fmt.Errorf("dlclose %s: %w", l.path, err)
	}
	return nil
}
