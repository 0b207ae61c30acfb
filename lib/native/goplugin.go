//go:build (darwin || freebsd || linux) && cgo

package native

import (
	"fmt"
	"plugin"
	"sync/atomic"
)

type goLibrary struct {
	path   string
	plugin *plugin.Plugin
	closed atomic.Bool
}

type goPluginOpener struct{}

// GoPlugin returns the backend for modules built with -buildmode=plugin.
// Go plugins cannot be unloaded: Close only invalidates the handle.
func GoPlugin() Opener {
	return goPluginOpener{}
}

func (goPluginOpener) Open(path string) (Library, error) {
	p, err := plugin.Open(path)
	if err != nil {
		return nil, err
	}
	return &goLibrary{path: path, plugin: p}, nil
}

func (l *goLibrary) Path() string {
	return l.path
}

func (l *goLibrary) Lookup(name string, fptr any) error {
	if l.closed.Load() {
		return ErrClosed
	}
	sym, err := l.plugin.Lookup(name)
	if err != nil {
		return fmt.Errorf("%w: %s in %s", ErrSymbolNotFound, name, l.path)
	}
	return bind(name, sym, fptr)
}

func (l *goLibrary) Close() error {
	if !l.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return nil
}
