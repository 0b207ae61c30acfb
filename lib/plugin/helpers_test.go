package plugin

import (
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/service"
)

// fakeModule describes the symbols a fake library exports. A nil func means
// the symbol is absent.
type fakeModule struct {
	install InstallFunc
	name    NameFunc
	target  NameFunc
	create  CreateServiceFunc
	openErr error
}

type fakeLibrary struct {
	path   string
	mod    *fakeModule
	closed atomic.Bool
}

func (f *fakeLibrary) Path() string { return f.path }

func (f *fakeLibrary) Lookup(name string, fptr any) error {
	if f.closed.Load() {
		return native.ErrClosed
	}

	var sym any
	switch name {
	case InstallSymbol:
		if f.mod.install != nil {
			sym = f.mod.install
		}
	case NameSymbol:
		if f.mod.name != nil {
			sym = f.mod.name
		}
	case TargetSymbol:
		if f.mod.target != nil {
			sym = f.mod.target
		}
	case ServiceSymbol:
		if f.mod.create != nil {
			sym = f.mod.create
		}
	}
	if sym == nil {
		return native.ErrSymbolNotFound
	}

	switch p := fptr.(type) {
	case *InstallFunc:
		*p = sym.(InstallFunc)
	case *NameFunc:
		*p = sym.(NameFunc)
	case *CreateServiceFunc:
		*p = sym.(CreateServiceFunc)
	}
	return nil
}

func (f *fakeLibrary) Close() error {
	if f.closed.Swap(true) {
		return native.ErrClosed
	}
	return nil
}

// fakeOpener serves fake modules keyed by file base name.
type fakeOpener struct {
	mu      sync.Mutex
	modules map[string]*fakeModule
	opened  []*fakeLibrary
}

func newFakeOpener() *fakeOpener {
	return &fakeOpener{modules: make(map[string]*fakeModule)}
}

func (o *fakeOpener) add(filename string, mod *fakeModule) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.modules[filename] = mod
}

func (o *fakeOpener) Open(path string) (native.Library, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	mod, ok := o.modules[filepath.Base(path)]
	if !ok {
		return nil, os.ErrNotExist
	}
	if mod.openErr != nil {
		return nil, mod.openErr
	}
	lib := &fakeLibrary{path: path, mod: mod}
	o.opened = append(o.opened, lib)
	return lib, nil
}

func (o *fakeOpener) libraries() []*fakeLibrary {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append([]*fakeLibrary(nil), o.opened...)
}

const testTarget = "test-target"

func named(s string) NameFunc { return func() string { return s } }

func okInstall(calls *atomic.Int32) InstallFunc {
	return func(uintptr) bool {
		if calls != nil {
			calls.Add(1)
		}
		return true
	}
}

// validModule is a plugin declaring name for the test target.
func validModule(name string) *fakeModule {
	return &fakeModule{
		install: okInstall(nil),
		name:    named(name),
		target:  named(testTarget),
	}
}

func newTestLoader(t *testing.T, opener native.Opener) *Loader {
	t.Helper()
	l := NewLoader(&LoaderOptions{
		Opener:    opener,
		Target:    testTarget,
		Extension: ".so",
		Services:  service.NewDirectory(),
	})
	t.Cleanup(func() { _ = l.Close() })
	return l
}

// touch creates an empty file, and its parent directories, below root.
func touch(t *testing.T, root string, elem ...string) string {
	t.Helper()
	p := filepath.Join(append([]string{root}, elem...)...)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(p, nil, 0o644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}
	return p
}
