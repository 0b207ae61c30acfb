package plugin

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/snowmerak/extload/lib/service"
)

func loadServiceModule(t *testing.T, dir *service.Directory, mod *fakeModule) *Loader {
	t.Helper()
	root := t.TempDir()
	touch(t, root, "plugins", "libclock.so")

	opener := newFakeOpener()
	opener.add("libclock.so", mod)

	l := NewLoader(&LoaderOptions{Opener: opener, Target: testTarget, Extension: ".so", Services: dir})
	t.Cleanup(func() { _ = l.Close() })
	if err := l.LoadPlugins(root); err != nil {
		t.Fatalf("Failed to load module: %v", err)
	}
	return l
}

func TestLoadService_IntoContext(t *testing.T) {
	var handles []uintptr
	mod := &fakeModule{
		install: func(ctx uintptr) bool { handles = append(handles, ctx); return true },
		name:    named("clock"),
		target:  named(testTarget),
		create:  func() uintptr { return 0xbeef },
	}
	l := loadServiceModule(t, service.NewDirectory(), mod)

	ctx := service.NamedContext{ContextName: "controller", Ptr: 0x1000}
	if err := l.LoadService("clock", ctx); err != nil {
		t.Fatalf("Expected install into context to succeed, got %v", err)
	}

	if len(handles) != 2 || handles[0] != 0 || handles[1] != 0x1000 {
		t.Errorf("Expected install calls with [0 0x1000], got %v", handles)
	}
}

func TestLoadService_GlobalDirectory(t *testing.T) {
	dir := service.NewDirectory()
	mod := validModule("clock")
	mod.create = func() uintptr { return 0xbeef }
	l := loadServiceModule(t, dir, mod)

	found := false
	for _, s := range l.ListServices() {
		if s == "clock" {
			found = true
		}
	}
	if !found {
		t.Fatalf("Expected ListServices to include clock, got %v", l.ListServices())
	}

	if err := l.LoadService("libclock.so", nil); err != nil {
		t.Fatalf("Expected service registration, got %v", err)
	}
	s, ok := dir.Lookup("clock")
	if !ok {
		t.Fatal("Expected service in directory")
	}
	if s.Handle != 0xbeef || s.Provider != "libclock.so" {
		t.Errorf("Expected handle 0xbeef from libclock.so, got %#x from %s", s.Handle, s.Provider)
	}

	if err := l.LoadService("clock", nil); !errors.Is(err, ErrServiceRejected) {
		t.Errorf("Expected ErrServiceRejected for duplicate, got %v", err)
	}
}

func TestLoadService_NotAService(t *testing.T) {
	l := loadServiceModule(t, service.NewDirectory(), validModule("clock"))

	if err := l.LoadService("clock", nil); !errors.Is(err, ErrNotAService) {
		t.Errorf("Expected ErrNotAService, got %v", err)
	}
}

func TestLoadService_Unknown(t *testing.T) {
	l := newTestLoader(t, newFakeOpener())

	err := l.LoadService("ghost", nil)
	if !errors.Is(err, ErrServiceNotFound) {
		t.Fatalf("Expected ErrServiceNotFound, got %v", err)
	}
	if err.Error() != "no such service or plugin: ghost" {
		t.Errorf("Expected message naming the module, got %q", err.Error())
	}
}

func TestLoadService_ContextInstallFails(t *testing.T) {
	var calls atomic.Int32
	mod := &fakeModule{
		install: func(ctx uintptr) bool {
			calls.Add(1)
			if ctx != 0 {
				panic("context rejected")
			}
			return true
		},
		name:   named("clock"),
		target: named(testTarget),
	}
	l := loadServiceModule(t, service.NewDirectory(), mod)

	err := l.LoadService("clock", service.NamedContext{ContextName: "c", Ptr: 1})
	if !errors.Is(err, ErrInstall) {
		t.Errorf("Expected ErrInstall, got %v", err)
	}
	if calls.Load() != 2 {
		t.Errorf("Expected 2 install calls, got %d", calls.Load())
	}
	if !l.IsLoaded("clock") {
		t.Error("Module must stay loaded after a failed context install")
	}
}

func TestLoadService_ConstructorPanics(t *testing.T) {
	dir := service.NewDirectory()
	mod := validModule("clock")
	mod.create = func() uintptr { panic("out of memory") }
	l := loadServiceModule(t, dir, mod)

	if err := l.LoadService("clock", nil); !errors.Is(err, ErrInstall) {
		t.Errorf("Expected ErrInstall, got %v", err)
	}
	if len(dir.Services()) != 0 {
		t.Errorf("Expected empty directory, got %v", dir.Services())
	}
}
