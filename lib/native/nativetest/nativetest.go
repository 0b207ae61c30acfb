// Package nativetest builds small native libraries for tests.
package nativetest

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"
)

// Module is a C module exporting the loader entry points. TARGET and NAME
// are defined on the compiler command line.
const Module = `#include <stdbool.h>
#include <stdint.h>

static int installs;
static uintptr_t last_ctx;

bool LoadPlugin(uintptr_t ctx) {
	installs++;
	last_ctx = ctx;
	return true;
}

const char *PluginName(void) { return NAME; }
const char *TargetName(void) { return TARGET; }
uintptr_t CreateService(void) { return 0xbeef; }

int Installs(void) { return installs; }
uintptr_t LastContext(void) { return last_ctx; }
`

// Helper is a C library without any loader entry point.
const Helper = `int helper_add(int a, int b) { return a + b; }
`

// CC returns the C compiler, or skips the test when there is none.
func CC(t testing.TB) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shared library tests need a POSIX toolchain")
	}
	for _, name := range []string{os.Getenv("CC"), "cc", "gcc", "clang"} {
		if name == "" {
			continue
		}
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no C compiler found")
	return ""
}

// BuildC compiles source into dir/filename as a shared library. defines are
// passed as -D flags, e.g. `NAME="clock"`.
func BuildC(t testing.TB, dir, filename, source string, defines ...string) string {
	t.Helper()
	cc := CC(t)

	src := filepath.Join(dir, filename+".c")
	if err := os.WriteFile(src, []byte(source), 0o644); err != nil {
		t.Fatalf("Failed to write source: %v", err)
	}

	out := filepath.Join(dir, filename)
	args := []string{"-shared", "-fPIC", "-o", out}
	for _, d := range defines {
		args = append(args, "-D"+d)
	}
	args = append(args, src)

	cmd := exec.Command(cc, args...)
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to compile %s: %v\n%s", filename, err, b)
	}
	if err := os.Remove(src); err != nil {
		t.Fatalf("Failed to remove source: %v", err)
	}
	return out
}

// BuildModule compiles Module declaring name and target.
func BuildModule(t testing.TB, dir, filename, name, target string) string {
	t.Helper()
	return BuildC(t, dir, filename, Module, `NAME="`+name+`"`, `TARGET="`+target+`"`)
}

// BuildGoPlugin builds the Go package in srcDir with -buildmode=plugin into
// dir/filename. It skips in short mode.
func BuildGoPlugin(t testing.TB, srcDir, dir, filename string) string {
	t.Helper()
	if testing.Short() {
		t.Skip("building a Go plugin is slow")
	}

	goTool := filepath.Join(runtime.GOROOT(), "bin", "go")
	if _, err := os.Stat(goTool); err != nil {
		t.Skip("go tool not found")
	}

	work := t.TempDir()
	entries, err := os.ReadDir(srcDir)
	if err != nil {
		t.Fatalf("Failed to read %s: %v", srcDir, err)
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) != ".go" {
			continue
		}
		b, err := os.ReadFile(filepath.Join(srcDir, e.Name()))
		if err != nil {
			t.Fatalf("Failed to read source: %v", err)
		}
		if err := os.WriteFile(filepath.Join(work, e.Name()), b, 0o644); err != nil {
			t.Fatalf("Failed to copy source: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(work, "go.mod"), []byte("module example.com/clock\n\ngo 1.21\n"), 0o644); err != nil {
		t.Fatalf("Failed to write go.mod: %v", err)
	}

	out := filepath.Join(dir, filename)
	cmd := exec.Command(goTool, "build", "-buildmode=plugin", "-o", out, ".")
	cmd.Dir = work
	cmd.Env = append(os.Environ(), "CGO_ENABLED=1", "GOFLAGS=", "GOWORK=off")
	if b, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build plugin: %v\n%s", err, b)
	}
	return out
}
