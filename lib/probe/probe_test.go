package probe

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"gotest.tools/assert"

	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/plugin"
)

const helperEnv = "EXTLOAD_PROBE_HELPER"

// TestMain turns the test binary into a probe child when helperEnv is set.
func TestMain(m *testing.M) {
	if mode := os.Getenv(helperEnv); mode != "" {
		os.Exit(helperMain(mode, os.Args[len(os.Args)-1]))
	}
	os.Exit(m.Run())
}

func helperMain(mode, path string) int {
	switch mode {
	case "ok":
		if err := Write(os.Stdout, &Report{Path: path, Name: "clock", Plugin: true}); err != nil {
			return 1
		}
		return 0
	case "crash":
		fmt.Fprint(os.Stderr, "constructor crashed")
		return 2
	case "hang":
		time.Sleep(time.Minute)
		return 0
	case "other":
		_ = Write(os.Stdout, &Report{Path: "/somewhere/else.so"})
		return 0
	case "garbage":
		fmt.Fprint(os.Stdout, "\xff\xff\xff")
		return 0
	}
	return 3
}

func newHelperProber(t *testing.T, mode string) *Prober {
	t.Setenv(helperEnv, mode)
	return &Prober{Executable: os.Args[0], Timeout: 5 * time.Second}
}

func TestProber_OK(t *testing.T) {
	p := newHelperProber(t, "ok")
	assert.NilError(t, p.Probe("/lib/libclock.so"))
}

func TestProber_ChildCrashes(t *testing.T) {
	p := newHelperProber(t, "crash")
	err := p.Probe("/lib/libclock.so")
	assert.ErrorContains(t, err, "constructor crashed")
}

func TestProber_Timeout(t *testing.T) {
	p := newHelperProber(t, "hang")
	p.Timeout = 100 * time.Millisecond

	err := p.Probe("/lib/libclock.so")
	assert.ErrorContains(t, err, "timed out")
}

func TestProber_WrongFile(t *testing.T) {
	p := newHelperProber(t, "other")
	err := p.Probe("/lib/libclock.so")
	assert.Assert(t, errors.Is(err, ErrMalformedReport))
}

func TestProber_Garbage(t *testing.T) {
	p := newHelperProber(t, "garbage")
	err := p.Probe("/lib/libclock.so")
	assert.Assert(t, errors.Is(err, ErrMalformedReport))
}

func TestWriteRead(t *testing.T) {
	in := &Report{Path: "/lib/libclock.so", Name: "clock", Target: "linux-amd64", Plugin: true, Service: true}

	var buf bytes.Buffer
	assert.NilError(t, Write(&buf, in))

	out, err := Read(&buf)
	assert.NilError(t, err)
	assert.DeepEqual(t, out, in)
}

func TestRead_Empty(t *testing.T) {
	_, err := Read(bytes.NewReader(nil))
	assert.Assert(t, errors.Is(err, ErrMalformedReport))
}

type stubLibrary struct {
	symbols map[string]any
	closed  bool
}

func (s *stubLibrary) Path() string { return "stub" }

func (s *stubLibrary) Lookup(name string, fptr any) error {
	sym, ok := s.symbols[name]
	if !ok {
		return native.ErrSymbolNotFound
	}
	switch p := fptr.(type) {
	case *plugin.InstallFunc:
		*p = sym.(plugin.InstallFunc)
	case *plugin.NameFunc:
		*p = sym.(plugin.NameFunc)
	case *plugin.CreateServiceFunc:
		*p = sym.(plugin.CreateServiceFunc)
	}
	return nil
}

func (s *stubLibrary) Close() error {
	s.closed = true
	return nil
}

func TestInspect(t *testing.T) {
	installed := false
	lib := &stubLibrary{symbols: map[string]any{
		plugin.InstallSymbol: plugin.InstallFunc(func(uintptr) bool { installed = true; return true }),
		plugin.NameSymbol:    plugin.NameFunc(func() string { return "clock" }),
		plugin.TargetSymbol:  plugin.NameFunc(func() string { return "linux-amd64" }),
	}}
	opener := native.OpenerFunc(func(string) (native.Library, error) { return lib, nil })

	r, err := Inspect(opener, "/lib/libclock.so")
	assert.NilError(t, err)
	assert.DeepEqual(t, r, &Report{Path: "/lib/libclock.so", Name: "clock", Target: "linux-amd64", Plugin: true})
	assert.Assert(t, !installed)
	assert.Assert(t, lib.closed)
}

func TestInspect_NotAPlugin(t *testing.T) {
	lib := &stubLibrary{symbols: map[string]any{}}
	opener := native.OpenerFunc(func(string) (native.Library, error) { return lib, nil })

	r, err := Inspect(opener, "/lib/libm.so")
	assert.NilError(t, err)
	assert.Assert(t, !r.Plugin)
}

func TestInspect_OpenFails(t *testing.T) {
	opener := native.OpenerFunc(func(string) (native.Library, error) { return nil, os.ErrNotExist })

	_, err := Inspect(opener, "/lib/missing.so")
	assert.Assert(t, errors.Is(err, os.ErrNotExist))
}

func TestRead_IgnoresSurroundingOutput(t *testing.T) {
	var buf bytes.Buffer
	buf.WriteString("constructor says hello\n")
	assert.NilError(t, Write(&buf, &Report{Path: "/lib/libnoisy.so", Plugin: true}))
	buf.WriteString("goodbye\n")

	r, err := Read(&buf)
	assert.NilError(t, err)
	assert.Equal(t, r.Path, "/lib/libnoisy.so")
}

func TestReadFrame_Truncated(t *testing.T) {
	var buf bytes.Buffer
	assert.NilError(t, writeFrame(&buf, frameTypeReport, []byte("payload")))

	_, err := readFrame(buf.Bytes()[:buf.Len()-2], frameTypeReport)
	assert.ErrorContains(t, err, "truncated")
}
