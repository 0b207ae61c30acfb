// Package probe opens a library in a child process before the host opens it.
//
// Library constructors run as soon as a library is opened, before any
// exported symbol can be checked. A module whose constructors crash would
// take the host down with it. The Prober re-executes the host binary in
// probe mode ("extload probe FILE"); the child opens the library, reads its
// declared name and target without installing it, and writes a Report to
// stdout. A child that dies or times out fails the probe.
package probe

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/plugin"
	"github.com/snowmerak/extload/lib/process"
)

// DefaultTimeout bounds a probe when Prober.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// ErrMalformedReport is returned when the child's output cannot be decoded.
var ErrMalformedReport = errors.New("malformed probe report")

// Report is what the child learned about a library.
type Report struct {
	Path    string
	Name    string
	Target  string
	Plugin  bool
	Service bool
}

// Inspect opens path with opener and reads the module symbols. The install
// entry point is looked up but never called.
func Inspect(opener native.Opener, path string) (*Report, error) {
	lib, err := opener.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer lib.Close()

	r := &Report{Path: path}

	var install plugin.InstallFunc
	if lib.Lookup(plugin.InstallSymbol, &install) != nil {
		return r, nil
	}
	r.Plugin = true

	var name, target plugin.NameFunc
	if lib.Lookup(plugin.NameSymbol, &name) == nil {
		r.Name = name()
	}
	if lib.Lookup(plugin.TargetSymbol, &target) == nil {
		r.Target = target()
	}

	var create plugin.CreateServiceFunc
	r.Service = lib.Lookup(plugin.ServiceSymbol, &create) == nil
	return r, nil
}

// Write encodes r as a protobuf Struct inside a report frame.
func Write(w io.Writer, r *Report) error {
	s, err := structpb.NewStruct(map[string]any{
		"path":    r.Path,
		"name":    r.Name,
		"target":  r.Target,
		"plugin":  r.Plugin,
		"service": r.Service,
	})
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	data, err := proto.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	return writeFrame(w, frameTypeReport, data)
}

// Read decodes a report written by Write. Output around the frame is ignored.
func Read(rd io.Reader) (*Report, error) {
	data, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	payload, err := readFrame(data, frameTypeReport)
	if err != nil {
		return nil, err
	}

	var s structpb.Struct
	if err := proto.Unmarshal(payload, &s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedReport, err)
	}

	f := s.GetFields()
	path, ok := f["path"]
	if !ok {
		return nil, fmt.Errorf("%w: missing path", ErrMalformedReport)
	}

	return &Report{
		Path:    path.GetStringValue(),
		Name:    f["name"].GetStringValue(),
		Target:  f["target"].GetStringValue(),
		Plugin:  f["plugin"].GetBoolValue(),
		Service: f["service"].GetBoolValue(),
	}, nil
}

// Prober runs Executable with Args followed by the library path and reads
// the Report from its stdout. It implements plugin.Prober.
type Prober struct {
	// Executable defaults to the running binary.
	Executable string
	// Args precede the library path, e.g. ["probe"].
	Args    []string
	Timeout time.Duration
}

// Probe fails when the child exits abnormally, times out or reports on
// another file.
func (p *Prober) Probe(path string) error {
	exe := p.Executable
	if exe == "" {
		self, err := process.Self()
		if err != nil {
			return err
		}
		exe = self
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	args := append(append([]string(nil), p.Args...), path)
	child, err := process.Fork(ctx, exe, args...)
	if err != nil {
		return err
	}
	defer child.Close()

	out, err := child.Output()
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("probe of %s timed out after %s", path, timeout)
		}
		if msg := child.Stderr(); msg != "" {
			return fmt.Errorf("probe of %s failed: %w: %s", path, err, msg)
		}
		return fmt.Errorf("probe of %s failed: %w", path, err)
	}

	report, err := Read(bytes.NewReader(out))
	if err != nil {
		return err
	}
	if report.Path != path {
		return fmt.Errorf("%w: reported on %q, want %q", ErrMalformedReport, report.Path, path)
	}
	return nil
}

var _ plugin.Prober = (*Prober)(nil)
