// Package process runs helper child processes and captures their output.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"
)

// waitDelay bounds how long Wait drains output after the child is killed.
const waitDelay = time.Second

type Process struct {
	cmd    *exec.Cmd
	stdout bytes.Buffer
	stderr bytes.Buffer

	waitOnce sync.Once
	waitErr  error
}

// Fork starts path with args. The child is killed when ctx is done.
// Stdout and stderr are buffered until the child exits.
func Fork(ctx context.Context, path string, args ...string) (*Process, error) {
	p := &Process{}
	p.cmd = exec.CommandContext(ctx, path, args...)
	p.cmd.Stdout = &p.stdout
	p.cmd.Stderr = &p.stderr
	p.cmd.Env = os.Environ()
	p.cmd.WaitDelay = waitDelay

	if err := p.cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start process: %w", err)
	}
	return p, nil
}

// Self returns the path of the running executable, for re-executing it.
func Self() (string, error) {
	path, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("failed to resolve executable: %w", err)
	}
	return path, nil
}

// Wait blocks until the child exits. It is safe to call more than once.
func (p *Process) Wait() error {
	p.waitOnce.Do(func() {
		if err := p.cmd.Wait(); err != nil {
			p.waitErr = fmt.Errorf("process exited with error: %w", err)
		}
	})
	return p.waitErr
}

// Output waits for the child and returns what it wrote to stdout.
func (p *Process) Output() ([]byte, error) {
	err := p.Wait()
	return p.stdout.Bytes(), err
}

// Stderr returns what the child wrote to stderr. Call it after Wait.
func (p *Process) Stderr() string {
	return p.stderr.String()
}

// Close kills the child if it is still running and reaps it.
func (p *Process) Close() error {
	if p.cmd.ProcessState == nil {
		if err := p.cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
			return fmt.Errorf("failed to kill process: %w", err)
		}
	}
	_ = p.Wait()
	return nil
}
