// Package lifecycle runs process start and stop hooks.
//
// Components register an init hook to run when the process starts and a
// cleanup hook to run at shutdown. Cleanups run in reverse registration order.
package lifecycle

import (
	"fmt"
	"sync"
)

type (
	InitFunc    func() error
	CleanupFunc func()
)

type initHook struct {
	name string
	fn   InitFunc
}

type cleanupHook struct {
	name string
	fn   CleanupFunc
}

// Manager holds the registered hooks. Start and Stop each run at most once.
type Manager struct {
	mu       sync.Mutex
	inits    []initHook
	cleanups []cleanupHook
	started  bool
	stopped  bool
}

// New creates an empty Manager.
func New() *Manager {
	return &Manager{}
}

// RegisterInit adds a start hook.
func (m *Manager) RegisterInit(name string, fn InitFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.inits = append(m.inits, initHook{name: name, fn: fn})
}

// RegisterCleanup adds a stop hook.
func (m *Manager) RegisterCleanup(name string, fn CleanupFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cleanups = append(m.cleanups, cleanupHook{name: name, fn: fn})
}

// Start runs the init hooks in registration order and stops at the first
// failing hook. Calling Start again is a no-op.
func (m *Manager) Start() error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	inits := append([]initHook(nil), m.inits...)
	m.mu.Unlock()

	for _, h := range inits {
		if err := h.fn(); err != nil {
			return fmt.Errorf("init hook %s: %w", h.name, err)
		}
	}
	return nil
}

// Stop runs the cleanup hooks in reverse registration order. Calling Stop
// again is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true
	cleanups := append([]cleanupHook(nil), m.cleanups...)
	m.mu.Unlock()

	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i].fn()
	}
}

var std = New()

// Default returns the process-wide Manager.
func Default() *Manager {
	return std
}

// RegisterInit adds a start hook to the process-wide Manager.
func RegisterInit(name string, fn InitFunc) {
	std.RegisterInit(name, fn)
}

// RegisterCleanup adds a stop hook to the process-wide Manager.
func RegisterCleanup(name string, fn CleanupFunc) {
	std.RegisterCleanup(name, fn)
}

// Start runs the process-wide init hooks.
func Start() error {
	return std.Start()
}

// Stop runs the process-wide cleanup hooks.
func Stop() {
	std.Stop()
}
