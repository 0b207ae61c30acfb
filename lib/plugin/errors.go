package plugin

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNotFound reports that no module file or directory matched a request.
	ErrNotFound = errors.New("no module found")
	// ErrAlreadyLoaded reports an idempotent no-op. Public operations treat it as success.
	ErrAlreadyLoaded = errors.New("module already loaded")
	// ErrOpen reports that the native loader could not open a library.
	ErrOpen = errors.New("could not load library")
	// ErrNotAPlugin reports a library without the install entry point.
	ErrNotAPlugin = errors.New("not a plugin")
	// ErrTargetMismatch reports a module built for another target.
	ErrTargetMismatch = errors.New("target mismatch")
	// ErrInstall reports a module whose entry point refused to load or panicked.
	ErrInstall = errors.New("plugin refused to load")
	// ErrServiceNotFound reports a LoadService request for an unknown module.
	ErrServiceNotFound = errors.New("no such service or plugin")
	// ErrNotAService reports a LoadService request without context for a module that has no service constructor.
	ErrNotAService = errors.New("plugin is not a service")
	// ErrServiceRejected reports a service the directory refused.
	ErrServiceRejected = errors.New("service rejected by directory")
	// ErrClosed is returned by operations on a closed Loader.
	ErrClosed = errors.New("loader is closed")
)

// OpenError reports a library the native loader could not open.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("could not load library %q: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

func (e *OpenError) Is(target error) bool { return target == ErrOpen }

// TargetMismatchError reports a module that declares a target other than the host's.
type TargetMismatchError struct {
	Module   string
	Declared string
	Host     string
}

func (e *TargetMismatchError) Error() string {
	return fmt.Sprintf("plugin %s reports to be compiled for target %q while running on target %q", e.Module, e.Declared, e.Host)
}

func (e *TargetMismatchError) Is(target error) bool { return target == ErrTargetMismatch }

// InstallError reports a call into module code that returned false or panicked.
type InstallError struct {
	Module string
	Symbol string
	// Panic holds the recovered value when the module panicked.
	Panic any
}

func (e *InstallError) Error() string {
	if e.Panic != nil {
		return fmt.Sprintf("plugin %s: unexpected panic in %s: %v", e.Module, e.Symbol, e.Panic)
	}
	return fmt.Sprintf("plugin %s: %s refused to load into this process", e.Module, e.Symbol)
}

func (e *InstallError) Is(target error) bool { return target == ErrInstall }

// NotFoundError reports a module name that matched no directory or file.
type NotFoundError struct {
	Kind   Kind
	Name   string
	Looked []string
}

func (e *NotFoundError) Error() string {
	if len(e.Looked) == 0 {
		return fmt.Sprintf("no such %s found in path: %s", e.Kind, e.Name)
	}
	return fmt.Sprintf("no such %s found in path: %s. Looked for these directories: %s", e.Kind, e.Name, strings.Join(e.Looked, ", "))
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
