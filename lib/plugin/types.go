// Package plugin provides core types and interfaces for the extension loader.
// This file contains the module classification, the loaded-module record and
// the main Loader struct definition.
package plugin

import (
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"

	"github.com/snowmerak/extload/lib/metrics"
	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/service"
)

// Kind tells whether a module carries capabilities or type definitions.
type Kind uint8

const (
	// KindPlugin modules contribute runtime capabilities. They live in "plugins" directories.
	KindPlugin Kind = iota
	// KindTypekit modules contribute data-type and marshalling definitions. They live in "types" directories.
	KindTypekit
)

// String returns "plugin" or "typekit".
func (k Kind) String() string {
	if k == KindTypekit {
		return "typekit"
	}
	return "plugin"
}

// Subdir returns the directory name scanned for modules of this kind.
func (k Kind) Subdir() string {
	if k == KindTypekit {
		return "types"
	}
	return "plugins"
}

// Class is the classification of a module, computed once when it is opened.
// Service is orthogonal to Kind: it is set when the module exports a service
// constructor.
type Class struct {
	Kind    Kind
	Service bool
}

func (c Class) String() string {
	if c.Service {
		return c.Kind.String() + "+service"
	}
	return c.Kind.String()
}

// Record describes one loaded module. Records are immutable once registered.
type Record struct {
	ID         uuid.UUID
	Filename   string
	ShortName  string
	PluginName string
	Path       string
	Target     string
	Class      Class
	LoadedAt   time.Time

	lib           native.Library
	install       InstallFunc
	createService CreateServiceFunc
}

// ModuleInfo is a value snapshot of a Record for listings.
type ModuleInfo struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Filename  string    `json:"filename" yaml:"filename"`
	ShortName string    `json:"shortname" yaml:"shortname"`
	Path      string    `json:"path" yaml:"path"`
	Target    string    `json:"target" yaml:"target"`
	Kind      string    `json:"kind" yaml:"kind"`
	Service   bool      `json:"service" yaml:"service"`
	LoadedAt  time.Time `json:"loaded_at" yaml:"loaded_at"`
}

// Info returns the snapshot of r.
func (r *Record) Info() ModuleInfo {
	return ModuleInfo{
		ID:        r.ID.String(),
		Name:      r.PluginName,
		Filename:  r.Filename,
		ShortName: r.ShortName,
		Path:      r.Path,
		Target:    r.Target,
		Kind:      r.Class.Kind.String(),
		Service:   r.Class.Service,
		LoadedAt:  r.LoadedAt,
	}
}

// Context is an execution context a module can be installed into.
type Context interface {
	// Name identifies the context in logs.
	Name() string
	// Handle is passed to the module's install entry point.
	Handle() uintptr
}

// ServiceDirectory receives services constructed by loaded modules.
type ServiceDirectory interface {
	AddService(s service.Service) bool
}

// Prober checks a library before it is opened in this process.
type Prober interface {
	Probe(path string) error
}

// Loader discovers, validates and activates native modules. All of its
// methods are safe for concurrent use; they are serialized by a single lock.
type Loader struct {
	mu     sync.Mutex
	reg    registry
	closed bool

	opener   native.Opener
	target   string
	ext      string
	services ServiceDirectory
	prober   Prober
	metrics  *metrics.Recorder
	logger   logr.Logger
	now      func() time.Time
}
