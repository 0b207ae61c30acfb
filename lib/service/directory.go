// Package service provides the process-wide directory of services created by
// loaded modules, and a minimal execution context that modules can be
// installed into.
package service

import (
	"sync"
)

// Service is a capability object constructed by a module's service entry point.
type Service struct {
	// Name is the declared plugin name of the providing module.
	Name string
	// Provider is the file the module was loaded from.
	Provider string
	// Handle is the opaque value returned by the module.
	Handle uintptr
}

// Directory is an ordered, concurrency-safe set of services keyed by name.
type Directory struct {
	mu       sync.RWMutex
	services []Service
	index    map[string]int
}

// NewDirectory creates an empty Directory.
func NewDirectory() *Directory {
	return &Directory{index: make(map[string]int)}
}

var (
	globalOnce sync.Once
	global     *Directory
)

// Global returns the process-wide directory, creating it on first use.
func Global() *Directory {
	globalOnce.Do(func() {
		global = NewDirectory()
	})
	return global
}

// AddService registers s. It returns false if s has no handle or a service
// with the same name is already present.
func (d *Directory) AddService(s Service) bool {
	if s.Handle == 0 || s.Name == "" {
		return false
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, exists := d.index[s.Name]; exists {
		return false
	}
	d.index[s.Name] = len(d.services)
	d.services = append(d.services, s)
	return true
}

// Lookup returns the service registered under name.
func (d *Directory) Lookup(name string) (Service, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	i, ok := d.index[name]
	if !ok {
		return Service{}, false
	}
	return d.services[i], true
}

// Services lists the registered service names in registration order.
func (d *Directory) Services() []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.services))
	for _, s := range d.services {
		names = append(names, s.Name)
	}
	return names
}
