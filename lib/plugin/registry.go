package plugin

import (
	"path/filepath"

	"go.uber.org/multierr"
)

// registry is the bookkeeping of loaded modules. It is not safe for
// concurrent use: every access happens with Loader.mu held.
type registry struct {
	records    []*Record
	searchPath string
}

func (r *Record) matches(key string) bool {
	return r.Filename == key ||
		r.Filename == filepath.Base(key) ||
		r.ShortName == key ||
		r.PluginName == key ||
		r.PluginName == filepath.Base(key)
}

// contains reports whether key names a loaded module by file name, short
// name or declared name. Paths match on their base name.
func (reg *registry) contains(key string) bool {
	return reg.lookup(key) != nil
}

func (reg *registry) lookup(key string) *Record {
	if key == "" {
		return nil
	}
	for _, rec := range reg.records {
		if rec.matches(key) {
			return rec
		}
	}
	return nil
}

func (reg *registry) insert(rec *Record) {
	reg.records = append(reg.records, rec)
}

func (reg *registry) list(pred func(*Record) bool) []string {
	names := make([]string, 0, len(reg.records))
	for _, rec := range reg.records {
		if pred == nil || pred(rec) {
			names = append(names, rec.PluginName)
		}
	}
	return names
}

func (reg *registry) count(kind Kind) int {
	n := 0
	for _, rec := range reg.records {
		if rec.Class.Kind == kind {
			n++
		}
	}
	return n
}

func (reg *registry) closeAll() error {
	var errs error
	for i := len(reg.records) - 1; i >= 0; i-- {
		errs = multierr.Append(errs, reg.records[i].lib.Close())
	}
	reg.records = nil
	return errs
}

// IsLoaded reports whether name is the file name, short name or declared
// name of a loaded module.
func (l *Loader) IsLoaded(name string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.contains(name)
}

// ListPlugins returns the declared names of the loaded plugins.
func (l *Loader) ListPlugins() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.list(func(r *Record) bool { return r.Class.Kind == KindPlugin })
}

// ListTypekits returns the declared names of the loaded typekits.
func (l *Loader) ListTypekits() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.list(func(r *Record) bool { return r.Class.Kind == KindTypekit })
}

// ListServices returns the declared names of the loaded modules that can construct a service.
func (l *Loader) ListServices() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.list(func(r *Record) bool { return r.Class.Service })
}

// Modules returns a snapshot of every loaded module in load order.
func (l *Loader) Modules() []ModuleInfo {
	l.mu.Lock()
	defer l.mu.Unlock()

	infos := make([]ModuleInfo, 0, len(l.reg.records))
	for _, rec := range l.reg.records {
		infos = append(infos, rec.Info())
	}
	return infos
}

// SearchPath returns the path list LoadPlugin and LoadTypekit search in.
func (l *Loader) SearchPath() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.reg.searchPath
}

// SetSearchPath replaces the search path.
func (l *Loader) SetSearchPath(path string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.reg.searchPath = path
}
