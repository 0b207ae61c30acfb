// Package plugin provides directory discovery for the loader.
// This file contains the public load operations and the directory scan.
package plugin

import (
	"errors"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/multierr"

	"github.com/snowmerak/extload/lib/pathset"
)

// LoadPlugins loads every plugin found under the directories of pathList.
// For each directory D it scans D/plugins and D/plugins/<target>. When
// pathList names a regular file, that file is opened directly.
//
// The result is nil when at least one candidate file was found and every one
// of them loaded or was already loaded. A library that is not a plugin
// counts as a failed candidate. Failing files never stop the scan; their
// errors are combined.
func (l *Loader) LoadPlugins(pathList string) error {
	return l.loadAll(pathList, KindPlugin)
}

// LoadTypekits is LoadPlugins for the "types" directories.
func (l *Loader) LoadTypekits(pathList string) error {
	return l.loadAll(pathList, KindTypekit)
}

// LoadPlugin loads the plugin name. name may be a path to a library file.
// Otherwise it is looked up as a directory below every entry of the search
// path followed by pathList, and those directories are scanned like
// LoadPlugins does.
func (l *Loader) LoadPlugin(name, pathList string) error {
	return l.loadNamed(name, pathList, KindPlugin)
}

// LoadTypekit is LoadPlugin for typekits.
func (l *Loader) LoadTypekit(name, pathList string) error {
	return l.loadNamed(name, pathList, KindTypekit)
}

func (l *Loader) loadAll(pathList string, kind Kind) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	return l.scan(pathList, kind)
}

func (l *Loader) loadNamed(name, pathList string, kind Kind) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	if isRegularFile(name) {
		return l.loadFile(name, kind)
	}

	if l.reg.contains(name) {
		l.logger.V(1).Info("module already loaded, not reloading it", "kind", kind.String(), "name", name)
		return nil
	}

	dirs := pathset.Split(pathset.Join(l.reg.searchPath, pathList))
	looked := make([]string, 0, len(dirs))
	found := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		p := filepath.Join(dir, name)
		looked = append(looked, p)
		if isDir(p) {
			found = append(found, p)
		}
	}

	if len(found) == 0 {
		err := &NotFoundError{Kind: kind, Name: name, Looked: looked}
		l.logger.Error(err, "module not found")
		return err
	}
	return l.scan(pathset.Join(found...), kind)
}

// scan must be called with l.mu held.
func (l *Loader) scan(pathList string, kind Kind) error {
	if isRegularFile(pathList) {
		return l.loadFile(pathList, kind)
	}

	start := time.Now()
	defer l.metrics.ObserveScan(kind.String(), start)

	var (
		errs  error
		found bool
	)
	for _, dir := range pathset.Split(pathList) {
		for _, d := range []string{
			filepath.Join(dir, kind.Subdir()),
			filepath.Join(dir, kind.Subdir(), l.target),
		} {
			f, err := l.scanDir(d, kind)
			found = found || f
			errs = multierr.Append(errs, err)
		}
	}

	if !found {
		l.logger.V(1).Info("no modules found", "kind", kind.String(), "path", pathList)
		return ErrNotFound
	}
	return errs
}

// scanDir opens every library file in dir. It reports whether dir held at
// least one candidate.
func (l *Loader) scanDir(dir string, kind Kind) (bool, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.logger.V(1).Info("no such directory", "dir", dir)
		return false, nil
	}

	l.logger.Info("loading libraries from directory", "kind", kind.String(), "dir", dir)

	var (
		errs  error
		found bool
	)
	for _, entry := range entries {
		p := filepath.Join(dir, entry.Name())
		if !isRegularFile(p) {
			l.logger.V(1).Info("not a regular file, ignored", "file", p)
			continue
		}
		if filepath.Ext(p) != l.ext {
			l.logger.V(1).Info("not a library, ignored", "file", p, "extension", l.ext)
			continue
		}

		found = true
		errs = multierr.Append(errs, l.loadFile(p, kind))
	}
	return found, errs
}

// loadFile opens one library. A library that is already loaded is not a
// failure; a library without the install entry point is, though it is only
// logged at debug level.
func (l *Loader) loadFile(path string, kind Kind) error {
	err := l.openModule(path, shortName(filepath.Base(path), l.ext), kind)
	if errors.Is(err, ErrAlreadyLoaded) {
		return nil
	}
	return err
}
