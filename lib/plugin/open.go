// Package plugin provides the module open sequence for the loader.
// This file contains the validation and activation of a single library.
package plugin

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/snowmerak/extload/lib/metrics"
	"github.com/snowmerak/extload/lib/native"
)

// openModule opens, validates, installs and registers the library at path.
// It must be called with l.mu held. A library that is already registered
// returns ErrAlreadyLoaded; callers treat that as success.
func (l *Loader) openModule(path, short string, kind Kind) error {
	filename := filepath.Base(path)
	log := l.logger.WithValues("kind", kind.String(), "path", path)

	if l.reg.contains(short) || l.reg.contains(path) {
		log.V(1).Info("module already loaded", "shortname", short)
		l.metrics.ObserveOpen(kind.String(), metrics.ResultAlreadyLoaded)
		return ErrAlreadyLoaded
	}

	if l.prober != nil {
		if err := l.prober.Probe(path); err != nil {
			log.Error(err, "probe failed")
			l.metrics.ObserveOpen(kind.String(), metrics.ResultOpenFailed)
			return &OpenError{Path: path, Err: err}
		}
	}

	lib, err := l.opener.Open(path)
	if err != nil {
		log.Error(err, "could not load library")
		l.metrics.ObserveOpen(kind.String(), metrics.ResultOpenFailed)
		return &OpenError{Path: path, Err: err}
	}

	rec, err := l.activate(lib, path, filename, short, kind)
	if err != nil {
		if cerr := lib.Close(); cerr != nil {
			log.V(1).Info("close after failed load", "error", cerr.Error())
		}
		switch {
		case errors.Is(err, ErrNotAPlugin):
			log.V(1).Info("not a plugin", "reason", err.Error())
			l.metrics.ObserveOpen(kind.String(), metrics.ResultNotAPlugin)
		case errors.Is(err, ErrAlreadyLoaded):
			log.V(1).Info("module name already registered by another file")
			l.metrics.ObserveOpen(kind.String(), metrics.ResultAlreadyLoaded)
		case errors.Is(err, ErrTargetMismatch):
			log.Error(err, "refusing module")
			l.metrics.ObserveOpen(kind.String(), metrics.ResultTargetFailed)
		default:
			log.Error(err, "module failed to install")
			l.metrics.ObserveOpen(kind.String(), metrics.ResultInstallFailed)
		}
		return err
	}

	l.reg.insert(rec)
	l.metrics.ObserveOpen(kind.String(), metrics.ResultLoaded)
	l.metrics.SetRegistered(kind.String(), l.reg.count(kind))
	log.Info("loaded module", "name", rec.PluginName, "class", rec.Class.String(), "id", rec.ID.String())
	return nil
}

// activate binds the module symbols, validates the declared target and
// runs the install entry point. The caller closes lib on error.
func (l *Loader) activate(lib native.Library, path, filename, short string, kind Kind) (*Record, error) {
	var install InstallFunc
	if err := lib.Lookup(InstallSymbol, &install); err != nil {
		if errors.Is(err, native.ErrSymbolNotFound) {
			return nil, fmt.Errorf("%s: %w", filename, ErrNotAPlugin)
		}
		return nil, fmt.Errorf("%s: %w: %w", filename, ErrNotAPlugin, err)
	}

	name := filename
	var nameFn NameFunc
	if err := lib.Lookup(NameSymbol, &nameFn); err == nil {
		declared, err := callName(filename, NameSymbol, nameFn)
		if err != nil {
			return nil, err
		}
		if declared != "" {
			name = declared
		}
	}

	target := l.target
	var targetFn NameFunc
	if err := lib.Lookup(TargetSymbol, &targetFn); err == nil {
		declared, err := callName(name, TargetSymbol, targetFn)
		if err != nil {
			return nil, err
		}
		target = declared
	}
	if target != l.target {
		return nil, &TargetMismatchError{Module: name, Declared: target, Host: l.target}
	}

	if name != filename && l.reg.contains(name) {
		return nil, ErrAlreadyLoaded
	}

	var create CreateServiceFunc
	class := Class{Kind: kind}
	if err := lib.Lookup(ServiceSymbol, &create); err == nil {
		class.Service = true
	} else {
		create = nil
	}

	if err := callInstall(name, install, 0); err != nil {
		return nil, err
	}

	return &Record{
		ID:            newRecordID(),
		Filename:      filename,
		ShortName:     short,
		PluginName:    name,
		Path:          path,
		Target:        target,
		Class:         class,
		LoadedAt:      l.now(),
		lib:           lib,
		install:       install,
		createService: create,
	}, nil
}

func newRecordID() uuid.UUID {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New()
	}
	return id
}
