// Package plugin provides lifecycle management for the loader.
// This file contains the constructor and the teardown of all held modules.
package plugin

import (
	"time"
)

// NewLoader creates a Loader. A nil opts uses DefaultLoaderOptions.
func NewLoader(opts *LoaderOptions) *Loader {
	defaults := DefaultLoaderOptions()
	if opts == nil {
		opts = defaults
	}

	l := &Loader{
		opener:   opts.Opener,
		target:   opts.Target,
		ext:      opts.Extension,
		services: opts.Services,
		prober:   opts.Prober,
		metrics:  opts.Metrics,
		logger:   opts.Logger,
		now:      time.Now,
	}
	l.reg.searchPath = opts.SearchPath

	if l.opener == nil {
		l.opener = defaults.Opener
	}
	if l.target == "" {
		l.target = defaults.Target
	}
	if l.ext == "" {
		l.ext = defaults.Extension
	}
	if l.services == nil {
		l.services = defaults.Services
	}
	if l.logger.GetSink() == nil {
		l.logger = defaults.Logger
	}

	l.logger.V(1).Info("loader created", "target", l.target, "extension", l.ext)
	return l
}

// Close releases every module the loader holds, most recently loaded first,
// and empties the registry. Loads after Close fail with ErrClosed.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.closed = true

	n := len(l.reg.records)
	err := l.reg.closeAll()
	l.metrics.SetRegistered(KindPlugin.String(), 0)
	l.metrics.SetRegistered(KindTypekit.String(), 0)
	l.logger.V(1).Info("loader closed", "released", n)
	return err
}
