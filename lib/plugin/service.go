// Package plugin provides service activation for the loader.
// This file contains LoadService.
package plugin

import (
	"fmt"

	"github.com/snowmerak/extload/lib/service"
)

// LoadService activates the loaded module name, matched by file name, short
// name or declared name.
//
// With a context, the module's install entry point is invoked again with the
// context handle. Without one, the module must be a service: its service
// object is constructed and added to the loader's ServiceDirectory.
func (l *Loader) LoadService(name string, ctx Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}

	rec := l.reg.lookup(name)
	if rec == nil {
		err := fmt.Errorf("%w: %s", ErrServiceNotFound, name)
		l.logger.Error(err, "cannot load service")
		return err
	}

	if ctx != nil {
		l.logger.Info("loading service or plugin in context", "name", name, "context", ctx.Name())
		if err := callInstall(rec.PluginName, rec.install, ctx.Handle()); err != nil {
			l.logger.Error(err, "install into context failed", "name", name, "context", ctx.Name())
			return err
		}
		return nil
	}

	if !rec.Class.Service {
		err := fmt.Errorf("plugin %s was found: %w", name, ErrNotAService)
		l.logger.Error(err, "cannot load service")
		return err
	}

	handle, err := callCreateService(rec.PluginName, rec.createService)
	if err != nil {
		l.logger.Error(err, "service constructor failed", "name", name)
		return err
	}

	if !l.services.AddService(service.Service{Name: rec.PluginName, Provider: rec.Filename, Handle: handle}) {
		err := fmt.Errorf("%w: %s", ErrServiceRejected, rec.PluginName)
		l.logger.Error(err, "cannot register service")
		return err
	}

	l.logger.Info("registered service", "name", rec.PluginName, "provider", rec.Filename)
	return nil
}
