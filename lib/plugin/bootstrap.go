package plugin

import (
	"errors"

	"github.com/snowmerak/extload/lib/lifecycle"
)

// Bootstrap registers the loader with m. The init hook sets the search path
// and loads every plugin and typekit found on it; finding nothing is not an
// error. The cleanup hook closes the loader.
func Bootstrap(m *lifecycle.Manager, l *Loader, searchPath string) {
	m.RegisterInit("extload", func() error {
		l.SetSearchPath(searchPath)

		for _, load := range []struct {
			kind Kind
			fn   func(string) error
		}{
			{KindPlugin, l.LoadPlugins},
			{KindTypekit, l.LoadTypekits},
		} {
			err := load.fn(searchPath)
			switch {
			case err == nil:
			case errors.Is(err, ErrNotFound):
				l.logger.Info("no modules found on search path", "kind", load.kind.String(), "path", searchPath)
			case errors.Is(err, ErrClosed):
				return err
			default:
				l.logger.Error(err, "some modules failed to load", "kind", load.kind.String())
			}
		}
		return nil
	})

	m.RegisterCleanup("extload", func() {
		if err := l.Close(); err != nil && !errors.Is(err, ErrClosed) {
			l.logger.Error(err, "closing loader")
		}
	})
}
