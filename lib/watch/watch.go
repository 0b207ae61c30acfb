// Package watch loads modules that appear in scanned directories while the
// process runs. Modules are only ever added: removing or rewriting a file
// does not unload what is already loaded.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/go-logr/logr"

	"github.com/snowmerak/extload/lib/pathset"
	"github.com/snowmerak/extload/lib/plugin"
)

// DefaultDelay is how long a file must stay quiet before it is loaded.
const DefaultDelay = 500 * time.Millisecond

// Loader is the part of *plugin.Loader the watcher drives.
type Loader interface {
	LoadPlugin(name, pathList string) error
	LoadTypekit(name, pathList string) error
}

type Watcher struct {
	loader Loader
	logger logr.Logger
	ext    string
	delay  time.Duration

	fsw *fsnotify.Watcher

	mu       sync.Mutex
	dirs     map[string]plugin.Kind
	debounce map[string]*time.Timer
	wg       sync.WaitGroup
}

// New creates a Watcher that loads files ending in ext.
func New(loader Loader, logger logr.Logger, ext string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	return &Watcher{
		loader:   loader,
		logger:   logger,
		ext:      ext,
		delay:    DefaultDelay,
		fsw:      fsw,
		dirs:     make(map[string]plugin.Kind),
		debounce: make(map[string]*time.Timer),
	}, nil
}

// SetDelay changes the debounce delay.
func (w *Watcher) SetDelay(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.delay = d
}

// Add watches dir for modules of kind.
func (w *Watcher) Add(dir string, kind plugin.Kind) error {
	dir = filepath.Clean(dir)
	if err := w.fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	w.mu.Lock()
	w.dirs[dir] = kind
	w.mu.Unlock()

	w.logger.Info("watching directory", "dir", dir, "kind", kind.String())
	return nil
}

// AddSearchPath watches the plugin and typekit directories of every entry
// in searchPath that exists, including the target subdirectories. It
// returns the number of directories watched.
func (w *Watcher) AddSearchPath(searchPath, target string) int {
	n := 0
	for _, dir := range pathset.Split(searchPath) {
		for _, kind := range []plugin.Kind{plugin.KindPlugin, plugin.KindTypekit} {
			for _, d := range []string{
				filepath.Join(dir, kind.Subdir()),
				filepath.Join(dir, kind.Subdir(), target),
			} {
				if err := w.Add(d, kind); err != nil {
					w.logger.V(1).Info("not watching", "dir", d, "reason", err.Error())
					continue
				}
				n++
			}
		}
	}
	return n
}

// Run processes file system events until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error(err, "watcher error")
		}
	}
}

// Close stops watching and waits for pending loads.
func (w *Watcher) Close() error {
	err := w.fsw.Close()

	w.mu.Lock()
	for path, timer := range w.debounce {
		if timer.Stop() {
			w.wg.Done()
		}
		delete(w.debounce, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	return err
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if filepath.Ext(event.Name) != w.ext {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	kind, ok := w.dirs[filepath.Dir(event.Name)]
	if !ok {
		return
	}

	path := event.Name
	if timer, exists := w.debounce[path]; exists {
		if timer.Stop() {
			w.wg.Done()
		}
	}
	w.wg.Add(1)
	w.debounce[path] = time.AfterFunc(w.delay, func() {
		defer w.wg.Done()
		w.load(path, kind)
	})
}

func (w *Watcher) load(path string, kind plugin.Kind) {
	w.mu.Lock()
	delete(w.debounce, path)
	w.mu.Unlock()

	w.logger.Info("new module detected", "path", path, "kind", kind.String())

	var err error
	if kind == plugin.KindTypekit {
		err = w.loader.LoadTypekit(path, "")
	} else {
		err = w.loader.LoadPlugin(path, "")
	}
	if err != nil {
		w.logger.Error(err, "failed to load new module", "path", path)
	}
}
