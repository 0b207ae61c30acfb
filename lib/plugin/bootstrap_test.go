package plugin

import (
	"errors"
	"testing"

	"gotest.tools/assert"

	"github.com/snowmerak/extload/lib/lifecycle"
)

func TestBootstrap(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "plugins", "libclock.so")
	touch(t, root, "types", "libmarshal.so")

	opener := newFakeOpener()
	opener.add("libclock.so", validModule("clock"))
	opener.add("libmarshal.so", validModule("marshal"))

	l := NewLoader(&LoaderOptions{Opener: opener, Target: testTarget, Extension: ".so"})
	m := lifecycle.New()
	Bootstrap(m, l, root)

	assert.NilError(t, m.Start())
	assert.Equal(t, l.SearchPath(), root)
	assert.DeepEqual(t, l.ListPlugins(), []string{"clock"})
	assert.DeepEqual(t, l.ListTypekits(), []string{"marshal"})

	m.Stop()
	assert.Assert(t, errors.Is(l.LoadPlugins(root), ErrClosed))
	for _, lib := range opener.libraries() {
		assert.Assert(t, lib.closed.Load())
	}
}

func TestBootstrap_EmptySearchPathIsNotFatal(t *testing.T) {
	l := NewLoader(&LoaderOptions{Opener: newFakeOpener(), Target: testTarget, Extension: ".so"})
	m := lifecycle.New()
	Bootstrap(m, l, t.TempDir())

	assert.NilError(t, m.Start())
	assert.Equal(t, len(l.Modules()), 0)
	m.Stop()
}
