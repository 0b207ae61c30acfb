//go:build !((darwin || freebsd || linux) && cgo)

package native

type goPluginOpener struct{}

// GoPlugin returns the backend for modules built with -buildmode=plugin. It
// needs cgo on linux, darwin or freebsd; this build has neither.
func GoPlugin() Opener {
	return goPluginOpener{}
}

func (goPluginOpener) Open(path string) (Library, error) {
	return nil, ErrUnsupported
}
