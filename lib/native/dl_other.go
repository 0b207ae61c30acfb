//go:build !(darwin || freebsd || linux)

package native

type dlOpener struct{}

// DL returns the C-ABI backend. It is unavailable on this platform.
func DL() Opener {
	return dlOpener{}
}

func (dlOpener) Open(path string) (Library, error) {
	return nil, ErrUnsupported
}
