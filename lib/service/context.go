package service

// NamedContext is a minimal execution context: a name used for logging and an
// opaque handle passed to a module's install entry point.
type NamedContext struct {
	ContextName string
	Ptr         uintptr
}

// Name returns the context name.
func (c NamedContext) Name() string {
	return c.ContextName
}

// Handle returns the opaque context handle.
func (c NamedContext) Handle() uintptr {
	return c.Ptr
}
