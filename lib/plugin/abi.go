package plugin

import "runtime"

// Symbols a module exports. Only InstallSymbol is required.
const (
	// InstallSymbol installs the module into the context it receives, or
	// process-wide when the context handle is 0.
	InstallSymbol = "LoadPlugin"
	// NameSymbol returns the module's declared name.
	NameSymbol = "PluginName"
	// TargetSymbol returns the target the module was built for.
	TargetSymbol = "TargetName"
	// ServiceSymbol constructs a service object. Its presence marks the module as a service.
	ServiceSymbol = "CreateService"
)

type (
	InstallFunc       func(ctx uintptr) bool
	NameFunc          func() string
	CreateServiceFunc func() uintptr
)

// HostTarget identifies the platform this binary was built for. Modules
// declaring a different target are refused. It can be overridden at link
// time with -ldflags "-X github.com/snowmerak/extload/lib/plugin.HostTarget=...".
var HostTarget = runtime.GOOS + "-" + runtime.GOARCH
