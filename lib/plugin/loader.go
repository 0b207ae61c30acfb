package plugin

// This file serves as the main entry point for the loader package.
// The implementation is split into separate files:
//
// - types.go: Kind, Class, Record, collaborator interfaces and the Loader struct
// - abi.go: exported symbol names and entry point signatures modules must provide
// - options.go: LoaderOptions and defaults
// - lifecycle.go: NewLoader and Close
// - registry.go: bookkeeping of loaded modules and the search path
// - open.go: opening and validating a single library
// - guard.go: recover boundaries around calls into module code
// - scan.go: directory discovery and the LoadPlugins/LoadTypekits family
// - service.go: LoadService and service activation
// - bootstrap.go: process start/stop hooks
// - errors.go: error values
// - utils.go: file name and file system helpers
