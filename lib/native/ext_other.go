//go:build !darwin && !windows

package native

// Ext is the file extension of native libraries on this host.
const Ext = ".so"
