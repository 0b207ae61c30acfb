// Command clock is an example plugin. Build it with:
//
//	go build -buildmode=plugin -o ../../modules/plugins/libclock.so .
package main

import (
	"fmt"
	"runtime"
	"sync/atomic"
	"time"
	"unsafe"
)

// Clock is the service object this plugin provides.
type Clock struct {
	started time.Time
}

func (c *Clock) Uptime() time.Duration { return time.Since(c.started) }

var (
	installs atomic.Int32
	service  *Clock
)

// LoadPlugin installs the plugin. ctx is 0 for the process-wide install.
func LoadPlugin(ctx uintptr) bool {
	n := installs.Add(1)
	if ctx == 0 {
		fmt.Printf("clock: installed process-wide (install #%d)\n", n)
	} else {
		fmt.Printf("clock: installed into context %#x (install #%d)\n", ctx, n)
	}
	return true
}

func PluginName() string { return "clock" }

func TargetName() string { return runtime.GOOS + "-" + runtime.GOARCH }

// CreateService returns a handle to the Clock service.
func CreateService() uintptr {
	if service == nil {
		service = &Clock{started: time.Now()}
	}
	return uintptr(unsafe.Pointer(service))
}

func main() {}
