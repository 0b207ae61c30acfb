// Command host loads the example modules with the Go plugin backend.
//
//	cd example/plugins/clock && go build -buildmode=plugin -o ../../modules/plugins/libclock.so .
//	cd example/types/geometry && go build -buildmode=plugin -o ../../modules/types/libgeometry.so .
//	cd example/host && go run . ../modules
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/snowmerak/extload/lib/lifecycle"
	"github.com/snowmerak/extload/lib/log"
	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/plugin"
	"github.com/snowmerak/extload/lib/service"
)

func main() {
	searchPath := "../modules"
	if len(os.Args) > 1 {
		searchPath = os.Args[1]
	}

	logger := log.NewLogger(log.SetMode(log.ModeDev), log.SetLevel(log.DebugLevel))

	loader := plugin.NewLoader(&plugin.LoaderOptions{
		Logger: logger,
		Opener: native.GoPlugin(),
	})
	plugin.Bootstrap(lifecycle.Default(), loader, searchPath)

	if err := lifecycle.Start(); err != nil {
		logger.Error(err, "startup failed")
		os.Exit(1)
	}
	defer lifecycle.Stop()

	fmt.Println("plugins: ", loader.ListPlugins())
	fmt.Println("typekits:", loader.ListTypekits())
	fmt.Println("services:", loader.ListServices())

	// Loading again is a no-op.
	if err := loader.LoadPlugin("clock", ""); err != nil {
		logger.Error(err, "reload")
	}

	if err := loader.LoadService("clock", nil); err != nil {
		logger.Error(err, "register service")
	}
	if s, ok := service.Global().Lookup("clock"); ok {
		fmt.Printf("clock service %#x provided by %s\n", s.Handle, s.Provider)
	}

	ctx := service.NamedContext{ContextName: "controller", Ptr: 0x1000}
	if err := loader.LoadService("clock", ctx); err != nil {
		logger.Error(err, "install into context")
	}

	if err := loader.LoadService("geometry", nil); errors.Is(err, plugin.ErrNotAService) {
		fmt.Println("geometry is a typekit without a service")
	}
}
