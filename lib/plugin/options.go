package plugin

import (
	"github.com/go-logr/logr"

	"github.com/snowmerak/extload/lib/metrics"
	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/service"
)

// LoaderOptions defines options for creating a Loader.
// Zero fields fall back to the values of DefaultLoaderOptions.
type LoaderOptions struct {
	// Logger receives load reports. Debug details are logged at V(1).
	Logger logr.Logger

	// Opener opens native libraries. Defaults to the C-ABI backend.
	Opener native.Opener

	// Target is compared to the target each module declares.
	Target string

	// Extension selects which files are candidates during a scan.
	Extension string

	// SearchPath is the initial search path used by LoadPlugin and LoadTypekit.
	SearchPath string

	// Services receives services registered through LoadService.
	Services ServiceDirectory

	// Prober, when set, checks each library out of process before it is opened.
	Prober Prober

	// Metrics, when set, records load outcomes.
	Metrics *metrics.Recorder
}

// DefaultLoaderOptions returns the options used for zero fields.
func DefaultLoaderOptions() *LoaderOptions {
	return &LoaderOptions{
		Logger:    logr.Discard(),
		Opener:    native.DL(),
		Target:    HostTarget,
		Extension: native.Ext,
		Services:  service.Global(),
	}
}
