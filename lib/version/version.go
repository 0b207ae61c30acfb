package version

import "runtime"

// Set at link time with -ldflags "-X github.com/snowmerak/extload/lib/version.Version=...".
var (
	Version   = "0.1.0"
	GitCommit = "dev"
	BuildDate = "unknown"
)

// String returns a human-readable version string.
func String() string {
	return "extload " + Version + " (" + GitCommit + ", " + BuildDate + ", " + runtime.GOOS + "/" + runtime.GOARCH + ")"
}
