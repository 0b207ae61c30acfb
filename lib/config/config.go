// Package config reads the loader configuration from flags, environment
// variables and an optional config file.
package config

import (
	"fmt"
	"time"

	"github.com/go-logr/logr"
	"github.com/spf13/viper"

	"github.com/snowmerak/extload/lib/log"
	"github.com/snowmerak/extload/lib/native"
	"github.com/snowmerak/extload/lib/pathset"
	"github.com/snowmerak/extload/lib/plugin"
)

// EnvPrefix prefixes every environment variable, e.g. EXTLOAD_COMPONENT_PATH.
const EnvPrefix = "EXTLOAD"

// Keys.
const (
	KeyComponentPath = "component_path"
	KeyDefaultPath   = "default_path"
	KeyTarget        = "target"
	KeyBackend       = "backend"
	KeyProbe         = "probe"
	KeyProbeTimeout  = "probe_timeout"
	KeyLogLevel      = "log_level"
	KeyLogMode       = "log_mode"
	KeyMetricsAddr   = "metrics_addr"
)

// Backends.
const (
	BackendDL = "dl"
	BackendGo = "go"
)

// Config contains global runtime configuration.
type Config struct {
	// ComponentPath is the user search path, usually from EXTLOAD_COMPONENT_PATH.
	ComponentPath string
	// DefaultPath is the install location searched before ComponentPath.
	DefaultPath  string
	Target       string
	Backend      string
	Probe        bool
	ProbeTimeout time.Duration
	LogLevel     string
	LogMode      string
	MetricsAddr  string
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyTarget, plugin.HostTarget)
	v.SetDefault(KeyBackend, BackendDL)
	v.SetDefault(KeyProbe, false)
	v.SetDefault(KeyProbeTimeout, 10*time.Second)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogMode, "production")
	v.SetDefault(KeyMetricsAddr, ":9464")
}

// Load builds a Config from v and validates it.
func Load(v *viper.Viper) (Config, error) {
	c := Config{
		ComponentPath: v.GetString(KeyComponentPath),
		DefaultPath:   v.GetString(KeyDefaultPath),
		Target:        v.GetString(KeyTarget),
		Backend:       v.GetString(KeyBackend),
		Probe:         v.GetBool(KeyProbe),
		ProbeTimeout:  v.GetDuration(KeyProbeTimeout),
		LogLevel:      v.GetString(KeyLogLevel),
		LogMode:       v.GetString(KeyLogMode),
		MetricsAddr:   v.GetString(KeyMetricsAddr),
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate returns error if configuration is invalid.
func (c Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("target cannot be empty")
	}
	if c.Backend != BackendDL && c.Backend != BackendGo {
		return fmt.Errorf("unknown backend %q: must be %q or %q", c.Backend, BackendDL, BackendGo)
	}
	if c.Probe && c.ProbeTimeout <= 0 {
		return fmt.Errorf("probe timeout must be positive, got %s", c.ProbeTimeout)
	}
	if _, err := log.ToLevel(c.LogLevel); err != nil {
		return err
	}
	if _, err := log.ToMode(c.LogMode); err != nil {
		return err
	}
	return nil
}

// SearchPath returns the default path followed by the component path.
func (c Config) SearchPath() string {
	return pathset.Join(c.DefaultPath, c.ComponentPath)
}

// Opener returns the native backend selected by Backend.
func (c Config) Opener() native.Opener {
	if c.Backend == BackendGo {
		return native.GoPlugin()
	}
	return native.DL()
}

// Logger builds the process logger. Validate has already checked the level and mode.
func (c Config) Logger() logr.Logger {
	level, _ := log.ToLevel(c.LogLevel)
	mode, _ := log.ToMode(c.LogMode)
	return log.NewLogger(log.SetLevel(level), log.SetMode(mode))
}
