package main

import (
	"fmt"
	"os"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/snowmerak/extload/lib/config"
	"github.com/snowmerak/extload/lib/metrics"
	"github.com/snowmerak/extload/lib/plugin"
	"github.com/snowmerak/extload/lib/probe"
)

var (
	v       = viper.New()
	cfgFile string

	cfg    config.Config
	logger logr.Logger
)

var rootCmd = &cobra.Command{
	Use:   "extload",
	Short: "extload: discover and load native plugins and typekits",
	Long: "extload scans the configured search path for plugin and typekit libraries, " +
		"checks that they were built for this target and installs them into the process.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return fmt.Errorf("read config: %w", err)
			}
		}

		c, err := config.Load(v)
		if err != nil {
			return err
		}
		cfg = c
		logger = cfg.Logger()
		return nil
	},
}

func init() {
	config.SetDefaults(v)

	// Persistent flags (available to all subcommands).
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "Path to a YAML config file")
	pf.String("component-path", "", "Search path for modules, separated by ':' or ';'")
	pf.String("default-path", "", "Install location searched before the component path")
	pf.String("target", plugin.HostTarget, "Target modules must declare")
	pf.String("backend", config.BackendDL, "Native backend (dl|go)")
	pf.Bool("probe", false, "Open every library in a child process first")
	pf.Duration("probe-timeout", probe.DefaultTimeout, "Timeout of one probe")
	pf.String("log-level", "info", "Log level (debug|info|warn|error)")
	pf.String("log-mode", "production", "Log mode (production|development)")

	// Bind flags to Viper.
	_ = v.BindPFlag(config.KeyComponentPath, pf.Lookup("component-path"))
	_ = v.BindPFlag(config.KeyDefaultPath, pf.Lookup("default-path"))
	_ = v.BindPFlag(config.KeyTarget, pf.Lookup("target"))
	_ = v.BindPFlag(config.KeyBackend, pf.Lookup("backend"))
	_ = v.BindPFlag(config.KeyProbe, pf.Lookup("probe"))
	_ = v.BindPFlag(config.KeyProbeTimeout, pf.Lookup("probe-timeout"))
	_ = v.BindPFlag(config.KeyLogLevel, pf.Lookup("log-level"))
	_ = v.BindPFlag(config.KeyLogMode, pf.Lookup("log-mode"))

	// Env support: EXTLOAD_COMPONENT_PATH, EXTLOAD_BACKEND, etc.
	v.SetEnvPrefix(config.EnvPrefix)
	v.AutomaticEnv()

	rootCmd.AddCommand(loadCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(serviceCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(probeCmd)
	rootCmd.AddCommand(versionCmd)
}

// newLoader builds a Loader from the parsed configuration. reg may be nil.
func newLoader(reg prometheus.Registerer) *plugin.Loader {
	opts := &plugin.LoaderOptions{
		Logger:     logger,
		Opener:     cfg.Opener(),
		Target:     cfg.Target,
		SearchPath: cfg.SearchPath(),
	}
	if cfg.Probe {
		opts.Prober = &probe.Prober{
			Args:    []string{"probe", "--backend", cfg.Backend, "--log-level", "error"},
			Timeout: cfg.ProbeTimeout,
		}
	}
	if reg != nil {
		opts.Metrics = metrics.New(reg)
	}
	return plugin.NewLoader(opts)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
