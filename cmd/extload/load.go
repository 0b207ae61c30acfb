package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"

	"github.com/snowmerak/extload/lib/pathset"
	"github.com/snowmerak/extload/lib/plugin"
)

// `load` subcommand: loads modules and prints what is loaded.
var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load modules from the search path",
	Long: "Without flags, load scans every search path directory for plugins and typekits. " +
		"--plugin and --typekit load a single module by name or by library file.",
	RunE: func(cmd *cobra.Command, args []string) error {
		pluginName, _ := cmd.Flags().GetString("plugin")
		typekitName, _ := cmd.Flags().GetString("typekit")
		extra, _ := cmd.Flags().GetString("path")
		format, _ := cmd.Flags().GetString("output")

		l := newLoader(nil)
		defer l.Close()

		err := loadModules(l, pluginName, typekitName, extra)
		if werr := writeModules(cmd.OutOrStdout(), format, l.Modules()); werr != nil {
			return werr
		}
		return err
	},
}

func init() {
	loadCmd.Flags().String("plugin", "", "Load a single plugin by name or file")
	loadCmd.Flags().String("typekit", "", "Load a single typekit by name or file")
	loadCmd.Flags().String("path", "", "Additional search path")
	loadCmd.Flags().StringP("output", "o", formatTable, "Output format (table|json|yaml)")
}

// loadModules loads the named modules, or scans the search path followed by
// extra when no name is given. A scan fails only when neither plugins nor
// typekits were found or when a found module failed.
func loadModules(l *plugin.Loader, pluginName, typekitName, extra string) error {
	if pluginName != "" || typekitName != "" {
		var errs error
		if pluginName != "" {
			errs = multierr.Append(errs, l.LoadPlugin(pluginName, extra))
		}
		if typekitName != "" {
			errs = multierr.Append(errs, l.LoadTypekit(typekitName, extra))
		}
		return errs
	}

	searchPath := pathset.Join(l.SearchPath(), extra)
	perr := l.LoadPlugins(searchPath)
	terr := l.LoadTypekits(searchPath)
	if errors.Is(perr, plugin.ErrNotFound) && errors.Is(terr, plugin.ErrNotFound) {
		return fmt.Errorf("no plugins or typekits found in %q", searchPath)
	}

	var errs error
	for _, err := range []error{perr, terr} {
		if err != nil && !errors.Is(err, plugin.ErrNotFound) {
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}
