package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/snowmerak/extload/lib/service"
)

// `service` subcommand: loads the search path and registers services.
var serviceCmd = &cobra.Command{
	Use:   "service NAME...",
	Short: "Register the services of loaded modules in the global directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		l := newLoader(nil)
		defer l.Close()

		if err := loadModules(l, "", "", ""); err != nil {
			logger.Error(err, "some modules could not be loaded")
		}

		for _, name := range args {
			if err := l.LoadService(name, nil); err != nil {
				return err
			}
		}

		dir := service.Global()
		for _, name := range dir.Services() {
			s, _ := dir.Lookup(name)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", s.Name, s.Provider)
		}
		return nil
	},
}
