package main

import (
	"github.com/spf13/cobra"
)

// `list` subcommand: scans the search path and lists the loadable modules.
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the modules found on the search path",
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("output")
		kind, _ := cmd.Flags().GetString("kind")

		l := newLoader(nil)
		defer l.Close()

		if err := loadModules(l, "", "", ""); err != nil {
			logger.Error(err, "some modules could not be loaded")
		}
		return writeModules(cmd.OutOrStdout(), format, filterKind(l.Modules(), kind))
	},
}

func init() {
	listCmd.Flags().StringP("output", "o", formatTable, "Output format (table|json|yaml)")
	listCmd.Flags().String("kind", "", "Only list modules of this kind (plugin|typekit|service)")
}
