package main

import (
	"github.com/spf13/cobra"

	"github.com/snowmerak/extload/lib/probe"
)

// `probe` subcommand: the child side of --probe. It opens one library and
// writes a report to stdout. A library that crashes on open kills only
// this process.
var probeCmd = &cobra.Command{
	Use:    "probe FILE",
	Short:  "Inspect one library (used internally by --probe)",
	Hidden: true,
	Args:   cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		report, err := probe.Inspect(cfg.Opener(), args[0])
		if err != nil {
			return err
		}
		return probe.Write(cmd.OutOrStdout(), report)
	},
}
