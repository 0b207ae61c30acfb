package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/snowmerak/extload/lib/plugin"
)

const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

func writeModules(w io.Writer, format string, mods []plugin.ModuleInfo) error {
	switch format {
	case formatTable, "":
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "NAME\tKIND\tSERVICE\tTARGET\tFILE\tLOADED")
		for _, m := range mods {
			fmt.Fprintf(tw, "%s\t%s\t%t\t%s\t%s\t%s\n", m.Name, m.Kind, m.Service, m.Target, m.Path, m.LoadedAt.Format(time.RFC3339))
		}
		return tw.Flush()

	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(mods)

	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(mods); err != nil {
			return err
		}
		return enc.Close()

	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func filterKind(mods []plugin.ModuleInfo, kind string) []plugin.ModuleInfo {
	if kind == "" {
		return mods
	}
	out := make([]plugin.ModuleInfo, 0, len(mods))
	for _, m := range mods {
		if m.Kind == kind || (kind == "service" && m.Service) {
			out = append(out, m)
		}
	}
	return out
}
