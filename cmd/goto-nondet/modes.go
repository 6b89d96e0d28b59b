package main

import (
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

func (a *app) modesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "modes",
		Short: "List the registered language modes",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			tw := table.NewWriter()
			tw.SetOutputMirror(a.stdout)
			tw.SetStyle(table.StyleLight)
			tw.AppendHeader(table.Row{"Mode", "Extensions"})
			for _, id := range a.registry.Modes() {
				exts := a.registry.Extensions(id)
				for i, e := range exts {
					exts[i] = "." + e
				}
				tw.AppendRow(table.Row{id, strings.Join(exts, " ")})
			}
			tw.Render()
		},
	}
}
