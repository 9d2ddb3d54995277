// Command sheetctl inspects and exports Excel workbooks from the shell and
// runs the viewer service.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var viewConfig string

	cmd := &cobra.Command{
		Use:          "sheetctl",
		Short:        "Inspect, summarise and export Excel workbooks",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&viewConfig, "config", "", "View config YAML (highlight keywords, grid, pdf)")

	cmd.AddCommand(newSheetsCommand())
	cmd.AddCommand(newInsightsCommand(&viewConfig))
	cmd.AddCommand(newExportCommand(&viewConfig))
	cmd.AddCommand(newServeCommand(&viewConfig))
	return cmd
}
