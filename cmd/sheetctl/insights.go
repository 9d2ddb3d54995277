package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/locvowork/excel_intelligence/pkg/sheetinsight"
)

func newInsightsCommand(viewConfig *string) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "insights FILE...",
		Short: "Summarise every sheet of one or more workbooks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := openService(cmd.Context(), *viewConfig, args)
			if err != nil {
				return err
			}
			c, err := svc.Consolidated(cmd.Context(), cliSession)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(c)
			}
			return printInsights(cmd, c)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func printInsights(cmd *cobra.Command, c *sheetinsight.Consolidated) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tSHEET\tROWS\tNUMERIC COLUMNS\tSUM\tMAX")
	for _, s := range c.Sheets {
		sum, max := "-", "-"
		if s.HasNumeric {
			sum = strconv.FormatFloat(s.Sum, 'f', 2, 64)
			max = strconv.FormatFloat(s.Max, 'f', 2, 64)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\t%s\n", s.File, s.Sheet, s.Rows, s.NumericColumns, sum, max)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\nFiles: %d  Sheets: %d  Rows: %d  Numeric columns: %d\n",
		c.Files, c.SheetCount, c.TotalRows, c.TotalNumericColumns)
	if c.GlobalMax == nil {
		fmt.Fprintln(out, c.Message)
		return nil
	}
	fmt.Fprintf(out, "Global sum: %.2f  Global max: %.2f\n", c.GlobalSum, *c.GlobalMax)
	return nil
}
