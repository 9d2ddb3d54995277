package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSheetsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets FILE",
		Short: "List the sheets of a workbook",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, files, err := openService(cmd.Context(), "", args)
			if err != nil {
				return err
			}
			for _, sheet := range files[0].Sheets {
				fmt.Fprintln(cmd.OutOrStdout(), sheet)
			}
			return nil
		},
	}
}
