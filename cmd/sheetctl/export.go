package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/locvowork/excel_intelligence/internal/domain"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

type exportOptions struct {
	sheet     string
	format    string
	output    string
	align     map[string]string
	decimals  map[string]string
	preset    bool
	highlight []string
	color     string
	row       int
}

func newExportCommand(viewConfig *string) *cobra.Command {
	opts := &exportOptions{}

	cmd := &cobra.Command{
		Use:   "export FILE",
		Short: "Export the executive view of a sheet to PDF or xlsx",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := opts.viewRequest(filepath.Base(args[0]))
			if err != nil {
				return err
			}
			svc, _, err := openService(cmd.Context(), *viewConfig, args)
			if err != nil {
				return err
			}

			var name string
			switch opts.format {
			case "pdf":
				var path string
				var cleanup func()
				name, path, cleanup, err = svc.ExportPDF(cmd.Context(), cliSession, req)
				if err != nil {
					return err
				}
				defer cleanup()
				err = copyFile(opts.target(name), path)
			case "xlsx":
				var data []byte
				name, data, err = svc.ExportXLSX(cmd.Context(), cliSession, req)
				if err != nil {
					return err
				}
				err = os.WriteFile(opts.target(name), data, 0644)
			default:
				return fmt.Errorf("invalid format: %s (must be pdf or xlsx)", opts.format)
			}
			if err != nil {
				return fmt.Errorf("failed to write output: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), opts.target(name))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.sheet, "sheet", "s", "", "Sheet to export (default: first sheet)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "pdf", "Output format: pdf or xlsx")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output path (default: {sheet}_Executive_View.{format})")
	cmd.Flags().StringToStringVar(&opts.align, "align", nil, "Column alignment, e.g. Cost=left (auto, left, center)")
	cmd.Flags().StringToStringVar(&opts.decimals, "decimals", nil, "Column decimals, e.g. Cost=6 (auto, 2, 6)")
	cmd.Flags().BoolVar(&opts.preset, "preset", false, "Highlight cost/budget/total/sum columns")
	cmd.Flags().StringArrayVar(&opts.highlight, "highlight", nil, "Column to highlight (repeatable)")
	cmd.Flags().StringVar(&opts.color, "color", "", "Highlight color, #rgb or #rrggbb")
	cmd.Flags().IntVar(&opts.row, "row", 0, "1-based row to highlight")
	return cmd
}

func (o *exportOptions) viewRequest(file string) (domain.ViewRequest, error) {
	req := domain.ViewRequest{
		File:    file,
		Sheet:   o.sheet,
		Mode:    domain.ModeExecutive,
		Columns: make(map[string]sheetview.ColumnSetting),
		Highlight: sheetview.HighlightSettings{
			Preset:  o.preset,
			Columns: o.highlight,
			Color:   o.color,
			Row:     o.row,
		},
	}
	for col, v := range o.align {
		a, err := sheetview.ParseAlign(v)
		if err != nil {
			return domain.ViewRequest{}, fmt.Errorf("column %q: %w", col, err)
		}
		s := req.Columns[col]
		s.Align = a
		req.Columns[col] = s
	}
	for col, v := range o.decimals {
		d, err := sheetview.ParseDecimals(v)
		if err != nil {
			return domain.ViewRequest{}, fmt.Errorf("column %q: %w", col, err)
		}
		s := req.Columns[col]
		s.Decimals = d
		req.Columns[col] = s
	}
	return req, nil
}

func (o *exportOptions) target(name string) string {
	if o.output != "" {
		return o.output
	}
	return name
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
