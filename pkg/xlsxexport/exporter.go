// Package xlsxexport writes a formatted sheet view back to an xlsx workbook,
// keeping the view's alignment, precision and highlighting.
package xlsxexport

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/locvowork/excel_intelligence/pkg/sheettable"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

const (
	DefaultHeaderFill  = "D9E1F2"
	DefaultBorderColor = "3A3A3A"
	DefaultColumnWidth = 18
)

type Options struct {
	HeaderFill  string
	BorderColor string
	ColumnWidth float64
}

func DefaultOptions() Options {
	return Options{
		HeaderFill:  DefaultHeaderFill,
		BorderColor: DefaultBorderColor,
		ColumnWidth: DefaultColumnWidth,
	}
}

// FileName is the download name of a sheet's export.
func FileName(sheet string) string {
	return sheet + "_Executive_View.xlsx"
}

type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// View is one rendered sheet: the typed source table, its display copy and
// the highlight side-map.
type View struct {
	Table     *sheettable.Table
	Formatted *sheetview.FormattedTable
	Highlight sheetview.Highlight
}

type styleKey struct {
	header    bool
	align     sheetview.Align
	decimals  int
	highlight bool
}

// Build renders v into a new workbook with a single sheet.
func (e *Exporter) Build(v View) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := v.Formatted.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			f.Close()
			return nil, fmt.Errorf("name sheet %q: %w", sheet, err)
		}
	}

	b := &builder{f: f, sheet: sheet, opts: e.opts, fill: hexColor(v.Highlight.Color), styles: make(map[styleKey]int)}
	if err := b.render(v); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

// ToWriter builds the workbook and streams it to w.
func (e *Exporter) ToWriter(w io.Writer, v View) error {
	f, err := e.Build(v)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// ToBytes builds the workbook in memory.
func (e *Exporter) ToBytes(v View) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.ToWriter(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type builder struct {
	f      *excelize.File
	sheet  string
	opts   Options
	fill   string
	styles map[styleKey]int
}

func (b *builder) render(v View) error {
	ft := v.Formatted
	for c, col := range ft.Columns {
		ref, err := excelize.CoordinatesToCellName(c+1, 1)
		if err != nil {
			return err
		}
		if err := b.f.SetCellStr(b.sheet, ref, col.Name); err != nil {
			return err
		}
		if err := b.style(ref, styleKey{header: true, align: col.Align, highlight: v.Highlight.Columns[col.Name]}); err != nil {
			return err
		}

		colName, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return err
		}
		if err := b.f.SetColWidth(b.sheet, colName, colName, b.opts.ColumnWidth); err != nil {
			return err
		}

		var cells []sheettable.Cell
		if c < len(v.Table.Columns) {
			cells = v.Table.Columns[c].Cells
		}
		for r := 0; r < ft.Rows; r++ {
			ref, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if col.Numeric && r < len(cells) && cells[r].Kind == sheettable.CellNumber {
				err = b.f.SetCellFloat(b.sheet, ref, cells[r].Num, -1, 64)
			} else if col.Values[r] != "" {
				err = b.f.SetCellStr(b.sheet, ref, col.Values[r])
			}
			if err != nil {
				return err
			}
			key := styleKey{
				align:     col.Align,
				decimals:  col.Decimals,
				highlight: v.Highlight.Columns[col.Name] || v.Highlight.Rows[r],
			}
			if err := b.style(ref, key); err != nil {
				return err
			}
		}
	}

	if len(ft.Columns) == 0 {
		return nil
	}
	last, err := excelize.CoordinatesToCellName(len(ft.Columns), ft.Rows+1)
	if err != nil {
		return err
	}
	if err := b.f.AutoFilter(b.sheet, "A1:"+last, nil); err != nil {
		return err
	}
	return b.f.SetPanes(b.sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func (b *builder) style(ref string, key styleKey) error {
	id, ok := b.styles[key]
	if !ok {
		var err error
		id, err = b.f.NewStyle(b.newStyle(key))
		if err != nil {
			return err
		}
		b.styles[key] = id
	}
	return b.f.SetCellStyle(b.sheet, ref, ref, id)
}

func (b *builder) newStyle(key styleKey) *excelize.Style {
	border := hexColor(b.opts.BorderColor)
	style := &excelize.Style{
		Alignment: &excelize.Alignment{
			Horizontal: string(key.align),
			Vertical:   "top",
			WrapText:   true,
		},
		Border: []excelize.Border{
			{Type: "right", Color: border, Style: 1},
			{Type: "bottom", Color: border, Style: 1},
		},
	}
	if key.decimals > 0 {
		code := "0." + strings.Repeat("0", key.decimals)
		style.CustomNumFmt = &code
	}
	switch {
	case key.highlight && b.fill != "":
		style.Font = &excelize.Font{Bold: true}
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{b.fill}, Pattern: 1}
	case key.header:
		style.Font = &excelize.Font{Bold: true}
		style.Fill = excelize.Fill{Type: "pattern", Color: []string{hexColor(b.opts.HeaderFill)}, Pattern: 1}
	}
	return style
}

// hexColor normalises #rgb / #rrggbb to the RRGGBB form excelize expects.
func hexColor(c string) string {
	c = strings.ToUpper(strings.TrimPrefix(c, "#"))
	if len(c) == 3 {
		return string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return c
}
