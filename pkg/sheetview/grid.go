package sheetview

import (
	"fmt"
)

// GridOptions are the presentation knobs of the grid widget.
type GridOptions struct {
	RowHeight    int    `yaml:"row_height"`
	Height       int    `yaml:"-"`
	Theme        string `yaml:"theme"`
	LineHeight   string `yaml:"line_height"`
	BorderRight  string `yaml:"border_right"`
	BorderBottom string `yaml:"border_bottom"`
}

// DefaultGridOptions mirrors the interactive spreadsheet view.
func DefaultGridOptions() GridOptions {
	return GridOptions{
		RowHeight:    38,
		Height:       650,
		Theme:        "alpine",
		LineHeight:   "1.4",
		BorderRight:  "1px solid #3a3a3a",
		BorderBottom: "1px solid #2a2a2a",
	}
}

// CellStyle is a CSS property map applied by the grid.
type CellStyle map[string]string

type ColumnDef struct {
	Field      string    `json:"field"`
	HeaderName string    `json:"headerName"`
	WrapText   bool      `json:"wrapText"`
	AutoHeight bool      `json:"autoHeight"`
	CellStyle  CellStyle `json:"cellStyle"`
}

type DefaultColDef struct {
	Resizable  bool `json:"resizable"`
	Sortable   bool `json:"sortable"`
	Filter     bool `json:"filter"`
	WrapText   bool `json:"wrapText"`
	AutoHeight bool `json:"autoHeight"`
	Editable   bool `json:"editable"`
}

// GridConfig is the grid widget configuration, serialised as-is to the
// browser. The grid is display-only: edits are never read back.
type GridConfig struct {
	ColumnDefs                   []ColumnDef         `json:"columnDefs"`
	DefaultColDef                DefaultColDef       `json:"defaultColDef"`
	DomLayout                    string              `json:"domLayout"`
	SuppressColumnVirtualisation bool                `json:"suppressColumnVirtualisation"`
	AlwaysShowHorizontalScroll   bool                `json:"alwaysShowHorizontalScroll"`
	RowHeight                    int                 `json:"rowHeight"`
	ReadOnlyEdit                 bool                `json:"readOnlyEdit"`
	FitColumnsOnGridLoad         bool                `json:"fitColumnsOnGridLoad"`
	RowData                      []map[string]string `json:"rowData"`
	HighlightedRows              []int               `json:"highlightedRows"`
	HighlightRowStyle            CellStyle           `json:"highlightRowStyle,omitempty"`
	Height                       int                 `json:"height"`
	Theme                        string              `json:"theme"`
}

// FieldKey is the row-data key of the i-th column. Positional keys keep
// header text with dots or spaces out of the grid's field paths.
func FieldKey(i int) string {
	return fmt.Sprintf("c%d", i)
}

// BuildGrid maps a formatted table and its highlight side-map onto the grid
// configuration.
func BuildGrid(ft *FormattedTable, hl Highlight, opts GridOptions) GridConfig {
	cfg := GridConfig{
		ColumnDefs: make([]ColumnDef, len(ft.Columns)),
		DefaultColDef: DefaultColDef{
			Resizable:  true,
			Sortable:   true,
			Filter:     true,
			WrapText:   true,
			AutoHeight: true,
		},
		DomLayout:                    "normal",
		SuppressColumnVirtualisation: true,
		AlwaysShowHorizontalScroll:   true,
		RowHeight:                    opts.RowHeight,
		ReadOnlyEdit:                 true,
		FitColumnsOnGridLoad:         true,
		RowData:                      make([]map[string]string, ft.Rows),
		HighlightedRows:              hl.RowList(),
		Height:                       opts.Height,
		Theme:                        opts.Theme,
	}

	for i, col := range ft.Columns {
		style := CellStyle{
			"textAlign":    string(col.Align),
			"whiteSpace":   "normal",
			"lineHeight":   opts.LineHeight,
			"borderRight":  opts.BorderRight,
			"borderBottom": opts.BorderBottom,
		}
		if hl.Columns[col.Name] {
			style["backgroundColor"] = hl.Color
			style["fontWeight"] = "bold"
		}
		cfg.ColumnDefs[i] = ColumnDef{
			Field:      FieldKey(i),
			HeaderName: col.Name,
			WrapText:   true,
			AutoHeight: true,
			CellStyle:  style,
		}
	}

	for r := 0; r < ft.Rows; r++ {
		row := make(map[string]string, len(ft.Columns))
		for i := range ft.Columns {
			row[FieldKey(i)] = ft.Columns[i].Values[r]
		}
		cfg.RowData[r] = row
	}

	if len(cfg.HighlightedRows) > 0 {
		cfg.HighlightRowStyle = CellStyle{
			"backgroundColor": hl.Color,
			"fontWeight":      "bold",
		}
	}
	return cfg
}
