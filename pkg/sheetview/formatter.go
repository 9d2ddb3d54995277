// Package sheetview turns loaded tables into display-ready views: per-column
// formatting, highlight decisions and the grid widget configuration.
package sheetview

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/locvowork/excel_intelligence/pkg/sheettable"
)

// ErrInvalidSetting is returned for unknown alignment, decimals or colour values.
var ErrInvalidSetting = errors.New("invalid view setting")

// sixDecimalTolerance is how far a value may drift from its 2-decimal
// rounding before 6 decimals are needed.
const sixDecimalTolerance = 1e-6

type Align string

const (
	AlignAuto   Align = "auto"
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
)

// ParseAlign accepts auto, left or center in any case. Empty means auto.
func ParseAlign(s string) (Align, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return AlignAuto, nil
	case "left":
		return AlignLeft, nil
	case "center":
		return AlignCenter, nil
	}
	return "", fmt.Errorf("%w: alignment %q", ErrInvalidSetting, s)
}

func (a *Align) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: alignment %s", ErrInvalidSetting, b)
	}
	v, err := ParseAlign(s)
	if err != nil {
		return err
	}
	*a = v
	return nil
}

// Decimals is a fixed precision, or DecimalsAuto for the heuristic.
type Decimals int

const (
	DecimalsAuto Decimals = 0
	Decimals2    Decimals = 2
	Decimals6    Decimals = 6
)

// ParseDecimals accepts auto, 2 or 6. Empty means auto.
func ParseDecimals(s string) (Decimals, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return DecimalsAuto, nil
	case "2":
		return Decimals2, nil
	case "6":
		return Decimals6, nil
	}
	return 0, fmt.Errorf("%w: decimals %q", ErrInvalidSetting, s)
}

// UnmarshalJSON accepts both "auto"/"2"/"6" and the numbers 2 and 6.
func (d *Decimals) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*d = DecimalsAuto
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err == nil {
		v, err := ParseDecimals(strconv.Itoa(n))
		if err != nil {
			return err
		}
		*d = v
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("%w: decimals %s", ErrInvalidSetting, b)
	}
	v, err := ParseDecimals(s)
	if err != nil {
		return err
	}
	*d = v
	return nil
}

func (d Decimals) MarshalJSON() ([]byte, error) {
	if d == DecimalsAuto {
		return []byte(`"auto"`), nil
	}
	return []byte(strconv.Itoa(int(d))), nil
}

// ColumnSetting is the user's per-column override.
type ColumnSetting struct {
	Align    Align    `json:"align"`
	Decimals Decimals `json:"decimals"`
}

// FormattedColumn is a column rendered to display strings.
type FormattedColumn struct {
	Name     string
	Numeric  bool
	Align    Align
	Decimals int
	Values   []string
}

// FormattedTable is the display copy of a table.
type FormattedTable struct {
	Sheet   string
	Columns []FormattedColumn
	Rows    int
}

func (ft *FormattedTable) Header() []string {
	out := make([]string, len(ft.Columns))
	for i := range ft.Columns {
		out[i] = ft.Columns[i].Name
	}
	return out
}

// Row returns the i-th row's display values in column order.
func (ft *FormattedTable) Row(i int) []string {
	out := make([]string, len(ft.Columns))
	for c := range ft.Columns {
		out[c] = ft.Columns[c].Values[i]
	}
	return out
}

// Round2 rounds to 2 decimal places. Accumulated float noise is dropped
// first by keeping 15 significant digits, then the remaining binary value is
// rounded exactly: 10.005+20 gives 30.00 because 30.005 is stored as
// 30.00499...
func Round2(x float64) float64 {
	if math.IsInf(x, 0) || math.IsNaN(x) {
		return x
	}
	x, _ = strconv.ParseFloat(strconv.FormatFloat(x, 'g', 15, 64), 64)
	v, _ := strconv.ParseFloat(strconv.FormatFloat(x, 'f', 2, 64), 64)
	return v
}

// NeedsSixDecimals reports whether any value of a numeric column loses more
// than the tolerance when rounded to 2 decimals.
func NeedsSixDecimals(col *sheettable.Column) bool {
	if !col.Numeric {
		return false
	}
	for _, v := range col.Values() {
		if math.Abs(v-Round2(v)) > sixDecimalTolerance {
			return true
		}
	}
	return false
}

// ResolveDecimals picks the display precision of a numeric column.
func ResolveDecimals(col *sheettable.Column, s ColumnSetting) int {
	if !col.Numeric {
		return 0
	}
	if s.Decimals != DecimalsAuto {
		return int(s.Decimals)
	}
	if NeedsSixDecimals(col) {
		return 6
	}
	return 2
}

// ResolveAlign maps auto to center for numeric columns and left otherwise.
func ResolveAlign(col *sheettable.Column, s ColumnSetting) Align {
	if s.Align == AlignLeft || s.Align == AlignCenter {
		return s.Align
	}
	if col.Numeric {
		return AlignCenter
	}
	return AlignLeft
}

// Format renders every cell of t. Columns without an entry in settings use
// auto alignment and auto decimals.
func Format(t *sheettable.Table, settings map[string]ColumnSetting) *FormattedTable {
	ft := &FormattedTable{
		Sheet:   t.Sheet,
		Columns: make([]FormattedColumn, len(t.Columns)),
		Rows:    t.Rows,
	}
	for i := range t.Columns {
		col := &t.Columns[i]
		s := settings[col.Name]
		fc := FormattedColumn{
			Name:     col.Name,
			Numeric:  col.Numeric,
			Align:    ResolveAlign(col, s),
			Decimals: ResolveDecimals(col, s),
			Values:   make([]string, len(col.Cells)),
		}
		for r, cell := range col.Cells {
			if col.Numeric && cell.Kind == sheettable.CellNumber {
				fc.Values[r] = strconv.FormatFloat(cell.Num, 'f', fc.Decimals, 64)
				continue
			}
			fc.Values[r] = cell.String()
		}
		ft.Columns[i] = fc
	}
	return ft
}
