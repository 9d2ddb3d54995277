// Package sheettable loads worksheets into sanitized, typed in-memory tables.
package sheettable

import (
	"strconv"
)

// CellKind tags the dynamic type of a cell.
type CellKind uint8

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// Cell is a single worksheet value: empty, a number, or text.
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
}

// Number returns a numeric cell.
func Number(v float64) Cell {
	return Cell{Kind: CellNumber, Num: v}
}

// Text returns a text cell. An empty string yields an empty cell.
func Text(s string) Cell {
	if s == "" {
		return Cell{}
	}
	return Cell{Kind: CellText, Text: s}
}

// IsEmpty reports whether the cell holds no value.
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String stringifies the value as-is. Empty cells display as "".
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return c.Text
	default:
		return ""
	}
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
	// Numeric is decided once at load: at least one number and no text.
	Numeric bool
}

// Values returns the non-empty numeric values of the column.
func (c *Column) Values() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.Kind == CellNumber {
			out = append(out, cell.Num)
		}
	}
	return out
}

func detectNumeric(cells []Cell) bool {
	seen := false
	for _, cell := range cells {
		switch cell.Kind {
		case CellText:
			return false
		case CellNumber:
			seen = true
		}
	}
	return seen
}

// Table is an ordered set of uniquely named columns of equal length.
type Table struct {
	Sheet   string
	Columns []Column
	Rows    int
}

// New builds a table from a header row and data rows. Header labels are
// sanitized and short rows are padded with empty cells.
func New(sheet string, header []Cell, rows [][]Cell) *Table {
	width := len(header)
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}

	padded := make([]Cell, width)
	copy(padded, header)
	names := SanitizeColumnNames(padded)

	t := &Table{
		Sheet:   sheet,
		Columns: make([]Column, width),
		Rows:    len(rows),
	}
	for c := 0; c < width; c++ {
		cells := make([]Cell, len(rows))
		for r, row := range rows {
			if c < len(row) {
				cells[r] = row[c]
			}
		}
		t.Columns[c] = Column{
			Name:    names[c],
			Cells:   cells,
			Numeric: detectNumeric(cells),
		}
	}
	return t
}

// ColumnNames returns the sanitized column names in order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// Column looks up a column by name.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// NumericColumns returns the columns detected as numeric.
func (t *Table) NumericColumns() []*Column {
	var out []*Column
	for i := range t.Columns {
		if t.Columns[i].Numeric {
			out = append(out, &t.Columns[i])
		}
	}
	return out
}
