package sheettable

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Open parses an xlsx stream. Any parse failure is reported as
// ErrInvalidWorkbook wrapped in a *LoadError naming the file.
func Open(name string, r io.Reader) (*excelize.File, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &LoadError{File: name, Err: fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)}
	}
	if len(f.GetSheetList()) == 0 {
		f.Close()
		return nil, &LoadError{File: name, Err: ErrInvalidWorkbook}
	}
	return f, nil
}

// OpenBytes is Open over an in-memory upload.
func OpenBytes(name string, data []byte) (*excelize.File, error) {
	return Open(name, bytes.NewReader(data))
}

// SheetNames lists the worksheets in workbook order.
func SheetNames(f *excelize.File) []string {
	return f.GetSheetList()
}

// Load reads a whole worksheet. The first row is consumed as column names.
func Load(f *excelize.File, sheet string) (*Table, error) {
	idx, err := f.GetSheetIndex(sheet)
	if err != nil || idx < 0 {
		return nil, &LoadError{Sheet: sheet, Err: ErrSheetNotFound}
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, &LoadError{Sheet: sheet, Err: err}
	}
	shown, err := f.GetRows(sheet)
	if err != nil {
		return nil, &LoadError{Sheet: sheet, Err: err}
	}

	r := &cellReader{f: f, sheet: sheet, dateStyles: make(map[int]bool)}
	cells := make([][]Cell, len(raw))
	for i, row := range raw {
		cells[i] = make([]Cell, len(row))
		for j, v := range row {
			cells[i][j] = r.read(i, j, v, at(shown, i, j))
		}
	}

	if len(cells) == 0 {
		return New(sheet, nil, nil), nil
	}
	return New(sheet, cells[0], cells[1:]), nil
}

type cellReader struct {
	f          *excelize.File
	sheet      string
	dateStyles map[int]bool
}

// read classifies one cell. Strings, booleans, errors, formula strings and
// date-formatted numbers keep their displayed text; everything else that
// parses as a float is a number.
func (r *cellReader) read(row, col int, raw, shown string) Cell {
	if raw == "" {
		return Cell{}
	}
	if shown == "" {
		shown = raw
	}

	ref, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return Text(shown)
	}

	typ, err := r.f.GetCellType(r.sheet, ref)
	if err != nil {
		return Text(shown)
	}
	switch typ {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString,
		excelize.CellTypeFormula, excelize.CellTypeError,
		excelize.CellTypeBool, excelize.CellTypeDate:
		return Text(shown)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return Text(shown)
	}
	if r.isDate(ref) {
		return Text(shown)
	}
	return Number(v)
}

func (r *cellReader) isDate(ref string) bool {
	styleID, err := r.f.GetCellStyle(r.sheet, ref)
	if err != nil || styleID == 0 {
		return false
	}
	if date, ok := r.dateStyles[styleID]; ok {
		return date
	}

	date := false
	if style, err := r.f.GetStyle(styleID); err == nil && style != nil {
		date = isDateNumFmt(style.NumFmt)
		if style.CustomNumFmt != nil {
			date = isDateFormatCode(*style.CustomNumFmt)
		}
	}
	r.dateStyles[styleID] = date
	return date
}

func isDateNumFmt(id int) bool {
	switch {
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return true
	}
	return false
}

// isDateFormatCode reports whether a custom number format renders dates or
// times. Quoted literals, bracketed sections and escaped characters are
// ignored.
func isDateFormatCode(code string) bool {
	var b strings.Builder
	inQuote, inBracket, escaped := false, false, false
	for _, ch := range code {
		switch {
		case escaped:
			escaped = false
		case inQuote:
			inQuote = ch != '"'
		case inBracket:
			inBracket = ch != ']'
		case ch == '\\':
			escaped = true
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
		default:
			b.WriteRune(ch)
		}
	}

	s := strings.ToLower(b.String())
	if strings.ContainsAny(s, "ydhs") {
		return true
	}
	return strings.Contains(s, "m") && !strings.ContainsAny(s, "0#?")
}

func at(rows [][]string, i, j int) string {
	if i < len(rows) && j < len(rows[i]) {
		return rows[i][j]
	}
	return ""
}
