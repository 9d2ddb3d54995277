package sheettable

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestSanitizeColumnNames(t *testing.T) {
	t.Run("Missing and NaN labels", func(t *testing.T) {
		names := SanitizeColumnNames([]Cell{
			Text("Name"), {}, Number(math.NaN()), Number(2024), Number(1.5),
		})
		assert.Equal(t, []string{"Name", "Column_1", "Column_2", "2024", "1.5"}, names)
	})

	t.Run("Duplicates become placeholders", func(t *testing.T) {
		names := SanitizeColumnNames([]Cell{Text("A"), Text("A"), Text("B")})
		assert.Equal(t, []string{"A", "Column_1", "B"}, names)
	})

	t.Run("Placeholder collision stays unique", func(t *testing.T) {
		names := SanitizeColumnNames([]Cell{Text("Column_1"), {}, Text("Column_1_1"), {}})
		assert.Equal(t, []string{"Column_1", "Column_1_1", "Column_2", "Column_3"}, names)
	})

	t.Run("Unique across a wide sheet", func(t *testing.T) {
		header := make([]Cell, 500)
		for i := range header {
			switch i % 3 {
			case 0:
				header[i] = Text("dup")
			case 1:
				header[i] = Cell{}
			default:
				header[i] = Text(PlaceholderName(i + 1))
			}
		}
		names := SanitizeColumnNames(header)
		seen := make(map[string]bool)
		for _, n := range names {
			assert.NotEmpty(t, n)
			assert.False(t, seen[n], "duplicate name %q", n)
			seen[n] = true
		}
	})
}

func TestNewTable(t *testing.T) {
	tbl := New("S", []Cell{Text("Name"), Text("Cost")}, [][]Cell{
		{Text("A"), Number(10.005), Number(7)},
		{Text("B")},
	})

	require.Len(t, tbl.Columns, 3)
	assert.Equal(t, []string{"Name", "Cost", "Column_2"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.Rows)

	cost, ok := tbl.Column("Cost")
	require.True(t, ok)
	assert.True(t, cost.Numeric)
	assert.Equal(t, []float64{10.005}, cost.Values())
	assert.True(t, cost.Cells[1].IsEmpty())

	name, _ := tbl.Column("Name")
	assert.False(t, name.Numeric)
	assert.Len(t, tbl.NumericColumns(), 2)
}

func TestNumericDetection(t *testing.T) {
	tbl := New("S", []Cell{Text("mixed"), Text("blank"), Text("nums")}, [][]Cell{
		{Number(1), {}, Number(1)},
		{Text("x"), {}, {}},
	})
	assert.False(t, tbl.Columns[0].Numeric)
	assert.False(t, tbl.Columns[1].Numeric)
	assert.True(t, tbl.Columns[2].Numeric)
}

func TestLoad(t *testing.T) {
	data := buildWorkbook(t, "Budget", [][]interface{}{
		{"Name", "Cost", nil},
		{"A", 10.005, "note"},
		{"B", 20, nil},
	})

	f, err := OpenBytes("budget.xlsx", data)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Budget"}, SheetNames(f))

	tbl, err := Load(f, "Budget")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Cost", "Column_2"}, tbl.ColumnNames())
	assert.Equal(t, 2, tbl.Rows)

	cost, _ := tbl.Column("Cost")
	assert.True(t, cost.Numeric)
	assert.Equal(t, []float64{10.005, 20}, cost.Values())

	name, _ := tbl.Column("Name")
	assert.False(t, name.Numeric)
	assert.Equal(t, "A", name.Cells[0].String())

	note := tbl.Columns[2]
	assert.Equal(t, "note", note.Cells[0].String())
	assert.True(t, note.Cells[1].IsEmpty())
}

func TestLoad_DateCellsAreText(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"When", "Amount"}))
	require.NoError(t, f.SetCellValue("Sheet1", "A2", 45000))
	require.NoError(t, f.SetCellValue("Sheet1", "B2", 12.5))
	style, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "A2", "A2", style))

	tbl, err := Load(f, "Sheet1")
	require.NoError(t, err)
	when, _ := tbl.Column("When")
	assert.False(t, when.Numeric)
	amount, _ := tbl.Column("Amount")
	assert.True(t, amount.Numeric)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Open("notes.txt", bytes.NewReader([]byte("plain text, not a workbook")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidWorkbook))
	var le *LoadError
	require.True(t, errors.As(err, &le))
	assert.Equal(t, "notes.txt", le.File)

	f, err := OpenBytes("x.xlsx", buildWorkbook(t, "Sheet1", [][]interface{}{{"A"}}))
	require.NoError(t, err)
	defer f.Close()
	_, err = Load(f, "Missing")
	assert.True(t, errors.Is(err, ErrSheetNotFound))
}

func TestIsDateFormatCode(t *testing.T) {
	assert.True(t, isDateFormatCode("yyyy-mm-dd"))
	assert.True(t, isDateFormatCode("[h]:mm"))
	assert.True(t, isDateFormatCode("mmm"))
	assert.False(t, isDateFormatCode("0.00"))
	assert.False(t, isDateFormatCode(`#,##0 "days"`))
	assert.False(t, isDateFormatCode("[Red]0.00"))
	assert.False(t, isDateFormatCode("General"))
}
