package xlsxexport

import (
	"bytes"
	"strings"
	"testing"

	"github.com/locvowork/excel_intelligence/pkg/sheettable"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func sampleView(t *testing.T) View {
	t.Helper()
	tbl := sheettable.New("Budget",
		[]sheettable.Cell{sheettable.Text("Name"), sheettable.Text("Cost"), sheettable.Text("Region")},
		[][]sheettable.Cell{
			{sheettable.Text("A"), sheettable.Number(10.005), sheettable.Text("North")},
			{sheettable.Text("B"), sheettable.Number(20), {}},
		})
	hl, err := sheetview.BuildHighlight(tbl.ColumnNames(), tbl.Rows,
		sheetview.HighlightSettings{Preset: true, Row: 2, Color: "#fff3b0"},
		sheetview.DefaultKeywords, sheetview.DefaultHighlightColor)
	require.NoError(t, err)
	return View{Table: tbl, Formatted: sheetview.Format(tbl, nil), Highlight: hl}
}

func cellStyle(t *testing.T, f *excelize.File, sheet, ref string) *excelize.Style {
	t.Helper()
	id, err := f.GetCellStyle(sheet, ref)
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	return style
}

func TestBuild(t *testing.T) {
	f, err := New(DefaultOptions()).Build(sampleView(t))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Budget"}, f.GetSheetList())

	header, err := f.GetRows("Budget")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Cost", "Region"}, header[0])

	raw, err := f.GetCellValue("Budget", "B2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "10.005", raw)
	typ, err := f.GetCellType("Budget", "B2")
	require.NoError(t, err)
	assert.NotEqual(t, excelize.CellTypeSharedString, typ)

	empty, err := f.GetCellValue("Budget", "C3")
	require.NoError(t, err)
	assert.Equal(t, "", empty)

	// Header
	style := cellStyle(t, f, "Budget", "A1")
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	// Numeric column: centered, 6 decimals, highlighted by the preset
	style = cellStyle(t, f, "Budget", "B2")
	require.NotNil(t, style.Alignment)
	assert.Equal(t, "center", style.Alignment.Horizontal)
	require.NotNil(t, style.CustomNumFmt)
	assert.Equal(t, "0.000000", *style.CustomNumFmt)
	require.NotEmpty(t, style.Fill.Color)
	assert.Contains(t, strings.ToUpper(style.Fill.Color[0]), "FFF3B0")

	// Plain text cell outside the highlighted row
	style = cellStyle(t, f, "Budget", "A2")
	assert.Equal(t, "left", style.Alignment.Horizontal)
	assert.Empty(t, style.Fill.Color)

	// Highlighted row
	style = cellStyle(t, f, "Budget", "A3")
	require.NotEmpty(t, style.Fill.Color)
	assert.True(t, style.Font.Bold)
}

func TestToBytes_RoundTrip(t *testing.T) {
	data, err := New(DefaultOptions()).ToBytes(sampleView(t))
	require.NoError(t, err)

	f, err := sheettable.Open("export.xlsx", bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	tbl, err := sheettable.Load(f, "Budget")
	require.NoError(t, err)
	assert.Equal(t, []string{"Name", "Cost", "Region"}, tbl.ColumnNames())
	cost, ok := tbl.Column("Cost")
	require.True(t, ok)
	assert.True(t, cost.Numeric)
	assert.Equal(t, []float64{10.005, 20}, cost.Values())
}

func TestHexColor(t *testing.T) {
	assert.Equal(t, "FFEE00", hexColor("#fe0"))
	assert.Equal(t, "ABCDEF", hexColor("#abcdef"))
	assert.Equal(t, "D9E1F2", hexColor("D9E1F2"))
}

func TestFileName(t *testing.T) {
	assert.Equal(t, "Budget_Executive_View.xlsx", FileName("Budget"))
}
