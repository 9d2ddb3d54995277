// Package pdfexport writes a formatted sheet as a single plain-text PDF page.
package pdfexport

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

// a4Height is the A4 page height in points.
const a4Height = 841.89

// Options control the page layout. Baseline is measured from the bottom of
// the page, as in PostScript.
type Options struct {
	FontSize       float64 `yaml:"font_size"`
	MarginLeft     float64 `yaml:"margin_left"`
	Baseline       float64 `yaml:"baseline"`
	Leading        float64 `yaml:"leading"`
	SeparatorWidth int     `yaml:"separator_width"`
	Compress       bool    `yaml:"compress"`
}

func DefaultOptions() Options {
	return Options{
		FontSize:       9,
		MarginLeft:     40,
		Baseline:       800,
		Leading:        1.2,
		SeparatorWidth: 120,
		Compress:       true,
	}
}

// Document is what gets printed: a title block followed by the table.
type Document struct {
	File   string
	Sheet  string
	Header []string
	Rows   [][]string
}

// FromTable builds a document from a formatted sheet of file.
func FromTable(file string, ft *sheetview.FormattedTable) Document {
	doc := Document{
		File:   file,
		Sheet:  ft.Sheet,
		Header: ft.Header(),
		Rows:   make([][]string, ft.Rows),
	}
	for r := 0; r < ft.Rows; r++ {
		doc.Rows[r] = ft.Row(r)
	}
	return doc
}

// Lines returns the text lines in print order. Values are joined
// positionally; columns are not padded and long rows are not wrapped.
func (d Document) Lines(separatorWidth int) []string {
	lines := make([]string, 0, len(d.Rows)+5)
	lines = append(lines,
		"Executive View – "+d.File,
		"Sheet: "+d.Sheet,
		"",
		strings.Join(d.Header, " | "),
		strings.Repeat("-", separatorWidth),
	)
	for _, row := range d.Rows {
		lines = append(lines, strings.Join(row, " | "))
	}
	return lines
}

// FileName is the download name of a sheet's export.
func FileName(sheet string) string {
	return sheet + "_Executive_View.pdf"
}

type Exporter struct {
	opts Options
}

func New(opts Options) *Exporter {
	return &Exporter{opts: opts}
}

// Render writes doc to w as one A4 page. Lines running past the bottom of the
// page are clipped; there is no pagination.
func (e *Exporter) Render(w io.Writer, doc Document) error {
	pdf := e.build(doc)
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render pdf: %w", err)
	}
	return nil
}

// ExportTemp renders doc into a temporary file. The caller serves the file
// and must call cleanup, which removes it whatever happened in between.
func (e *Exporter) ExportTemp(doc Document) (path string, cleanup func(), err error) {
	tmp, err := os.CreateTemp("", "executive-view-*.pdf")
	if err != nil {
		return "", nil, fmt.Errorf("create temp pdf: %w", err)
	}
	path = tmp.Name()
	cleanup = func() { os.Remove(path) }

	if err := e.Render(tmp, doc); err != nil {
		tmp.Close()
		cleanup()
		return "", nil, err
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", nil, fmt.Errorf("close temp pdf: %w", err)
	}
	return path, cleanup, nil
}

func (e *Exporter) build(doc Document) *fpdf.Fpdf {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetCompression(e.opts.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle("Executive View - "+doc.Sheet, true)
	pdf.AddPage()
	pdf.SetFont("Helvetica", "", e.opts.FontSize)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	y := a4Height - e.opts.Baseline
	step := e.opts.FontSize * e.opts.Leading
	for _, line := range doc.Lines(e.opts.SeparatorWidth) {
		if line != "" {
			pdf.Text(e.opts.MarginLeft, y, tr(line))
		}
		y += step
	}
	return pdf
}
