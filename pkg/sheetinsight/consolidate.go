package sheetinsight

import (
	"context"
	"errors"

	"github.com/locvowork/excel_intelligence/pkg/dataflow"
	"github.com/locvowork/excel_intelligence/pkg/sheettable"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

// Workbook is one uploaded file to scan.
type Workbook struct {
	Name string
	Data []byte
}

// SheetSummary is the contribution of one sheet to the consolidated totals.
type SheetSummary struct {
	File           string  `json:"file"`
	Sheet          string  `json:"sheet"`
	Rows           int     `json:"rows"`
	NumericColumns int     `json:"numeric_columns"`
	Sum            float64 `json:"sum"`
	Max            float64 `json:"max"`
	HasNumeric     bool    `json:"has_numeric"`
}

// Consolidated are the totals over every sheet of every workbook. GlobalMax
// is nil when no sheet holds a numeric value.
type Consolidated struct {
	Files               int            `json:"files"`
	SheetCount          int            `json:"sheet_count"`
	TotalRows           int            `json:"total_rows"`
	TotalNumericColumns int            `json:"total_numeric_columns"`
	GlobalSum           float64        `json:"global_sum"`
	GlobalMax           *float64       `json:"global_max"`
	Message             string         `json:"message,omitempty"`
	Sheets              []SheetSummary `json:"sheets"`
}

type options struct {
	workers int
}

// Option tunes Consolidate.
type Option func(*options)

// WithWorkers sets how many workbooks are parsed concurrently.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.workers = n
		}
	}
}

type scanJob struct {
	idx int
	wb  Workbook
}

type scanResult struct {
	idx    int
	sheets []SheetSummary
	err    error
}

// Consolidate rescans every sheet of every workbook. Workbooks are parsed
// concurrently but folded in the given order, so the running sum and the
// running max see sheets in upload order. The first workbook that fails to
// parse aborts the scan.
func Consolidate(ctx context.Context, workbooks []Workbook, opts ...Option) (Consolidated, error) {
	o := &options{workers: 1}
	for _, opt := range opts {
		opt(o)
	}

	jobs := make([]scanJob, len(workbooks))
	for i, wb := range workbooks {
		jobs[i] = scanJob{idx: i, wb: wb}
	}

	scanned := dataflow.Map(ctx, dataflow.From(ctx, jobs...), func(j scanJob) (scanResult, error) {
		sheets, err := ScanWorkbook(j.wb)
		return scanResult{idx: j.idx, sheets: sheets, err: err}, nil
	}, dataflow.WithWorkers(o.workers))

	results := make([]scanResult, len(workbooks))
	if err := dataflow.ForEach(ctx, scanned, func(r scanResult) error {
		results[r.idx] = r
		return nil
	}); err != nil {
		return Consolidated{}, err
	}

	c := Consolidated{Files: len(workbooks), Sheets: []SheetSummary{}}
	var globalSum float64
	for _, r := range results {
		if r.err != nil {
			return Consolidated{}, r.err
		}
		for _, s := range r.sheets {
			c.SheetCount++
			c.TotalRows += s.Rows
			c.TotalNumericColumns += s.NumericColumns
			if s.HasNumeric {
				globalSum += s.Sum
				if c.GlobalMax == nil || s.Max > *c.GlobalMax {
					m := s.Max
					c.GlobalMax = &m
				}
			}
			s.Sum = sheetview.Round2(s.Sum)
			s.Max = sheetview.Round2(s.Max)
			c.Sheets = append(c.Sheets, s)
		}
	}

	c.GlobalSum = sheetview.Round2(globalSum)
	if c.GlobalMax != nil {
		m := sheetview.Round2(*c.GlobalMax)
		c.GlobalMax = &m
	} else {
		c.Message = NoNumericFilesMessage
	}
	return c, nil
}

// ScanWorkbook loads every sheet of wb and summarises it. Sums and maxima
// are left unrounded.
func ScanWorkbook(wb Workbook) ([]SheetSummary, error) {
	f, err := sheettable.OpenBytes(wb.Name, wb.Data)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []SheetSummary
	for _, sheet := range sheettable.SheetNames(f) {
		t, err := sheettable.Load(f, sheet)
		if err != nil {
			var le *sheettable.LoadError
			if errors.As(err, &le) {
				le.File = wb.Name
			}
			return nil, err
		}
		sum, max, _, n := aggregate(t)
		s := SheetSummary{
			File:           wb.Name,
			Sheet:          sheet,
			Rows:           t.Rows,
			NumericColumns: n,
			HasNumeric:     n > 0,
		}
		if s.HasNumeric {
			s.Sum = sum
			s.Max = max
		}
		out = append(out, s)
	}
	return out, nil
}
