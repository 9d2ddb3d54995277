// Package sheetinsight computes aggregate statistics over loaded sheets and
// across every sheet of a set of workbooks.
package sheetinsight

import (
	"math"

	"github.com/locvowork/excel_intelligence/pkg/sheettable"
	"github.com/locvowork/excel_intelligence/pkg/sheetview"
)

const (
	NoNumericMessage      = "No numeric data detected in this sheet."
	NoNumericFilesMessage = "No numeric values detected across uploaded files."
)

// Insights are the aggregates of a single sheet. Sum, Max and Min are
// rounded to 2 decimals and are zero when the sheet has no numeric column.
type Insights struct {
	Rows           int     `json:"rows"`
	Columns        int     `json:"columns"`
	NumericColumns int     `json:"numeric_columns"`
	HasNumeric     bool    `json:"has_numeric"`
	Sum            float64 `json:"sum"`
	Max            float64 `json:"max"`
	Min            float64 `json:"min"`
}

// Message is the informational line shown when there is nothing to sum.
func (i Insights) Message() string {
	if i.HasNumeric {
		return ""
	}
	return NoNumericMessage
}

// Compute aggregates every non-empty value of every numeric column of t.
func Compute(t *sheettable.Table) Insights {
	sum, max, min, n := aggregate(t)
	ins := Insights{
		Rows:           t.Rows,
		Columns:        len(t.Columns),
		NumericColumns: n,
		HasNumeric:     n > 0,
	}
	if ins.HasNumeric {
		ins.Sum = sheetview.Round2(sum)
		ins.Max = sheetview.Round2(max)
		ins.Min = sheetview.Round2(min)
	}
	return ins
}

// aggregate returns the unrounded sum, max and min over the numeric columns
// of t, and how many numeric columns there are.
func aggregate(t *sheettable.Table) (sum, max, min float64, numeric int) {
	max, min = math.Inf(-1), math.Inf(1)
	for _, col := range t.NumericColumns() {
		numeric++
		for _, v := range col.Values() {
			sum += v
			if v > max {
				max = v
			}
			if v < min {
				min = v
			}
		}
	}
	return sum, max, min, numeric
}
