package sheetview

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// DefaultKeywords select the preset-highlighted columns.
var DefaultKeywords = []string{"cost", "budget", "total", "sum"}

const DefaultHighlightColor = "#fff3b0"

var colorPattern = regexp.MustCompile(`^#(?:[0-9a-fA-F]{3}|[0-9a-fA-F]{6})$`)

// HighlightSettings is the user's highlight input. Row is 1-based; 0 means
// no row.
type HighlightSettings struct {
	Preset  bool     `json:"preset"`
	Columns []string `json:"columns"`
	Color   string   `json:"color"`
	Row     int      `json:"row"`
}

// Highlight is a styling side-map. It never touches the table's data.
type Highlight struct {
	Columns map[string]bool
	Rows    map[int]bool // 0-based
	Color   string
}

// ValidateColor accepts #rgb and #rrggbb. Empty is allowed.
func ValidateColor(c string) error {
	if c == "" || colorPattern.MatchString(c) {
		return nil
	}
	return fmt.Errorf("%w: color %q", ErrInvalidSetting, c)
}

// PresetColumns returns, in order, the names whose lowercase form contains
// any keyword as a substring.
func PresetColumns(names []string, keywords []string) []string {
	var out []string
	for _, name := range names {
		lower := strings.ToLower(name)
		for _, kw := range keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				out = append(out, name)
				break
			}
		}
	}
	return out
}

// BuildHighlight resolves settings against a table's column names and row
// count. Manually selected columns that do not exist are ignored; an out of
// range row yields no row highlight.
func BuildHighlight(names []string, rows int, s HighlightSettings, keywords []string, defaultColor string) (Highlight, error) {
	if err := ValidateColor(s.Color); err != nil {
		return Highlight{}, err
	}
	h := Highlight{
		Columns: make(map[string]bool),
		Rows:    make(map[int]bool),
		Color:   s.Color,
	}
	if h.Color == "" {
		h.Color = defaultColor
	}

	known := make(map[string]bool, len(names))
	for _, n := range names {
		known[n] = true
	}
	for _, c := range s.Columns {
		if known[c] {
			h.Columns[c] = true
		}
	}
	if s.Preset {
		for _, c := range PresetColumns(names, keywords) {
			h.Columns[c] = true
		}
	}

	if s.Row >= 1 && s.Row <= rows {
		h.Rows[s.Row-1] = true
	}
	return h, nil
}

// ColumnList returns the highlighted columns in table order.
func (h Highlight) ColumnList(order []string) []string {
	out := []string{}
	for _, n := range order {
		if h.Columns[n] {
			out = append(out, n)
		}
	}
	return out
}

// RowList returns the highlighted 0-based row indexes ascending.
func (h Highlight) RowList() []int {
	out := make([]int, 0, len(h.Rows))
	for r := range h.Rows {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}
