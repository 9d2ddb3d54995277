package sheettable

import (
	"fmt"
	"math"
)

// PlaceholderName is the positional name given to unusable header labels.
func PlaceholderName(i int) string {
	return fmt.Sprintf("Column_%d", i)
}

// SanitizeColumnNames turns raw header cells into unique, non-empty names.
//
// A missing or NaN label at index i becomes Column_{i}; any other label is
// stringified. A label repeating an earlier name is also replaced by its
// positional placeholder. Should a placeholder collide with a real label, a
// numeric suffix is appended until the name is unique.
func SanitizeColumnNames(header []Cell) []string {
	names := make([]string, len(header))
	used := make(map[string]bool, len(header))

	for i, cell := range header {
		name := cell.String()
		if cell.IsEmpty() || (cell.Kind == CellNumber && math.IsNaN(cell.Num)) || used[name] {
			name = PlaceholderName(i)
		}
		if used[name] {
			base := name
			for n := 1; used[name]; n++ {
				name = fmt.Sprintf("%s_%d", base, n)
			}
		}
		used[name] = true
		names[i] = name
	}
	return names
}
