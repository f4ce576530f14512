package combiner

import (
	"sort"
	"strings"

	"combinercli/internal/tabular"
)

// SelectScoreColumns determines which columns of a table hold real scores
// and returns their indices in table order. The identifier column is never
// a score column. An empty result is fatal for the batch.
//
// ScoreFirstNumeric takes the first numeric column found, nothing more.
// ScoreSerialAware keeps every numeric column except those whose name
// matches a serial keyword and those whose values are just the row index
// in disguise.
func SelectScoreColumns(t *tabular.Table, identifierIdx int, opts Options) []int {
	var selected []int
	for i := range t.Columns {
		if i == identifierIdx {
			continue
		}
		col := &t.Columns[i]
		if !col.IsNumeric() {
			continue
		}

		if opts.Scores == ScoreFirstNumeric {
			return []int{i}
		}

		if matchesAnyKeyword(col.Name, opts.SerialKeywords) {
			continue
		}
		if isSequentialIndex(col) {
			continue
		}
		selected = append(selected, i)
	}
	return selected
}

// matchesAnyKeyword reports whether the normalized name contains any of
// the keywords as a substring.
func matchesAnyKeyword(name string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(name, keyword) {
			return true
		}
	}
	return false
}

// isSequentialIndex detects unlabeled serial columns: the non-missing
// values are all integers and, sorted ascending, are exactly 1..N. Any
// gap, duplicate or fractional value disqualifies the column.
func isSequentialIndex(col *tabular.Column) bool {
	var values []int64
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		if !cell.IsInteger() {
			return false
		}
		values = append(values, int64(cell.Number))
	}
	if len(values) == 0 {
		return false
	}

	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })
	for i, v := range values {
		if v != int64(i)+1 {
			return false
		}
	}
	return true
}
