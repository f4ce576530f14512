package combiner

import (
	"strings"

	"combinercli/internal/tabular"
)

// DetectIdentifier locates the identifier column of a header-normalized
// table under the configured policy. It returns the column index, or false
// when no column qualifies; the caller treats that as fatal for the batch.
func DetectIdentifier(t *tabular.Table, opts Options) (int, bool) {
	switch opts.Identifier {
	case IdentifierKeyword:
		return detectByKeyword(t, opts.IdentifierKeywords)
	default:
		return detectByRollNumber(t, opts)
	}
}

// detectByKeyword scans keywords in priority order; within one keyword,
// columns are scanned in table order and the first substring match wins.
func detectByKeyword(t *tabular.Table, keywords []string) (int, bool) {
	for _, keyword := range keywords {
		for i, col := range t.Columns {
			if strings.Contains(col.Name, keyword) {
				return i, true
			}
		}
	}
	return 0, false
}

// detectByRollNumber first trusts the schema: any column whose name
// contains "roll" is the identifier. Failing that it inspects the data and
// takes the first column where enough trimmed values match the roll
// pattern.
func detectByRollNumber(t *tabular.Table, opts Options) (int, bool) {
	for i, col := range t.Columns {
		if strings.Contains(col.Name, "roll") {
			return i, true
		}
	}

	for i := range t.Columns {
		if rollMatchFraction(&t.Columns[i], opts) >= opts.MatchThreshold {
			return i, true
		}
	}
	return 0, false
}

// rollMatchFraction computes the fraction of non-missing values in the
// column that match the roll pattern. A column with no values scores zero.
func rollMatchFraction(col *tabular.Column, opts Options) float64 {
	total, matched := 0, 0
	for _, cell := range col.Cells {
		if cell.IsMissing() {
			continue
		}
		total++
		if opts.RollPattern.MatchString(cell.Text) {
			matched++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}
