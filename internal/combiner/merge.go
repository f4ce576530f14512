package combiner

import (
	"sort"

	"combinercli/internal/tabular"
)

// Report is the merged monthly table: a header row followed by one row per
// identifier seen in any weekly table.
type Report struct {
	Header []string
	Rows   [][]tabular.Cell
}

// RowCount returns the number of data rows.
func (r *Report) RowCount() int {
	return len(r.Rows)
}

// Merge reduces the ordered weekly tables via repeated outer join on the
// identifier. Every identifier seen anywhere gets exactly one row; cells
// for files that lacked that identifier are filled with the Placeholder
// string. Row order follows the configured policy and the whole operation
// is deterministic for a given input sequence.
func Merge(tables []*WeeklyTable, order RowOrder) *Report {
	if len(tables) == 0 {
		return &Report{}
	}

	var ids []string
	seen := map[string]bool{}
	for _, wt := range tables {
		for _, id := range wt.Identifiers {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	if order == OrderAscending {
		sort.Strings(ids)
	}

	header := []string{tables[0].IdentifierName}
	for _, wt := range tables {
		for _, col := range wt.Scores {
			header = append(header, col.Name)
		}
	}

	rows := make([][]tabular.Cell, len(ids))
	rowOf := make(map[string]int, len(ids))
	for i, id := range ids {
		rowOf[id] = i
		row := make([]tabular.Cell, len(header))
		row[0] = tabular.StringCell(id)
		for j := 1; j < len(row); j++ {
			row[j] = tabular.StringCell(Placeholder)
		}
		rows[i] = row
	}

	colOffset := 1
	for _, wt := range tables {
		for c, col := range wt.Scores {
			for r, id := range wt.Identifiers {
				if r >= len(col.Cells) {
					break
				}
				cell := col.Cells[r]
				if cell.IsMissing() {
					continue // stays a placeholder
				}
				rows[rowOf[id]][colOffset+c] = cell
			}
		}
		colOffset += len(wt.Scores)
	}

	return &Report{Header: header, Rows: rows}
}
