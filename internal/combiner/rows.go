package combiner

import "combinercli/internal/tabular"

// ValidateRows filters a table down to rows whose identifier is valid and
// returns the filtered table plus the number of surviving rows. Individual
// rejected rows are dropped silently; only the aggregate count surfaces in
// the file diagnostic.
//
// Under the roll-number policy a value is valid when it matches the roll
// pattern; under the keyword policy any non-empty value passes.
func ValidateRows(t *tabular.Table, identifierIdx int, opts Options) (*tabular.Table, int) {
	id := &t.Columns[identifierIdx]

	valid := func(cell tabular.Cell) bool {
		if cell.IsMissing() {
			return false
		}
		if opts.Identifier == IdentifierRollNumber {
			return opts.RollPattern.MatchString(cell.Text)
		}
		return true
	}

	filtered := t.Filter(func(row int) bool {
		return valid(id.Cells[row])
	})
	return filtered, filtered.RowCount()
}
