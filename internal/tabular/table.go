package tabular

import (
	"strconv"
	"strings"
)

// CellKind discriminates the three value shapes a cell can take.
type CellKind int

const (
	// KindMissing marks an empty cell.
	KindMissing CellKind = iota
	// KindString marks a cell holding free text.
	KindString
	// KindNumber marks a cell whose text parses as a decimal number.
	KindNumber
)

// Cell is a single table value. Text always holds the trimmed original
// string; Number is only meaningful when Kind is KindNumber.
type Cell struct {
	Kind   CellKind
	Text   string
	Number float64
}

// NewCell classifies a raw string into a Cell. Leading and trailing
// whitespace is trimmed before classification.
func NewCell(raw string) Cell {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Cell{Kind: KindMissing}
	}
	if n, err := strconv.ParseFloat(text, 64); err == nil {
		return Cell{Kind: KindNumber, Text: text, Number: n}
	}
	return Cell{Kind: KindString, Text: text}
}

// MissingCell returns the canonical empty cell.
func MissingCell() Cell {
	return Cell{Kind: KindMissing}
}

// StringCell returns a string-kind cell without numeric classification.
func StringCell(text string) Cell {
	return Cell{Kind: KindString, Text: text}
}

// NumberCell returns a numeric cell.
func NumberCell(n float64) Cell {
	return Cell{Kind: KindNumber, Text: strconv.FormatFloat(n, 'f', -1, 64), Number: n}
}

// IsMissing reports whether the cell is empty.
func (c Cell) IsMissing() bool {
	return c.Kind == KindMissing
}

// IsInteger reports whether the cell is numeric with no fractional part.
func (c Cell) IsInteger() bool {
	return c.Kind == KindNumber && c.Number == float64(int64(c.Number))
}

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// IsNumeric reports whether every non-missing cell in the column is a
// number and at least one non-missing cell exists. Columns that are
// entirely empty are not numeric.
func (c *Column) IsNumeric() bool {
	seen := false
	for _, cell := range c.Cells {
		switch cell.Kind {
		case KindMissing:
			continue
		case KindNumber:
			seen = true
		default:
			return false
		}
	}
	return seen
}

// Table is an ordered collection of equally sized columns.
type Table struct {
	Columns []Column
}

// RowCount returns the number of rows. All columns share this length.
func (t *Table) RowCount() int {
	if len(t.Columns) == 0 {
		return 0
	}
	return len(t.Columns[0].Cells)
}

// ColumnNames returns the column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		names[i] = col.Name
	}
	return names
}

// Column returns the first column with the given name. Duplicate names are
// allowed in a table; only the first match matters.
func (t *Table) Column(name string) (*Column, bool) {
	for i := range t.Columns {
		if t.Columns[i].Name == name {
			return &t.Columns[i], true
		}
	}
	return nil, false
}

// Filter returns a new table containing only the rows for which keep
// reports true. Column order is preserved.
func (t *Table) Filter(keep func(row int) bool) *Table {
	out := &Table{Columns: make([]Column, len(t.Columns))}
	for i, col := range t.Columns {
		kept := make([]Cell, 0, len(col.Cells))
		for row, cell := range col.Cells {
			if keep(row) {
				kept = append(kept, cell)
			}
		}
		out.Columns[i] = Column{Name: col.Name, Cells: kept}
	}
	return out
}
