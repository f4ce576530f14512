// Package tabular provides the in-memory table model shared by the combine
// pipeline, together with readers that parse raw CSV or Excel bytes into it.
//
// A Table is an ordered sequence of named columns; all columns in a table
// have the same length and rows are positionally aligned across columns.
// Cells carry their original string form plus a parsed numeric value when
// the text looks like a number, so later stages can distinguish score
// columns from free-text columns without re-parsing.
package tabular
