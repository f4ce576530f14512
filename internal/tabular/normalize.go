package tabular

import "strings"

// NormalizeName returns the canonical form of a column name: trimmed and
// lowercased. Matching anywhere in the pipeline happens on this form.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NormalizeHeaders rewrites every column name in the table to its
// normalized form. Cell values are untouched. The operation is idempotent.
func NormalizeHeaders(t *Table) {
	for i := range t.Columns {
		t.Columns[i].Name = NormalizeName(t.Columns[i].Name)
	}
}
