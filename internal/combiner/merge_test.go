package combiner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combinercli/internal/tabular"
)

func weeklyTable(idName string, ids []string, cols ...tabular.Column) *WeeklyTable {
	return &WeeklyTable{IdentifierName: idName, Identifiers: ids, Scores: cols}
}

func TestMergeOuterJoin(t *testing.T) {
	// File1: {100001:85, 100002:90}, File2: {100001:78, 100003:88}
	tables := []*WeeklyTable{
		weeklyTable("roll no", []string{"100001", "100002"}, columnOf("File 1 - Score", "85", "90")),
		weeklyTable("roll no", []string{"100001", "100003"}, columnOf("File 2 - Score", "78", "88")),
	}

	report := Merge(tables, OrderAscending)

	assert.Equal(t, []string{"roll no", "File 1 - Score", "File 2 - Score"}, report.Header)
	require.Equal(t, 3, report.RowCount())

	rows := renderRows(report)
	assert.Equal(t, [][]string{
		{"100001", "85", "78"},
		{"100002", "90", "-"},
		{"100003", "-", "88"},
	}, rows)
}

func TestMergeFirstSeenOrder(t *testing.T) {
	tables := []*WeeklyTable{
		weeklyTable("email", []string{"zoe@x.io", "amy@x.io"}, columnOf("Week 1", "1", "2")),
		weeklyTable("email", []string{"bob@x.io", "amy@x.io"}, columnOf("Week 2", "3", "4")),
	}

	report := Merge(tables, OrderFirstSeen)

	rows := renderRows(report)
	assert.Equal(t, [][]string{
		{"zoe@x.io", "1", "-"},
		{"amy@x.io", "2", "4"},
		{"bob@x.io", "-", "3"},
	}, rows)
}

func TestMergePlaceholderIsStringCell(t *testing.T) {
	tables := []*WeeklyTable{
		weeklyTable("roll no", []string{"100001"}, columnOf("Week 1", "85")),
		weeklyTable("roll no", []string{"100002"}, columnOf("Week 2", "90")),
	}

	report := Merge(tables, OrderAscending)
	cell := report.Rows[0][2]
	assert.Equal(t, tabular.KindString, cell.Kind)
	assert.Equal(t, Placeholder, cell.Text)
}

func TestMergeMissingCellBecomesPlaceholder(t *testing.T) {
	tables := []*WeeklyTable{
		weeklyTable("roll no", []string{"100001", "100002"},
			tabular.Column{Name: "Week 1", Cells: []tabular.Cell{tabular.NewCell("85"), tabular.MissingCell()}}),
	}

	report := Merge(tables, OrderAscending)
	assert.Equal(t, Placeholder, report.Rows[1][1].Text)
}

func TestMergeDeterministic(t *testing.T) {
	build := func() *Report {
		return Merge([]*WeeklyTable{
			weeklyTable("roll no", []string{"100003", "100001"}, columnOf("Week 1", "1", "2")),
			weeklyTable("roll no", []string{"100002", "100001"}, columnOf("Week 2", "3", "4")),
		}, OrderAscending)
	}

	assert.Equal(t, build(), build())
}

func TestMergeEmptyInput(t *testing.T) {
	report := Merge(nil, OrderAscending)
	assert.Equal(t, 0, report.RowCount())
	assert.Empty(t, report.Header)
}

func renderRows(r *Report) [][]string {
	out := make([][]string, len(r.Rows))
	for i, row := range r.Rows {
		rendered := make([]string, len(row))
		for j, cell := range row {
			rendered[j] = cell.Text
		}
		out[i] = rendered
	}
	return out
}
