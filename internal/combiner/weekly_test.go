package combiner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combinercli/internal/tabular"
)

func TestBuildWeeklyTableWeekLabel(t *testing.T) {
	table := &tabular.Table{Columns: []tabular.Column{
		columnOf("email", "a@x.io", "b@x.io"),
		columnOf("score", "85", "90"),
	}}

	wt := BuildWeeklyTable(table, 0, []int{1}, 3, LabelWeek)

	assert.Equal(t, "email", wt.IdentifierName)
	assert.Equal(t, []string{"a@x.io", "b@x.io"}, wt.Identifiers)
	require.Len(t, wt.Scores, 1)
	assert.Equal(t, "Week 3", wt.Scores[0].Name)
	assert.Equal(t, float64(90), wt.Scores[0].Cells[1].Number)
}

func TestBuildWeeklyTableFileLabel(t *testing.T) {
	table := &tabular.Table{Columns: []tabular.Column{
		columnOf("roll no", "100001"),
		columnOf("quiz score", "85"),
		columnOf("final marks", "90"),
	}}

	wt := BuildWeeklyTable(table, 0, []int{1, 2}, 2, LabelFile)

	require.Len(t, wt.Scores, 2)
	assert.Equal(t, "File 2 - Quiz Score", wt.Scores[0].Name)
	assert.Equal(t, "File 2 - Final Marks", wt.Scores[1].Name)
}

func TestBuildWeeklyTableLabelCollisionLastWriteWins(t *testing.T) {
	// "score" and "SCORE" normalize apart but title-case together
	table := &tabular.Table{Columns: []tabular.Column{
		columnOf("roll no", "100001"),
		{Name: "score", Cells: []tabular.Cell{tabular.NewCell("10")}},
		{Name: "score ", Cells: []tabular.Cell{tabular.NewCell("20")}},
	}}
	tabular.NormalizeHeaders(table)

	wt := BuildWeeklyTable(table, 0, []int{1, 2}, 1, LabelFile)

	require.Len(t, wt.Scores, 1)
	assert.Equal(t, "File 1 - Score", wt.Scores[0].Name)
	assert.Equal(t, float64(20), wt.Scores[0].Cells[0].Number)
}
