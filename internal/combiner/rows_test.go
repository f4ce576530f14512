package combiner

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"combinercli/internal/tabular"
)

func TestRollPattern(t *testing.T) {
	valid := []string{"100001", "999999", "000000", "123456"}
	invalid := []string{"", "12345", "1234567", "12345a", "abcdef", "12 3456", "123-456", "123456 78", " 100001 x"}

	for _, v := range valid {
		assert.True(t, DefaultRollPattern.MatchString(v), "expected %q to match", v)
	}
	for _, v := range invalid {
		assert.False(t, DefaultRollPattern.MatchString(v), "expected %q not to match", v)
	}
}

func TestValidateRowsRollPolicy(t *testing.T) {
	table := &tabular.Table{Columns: []tabular.Column{
		columnOf("roll no", "100001", "12345", "100002", "", "abc123"),
		columnOf("score", "85", "10", "90", "7", "3"),
	}}

	filtered, kept := ValidateRows(table, 0, DefaultOptions())

	assert.Equal(t, 2, kept)
	assert.Equal(t, "100001", filtered.Columns[0].Cells[0].Text)
	assert.Equal(t, "100002", filtered.Columns[0].Cells[1].Text)
	assert.Equal(t, float64(90), filtered.Columns[1].Cells[1].Number)
}

func TestValidateRowsKeywordPolicyKeepsNonEmpty(t *testing.T) {
	table := &tabular.Table{Columns: []tabular.Column{
		columnOf("email", "a@x.io", "", "b@x.io"),
		columnOf("score", "1", "2", "3"),
	}}

	_, kept := ValidateRows(table, 0, SimpleOptions())
	assert.Equal(t, 2, kept)
}

func TestValidateRowsAllInvalid(t *testing.T) {
	table := &tabular.Table{Columns: []tabular.Column{
		columnOf("roll no", "x", "y"),
		columnOf("score", "1", "2"),
	}}

	_, kept := ValidateRows(table, 0, DefaultOptions())
	assert.Equal(t, 0, kept)
}
