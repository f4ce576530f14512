package tabular

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		filename string
		want     Format
		wantErr  bool
	}{
		{"week1.csv", FormatCSV, false},
		{"Week2.CSV", FormatCSV, false},
		{"scores.xlsx", FormatXLSX, false},
		{"scores.XLSX", FormatXLSX, false},
		{"notes.txt", "", true},
		{"noext", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.filename, func(t *testing.T) {
			got, err := DetectFormat(tt.filename)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadTableCSV(t *testing.T) {
	data := []byte("Roll No,Name,Score\n100001,Alice,85\n100002,Bob,90\n")

	table, err := ReadTable(FormatCSV, data)
	require.NoError(t, err)

	assert.Equal(t, []string{"Roll No", "Name", "Score"}, table.ColumnNames())
	assert.Equal(t, 2, table.RowCount())

	score, ok := table.Column("Score")
	require.True(t, ok)
	assert.True(t, score.IsNumeric())
	assert.Equal(t, float64(85), score.Cells[0].Number)
}

func TestReadTableCSVRaggedRows(t *testing.T) {
	data := []byte("id,score\n100001,85\n100002\n100003,90,extra\n")

	table, err := ReadTable(FormatCSV, data)
	require.NoError(t, err)

	assert.Equal(t, 3, table.RowCount())
	score, ok := table.Column("score")
	require.True(t, ok)
	assert.True(t, score.Cells[1].IsMissing())
	assert.Equal(t, float64(90), score.Cells[2].Number)
}

func TestReadTableCSVWindows1252Fallback(t *testing.T) {
	// "José" with the é encoded as Windows-1252 byte 0xE9
	var buf bytes.Buffer
	buf.WriteString("name,score\nJos")
	buf.WriteByte(0xE9)
	buf.WriteString(",85\n")

	table, err := ReadTable(FormatCSV, buf.Bytes())
	require.NoError(t, err)

	name, ok := table.Column("name")
	require.True(t, ok)
	assert.Equal(t, "José", name.Cells[0].Text)
}

func TestReadTableCSVLenientLastResort(t *testing.T) {
	// Valid rows with a stray byte that no ladder entry decodes cleanly is
	// still not fatal; the reader substitutes and carries on.
	data := append([]byte("name,score\nAl"), 0x81)
	data = append(data, []byte("ice,85\n")...)

	table, err := ReadTable(FormatCSV, data)
	require.NoError(t, err)
	assert.Equal(t, 1, table.RowCount())
}

func TestReadTableCSVEmpty(t *testing.T) {
	_, err := ReadTable(FormatCSV, []byte(""))
	assert.Error(t, err)
}

func TestReadTableXLSX(t *testing.T) {
	table, err := ReadTable(FormatXLSX, buildWorkbook(t, [][]any{
		{"Roll No", "Score"},
		{"100001", 85},
		{"100002", 90},
	}))
	require.NoError(t, err)

	assert.Equal(t, []string{"Roll No", "Score"}, table.ColumnNames())
	assert.Equal(t, 2, table.RowCount())

	score, ok := table.Column("Score")
	require.True(t, ok)
	assert.True(t, score.IsNumeric())
}

func TestReadTableXLSXMalformed(t *testing.T) {
	_, err := ReadTable(FormatXLSX, []byte("definitely not a zip archive"))
	assert.Error(t, err)
}

func TestReadTableUnknownFormat(t *testing.T) {
	_, err := ReadTable(Format("ods"), []byte("x"))
	assert.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "unsupported"))
}

// buildWorkbook writes the given rows to the first sheet of a new workbook
// and returns the serialized bytes.
func buildWorkbook(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}
