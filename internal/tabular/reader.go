package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Format identifies the declared on-disk format of an input file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FallbackEncodings is the ordered list of legacy character encodings tried
// when CSV bytes are not valid UTF-8. Windows-1252 comes first because it is
// a superset of the printable Latin-1 range and the most common source of
// non-UTF-8 spreadsheet exports.
var FallbackEncodings = []encoding.Encoding{
	charmap.Windows1252,
	charmap.ISO8859_1,
}

// DetectFormat maps a filename extension to a Format.
func DetectFormat(filename string) (Format, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported file extension %q", filepath.Ext(filename))
	}
}

// ReadTable parses raw bytes under the declared format into a Table.
// The parse is pure: no logging, no side effects, all data in memory.
func ReadTable(format Format, data []byte) (*Table, error) {
	switch format {
	case FormatCSV:
		return readCSV(data)
	case FormatXLSX:
		return readXLSX(data)
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

// readCSV decodes the byte blob to text via the encoding ladder, then
// parses it as comma-separated records.
func readCSV(data []byte) (*Table, error) {
	text := decodeText(data)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1 // tolerate ragged rows, pad below
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: no header row")
	}
	return buildTable(records), nil
}

// readXLSX parses the first sheet of a workbook.
func readXLSX(data []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", sheets[0])
	}
	return buildTable(rows), nil
}

// decodeText turns raw bytes into a UTF-8 string. Valid UTF-8 passes
// through untouched; otherwise each fallback encoding is tried in order and
// the first clean decode wins. As a last resort the bytes are decoded
// leniently, substituting undecodable sequences, rather than aborting the
// parse.
func decodeText(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	for _, enc := range FallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if !bytes.ContainsRune(decoded, utf8.RuneError) {
			return string(decoded)
		}
	}
	return strings.ToValidUTF8(string(data), string(utf8.RuneError))
}

// buildTable converts row-major string records into the column-major Table
// model. The first record is the header; data rows shorter than the header
// are padded with missing cells and extra trailing fields are dropped.
func buildTable(records [][]string) *Table {
	header := records[0]
	t := &Table{Columns: make([]Column, len(header))}
	rowCount := len(records) - 1

	for i, name := range header {
		cells := make([]Cell, 0, rowCount)
		for _, record := range records[1:] {
			if i < len(record) {
				cells = append(cells, NewCell(record[i]))
			} else {
				cells = append(cells, MissingCell())
			}
		}
		t.Columns[i] = Column{Name: strings.TrimSpace(name), Cells: cells}
	}
	return t
}
