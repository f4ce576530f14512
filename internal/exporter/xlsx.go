package exporter

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"combinercli/internal/combiner"
	"combinercli/internal/tabular"
)

// SheetName is the single sheet the report is written to.
const SheetName = "Monthly Report"

// MIME types for the two export formats.
const (
	ContentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	ContentTypeCSV  = "text/csv"
)

// DefaultColumnWidthCap bounds auto-sized column widths, in character
// widths.
const DefaultColumnWidthCap = 20

// Exporter writes merged reports. The zero value is not usable; construct
// with New.
type Exporter struct {
	widthCap float64
}

// New creates an Exporter. widthCap bounds auto-sized xlsx column widths;
// values below 1 fall back to the default cap.
func New(widthCap int) *Exporter {
	if widthCap < 1 {
		widthCap = DefaultColumnWidthCap
	}
	return &Exporter{widthCap: float64(widthCap)}
}

// WriteXLSX serializes the report as a styled workbook: bold colored
// header row, bordered and centered cells, and column widths sized to the
// longest value capped at the configured maximum.
func (e *Exporter) WriteXLSX(report *combiner.Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet(f.GetSheetName(0)); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}

	headerStyle, bodyStyle, err := buildStyles(f)
	if err != nil {
		return nil, err
	}

	header := make([]any, len(report.Header))
	for i, name := range report.Header {
		header[i] = name
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}

	for r, row := range report.Rows {
		values := make([]any, len(row))
		for c, cell := range row {
			if cell.Kind == tabular.KindNumber {
				values[c] = cell.Number
			} else {
				values[c] = cell.Text
			}
		}
		start, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return nil, fmt.Errorf("row coordinates: %w", err)
		}
		if err := f.SetSheetRow(SheetName, start, &values); err != nil {
			return nil, fmt.Errorf("write row %d: %w", r+1, err)
		}
	}

	if err := e.applyStyles(f, report, headerStyle, bodyStyle); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// buildStyles creates the cached header and body style IDs.
func buildStyles(f *excelize.File) (header int, body int, err error) {
	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	center := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"4472C4"}},
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("header style: %w", err)
	}

	body, err = f.NewStyle(&excelize.Style{
		Alignment: center,
		Border:    border,
	})
	if err != nil {
		return 0, 0, fmt.Errorf("body style: %w", err)
	}
	return header, body, nil
}

// applyStyles styles the populated range and auto-sizes columns.
func (e *Exporter) applyStyles(f *excelize.File, report *combiner.Report, headerStyle, bodyStyle int) error {
	cols := len(report.Header)
	if cols == 0 {
		return nil
	}

	lastCol, err := excelize.ColumnNumberToName(cols)
	if err != nil {
		return fmt.Errorf("column name: %w", err)
	}

	if err := f.SetCellStyle(SheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if len(report.Rows) > 0 {
		lastCell := fmt.Sprintf("%s%d", lastCol, len(report.Rows)+1)
		if err := f.SetCellStyle(SheetName, "A2", lastCell, bodyStyle); err != nil {
			return fmt.Errorf("style body: %w", err)
		}
	}

	for c := 0; c < cols; c++ {
		// Widths count characters, not bytes, so multi-byte names do not
		// inflate the column.
		width := float64(utf8.RuneCountInString(report.Header[c]))
		for _, row := range report.Rows {
			if l := float64(utf8.RuneCountInString(row[c].Text)); l > width {
				width = l
			}
		}
		width += 2 // cell padding
		if width > e.widthCap {
			width = e.widthCap
		}
		name, err := excelize.ColumnNumberToName(c + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(SheetName, name, name, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}
