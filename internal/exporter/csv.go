package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"combinercli/internal/combiner"
)

// utf8BOM helps Excel recognize the CSV as UTF-8 when double-clicked.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// WriteCSV serializes the report as standard comma-separated text with a
// UTF-8 BOM prefix: header row first, then data rows in report order.
func (e *Exporter) WriteCSV(report *combiner.Report) ([]byte, error) {
	var buf bytes.Buffer
	buf.Write(utf8BOM)

	w := csv.NewWriter(&buf)
	if err := w.Write(report.Header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(report.Header))
	for i, row := range report.Rows {
		for c, cell := range row {
			record[c] = cell.Text
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("write record %d: %w", i, err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
