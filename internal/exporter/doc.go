// Package exporter serializes a merged report to download-ready bytes:
// a styled single-sheet xlsx workbook and a BOM-prefixed CSV. Styling is
// presentation only and never changes cell values or ordering.
package exporter
