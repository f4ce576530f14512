// Package combiner implements the merge pipeline that turns a batch of
// weekly score files into one monthly report.
//
// The pipeline runs strictly forward for each file: parse, normalize
// headers, detect the identifier column, validate rows, select score
// columns, project to a weekly table. The weekly tables are then reduced
// by successive outer joins on the identifier, gaps are filled with an
// explicit placeholder, and the result is handed to the exporter.
//
// Any failure for any file aborts the whole batch; no partial report is
// ever produced.
package combiner
