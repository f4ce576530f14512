package combiner

import (
	"context"
	"log/slog"

	"combinercli/internal/tabular"
)

// InputFile is one uploaded file: a name carrying the format hint in its
// extension, plus the fully buffered content.
type InputFile struct {
	Name string
	Data []byte
}

// FileDiagnostic summarizes what the pipeline did with one file. It is
// informational only; the UI renders it next to the combined report.
type FileDiagnostic struct {
	FileName     string   `json:"file_name"`
	OriginalRows int      `json:"original_rows"`
	ValidRows    int      `json:"valid_rows"`
	ScoreColumns []string `json:"score_columns"`
}

// Summary carries the aggregate counters of a finished combine run.
type Summary struct {
	TotalStudents int `json:"total_students"`
	TotalFiles    int `json:"total_files"`
	TotalColumns  int `json:"total_columns"`
}

// Result is everything a combine run produces.
type Result struct {
	Report      *Report          `json:"-"`
	Diagnostics []FileDiagnostic `json:"diagnostics"`
	Summary     Summary          `json:"summary"`
}

// Combiner runs the merge pipeline. It is stateless between runs; every
// invocation is independent and all state is request-scoped.
type Combiner struct {
	opts   Options
	logger *slog.Logger
}

// New creates a Combiner with the given policy options.
func New(opts Options, logger *slog.Logger) *Combiner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Combiner{
		opts:   opts,
		logger: logger.With(slog.String("component", "combiner")),
	}
}

// Combine processes the ordered batch sequentially, file by file, and
// merges the weekly tables into one report. The first error for any file
// aborts the whole batch; no partial report is returned. progress may be
// nil.
func (c *Combiner) Combine(ctx context.Context, files []InputFile, progress ProgressFunc) (*Result, error) {
	weekly := make([]*WeeklyTable, 0, len(files))
	diagnostics := make([]FileDiagnostic, 0, len(files))

	for i, file := range files {
		ordinal := i + 1
		wt, diag, err := c.processFile(ctx, ordinal, file, progress)
		if err != nil {
			return nil, err
		}
		weekly = append(weekly, wt)
		diagnostics = append(diagnostics, diag)
	}

	progress.emit(ProgressEvent{Stage: StageMerge})
	report := Merge(weekly, c.opts.Order)

	summary := Summary{
		TotalStudents: report.RowCount(),
		TotalFiles:    len(files),
		TotalColumns:  len(report.Header),
	}
	c.logger.InfoContext(ctx, "batch combined",
		slog.Int("files", summary.TotalFiles),
		slog.Int("students", summary.TotalStudents),
		slog.Int("columns", summary.TotalColumns))

	return &Result{Report: report, Diagnostics: diagnostics, Summary: summary}, nil
}

// processFile runs the per-file stages: parse, normalize, detect, validate,
// select, project.
func (c *Combiner) processFile(ctx context.Context, ordinal int, file InputFile, progress ProgressFunc) (*WeeklyTable, FileDiagnostic, error) {
	var diag FileDiagnostic
	diag.FileName = file.Name

	progress.emit(ProgressEvent{FileIndex: ordinal, FileName: file.Name, Stage: StageParse})
	format, err := tabular.DetectFormat(file.Name)
	if err != nil {
		return nil, diag, &ParseError{File: file.Name, Err: err}
	}
	table, err := tabular.ReadTable(format, file.Data)
	if err != nil {
		return nil, diag, &ParseError{File: file.Name, Err: err}
	}
	tabular.NormalizeHeaders(table)
	diag.OriginalRows = table.RowCount()

	progress.emit(ProgressEvent{FileIndex: ordinal, FileName: file.Name, Stage: StageDetect})
	idIdx, ok := DetectIdentifier(table, c.opts)
	if !ok {
		return nil, diag, &IdentifierNotFoundError{File: file.Name, Policy: c.opts.Identifier}
	}

	progress.emit(ProgressEvent{FileIndex: ordinal, FileName: file.Name, Stage: StageValidate})
	table, validRows := ValidateRows(table, idIdx, c.opts)
	diag.ValidRows = validRows
	if c.opts.Identifier == IdentifierRollNumber && validRows == 0 {
		return nil, diag, &NoValidRowsError{File: file.Name}
	}

	progress.emit(ProgressEvent{FileIndex: ordinal, FileName: file.Name, Stage: StageSelect})
	scoreIdx := SelectScoreColumns(table, idIdx, c.opts)
	if len(scoreIdx) == 0 {
		return nil, diag, &NoScoreColumnsError{File: file.Name}
	}
	for _, idx := range scoreIdx {
		diag.ScoreColumns = append(diag.ScoreColumns, table.Columns[idx].Name)
	}

	progress.emit(ProgressEvent{FileIndex: ordinal, FileName: file.Name, Stage: StageProject})
	wt := BuildWeeklyTable(table, idIdx, scoreIdx, ordinal, c.opts.Labels)

	c.logger.DebugContext(ctx, "file processed",
		slog.String("file", file.Name),
		slog.Int("ordinal", ordinal),
		slog.String("identifier", wt.IdentifierName),
		slog.Int("rows_original", diag.OriginalRows),
		slog.Int("rows_valid", diag.ValidRows),
		slog.Int("score_columns", len(scoreIdx)))

	return wt, diag, nil
}
