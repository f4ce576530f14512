package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"combinercli/internal/combiner"
	"combinercli/internal/config"
	"combinercli/internal/exporter"
	"combinercli/internal/infrastructure"
)

func main() {
	outDir := flag.String("out", ".", "directory to write Monthly_Report.xlsx and Monthly_Report.csv into")
	identifierPolicy := flag.String("identifier-policy", "", "identifier detection policy: roll | keyword (defaults to config)")
	scorePolicy := flag.String("score-policy", "", "score column policy: serial-aware | first-numeric (defaults to config)")
	csvOnly := flag.Bool("csv-only", false, "write only the CSV report")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] file1.csv file2.xlsx ...\n\n", filepath.Base(os.Args[0]))
		fmt.Fprintln(flag.CommandLine.Output(), "Merges weekly score files into one monthly report, ordered as given.")
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	if *identifierPolicy != "" {
		cfg.Combine.IdentifierPolicy = *identifierPolicy
	}
	if *scorePolicy != "" {
		cfg.Combine.ScorePolicy = *scorePolicy
	}
	opts, err := cfg.Combine.CombinerOptions()
	if err != nil {
		logger.Error("invalid combine options", slog.String("error", err.Error()))
		os.Exit(1)
	}

	files := make([]combiner.InputFile, 0, flag.NArg())
	for _, path := range flag.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Error("failed to read input file",
				slog.String("file", path),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
		files = append(files, combiner.InputFile{Name: filepath.Base(path), Data: data})
	}

	logger.Info("combining weekly files",
		slog.Int("files", len(files)),
		slog.String("identifier_policy", cfg.Combine.IdentifierPolicy),
		slog.String("score_policy", cfg.Combine.ScorePolicy))

	result, err := combiner.New(opts, logger).Combine(context.Background(), files, func(ev combiner.ProgressEvent) {
		if ev.FileName != "" {
			logger.Debug("progress",
				slog.Int("file_index", ev.FileIndex),
				slog.String("file", ev.FileName),
				slog.String("stage", string(ev.Stage)))
		}
	})
	if err != nil {
		logger.Error("combine failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	for _, diag := range result.Diagnostics {
		logger.Info("file processed",
			slog.String("file", diag.FileName),
			slog.Int("rows_original", diag.OriginalRows),
			slog.Int("rows_valid", diag.ValidRows),
			slog.String("score_columns", strings.Join(diag.ScoreColumns, ", ")))
	}

	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		logger.Error("failed to create output directory", slog.String("error", err.Error()))
		os.Exit(1)
	}

	exp := exporter.New(cfg.Combine.ColumnWidthCap)

	csvData, err := exp.WriteCSV(result.Report)
	if err != nil {
		logger.Error("failed to render csv report", slog.String("error", err.Error()))
		os.Exit(1)
	}
	csvPath := filepath.Join(*outDir, "Monthly_Report.csv")
	if err := os.WriteFile(csvPath, csvData, 0o644); err != nil {
		logger.Error("failed to write csv report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if !*csvOnly {
		xlsxData, err := exp.WriteXLSX(result.Report)
		if err != nil {
			logger.Error("failed to render xlsx report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		xlsxPath := filepath.Join(*outDir, "Monthly_Report.xlsx")
		if err := os.WriteFile(xlsxPath, xlsxData, 0o644); err != nil {
			logger.Error("failed to write xlsx report", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("report written", slog.String("path", xlsxPath))
	}
	logger.Info("report written", slog.String("path", csvPath))

	logger.Info("combine complete",
		slog.Int("students", result.Summary.TotalStudents),
		slog.Int("files", result.Summary.TotalFiles),
		slog.Int("columns", result.Summary.TotalColumns))
}
