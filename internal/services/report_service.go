// Package services orchestrates the combine pipeline for the transport
// layer: it runs batches, exports both output formats and keeps finished
// batches in memory just long enough for the UI to download them. Nothing
// is persisted beyond that window.
package services

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"combinercli/internal/combiner"
	"combinercli/internal/config"
	"combinercli/internal/exporter"
)

// Batch is one finished combine run with its pre-rendered exports.
type Batch struct {
	ID        string
	CreatedAt time.Time
	Result    *combiner.Result
	XLSX      []byte
	CSV       []byte
}

// CombineParams optionally overrides the configured policies for one
// request. Empty fields keep the configured default.
type CombineParams struct {
	IdentifierPolicy string `validate:"omitempty,oneof=roll keyword"`
	ScorePolicy      string `validate:"omitempty,oneof=serial-aware first-numeric"`
}

// ReportService runs combine batches and caches the results in memory.
type ReportService struct {
	cfg      config.CombineConfig
	logger   *slog.Logger
	exporter *exporter.Exporter
	progress combiner.ProgressFunc

	mu      sync.Mutex
	batches map[string]*Batch
}

// NewReportService creates the service. progress may be nil; when set it
// receives every pipeline event (the web app wires the websocket hub in
// here).
func NewReportService(cfg config.CombineConfig, logger *slog.Logger, progress combiner.ProgressFunc) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		cfg:      cfg,
		logger:   logger.With(slog.String("component", "report_service")),
		exporter: exporter.New(cfg.ColumnWidthCap),
		progress: progress,
		batches:  make(map[string]*Batch),
	}
}

// Combine runs the whole pipeline over one uploaded batch and caches the
// result for download. Fail-fast: the first file error aborts the batch
// and nothing is cached.
func (s *ReportService) Combine(ctx context.Context, files []combiner.InputFile, params CombineParams) (*Batch, error) {
	opts, err := s.options(params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := combiner.New(opts, s.logger).Combine(ctx, files, s.progress)
	if err != nil {
		return nil, err
	}

	xlsxBytes, err := s.exporter.WriteXLSX(result.Report)
	if err != nil {
		return nil, err
	}
	csvBytes, err := s.exporter.WriteCSV(result.Report)
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		Result:    result,
		XLSX:      xlsxBytes,
		CSV:       csvBytes,
	}

	s.mu.Lock()
	s.evictExpiredLocked()
	s.batches[batch.ID] = batch
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "combine batch finished",
		slog.String("batch_id", batch.ID),
		slog.Int("files", result.Summary.TotalFiles),
		slog.Int("students", result.Summary.TotalStudents),
		slog.Duration("elapsed", time.Since(start)))

	return batch, nil
}

// Batch returns a cached batch by ID, if it has not expired.
func (s *ReportService) Batch(id string) (*Batch, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpiredLocked()
	batch, ok := s.batches[id]
	return batch, ok
}

// options merges per-request overrides into the configured policy set.
func (s *ReportService) options(params CombineParams) (combiner.Options, error) {
	cfg := s.cfg
	if params.IdentifierPolicy != "" {
		cfg.IdentifierPolicy = params.IdentifierPolicy
	}
	if params.ScorePolicy != "" {
		cfg.ScorePolicy = params.ScorePolicy
	}
	return cfg.CombinerOptions()
}

func (s *ReportService) evictExpiredLocked() {
	if s.cfg.ResultTTL <= 0 {
		return
	}
	cutoff := time.Now().Add(-s.cfg.ResultTTL)
	for id, batch := range s.batches {
		if batch.CreatedAt.Before(cutoff) {
			delete(s.batches, id)
		}
	}
}
