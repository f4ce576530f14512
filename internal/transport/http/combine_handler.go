// Package http contains the chi handlers that expose the combine pipeline
// to the upload UI. The UI itself lives elsewhere; this layer only accepts
// raw files and hands back the combined report plus diagnostics.
package http

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	"combinercli/internal/combiner"
	"combinercli/internal/config"
	apierrors "combinercli/internal/errors"
	"combinercli/internal/exporter"
	"combinercli/internal/services"
)

// CombineHandler handles batch upload, combine and report download.
type CombineHandler struct {
	service      *services.ReportService
	cfg          config.CombineConfig
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
}

// NewCombineHandler creates the handler.
func NewCombineHandler(service *services.ReportService, cfg config.CombineConfig, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *CombineHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CombineHandler{
		service:      service,
		cfg:          cfg,
		logger:       logger.With(slog.String("component", "combine_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
	}
}

// Routes returns the combine routes.
func (h *CombineHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Post("/", h.Combine)
	r.Route("/{batchID}", func(r chi.Router) {
		r.Use(h.BatchCtx)
		r.Get("/report.xlsx", h.DownloadXLSX)
		r.Get("/report.csv", h.DownloadCSV)
	})
	return r
}

// CombineResponse is the JSON answer to a successful combine request.
type CombineResponse struct {
	BatchID     string                    `json:"batch_id"`
	Diagnostics []combiner.FileDiagnostic `json:"diagnostics"`
	Summary     combiner.Summary          `json:"summary"`
	Downloads   map[string]string         `json:"downloads"`
}

// Combine accepts a multipart batch of weekly files, runs the pipeline and
// responds with the per-file diagnostics and download links. Any file
// error fails the whole request; nothing partial is kept.
func (h *CombineHandler) Combine(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadBytes())
	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes()); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrPayloadTooLarge)
		return
	}
	defer r.MultipartForm.RemoveAll()

	parts := r.MultipartForm.File["files"]
	if len(parts) == 0 {
		h.errorHandler.HandleError(w, r, apierrors.ErrMissingFiles)
		return
	}
	if len(parts) > h.cfg.MaxFiles {
		h.errorHandler.HandleError(w, r, apierrors.ErrTooManyFiles)
		return
	}

	params := services.CombineParams{
		IdentifierPolicy: r.FormValue("identifier_policy"),
		ScorePolicy:      r.FormValue("score_policy"),
	}
	if err := h.validate.Struct(params); err != nil {
		h.errorHandler.HandleError(w, r, apierrors.ErrValidation("policy", err.Error()))
		return
	}

	maxFileBytes := int64(h.cfg.MaxFileSizeMB) << 20
	files := make([]combiner.InputFile, 0, len(parts))
	for _, part := range parts {
		if part.Size > maxFileBytes {
			h.errorHandler.HandleError(w, r, apierrors.NewWithDetails(
				http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
				fmt.Sprintf("File %q exceeds the %d MB limit", part.Filename, h.cfg.MaxFileSizeMB),
				part.Filename))
			return
		}
		f, err := part.Open()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			h.errorHandler.HandleError(w, r, err)
			return
		}
		files = append(files, combiner.InputFile{Name: part.Filename, Data: data})
	}

	batch, err := h.service.Combine(r.Context(), files, params)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	render.Status(r, http.StatusOK)
	render.JSON(w, r, CombineResponse{
		BatchID:     batch.ID,
		Diagnostics: batch.Result.Diagnostics,
		Summary:     batch.Result.Summary,
		Downloads: map[string]string{
			"xlsx": fmt.Sprintf("/api/combine/%s/report.xlsx", batch.ID),
			"csv":  fmt.Sprintf("/api/combine/%s/report.csv", batch.ID),
		},
	})
}

type batchKeyType struct{}

var batchKey = batchKeyType{}

// BatchCtx loads the batch named in the URL into the request context.
func (h *CombineHandler) BatchCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		batch, ok := h.service.Batch(chi.URLParam(r, "batchID"))
		if !ok {
			h.errorHandler.HandleError(w, r, apierrors.ErrBatchNotFound)
			return
		}
		ctx := contextWithBatch(r.Context(), batch)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// DownloadXLSX serves the styled workbook.
func (h *CombineHandler) DownloadXLSX(w http.ResponseWriter, r *http.Request) {
	batch := batchFromContext(r.Context())
	w.Header().Set("Content-Type", exporter.ContentTypeXLSX)
	w.Header().Set("Content-Disposition", `attachment; filename="Monthly_Report.xlsx"`)
	w.Write(batch.XLSX)
}

// DownloadCSV serves the delimited-text form.
func (h *CombineHandler) DownloadCSV(w http.ResponseWriter, r *http.Request) {
	batch := batchFromContext(r.Context())
	w.Header().Set("Content-Type", exporter.ContentTypeCSV)
	w.Header().Set("Content-Disposition", `attachment; filename="Monthly_Report.csv"`)
	w.Write(batch.CSV)
}
