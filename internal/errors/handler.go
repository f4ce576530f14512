package errors

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"combinercli/internal/combiner"
	"combinercli/internal/infrastructure"
)

// Problem type URIs following RFC 7807.
const (
	TypeValidation      = "/errors/validation"
	TypeNotFound        = "/errors/not-found"
	TypeRateLimit       = "/errors/rate-limit"
	TypeInternal        = "/errors/internal"
	TypeTimeout         = "/errors/timeout"
	TypePayloadTooLarge = "/errors/payload-too-large"

	// Combine pipeline problem types; every one of them is file-scoped
	// and aborts the whole batch.
	TypeFileUnparsable      = "/errors/combine/file-unparsable"
	TypeIdentifierNotFound  = "/errors/combine/identifier-not-found"
	TypeNoValidRows         = "/errors/combine/no-valid-rows"
	TypeNoScoreColumns      = "/errors/combine/no-score-columns"
)

// ErrorHandler provides centralized error handling for the HTTP layer.
type ErrorHandler struct {
	logger *slog.Logger
}

// NewErrorHandler creates a new error handler.
func NewErrorHandler(logger *slog.Logger) *ErrorHandler {
	if logger == nil {
		logger = infrastructure.GetLogger()
	}
	return &ErrorHandler{
		logger: logger.With(slog.String("component", "error_handler")),
	}
}

// HandleError converts any error to RFC 7807 format and responds.
func (h *ErrorHandler) HandleError(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		return
	}

	traceID := infrastructure.GetTraceID(r.Context())

	h.logger.ErrorContext(r.Context(), "request failed",
		slog.String("error", err.Error()),
		slog.String("method", r.Method),
		slog.String("path", r.URL.Path))

	problem := h.ErrorToProblem(err, r)
	if traceID != "" {
		problem.WithExtension("trace_id", traceID)
	}
	render.Render(w, r, problem)
}

// ErrorToProblem converts an error to RFC 7807 Problem Details. Combine
// pipeline errors keep their file-scoped detail so the user sees exactly
// which upload broke the batch.
func (h *ErrorHandler) ErrorToProblem(err error, r *http.Request) *ProblemDetails {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return NewProblemDetails(http.StatusGatewayTimeout, TypeTimeout,
			"Request Timeout", "The request took too long to process and was cancelled", r.URL.Path)
	}

	var parseErr *combiner.ParseError
	if errors.As(err, &parseErr) {
		return NewProblemDetails(http.StatusBadRequest, TypeFileUnparsable,
			"File Could Not Be Parsed", parseErr.Error(), r.URL.Path).
			WithExtension("file_name", parseErr.File)
	}

	var idErr *combiner.IdentifierNotFoundError
	if errors.As(err, &idErr) {
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeIdentifierNotFound,
			"Identifier Column Not Found", idErr.Error(), r.URL.Path).
			WithExtension("file_name", idErr.File)
	}

	var rowsErr *combiner.NoValidRowsError
	if errors.As(err, &rowsErr) {
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeNoValidRows,
			"No Valid Rows", rowsErr.Error(), r.URL.Path).
			WithExtension("file_name", rowsErr.File)
	}

	var scoreErr *combiner.NoScoreColumnsError
	if errors.As(err, &scoreErr) {
		return NewProblemDetails(http.StatusUnprocessableEntity, TypeNoScoreColumns,
			"No Score Columns", scoreErr.Error(), r.URL.Path).
			WithExtension("file_name", scoreErr.File)
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return h.apiErrorToProblem(apiErr, r)
	}

	return NewProblemDetails(http.StatusInternalServerError, TypeInternal,
		"Internal Server Error", "An unexpected error occurred", r.URL.Path)
}

func (h *ErrorHandler) apiErrorToProblem(apiErr *APIError, r *http.Request) *ProblemDetails {
	problemType := TypeInternal
	switch apiErr.StatusCode {
	case http.StatusBadRequest:
		problemType = TypeValidation
	case http.StatusNotFound:
		problemType = TypeNotFound
	case http.StatusTooManyRequests:
		problemType = TypeRateLimit
	case http.StatusRequestEntityTooLarge:
		problemType = TypePayloadTooLarge
	}

	problem := NewProblemDetails(apiErr.StatusCode, problemType,
		http.StatusText(apiErr.StatusCode), apiErr.Message, r.URL.Path).
		WithExtension("error_code", apiErr.ErrorCode)
	if apiErr.Details != nil {
		problem.WithExtension("details", apiErr.Details)
	}
	return problem
}
