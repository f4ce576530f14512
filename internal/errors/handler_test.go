package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combinercli/internal/combiner"
)

func handleAndDecode(t *testing.T, err error) (int, map[string]any) {
	t.Helper()

	h := NewErrorHandler(nil)
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/api/combine", nil)
	h.HandleError(w, r, err)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w.Code, body
}

func TestHandleErrorParseError(t *testing.T) {
	code, body := handleAndDecode(t, &combiner.ParseError{File: "week1.csv", Err: fmt.Errorf("bad bytes")})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, TypeFileUnparsable, body["type"])
	assert.Equal(t, "week1.csv", body["file_name"])
	assert.Contains(t, body["detail"], "week1.csv")
}

func TestHandleErrorPipelineErrors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantType string
	}{
		{"identifier", &combiner.IdentifierNotFoundError{File: "a.csv", Policy: combiner.IdentifierRollNumber}, TypeIdentifierNotFound},
		{"rows", &combiner.NoValidRowsError{File: "a.csv"}, TypeNoValidRows},
		{"scores", &combiner.NoScoreColumnsError{File: "a.csv"}, TypeNoScoreColumns},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, body := handleAndDecode(t, tt.err)
			assert.Equal(t, http.StatusUnprocessableEntity, code)
			assert.Equal(t, tt.wantType, body["type"])
			assert.Equal(t, "a.csv", body["file_name"])
		})
	}
}

func TestHandleErrorAPIError(t *testing.T) {
	code, body := handleAndDecode(t, ErrBatchNotFound)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, TypeNotFound, body["type"])
	assert.Equal(t, "BATCH_NOT_FOUND", body["error_code"])
}

func TestHandleErrorUnknown(t *testing.T) {
	code, body := handleAndDecode(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, code)
	assert.Equal(t, TypeInternal, body["type"])
	// internals are not leaked
	assert.NotContains(t, body["detail"], "boom")
}

func TestValidationErrorDetails(t *testing.T) {
	code, body := handleAndDecode(t, ErrValidation("files", "at least one file required"))

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, TypeValidation, body["type"])
	details, ok := body["details"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "files", details["field"])
}
