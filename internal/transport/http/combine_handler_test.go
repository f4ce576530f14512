package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"combinercli/internal/config"
	apierrors "combinercli/internal/errors"
	"combinercli/internal/exporter"
	"combinercli/internal/services"
)

func testHandler(t *testing.T) *CombineHandler {
	t.Helper()

	cfg := config.CombineConfig{
		IdentifierPolicy: "roll",
		ScorePolicy:      "serial-aware",
		RollPattern:      `^\d{6}$`,
		MatchThreshold:   0.70,
		ColumnWidthCap:   20,
		MaxFiles:         5,
		MaxFileSizeMB:    1,
		ResultTTL:        time.Minute,
	}
	service := services.NewReportService(cfg, nil, nil)
	return NewCombineHandler(service, cfg, nil, apierrors.NewErrorHandler(nil))
}

func multipartBody(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, mw.WriteField(name, value))
	}
	for name, content := range files {
		fw, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = fw.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func postCombine(t *testing.T, h *CombineHandler, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	body, contentType := multipartBody(t, fields, files)
	r := httptest.NewRequest(http.MethodPost, "/", body)
	r.Header.Set("Content-Type", contentType)
	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, r)
	return w
}

func TestCombineEndpointSuccess(t *testing.T) {
	h := testHandler(t)

	w := postCombine(t, h, nil, map[string]string{
		"week1.csv": "Roll No,Score\n100001,85\n100002,90\n",
		"week2.csv": "Roll No,Score\n100001,78\n100003,88\n",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp CombineResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.BatchID)
	assert.Len(t, resp.Diagnostics, 2)
	assert.Equal(t, 3, resp.Summary.TotalStudents)
	assert.Contains(t, resp.Downloads["xlsx"], resp.BatchID)
}

func TestCombineEndpointNoFiles(t *testing.T) {
	h := testHandler(t)

	w := postCombine(t, h, map[string]string{"identifier_policy": "roll"}, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCombineEndpointBadPolicy(t *testing.T) {
	h := testHandler(t)

	w := postCombine(t, h, map[string]string{"identifier_policy": "psychic"},
		map[string]string{"week1.csv": "Roll No,Score\n100001,85\n"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCombineEndpointFileErrorNamesFile(t *testing.T) {
	h := testHandler(t)

	w := postCombine(t, h, nil, map[string]string{
		"week1.csv": "Roll No,S.No\n100001,1\n100002,2\n",
	})

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, apierrors.TypeNoScoreColumns, body["type"])
	assert.Equal(t, "week1.csv", body["file_name"])
}

func TestDownloadRoundTrip(t *testing.T) {
	h := testHandler(t)

	w := postCombine(t, h, nil, map[string]string{
		"week1.csv": "Roll No,Score\n100001,85\n",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp CombineResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	dl := httptest.NewRecorder()
	h.Routes().ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/"+resp.BatchID+"/report.xlsx", nil))
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, exporter.ContentTypeXLSX, dl.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(dl.Body.Bytes(), []byte("PK")))

	dl = httptest.NewRecorder()
	h.Routes().ServeHTTP(dl, httptest.NewRequest(http.MethodGet, "/"+resp.BatchID+"/report.csv", nil))
	require.Equal(t, http.StatusOK, dl.Code)
	assert.Equal(t, exporter.ContentTypeCSV, dl.Header().Get("Content-Type"))
}

func TestDownloadUnknownBatch(t *testing.T) {
	h := testHandler(t)

	w := httptest.NewRecorder()
	h.Routes().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope/report.csv", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
