package errors

import (
	"bytes"
	"encoding/json"
	stdErrors "errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHTTPErrorAdapter_StatusCodeFor(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{name: "nil error", err: nil, expected: http.StatusOK},
		{name: "validation", err: ValidationError("missing file").Build(), expected: http.StatusBadRequest},
		{name: "not found", err: NotFoundError("no report").Build(), expected: http.StatusNotFound},
		{name: "too large", err: TooLargeError("upload too large").Build(), expected: http.StatusRequestEntityTooLarge},
		{name: "upstream", err: UpstreamError("analyzer down").Build(), expected: http.StatusBadGateway},
		{name: "storage", err: StorageError("insert failed").Build(), expected: http.StatusInternalServerError},
		{name: "runtime", err: RuntimeError("shutting down").Build(), expected: http.StatusServiceUnavailable},
		{name: "unclassified", err: stdErrors.New("boom"), expected: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, adapter.StatusCodeFor(tt.err))
		})
	}
}

func TestHTTPErrorAdapter_WriteErrorResponse(t *testing.T) {
	adapter := NewHTTPErrorAdapter(slog.Default())

	err := UpstreamError("analyzer unreachable").WithContext("url", "http://x").Build()
	req := httptest.NewRequest(http.MethodPost, "/api/analyze", nil)
	rec := httptest.NewRecorder()

	adapter.WriteErrorResponse(rec, req, err)

	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body HTTPErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "analyzer unreachable", body.Error)
	require.Equal(t, "upstream", body.Code)
	require.True(t, body.Retryable)
	require.Equal(t, "http://x", body.Details["url"])
}

func TestHTTPErrorAdapter_UnclassifiedPayload(t *testing.T) {
	adapter := NewHTTPErrorAdapter(nil)
	resp := adapter.FormatErrorResponse(stdErrors.New("raw failure"))
	require.Equal(t, HTTPErrorResponse{Error: "raw failure"}, resp)
}

func TestHTTPErrorAdapter_LogsErrorContext(t *testing.T) {
	var logs bytes.Buffer
	adapter := NewHTTPErrorAdapter(slog.New(slog.NewTextHandler(&logs, nil)))

	err := StorageError("save report").WithContext("analysis_id", "a1").Build()
	req := httptest.NewRequest(http.MethodGet, "/api/reports/a1", nil)
	adapter.WriteErrorResponse(httptest.NewRecorder(), req, err)

	require.Contains(t, logs.String(), `msg="save report"`)
	require.Contains(t, logs.String(), "status=500")
	require.Contains(t, logs.String(), "category=storage")
	require.Contains(t, logs.String(), "analysis_id=a1")
}
