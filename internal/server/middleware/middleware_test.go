package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
)

type requestRecorder struct {
	metrics.NoopRecorder
	mu     sync.Mutex
	routes []string
	codes  []int
}

func (r *requestRecorder) ObserveHTTPRequest(route string, status int, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.routes = append(r.routes, route)
	r.codes = append(r.codes, status)
}

func TestChainRecordsRoutePattern(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	rec := &requestRecorder{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/reports/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := Chain(logger, ferrors.NewHTTPErrorAdapter(logger), rec)(mux)

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/reports/abc", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	require.Equal(t, []string{"GET /api/reports/{id}", "unmatched"}, rec.routes)
	require.Equal(t, []int{http.StatusTeapot, http.StatusNotFound}, rec.codes)
	require.Contains(t, logs.String(), "status=418")
}

func TestChainRecoversPanics(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	h := Chain(logger, ferrors.NewHTTPErrorAdapter(logger), nil)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/render", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	var body ferrors.HTTPErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "internal server error", body.Error)
	require.Equal(t, string(ferrors.CategoryInternal), body.Code)
}

func TestChainAssignsRequestID(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	h := Chain(logger, ferrors.NewHTTPErrorAdapter(logger), nil)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	generated := w.Header().Get(RequestIDHeader)
	require.Len(t, generated, 36)
	require.Contains(t, logs.String(), "request_id="+generated)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "caller-42")
	w = httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, "caller-42", w.Header().Get(RequestIDHeader))
	require.Contains(t, logs.String(), "request_id=caller-42")
}
