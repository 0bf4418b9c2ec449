package analysis

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/anorak1709/research-usecase-generator/internal/config"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
)

func testAnalyzerConfig(url string, retries int) config.AnalyzerConfig {
	return config.AnalyzerConfig{
		URL:     url,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			Mode:       config.RetryBackoffFixed,
			Initial:    time.Millisecond,
			Max:        time.Millisecond,
			MaxRetries: &retries,
		},
	}
}

func TestClientSubmitSendsMultipart(t *testing.T) {
	var gotName, gotIndustry, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		f, hdr, err := r.FormFile("file")
		require.NoError(t, err)
		defer f.Close()
		data, _ := io.ReadAll(f)
		gotName, gotBody = hdr.Filename, string(data)
		gotIndustry = r.FormValue("industry")
		_ = json.NewEncoder(w).Encode(map[string]string{"report": "# Done"})
	}))
	defer srv.Close()

	c := NewClient(testAnalyzerConfig(srv.URL, 0))
	got, err := c.Submit(t.Context(), Upload{Filename: "paper.pdf", Industry: "Fintech", Content: []byte("%PDF")})

	require.NoError(t, err)
	require.Equal(t, "# Done", got)
	require.Equal(t, "paper.pdf", gotName)
	require.Equal(t, "Fintech", gotIndustry)
	require.Equal(t, "%PDF", gotBody)
}

type retryCounter struct {
	metrics.NoopRecorder
	retries atomic.Int32
}

func (r *retryCounter) IncAnalyzerRetry() { r.retries.Add(1) }

func TestClientRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"report":"ok"}`))
	}))
	defer srv.Close()

	rec := &retryCounter{}
	c := NewClient(testAnalyzerConfig(srv.URL, 2), WithClientRecorder(rec))
	got, err := c.Submit(t.Context(), Upload{Filename: "a.pdf", Content: []byte("x")})

	require.NoError(t, err)
	require.Equal(t, "ok", got)
	require.EqualValues(t, 3, calls.Load())
	require.EqualValues(t, 2, rec.retries.Load())
}

func TestClientDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnprocessableEntity)
	}))
	defer srv.Close()

	c := NewClient(testAnalyzerConfig(srv.URL, 3))
	_, err := c.Submit(t.Context(), Upload{Filename: "a.pdf", Content: []byte("x")})

	require.Error(t, err)
	require.EqualValues(t, 1, calls.Load())
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryUpstream, classified.Category())
	require.False(t, ferrors.IsRetryable(err))
}

func TestClientRejectsBadResponses(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: "<html>"},
		{name: "missing report", body: `{"result":"x"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewClient(testAnalyzerConfig(srv.URL, 2)).Submit(t.Context(), Upload{Filename: "a", Content: []byte("x")})
			require.Error(t, err)
			require.False(t, ferrors.IsRetryable(err))
		})
	}
}

func TestClientEmptyReportIsAccepted(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"report":""}`))
	}))
	defer srv.Close()

	got, err := NewClient(testAnalyzerConfig(srv.URL, 0)).Submit(t.Context(), Upload{Filename: "a", Content: []byte("x")})
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestClientUnreachableIsRetryableUpstream(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := NewClient(testAnalyzerConfig(url, 0)).Submit(t.Context(), Upload{Filename: "a", Content: []byte("x")})
	require.Error(t, err)
	classified, ok := ferrors.AsClassified(err)
	require.True(t, ok)
	require.Equal(t, ferrors.CategoryUpstream, classified.Category())
}
