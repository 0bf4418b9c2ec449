package analysis

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/anorak1709/research-usecase-generator/internal/config"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/logfields"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
	"github.com/anorak1709/research-usecase-generator/internal/retry"
)

// maxResponseBytes bounds the analyzer response body.
const maxResponseBytes = 16 << 20

// Submitter produces a markdown report for an upload.
type Submitter interface {
	Submit(ctx context.Context, u Upload) (string, error)
}

// Client talks to the agent pipeline backend. It posts the paper as
// multipart/form-data with "file" and "industry" fields and expects
// {"report": "..."} back.
type Client struct {
	url      string
	http     *http.Client
	policy   retry.Policy
	recorder metrics.Recorder
	logger   *slog.Logger
}

// ClientOption customises a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(h *http.Client) ClientOption { return func(c *Client) { c.http = h } }

// WithClientRecorder reports retries to r.
func WithClientRecorder(r metrics.Recorder) ClientOption {
	return func(c *Client) { c.recorder = metrics.OrNoop(r) }
}

// WithClientLogger sets the logger.
func WithClientLogger(l *slog.Logger) ClientOption { return func(c *Client) { c.logger = l } }

// NewClient builds a client for the configured analyzer.
func NewClient(cfg config.AnalyzerConfig, opts ...ClientOption) *Client {
	c := &Client{
		url:      cfg.URL,
		http:     &http.Client{Timeout: cfg.Timeout},
		policy:   retry.FromConfig(cfg.Retry),
		recorder: metrics.NoopRecorder{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type analyzeResponse struct {
	Report *string `json:"report"`
}

// Submit sends u to the analyzer, retrying transient failures.
func (c *Client) Submit(ctx context.Context, u Upload) (string, error) {
	var report string
	err := c.policy.Do(ctx, func(attempt int) error {
		if attempt > 0 {
			c.recorder.IncAnalyzerRetry()
			c.logger.Warn("Retrying analyzer request", logfields.Attempt(attempt), logfields.File(u.Filename))
		}
		var err error
		report, err = c.submitOnce(ctx, u)
		return err
	})
	return report, err
}

func (c *Client) submitOnce(ctx context.Context, u Upload) (string, error) {
	body, contentType, err := encodeUpload(u)
	if err != nil {
		return "", ferrors.WrapError(err, ferrors.CategoryInternal, "failed to encode upload").Build()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, body)
	if err != nil {
		return "", ferrors.ConfigError("invalid analyzer url").WithCause(err).WithContext("url", c.url).Build()
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	c.logger.Debug("Submitting paper to analyzer",
		logfields.File(u.Filename),
		slog.String("size", humanize.Bytes(uint64(u.Size()))),
		slog.String("url", c.url))

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", ferrors.UpstreamError("analyzer request failed").
			WithCause(err).WithContext("url", c.url).Build()
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return "", ferrors.UpstreamError("failed to read analyzer response").WithCause(err).Build()
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b := ferrors.UpstreamError(fmt.Sprintf("analyzer returned %s", resp.Status)).
			WithContext("status", resp.StatusCode)
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			b = b.WithRetry(ferrors.RetryNever)
		}
		return "", b.Build()
	}

	var decoded analyzeResponse
	if err := json.Unmarshal(data, &decoded); err != nil {
		return "", ferrors.UpstreamError("analyzer response is not valid JSON").
			WithCause(err).WithRetry(ferrors.RetryNever).Build()
	}
	if decoded.Report == nil {
		return "", ferrors.UpstreamError("analyzer response has no report").
			WithRetry(ferrors.RetryNever).Build()
	}

	c.logger.Info("Analyzer returned report",
		logfields.File(u.Filename),
		logfields.Duration(time.Since(start)),
		slog.String("report_size", humanize.Bytes(uint64(len(*decoded.Report)))))
	return *decoded.Report, nil
}

func encodeUpload(u Upload) (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", u.Filename)
	if err != nil {
		return nil, "", err
	}
	if _, err := part.Write(u.Content); err != nil {
		return nil, "", err
	}
	if err := w.WriteField("industry", u.Industry); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}
