// Package responses defines the JSON bodies returned by the HTTP API.
package responses

import (
	"encoding/json"
	"time"

	"github.com/anorak1709/research-usecase-generator/internal/markdown"
	"github.com/anorak1709/research-usecase-generator/internal/report"
	"github.com/anorak1709/research-usecase-generator/internal/store"
)

// AnalyzeResponse is returned by POST /api/analyze.
type AnalyzeResponse struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Filename    string          `json:"filename"`
	Industry    string          `json:"industry,omitempty"`
	Summary     string          `json:"summary"`
	Report      string          `json:"report"`
	Document    report.Document `json:"document"`
	Fingerprint string          `json:"fingerprint"`
	CreatedAt   time.Time       `json:"created_at"`
}

// RenderResponse is returned by POST /api/render.
type RenderResponse struct {
	Summary  string             `json:"summary"`
	Document report.Document    `json:"document"`
	Outline  []markdown.Heading `json:"outline"`
	Links    []markdown.Link    `json:"links"`
	HTML     string             `json:"html,omitempty"`
}

// ReportListResponse is returned by GET /api/reports.
type ReportListResponse struct {
	Reports []store.Report `json:"reports"`
	Count   int            `json:"count"`
}

// ReportResponse is returned by GET /api/reports/{id}.
type ReportResponse struct {
	store.Report
	Summary  string          `json:"summary"`
	Document report.Document `json:"document"`
}

// EventEntry is one journaled analysis event.
type EventEntry struct {
	Type      string          `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	LogLine   string          `json:"log_line,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

// EventsResponse is returned by GET /api/reports/{id}/events.
type EventsResponse struct {
	AnalysisID string       `json:"analysis_id"`
	Events     []EventEntry `json:"events"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version"`
	Uptime    float64   `json:"uptime"`
	Storage   string    `json:"storage,omitempty"`
}
