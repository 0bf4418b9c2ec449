package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/server/responses"
	"github.com/anorak1709/research-usecase-generator/internal/version"
)

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MonitoringHandlers contains monitoring-related HTTP handlers.
type MonitoringHandlers struct {
	startTime    time.Time
	storage      Pinger
	errorAdapter *errors.HTTPErrorAdapter
}

// NewMonitoringHandlers creates the monitoring handlers. storage may be nil.
func NewMonitoringHandlers(startTime time.Time, storage Pinger, adapter *errors.HTTPErrorAdapter) *MonitoringHandlers {
	return &MonitoringHandlers{startTime: startTime, storage: storage, errorAdapter: adapter}
}

// HandleHealthCheck reports liveness and storage reachability. An unreachable
// store turns the response into a 503.
func (h *MonitoringHandlers) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	health := &responses.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC(),
		Version:   version.Resolved(),
		Uptime:    time.Since(h.startTime).Seconds(),
	}
	status := http.StatusOK
	if h.storage != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.storage.Ping(ctx); err != nil {
			health.Status = "degraded"
			health.Storage = err.Error()
			status = http.StatusServiceUnavailable
		} else {
			health.Storage = "ok"
		}
	}

	respond(w, r, h.errorAdapter, status, health, "health")
}
