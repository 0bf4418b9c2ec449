// Package httpserver wires the API handlers into an http.Server.
package httpserver

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/anorak1709/research-usecase-generator/internal/config"
	"github.com/anorak1709/research-usecase-generator/internal/events"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
	handlers "github.com/anorak1709/research-usecase-generator/internal/server/handlers"
	smw "github.com/anorak1709/research-usecase-generator/internal/server/middleware"
	"github.com/anorak1709/research-usecase-generator/internal/store"
)

// Deps are the runtime collaborators of the server.
type Deps struct {
	Analyzer handlers.Analyzer
	Store    store.Store
	// Bus feeds /api/events. Optional.
	Bus *events.Bus
	// Registry is served on /metrics. Optional.
	Registry *prometheus.Registry
	Recorder metrics.Recorder
	Logger   *slog.Logger
}

// Server manages the API listener.
type Server struct {
	cfg          config.ServerConfig
	deps         Deps
	logger       *slog.Logger
	errorAdapter *ferrors.HTTPErrorAdapter
	startTime    time.Time

	analyzeHandlers    *handlers.AnalyzeHandlers
	renderHandlers     *handlers.RenderHandlers
	reportHandlers     *handlers.ReportHandlers
	monitoringHandlers *handlers.MonitoringHandlers
	streamHandlers     *handlers.StreamHandlers

	mu       sync.Mutex
	srv      *http.Server
	listener net.Listener
}

// New constructs the server. Nothing listens until Start.
func New(cfg config.ServerConfig, reportCfg config.ReportConfig, deps Deps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	adapter := ferrors.NewHTTPErrorAdapter(logger)

	s := &Server{
		cfg:          cfg,
		deps:         deps,
		logger:       logger,
		errorAdapter: adapter,
		startTime:    time.Now(),
	}
	s.analyzeHandlers = handlers.NewAnalyzeHandlers(deps.Analyzer, cfg.MaxUploadBytes, adapter)
	s.renderHandlers = handlers.NewRenderHandlers(reportCfg.SummaryHeading, cfg.MaxUploadBytes, adapter)
	s.reportHandlers = handlers.NewReportHandlers(deps.Store, reportCfg.SummaryHeading, adapter)
	var pinger handlers.Pinger
	if deps.Store != nil {
		pinger = deps.Store
	}
	s.monitoringHandlers = handlers.NewMonitoringHandlers(s.startTime, pinger, adapter)
	if deps.Bus != nil {
		s.streamHandlers = handlers.NewStreamHandlers(deps.Bus)
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/render", s.renderHandlers.HandleRender)
	if s.deps.Analyzer != nil {
		mux.HandleFunc("POST /api/analyze", s.analyzeHandlers.HandleAnalyze)
	}
	if s.deps.Store != nil {
		mux.HandleFunc("GET /api/reports", s.reportHandlers.HandleList)
		mux.HandleFunc("GET /api/reports/{id}", s.reportHandlers.HandleGet)
		mux.HandleFunc("GET /api/reports/{id}/events", s.reportHandlers.HandleEvents)
		mux.HandleFunc("GET /api/reports/{id}/download", s.reportHandlers.HandleDownload)
		mux.HandleFunc("GET /api/reports/{id}/html", s.reportHandlers.HandleHTML)
	}
	if s.streamHandlers != nil {
		mux.HandleFunc("GET /api/events", s.streamHandlers.HandleStream)
	}

	mux.HandleFunc("GET /health", s.monitoringHandlers.HandleHealthCheck)
	mux.HandleFunc("GET /healthz", s.monitoringHandlers.HandleHealthCheck)
	if s.deps.Registry != nil {
		mux.Handle("GET /metrics", metrics.HTTPHandler(s.deps.Registry))
	}

	return smw.Chain(s.logger, s.errorAdapter, s.deps.Recorder)(mux)
}

// Start binds the listen address and serves in the background. Binding
// happens synchronously so address conflicts surface as an error.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return ferrors.RuntimeError("server already started").Build()
	}

	lc := net.ListenConfig{}
	ln, err := lc.Listen(ctx, "tcp", s.cfg.Addr)
	if err != nil {
		return ferrors.RuntimeError("failed to bind listen address").
			WithCause(err).WithContext("addr", s.cfg.Addr).Build()
	}

	s.listener = ln
	s.srv = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return context.WithoutCancel(ctx) },
	}

	srv := s.srv
	go func() {
		if err := srv.Serve(ln); err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", slog.String("error", err.Error()))
		}
	}()
	s.logger.Info("HTTP server started", slog.String("addr", ln.Addr().String()))
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop gracefully shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil
	}
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	s.logger.Info("HTTP server stopped")
	return nil
}
