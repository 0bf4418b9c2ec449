package commands

import (
	"context"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/anorak1709/research-usecase-generator/internal/analysis"
	"github.com/anorak1709/research-usecase-generator/internal/config"
	"github.com/anorak1709/research-usecase-generator/internal/events"
	"github.com/anorak1709/research-usecase-generator/internal/logfields"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
	"github.com/anorak1709/research-usecase-generator/internal/retention"
	"github.com/anorak1709/research-usecase-generator/internal/server/httpserver"
	"github.com/anorak1709/research-usecase-generator/internal/store"
	"github.com/anorak1709/research-usecase-generator/internal/version"
)

// busPublishTimeout bounds fan-out to in-process subscribers.
const busPublishTimeout = 2 * time.Second

// ServeCmd implements the 'serve' command.
type ServeCmd struct {
	Addr     string `help:"Listen address (overrides server.addr)"`
	Analyzer string `help:"Analyzer URL (overrides analyzer.url)"`
}

func (s *ServeCmd) Run(g *Global, root *CLI) error {
	cfg, err := root.LoadConfig()
	if err != nil {
		return err
	}
	if s.Addr != "" {
		cfg.Server.Addr = s.Addr
	}
	if s.Analyzer != "" {
		cfg.Analyzer.URL = s.Analyzer
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	return Serve(ctx, cfg, root.Logger(g, cfg))
}

// Serve runs the HTTP API until ctx is done.
func Serve(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	st, err := store.NewSQLiteStore(cfg.Storage.Path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logger.Warn("Failed to close store", logfields.Error(cerr))
		}
	}()

	registry := metrics.NewRegistry()
	recorder := metrics.NewPrometheusRecorder(registry)

	bus := events.NewBus()
	defer bus.Close()

	publishers := events.MultiPublisher{events.WithTimeout(bus, busPublishTimeout)}
	if cfg.Events.NATSURL != "" {
		np, err := events.DialNATS(cfg.Events.NATSURL, cfg.Events.Subject, logger)
		if err != nil {
			return err
		}
		defer func() {
			if cerr := np.Close(); cerr != nil {
				logger.Warn("Failed to close NATS publisher", logfields.Error(cerr))
			}
		}()
		publishers = append(publishers, np)
	}

	client := analysis.NewClient(cfg.Analyzer,
		analysis.WithClientRecorder(recorder),
		analysis.WithClientLogger(logger))
	svc := analysis.NewService(cfg.Analyzer, client,
		analysis.WithStore(st),
		analysis.WithPublisher(publishers),
		analysis.WithRecorder(recorder),
		analysis.WithLogger(logger),
		analysis.WithSummaryHeading(cfg.Report.SummaryHeading))

	if cfg.Storage.Retention > 0 {
		janitor, err := retention.New(st, cfg.Storage.Retention, cfg.Storage.PurgeInterval,
			retention.WithRecorder(recorder),
			retention.WithLogger(logger))
		if err != nil {
			return err
		}
		if err := janitor.Start(); err != nil {
			return err
		}
		defer func() {
			if serr := janitor.Stop(); serr != nil {
				logger.Warn("Failed to stop retention job", logfields.Error(serr))
			}
		}()
	}

	srv := httpserver.New(cfg.Server, cfg.Report, httpserver.Deps{
		Analyzer: svc,
		Store:    st,
		Bus:      bus,
		Registry: registry,
		Recorder: recorder,
		Logger:   logger,
	})
	if err := srv.Start(ctx); err != nil {
		return err
	}
	logger.Info("Server started",
		slog.String("addr", srv.Addr()),
		slog.String("version", version.Resolved()),
		slog.String("analyzer", cfg.Analyzer.URL))

	<-ctx.Done()
	logger.Info("Shutdown signal received, stopping server...")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	return srv.Stop(shutdownCtx)
}
