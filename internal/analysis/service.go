package analysis

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/anorak1709/research-usecase-generator/internal/config"
	"github.com/anorak1709/research-usecase-generator/internal/events"
	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
	"github.com/anorak1709/research-usecase-generator/internal/logfields"
	"github.com/anorak1709/research-usecase-generator/internal/metrics"
	"github.com/anorak1709/research-usecase-generator/internal/observability"
	"github.com/anorak1709/research-usecase-generator/internal/report"
	"github.com/anorak1709/research-usecase-generator/internal/store"
)

// Report sources.
const (
	SourceAnalyzer  = "analyzer"
	SourceSimulated = "simulated"
)

// Result is a finished analysis.
type Result struct {
	ID          string          `json:"id"`
	Source      string          `json:"source"`
	Filename    string          `json:"filename"`
	Industry    string          `json:"industry,omitempty"`
	Report      string          `json:"report"`
	Summary     string          `json:"summary"`
	Document    report.Document `json:"document"`
	Fingerprint string          `json:"fingerprint"`
	CreatedAt   time.Time       `json:"created_at"`
}

// Service runs an upload through the analyzer, falling back to the
// simulated pipeline, and stores the outcome.
type Service struct {
	submitter Submitter
	simulator *Simulator
	fallback  bool
	heading   string
	store     store.Store
	publisher events.Publisher
	recorder  metrics.Recorder
	logger    *slog.Logger
	now       func() time.Time
	newID     func() string
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithStore persists reports and their events in s.
func WithStore(s store.Store) ServiceOption { return func(svc *Service) { svc.store = s } }

// WithPublisher sends analysis events to p.
func WithPublisher(p events.Publisher) ServiceOption {
	return func(svc *Service) { svc.publisher = p }
}

// WithRecorder reports metrics to r.
func WithRecorder(r metrics.Recorder) ServiceOption {
	return func(svc *Service) { svc.recorder = metrics.OrNoop(r) }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServiceOption { return func(svc *Service) { svc.logger = l } }

// WithSummaryHeading changes the heading the summary is taken from. Empty
// or the default heading keeps the standard research summary.
func WithSummaryHeading(h string) ServiceOption {
	return func(svc *Service) {
		if h != report.DefaultSummaryHeading {
			svc.heading = h
		}
	}
}

// WithSimulator replaces the fallback simulator.
func WithSimulator(sim *Simulator) ServiceOption {
	return func(svc *Service) { svc.simulator = sim }
}

// NewService wires a Service from configuration.
func NewService(cfg config.AnalyzerConfig, submitter Submitter, opts ...ServiceOption) *Service {
	svc := &Service{
		submitter: submitter,
		simulator: NewSimulator(cfg.Fallback.StepInterval, cfg.Fallback.FinalDelay),
		fallback:  cfg.Fallback.IsEnabled(),
		publisher: events.Discard,
		recorder:  metrics.NoopRecorder{},
		logger:    slog.Default(),
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		opt(svc)
	}
	return svc
}

// Analyze produces, parses and stores the report for u.
func (s *Service) Analyze(ctx context.Context, u Upload) (Result, error) {
	u = u.Normalized()
	if err := u.Validate(); err != nil {
		return Result{}, err
	}

	id := s.newID()
	start := s.now()
	ctx = observability.WithAnalysisID(ctx, id)
	log := observability.Logger(ctx, s.logger).With(logfields.File(u.Filename))
	log.Info("Analysis started", logfields.Industry(u.Industry), logfields.Bytes(u.Size()))

	s.publish(ctx, log, events.Started{ID: id, Filename: u.Filename, Industry: u.Industry, Size: u.Size(), At: start})

	source := SourceAnalyzer
	markdown, err := s.submitter.Submit(ctx, u)
	if err != nil {
		if ctx.Err() != nil || !s.fallback {
			return Result{}, s.fail(ctx, log, id, source, start, err)
		}
		log.Warn("Analyzer unavailable, running simulated pipeline", logfields.Error(err))
		s.recorder.IncFallback()
		s.publish(ctx, log, events.FallbackActivated{ID: id, Reason: err.Error(), At: s.now()})

		source = SourceSimulated
		ctx = observability.WithStage(ctx, source)
		markdown, err = s.simulator.Run(ctx, id, u.Filename, func(ctx context.Context, p events.Progress) error {
			log.Debug("Pipeline stage", logfields.Agent(p.Agent), logfields.Progress(p.Percent), logfields.Stage(p.Message))
			s.publish(ctx, log, p)
			return nil
		})
		if err != nil {
			return Result{}, s.fail(ctx, log, id, source, start, err)
		}
	}

	doc := report.ParseDocument(markdown)
	for kind, n := range doc.CountByKind() {
		s.recorder.AddParsedBlocks(string(kind), n)
	}

	res := Result{
		ID:          id,
		Source:      source,
		Filename:    u.Filename,
		Industry:    u.Industry,
		Report:      markdown,
		Summary:     s.summarize(markdown),
		Document:    doc,
		Fingerprint: store.Fingerprint(markdown),
		CreatedAt:   s.now(),
	}

	if s.store != nil {
		saved, err := s.store.SaveReport(ctx, store.Report{
			ID:          id,
			Filename:    u.Filename,
			Industry:    u.Industry,
			Source:      source,
			Fingerprint: res.Fingerprint,
			Markdown:    markdown,
			CreatedAt:   res.CreatedAt,
		})
		if err != nil {
			return Result{}, s.fail(ctx, log, id, source, start, err)
		}
		res.CreatedAt = saved.CreatedAt
	}

	s.publish(ctx, log, events.Completed{ID: id, Source: source, Fingerprint: res.Fingerprint, Blocks: doc.Len(), At: s.now()})

	elapsed := s.now().Sub(start)
	s.recorder.ObserveAnalysisDuration(source, elapsed)
	s.recorder.IncAnalysisOutcome(source, metrics.ResultSuccess)
	log.Info("Analysis completed", logfields.Source(source), logfields.Blocks(doc.Len()), logfields.Duration(elapsed))
	return res, nil
}

func (s *Service) fail(ctx context.Context, log *slog.Logger, id, source string, start time.Time, err error) error {
	label := metrics.ResultFailed
	if ctx.Err() != nil {
		label = metrics.ResultCanceled
	}
	s.recorder.ObserveAnalysisDuration(source, s.now().Sub(start))
	s.recorder.IncAnalysisOutcome(source, label)
	log.Error("Analysis failed", logfields.Source(source), logfields.Error(err))

	// The caller's context may already be done; the failure is still recorded.
	s.publish(context.WithoutCancel(ctx), log, events.Failed{ID: id, Error: err.Error(), At: s.now()})

	if _, ok := ferrors.AsClassified(err); ok || ctx.Err() != nil {
		return err
	}
	return ferrors.InternalError("analysis failed").WithCause(err).WithContext("analysis_id", id).Build()
}

// publish delivers evt to the publisher and the store journal. Failures are
// logged and counted; they never abort the analysis.
func (s *Service) publish(ctx context.Context, log *slog.Logger, evt events.Event) {
	targets := events.MultiPublisher{s.publisher}
	if s.store != nil {
		targets = append(targets, store.Journal(s.store))
	}
	if err := targets.Publish(ctx, evt); err != nil {
		s.recorder.IncEventPublished(string(evt.EventType()), metrics.ResultFailed)
		log.Warn("Failed to publish analysis event", slog.String("event", string(evt.EventType())), logfields.Error(err))
		return
	}
	s.recorder.IncEventPublished(string(evt.EventType()), metrics.ResultSuccess)
}

func (s *Service) summarize(markdown string) string {
	if s.heading == "" {
		return report.ExtractSummary(markdown)
	}
	return report.ExtractSection(markdown, s.heading)
}
