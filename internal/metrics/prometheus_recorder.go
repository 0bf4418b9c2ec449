package metrics

import (
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

const namespace = "usecasegen"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	analysisDuration *prom.HistogramVec
	analysisOutcome  *prom.CounterVec
	analyzerRetries  prom.Counter
	fallbacks        prom.Counter
	httpDuration     *prom.HistogramVec
	parsedBlocks     *prom.CounterVec
	eventsPublished  *prom.CounterVec
	purgedReports    prom.Counter
}

// NewPrometheusRecorder constructs the metrics and registers them on reg. A
// nil reg gets a fresh registry.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	pr := &PrometheusRecorder{
		analysisDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "analysis_duration_seconds",
			Help:      "Duration of paper analyses by report source",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120, 300, 600},
		}, []string{"source"}),
		analysisOutcome: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "analysis_outcomes_total",
			Help:      "Analyses by report source and outcome",
		}, []string{"source", "result"}),
		analyzerRetries: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "analyzer_retries_total",
			Help:      "Retried analyzer requests",
		}),
		fallbacks: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "fallback_activations_total",
			Help:      "Analyses that fell back to the simulated pipeline",
		}),
		httpDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code",
			Buckets:   prom.DefBuckets,
		}, []string{"route", "code"}),
		parsedBlocks: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "parsed_blocks_total",
			Help:      "Blocks produced by the report parser by kind",
		}, []string{"kind"}),
		eventsPublished: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Progress events published by type and outcome",
		}, []string{"type", "result"}),
		purgedReports: prom.NewCounter(prom.CounterOpts{
			Namespace: namespace,
			Name:      "purged_reports_total",
			Help:      "Reports deleted by the retention job",
		}),
	}
	reg.MustRegister(pr.analysisDuration, pr.analysisOutcome, pr.analyzerRetries, pr.fallbacks,
		pr.httpDuration, pr.parsedBlocks, pr.eventsPublished, pr.purgedReports)
	return pr
}

func (p *PrometheusRecorder) ObserveAnalysisDuration(source string, d time.Duration) {
	if p == nil {
		return
	}
	p.analysisDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (p *PrometheusRecorder) IncAnalysisOutcome(source string, result ResultLabel) {
	if p == nil {
		return
	}
	p.analysisOutcome.WithLabelValues(source, string(result)).Inc()
}

func (p *PrometheusRecorder) IncAnalyzerRetry() {
	if p == nil {
		return
	}
	p.analyzerRetries.Inc()
}

func (p *PrometheusRecorder) IncFallback() {
	if p == nil {
		return
	}
	p.fallbacks.Inc()
}

func (p *PrometheusRecorder) ObserveHTTPRequest(route string, status int, d time.Duration) {
	if p == nil {
		return
	}
	p.httpDuration.WithLabelValues(route, strconv.Itoa(status)).Observe(d.Seconds())
}

func (p *PrometheusRecorder) AddParsedBlocks(kind string, n int) {
	if p == nil || n <= 0 {
		return
	}
	p.parsedBlocks.WithLabelValues(kind).Add(float64(n))
}

func (p *PrometheusRecorder) IncEventPublished(eventType string, result ResultLabel) {
	if p == nil {
		return
	}
	p.eventsPublished.WithLabelValues(eventType, string(result)).Inc()
}

func (p *PrometheusRecorder) AddPurgedReports(n int) {
	if p == nil || n <= 0 {
		return
	}
	p.purgedReports.Add(float64(n))
}
