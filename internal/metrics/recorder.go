package metrics

import "time"

// ResultLabel enumerates outcome categories for counters.
type ResultLabel string

const (
	ResultSuccess  ResultLabel = "success"
	ResultFailed   ResultLabel = "failed"
	ResultCanceled ResultLabel = "canceled"
)

// Recorder defines observability hooks for analyses, rendering, storage and
// the HTTP API. Implementations may forward to Prometheus or similar.
type Recorder interface {
	ObserveAnalysisDuration(source string, d time.Duration)
	IncAnalysisOutcome(source string, result ResultLabel)
	IncAnalyzerRetry()
	IncFallback()
	ObserveHTTPRequest(route string, status int, d time.Duration)
	AddParsedBlocks(kind string, n int)
	IncEventPublished(eventType string, result ResultLabel)
	AddPurgedReports(n int)
}

// NoopRecorder is a Recorder that does nothing (default when metrics are not configured).
type NoopRecorder struct{}

func (NoopRecorder) ObserveAnalysisDuration(string, time.Duration)   {}
func (NoopRecorder) IncAnalysisOutcome(string, ResultLabel)          {}
func (NoopRecorder) IncAnalyzerRetry()                               {}
func (NoopRecorder) IncFallback()                                    {}
func (NoopRecorder) ObserveHTTPRequest(string, int, time.Duration)   {}
func (NoopRecorder) AddParsedBlocks(string, int)                     {}
func (NoopRecorder) IncEventPublished(string, ResultLabel)           {}
func (NoopRecorder) AddPurgedReports(int)                            {}

// OrNoop returns r, or NoopRecorder when r is nil.
func OrNoop(r Recorder) Recorder {
	if r == nil {
		return NoopRecorder{}
	}
	return r
}
