// Package metrics defines the Recorder hooks used by the analysis service,
// the HTTP API and the retention job.
//
// Components take a Recorder and default to NoopRecorder, so metrics are
// opt-in. The serve command wires a PrometheusRecorder and exposes it on
// /metrics through HTTPHandler.
package metrics
