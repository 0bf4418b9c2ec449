package logfields

import (
	"log/slog"
	"time"
)

// Canonical log field name constants to avoid drift across packages.
const (
	KeyAnalysisID = "analysis_id"
	KeyReportID   = "report_id"
	KeyStage      = "stage"
	KeyAgent      = "agent"
	KeyProgress   = "progress"
	KeySource     = "source"
	KeyFile       = "file"
	KeyIndustry   = "industry"
	KeyBytes      = "bytes"
	KeyBlocks     = "blocks"
	KeyAttempt    = "attempt"
	KeyDurationMS = "duration_ms"
	KeyMethod     = "method"
	KeyPath       = "path"
	KeyStatus     = "status"
	KeySubject    = "subject"
	KeyError      = "error"
	KeyRequestID  = "request_id"
)

// Simple helpers returning slog.Attr. Keeping each granular means callers can compose.
func AnalysisID(id string) slog.Attr { return slog.String(KeyAnalysisID, id) }
func ReportID(id string) slog.Attr   { return slog.String(KeyReportID, id) }
func Stage(name string) slog.Attr    { return slog.String(KeyStage, name) }
func Agent(name string) slog.Attr    { return slog.String(KeyAgent, name) }
func Progress(pct int) slog.Attr     { return slog.Int(KeyProgress, pct) }
func Source(s string) slog.Attr      { return slog.String(KeySource, s) }
func File(name string) slog.Attr     { return slog.String(KeyFile, name) }
func Industry(s string) slog.Attr    { return slog.String(KeyIndustry, s) }
func Bytes(n int64) slog.Attr        { return slog.Int64(KeyBytes, n) }
func Blocks(n int) slog.Attr         { return slog.Int(KeyBlocks, n) }
func Attempt(n int) slog.Attr        { return slog.Int(KeyAttempt, n) }
func Method(m string) slog.Attr      { return slog.String(KeyMethod, m) }
func Path(p string) slog.Attr        { return slog.String(KeyPath, p) }
func Status(code int) slog.Attr      { return slog.Int(KeyStatus, code) }
func Subject(s string) slog.Attr     { return slog.String(KeySubject, s) }
func RequestID(id string) slog.Attr  { return slog.String(KeyRequestID, id) }

// Duration records d in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Float64(KeyDurationMS, float64(d.Microseconds())/1000)
}

func Error(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
