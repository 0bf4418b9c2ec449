package config

import "time"

const (
	defaultAddr           = ":8080"
	defaultMaxUploadBytes = 25 << 20
	defaultAnalyzerURL    = "http://localhost:8000/analyze"
	defaultStoragePath    = "usecasegen.db"
	defaultSubject        = "usecasegen.progress"
	defaultSummaryHeading = "### 1. Research Summary"
)

func applyDefaults(c *Config) {
	s := &c.Server
	if s.Addr == "" {
		s.Addr = defaultAddr
	}
	if s.MaxUploadBytes <= 0 {
		s.MaxUploadBytes = defaultMaxUploadBytes
	}
	if s.ReadTimeout <= 0 {
		s.ReadTimeout = 30 * time.Second
	}
	if s.WriteTimeout <= 0 {
		s.WriteTimeout = 10 * time.Minute
	}

	a := &c.Analyzer
	if a.URL == "" {
		a.URL = defaultAnalyzerURL
	}
	if a.Timeout <= 0 {
		a.Timeout = 10 * time.Minute
	}
	if a.Retry.Mode == "" {
		a.Retry.Mode = RetryBackoffLinear
	}
	if a.Retry.Initial <= 0 {
		a.Retry.Initial = time.Second
	}
	if a.Retry.Max <= 0 {
		a.Retry.Max = 10 * time.Second
	}
	if a.Retry.MaxRetries == nil {
		n := 2
		a.Retry.MaxRetries = &n
	}
	if a.Fallback.StepInterval <= 0 {
		a.Fallback.StepInterval = 1500 * time.Millisecond
	}
	if a.Fallback.FinalDelay <= 0 {
		a.Fallback.FinalDelay = 800 * time.Millisecond
	}

	st := &c.Storage
	if st.Path == "" {
		st.Path = defaultStoragePath
	}
	if st.Retention <= 0 {
		st.Retention = 30 * 24 * time.Hour
	}
	if st.PurgeInterval <= 0 {
		st.PurgeInterval = time.Hour
	}

	if c.Events.Subject == "" {
		c.Events.Subject = defaultSubject
	}
	if c.Logging.Level == "" {
		c.Logging.Level = LogLevelInfo
	}
	if c.Logging.Format == "" {
		c.Logging.Format = LogFormatText
	}
	if c.Report.SummaryHeading == "" {
		c.Report.SummaryHeading = defaultSummaryHeading
	}
}
