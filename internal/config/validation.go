package config

import (
	"fmt"
	"net/url"
	"strings"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// Validate checks cross-field constraints. Errors are classified as
// CategoryConfig.
func (c *Config) Validate() error {
	checks := []func() error{
		c.validateAnalyzer,
		c.validateRetry,
		c.validateStorage,
		c.validateEvents,
	}
	for _, check := range checks {
		if err := check(); err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid configuration").Build()
		}
	}
	return nil
}

func (c *Config) validateAnalyzer() error {
	u, err := url.Parse(c.Analyzer.URL)
	if err != nil {
		return fmt.Errorf("analyzer.url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("analyzer.url must be http or https, got %q", c.Analyzer.URL)
	}
	if u.Host == "" {
		return fmt.Errorf("analyzer.url has no host: %q", c.Analyzer.URL)
	}
	return nil
}

func (c *Config) validateRetry() error {
	r := c.Analyzer.Retry
	if r.Retries() < 0 {
		return fmt.Errorf("analyzer.retry.max_retries cannot be negative: %d", r.Retries())
	}
	if r.Max < r.Initial {
		return fmt.Errorf("analyzer.retry.max (%s) must be >= analyzer.retry.initial (%s)", r.Max, r.Initial)
	}
	return nil
}

func (c *Config) validateStorage() error {
	if c.Storage.PurgeInterval > c.Storage.Retention {
		return fmt.Errorf("storage.purge_interval (%s) must not exceed storage.retention (%s)",
			c.Storage.PurgeInterval, c.Storage.Retention)
	}
	return nil
}

func (c *Config) validateEvents() error {
	if c.Events.Subject == "" || strings.ContainsAny(c.Events.Subject, " *>") {
		return fmt.Errorf("events.subject must be a literal NATS subject, got %q", c.Events.Subject)
	}
	return nil
}
