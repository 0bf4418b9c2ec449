package config

import (
	"strings"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// normalize canonicalises enum fields before defaults are applied. Unknown
// values are configuration errors.
func normalize(c *Config) error {
	if raw := string(c.Analyzer.Retry.Mode); raw != "" {
		mode, err := retryBackoffNormalizer.NormalizeWithError(raw)
		if err != nil {
			return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid analyzer.retry.mode").Build()
		}
		c.Analyzer.Retry.Mode = mode
	}

	level, err := logLevelNormalizer.NormalizeWithError(string(c.Logging.Level))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.level").Build()
	}
	c.Logging.Level = level

	format, err := logFormatNormalizer.NormalizeWithError(string(c.Logging.Format))
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryConfig, "invalid logging.format").Build()
	}
	c.Logging.Format = format

	c.Analyzer.URL = strings.TrimSpace(c.Analyzer.URL)
	c.Events.NATSURL = strings.TrimSpace(c.Events.NATSURL)
	c.Events.Subject = strings.Trim(strings.TrimSpace(c.Events.Subject), ".")
	return nil
}
