package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	ferrors "github.com/anorak1709/research-usecase-generator/internal/foundation/errors"
)

// DefaultPath is the configuration file looked up when --config is not given.
const DefaultPath = "usecasegen.yaml"

// Config is the service configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Analyzer AnalyzerConfig `yaml:"analyzer"`
	Storage  StorageConfig  `yaml:"storage"`
	Events   EventsConfig   `yaml:"events"`
	Logging  LoggingConfig  `yaml:"logging"`
	Report   ReportConfig   `yaml:"report"`
}

// ServerConfig controls the HTTP API.
type ServerConfig struct {
	Addr           string        `yaml:"addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
}

// AnalyzerConfig points at the agent pipeline backend.
type AnalyzerConfig struct {
	URL      string         `yaml:"url"`
	Timeout  time.Duration  `yaml:"timeout"`
	Retry    RetryConfig    `yaml:"retry"`
	Fallback FallbackConfig `yaml:"fallback"`
}

// FallbackConfig controls the simulated pipeline used when the analyzer is
// unreachable.
type FallbackConfig struct {
	Enabled      *bool         `yaml:"enabled,omitempty"`
	StepInterval time.Duration `yaml:"step_interval"`
	FinalDelay   time.Duration `yaml:"final_delay"`
}

// IsEnabled reports whether the fallback is on; unset means on.
func (f FallbackConfig) IsEnabled() bool { return f.Enabled == nil || *f.Enabled }

// StorageConfig controls report persistence and retention.
type StorageConfig struct {
	Path          string        `yaml:"path"`
	Retention     time.Duration `yaml:"retention"`
	PurgeInterval time.Duration `yaml:"purge_interval"`
}

// EventsConfig controls progress event publishing. An empty NATSURL keeps
// events in-process.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// ReportConfig controls summary extraction.
type ReportConfig struct {
	SummaryHeading string `yaml:"summary_heading"`
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	c := &Config{}
	applyDefaults(c)
	return c
}

// Load reads, expands and validates the configuration at path. Variables from
// .env and .env.local are loaded first and never override the process
// environment.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ferrors.ConfigError("configuration file not found").
				WithContext("path", path).Build()
		}
		return nil, ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to read config file").
			WithContext("path", path).Build()
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes YAML configuration, expanding ${VAR} references, then
// normalizes and validates it.
func Parse(data []byte) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, ferrors.WrapError(err, ferrors.CategoryConfig, "failed to unmarshal config").Build()
	}
	if err := normalize(&cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Init writes a starter configuration file.
func Init(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return ferrors.ValidationError(fmt.Sprintf("configuration file already exists: %s (use --force to overwrite)", path)).Build()
	}

	data, err := yaml.Marshal(Default())
	if err != nil {
		return ferrors.WrapError(err, ferrors.CategoryInternal, "failed to marshal config").Build()
	}
	out := append([]byte(starterHeader), data...)
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return ferrors.WrapError(err, ferrors.CategoryFileSystem, "failed to write config file").
			WithContext("path", path).Build()
	}
	return nil
}

const starterHeader = `# usecasegen configuration.
#
# Values may reference environment variables as ${NAME}; variables from .env
# and .env.local are loaded first. Leave events.nats_url empty to keep
# progress events in-process.

`
