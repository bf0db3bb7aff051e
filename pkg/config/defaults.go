package config

import "time"

// Default values for configuration fields.
const (
	// Build defaults
	DefaultBuildDir       = "."
	DefaultMarkdownFile   = "TUTORIAL.md"
	DefaultSkeletonFile   = "coderoad.yaml"
	DefaultOutputFile     = "tutorial.json"
	DefaultConfigFile     = ".coderoad.yaml"
	DefaultDotEnvFile     = ".env"
	DefaultGitAuthType    = "none"
	DefaultCloneTimeout   = 5 * time.Minute
	DefaultCommandTimeout = 2 * time.Minute

	// Watch defaults
	DefaultWatchDebounce = 300 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel       = "info"
	DefaultLoggingFormat      = "text"
	DefaultMetricsNamespace   = "coderoad"
	DefaultTracingServiceName = "coderoad"
)

// Default returns a configuration with every default applied.
func Default() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults fills every zero-valued field with its default.
// Boolean fields default to false and are left alone.
func ApplyDefaults(cfg *Config) {
	applyBuildDefaults(&cfg.Build)
	applyGitDefaults(&cfg.Git)
	applyValidateDefaults(&cfg.Validate)

	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyBuildDefaults(cfg *BuildConfig) {
	if cfg.Dir == "" {
		cfg.Dir = DefaultBuildDir
	}
	if cfg.Markdown == "" {
		cfg.Markdown = DefaultMarkdownFile
	}
	if cfg.Skeleton == "" {
		cfg.Skeleton = DefaultSkeletonFile
	}
	if cfg.Output == "" {
		cfg.Output = DefaultOutputFile
	}
}

func applyGitDefaults(cfg *GitConfig) {
	if cfg.Auth.Type == "" {
		cfg.Auth.Type = DefaultGitAuthType
	}
	if cfg.Clone.Timeout == 0 {
		cfg.Clone.Timeout = DefaultCloneTimeout
	}
}

func applyValidateDefaults(cfg *ValidateConfig) {
	if cfg.CommandTimeout == 0 {
		cfg.CommandTimeout = DefaultCommandTimeout
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingServiceName
	}
}
