package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path,
// applies defaults and validates the result. Environment variables are not
// consulted; use LoadConfigWithEnvOverrides for that.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration and applies environment
// variable overrides.
//
// The loading sequence is:
//  1. Load YAML from path; a missing file yields the defaults
//  2. Load ".env" into the process environment (missing file ignored)
//  3. Apply CODEROAD_* environment variable overrides
//  4. Validate the final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := loadOptional(path)
	if err != nil {
		return nil, err
	}

	if err := LoadDotEnv(DefaultDotEnvFile); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// LoadDotEnv loads KEY=VALUE pairs from path into the environment.
// Variables already set are not overwritten. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func loadOptional(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return LoadConfig(path)
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Environment variables use the format CODEROAD_SECTION_FIELD. Values that do
// not parse are ignored.
func applyEnvOverrides(cfg *Config) {
	// Build overrides
	envString("CODEROAD_BUILD_DIR", &cfg.Build.Dir)
	envString("CODEROAD_BUILD_MARKDOWN", &cfg.Build.Markdown)
	envString("CODEROAD_BUILD_SKELETON", &cfg.Build.Skeleton)
	envString("CODEROAD_BUILD_OUTPUT", &cfg.Build.Output)
	envBool("CODEROAD_BUILD_STRICT", &cfg.Build.Strict)
	envString("CODEROAD_BUILD_BRANCH", &cfg.Build.Branch)
	envString("CODEROAD_BUILD_REPO", &cfg.Build.Repo)

	// Git overrides
	envString("CODEROAD_GIT_AUTH_TYPE", &cfg.Git.Auth.Type)
	envString("CODEROAD_GIT_AUTH_TOKEN", &cfg.Git.Auth.Token)
	envString("CODEROAD_GIT_AUTH_SSH_KEY_PATH", &cfg.Git.Auth.SSHKeyPath)
	envString("CODEROAD_GIT_AUTH_SSH_KEY_PASSPHRASE", &cfg.Git.Auth.SSHKeyPassphrase)
	envInt("CODEROAD_GIT_CLONE_DEPTH", &cfg.Git.Clone.Depth)
	envDuration("CODEROAD_GIT_CLONE_TIMEOUT", &cfg.Git.Clone.Timeout)

	// Validate overrides
	envBool("CODEROAD_VALIDATE_KEEP_TEMP", &cfg.Validate.KeepTemp)
	envString("CODEROAD_VALIDATE_TEMP_DIR", &cfg.Validate.TempDir)
	envDuration("CODEROAD_VALIDATE_COMMAND_TIMEOUT", &cfg.Validate.CommandTimeout)

	envDuration("CODEROAD_WATCH_DEBOUNCE", &cfg.Watch.Debounce)

	// Telemetry overrides
	envString("CODEROAD_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("CODEROAD_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("CODEROAD_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("CODEROAD_TELEMETRY_METRICS_TEXTFILE", &cfg.Telemetry.Metrics.Textfile)
	envString("CODEROAD_TELEMETRY_METRICS_NAMESPACE", &cfg.Telemetry.Metrics.Namespace)
	envBool("CODEROAD_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("CODEROAD_TELEMETRY_TRACING_OUTPUT", &cfg.Telemetry.Tracing.Output)
	envString("CODEROAD_TELEMETRY_TRACING_SERVICE_NAME", &cfg.Telemetry.Tracing.ServiceName)
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
