package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field (e.g., "build.output").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// listing every failing field, or nil.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateBuild(&cfg.Build)...)
	errs = append(errs, validateGit(&cfg.Git)...)
	errs = append(errs, validateRunner(&cfg.Validate)...)

	if cfg.Watch.Debounce < 0 {
		errs = append(errs, FieldError{Field: "watch.debounce", Message: "must not be negative"})
	}

	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateBuild(cfg *BuildConfig) []FieldError {
	var errs []FieldError

	required := map[string]string{
		"build.markdown": cfg.Markdown,
		"build.skeleton": cfg.Skeleton,
		"build.output":   cfg.Output,
	}
	for _, field := range []string{"build.markdown", "build.skeleton", "build.output"} {
		if strings.TrimSpace(required[field]) == "" {
			errs = append(errs, FieldError{Field: field, Message: "must not be empty"})
		}
	}

	if cfg.Markdown != "" && cfg.Markdown == cfg.Output {
		errs = append(errs, FieldError{Field: "build.output", Message: "must differ from build.markdown"})
	}
	if cfg.Skeleton != "" && cfg.Skeleton == cfg.Output {
		errs = append(errs, FieldError{Field: "build.output", Message: "must differ from build.skeleton"})
	}

	return errs
}

func validateGit(cfg *GitConfig) []FieldError {
	var errs []FieldError

	switch cfg.Auth.Type {
	case "none":
	case "token":
		if cfg.Auth.Token == "" {
			errs = append(errs, FieldError{Field: "git.auth.token", Message: "required when git.auth.type is \"token\""})
		}
	case "ssh":
		if cfg.Auth.SSHKeyPath == "" {
			errs = append(errs, FieldError{Field: "git.auth.ssh_key_path", Message: "required when git.auth.type is \"ssh\""})
		}
	default:
		errs = append(errs, FieldError{
			Field:   "git.auth.type",
			Message: fmt.Sprintf("must be one of none, token, ssh (got %q)", cfg.Auth.Type),
		})
	}

	if cfg.Clone.Depth < 0 {
		errs = append(errs, FieldError{Field: "git.clone.depth", Message: "must not be negative"})
	}
	if cfg.Clone.Timeout <= 0 {
		errs = append(errs, FieldError{Field: "git.clone.timeout", Message: "must be positive"})
	}

	return errs
}

func validateRunner(cfg *ValidateConfig) []FieldError {
	if cfg.CommandTimeout <= 0 {
		return []FieldError{{Field: "validate.command_timeout", Message: "must be positive"}}
	}
	return nil
}

func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error (got %q)", cfg.Logging.Level),
		})
	}

	switch strings.ToLower(cfg.Logging.Format) {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be json or text (got %q)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Namespace == "" {
		errs = append(errs, FieldError{Field: "telemetry.metrics.namespace", Message: "required when metrics are enabled"})
	}

	return errs
}
