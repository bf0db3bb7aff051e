// Package telemetry groups the observability packages of the coderoad CLI.
//
//   - logging: slog construction with credential redaction
//   - metrics: Prometheus build metrics exported as a textfile
//   - tracing: OpenTelemetry spans per build stage and verify step
//
// Every build gets a UUID build id. It is attached to log lines, span
// attributes and the coderoad_build_info metric so the three can be joined.
package telemetry
