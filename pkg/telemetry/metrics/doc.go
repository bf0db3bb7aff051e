// Package metrics records build and verify metrics with Prometheus.
//
// The CLI is short-lived, so metrics are not scraped. They are written in
// the Prometheus text format to a file (--metrics-out) that a node_exporter
// textfile collector or a CI job can pick up.
//
// Exported series (namespace "coderoad" by default):
//
//	coderoad_build_info{build_id}
//	coderoad_build_levels_total
//	coderoad_build_steps_total
//	coderoad_build_commits_total{phase}
//	coderoad_build_diagnostics_total{type,severity}
//	coderoad_build_stage_duration_seconds{stage}
//	coderoad_verify_checks_total{result}
//
// A nil *Collector or one built with Enabled false ignores every call.
package metrics
