package main

import (
	"context"
	"errors"
	"time"

	"github.com/coderoad/coderoad-cli/pkg/config"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/metrics"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/tracing"
)

// telemetry bundles the metrics and tracing of one command run.
type telemetry struct {
	metrics  *metrics.Collector
	tracer   *tracing.Tracer
	textfile string
}

// newTelemetry builds metrics and tracing from cfg. A non-empty metricsOut
// or traceOut enables the matching exporter.
func newTelemetry(cfg config.TelemetryConfig, metricsOut, traceOut string) (*telemetry, error) {
	if metricsOut != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Textfile = metricsOut
	}
	if traceOut != "" {
		cfg.Tracing.Enabled = true
		cfg.Tracing.Output = traceOut
	}

	tracer, err := tracing.New(cfg.Tracing, Version)
	if err != nil {
		return nil, err
	}

	return &telemetry{
		metrics:  metrics.NewCollector(cfg.Metrics, nil),
		tracer:   tracer,
		textfile: cfg.Metrics.Textfile,
	}, nil
}

// writeMetrics exports the metrics textfile, if one is configured.
func (t *telemetry) writeMetrics() error {
	if t.textfile == "" {
		return nil
	}
	return t.metrics.WriteTextfile(t.textfile)
}

// close writes the metrics and flushes pending spans.
func (t *telemetry) close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(t.writeMetrics(), t.tracer.Shutdown(ctx))
}
