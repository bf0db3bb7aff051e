// Package tracing wraps OpenTelemetry for the build pipeline.
//
// Spans are exported with the stdout exporter to a file (--trace-out) or
// stderr, synchronously, since a CLI run ends before a batcher would flush.
// When tracing is disabled a noop provider is used.
//
//	tracer, err := tracing.New(cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, tracing.SpanBuild)
//	defer span.End()
package tracing
