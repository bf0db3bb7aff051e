package tracing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/coderoad/coderoad-cli/pkg/config"
)

// Span names.
const (
	SpanBuild    = "build"
	SpanParse    = "build.parse"
	SpanSkeleton = "build.skeleton"
	SpanHistory  = "build.history"
	SpanMerge    = "build.merge"
	SpanSchema   = "build.schema"
	SpanVerify   = "verify"
	SpanStep     = "verify.step"
)

// Attribute keys.
const (
	AttrBuildID  = attribute.Key("coderoad.build_id")
	AttrTutorial = attribute.Key("coderoad.tutorial_id")
	AttrBranch   = attribute.Key("coderoad.branch")
	AttrLevel    = attribute.Key("coderoad.level")
	AttrStep     = attribute.Key("coderoad.step")
	AttrCount    = attribute.Key("coderoad.count")
)

const instrumentationName = "github.com/coderoad/coderoad-cli"

// Tracer creates spans for the pipeline.
type Tracer struct {
	tracer   trace.Tracer
	provider *sdktrace.TracerProvider
	closer   io.Closer
	enabled  bool
}

// New creates a Tracer. With tracing disabled it returns a noop tracer.
// The output file named by cfg.Output is created (truncated) here.
func New(cfg config.TracingConfig, version string) (*Tracer, error) {
	if !cfg.Enabled {
		return Noop(), nil
	}

	var w io.Writer = os.Stderr
	var closer io.Closer
	if cfg.Output != "" {
		f, err := os.Create(cfg.Output)
		if err != nil {
			return nil, fmt.Errorf("failed to create trace output: %w", err)
		}
		w, closer = f, f
	}

	t, err := NewWithWriter(w, cfg.ServiceName, version)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}
	t.closer = closer
	return t, nil
}

// NewWithWriter creates an enabled Tracer exporting spans as JSON to w.
func NewWithWriter(w io.Writer, serviceName, version string) (*Tracer, error) {
	exporter, err := stdouttrace.New(
		stdouttrace.WithWriter(w),
		stdouttrace.WithPrettyPrint(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create exporter: %w", err)
	}

	if serviceName == "" {
		serviceName = config.DefaultTracingServiceName
	}
	res := resource.NewSchemaless(
		attribute.String("service.name", serviceName),
		attribute.String("service.version", version),
	)

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithSyncer(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(provider)

	return &Tracer{
		tracer:   provider.Tracer(instrumentationName),
		provider: provider,
		enabled:  true,
	}, nil
}

// Noop returns a Tracer that records nothing.
func Noop() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer(instrumentationName)}
}

// Start creates a span as a child of the span in ctx, if any.
func (t *Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if t == nil {
		return Noop().Start(ctx, name, attrs...)
	}
	return t.tracer.Start(ctx, name, trace.WithAttributes(attrs...))
}

// Enabled reports whether spans are exported.
func (t *Tracer) Enabled() bool {
	return t != nil && t.enabled
}

// Shutdown flushes pending spans and closes the output file.
func (t *Tracer) Shutdown(ctx context.Context) error {
	if t == nil || !t.enabled {
		return nil
	}
	var errs []error
	if err := t.provider.Shutdown(ctx); err != nil {
		errs = append(errs, fmt.Errorf("failed to shut down tracer provider: %w", err))
	}
	if t.closer != nil {
		if err := t.closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close trace output: %w", err))
		}
	}
	return errors.Join(errs...)
}

// RecordError marks span as failed with err. A nil err is ignored.
func RecordError(span trace.Span, err error) {
	if err == nil {
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}
