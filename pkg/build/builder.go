package build

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/coderoad/coderoad-cli/pkg/commits"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/git"
	"github.com/coderoad/coderoad-cli/pkg/lesson"
	"github.com/coderoad/coderoad-cli/pkg/merge"
	"github.com/coderoad/coderoad-cli/pkg/schema"
	"github.com/coderoad/coderoad-cli/pkg/skeleton"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/logging"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/metrics"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/tracing"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// Result is the outcome of a build. It is returned even when the build
// fails so callers can report the diagnostics.
type Result struct {
	BuildID     string
	Tutorial    *tutorial.Tutorial
	Diagnostics *buildErrors.ErrorList
	Order       commits.OrderReport
	Schema      schema.Result
	Commits     commits.CommitMap
}

// Builder runs the build pipeline. A Builder is safe to reuse for
// sequential builds, e.g. in watch mode.
type Builder struct {
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	history commits.HistoryReader

	gate      *schema.Gate
	parser    *lesson.Parser
	loader    *skeleton.Loader
	extractor *commits.Extractor
	merger    *merge.Engine
}

// NewBuilder creates a builder with the embedded schemas, no metrics and a
// noop tracer.
func NewBuilder() (*Builder, error) {
	gate, err := schema.NewGate()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize schema gate: %w", err)
	}

	b := &Builder{
		tracer: tracing.Noop(),
		gate:   gate,
	}
	return b.WithLogger(slog.Default()), nil
}

// WithLogger sets the logger of the builder and its stages.
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	if logger == nil {
		return b
	}
	b.logger = logger
	b.gate.SetLogger(logger)
	b.parser = lesson.NewParser().WithLogger(logger)
	b.loader = skeleton.NewLoader().WithLogger(logger)
	b.extractor = commits.NewExtractor(logger)
	b.merger = merge.NewEngine(logger)
	return b
}

// WithMetrics records build metrics into c.
func (b *Builder) WithMetrics(c *metrics.Collector) *Builder {
	b.metrics = c
	return b
}

// WithTracer creates pipeline spans with t.
func (b *Builder) WithTracer(t *tracing.Tracer) *Builder {
	if t != nil {
		b.tracer = t
	}
	return b
}

// WithHistory reads history from r instead of opening a repository.
func (b *Builder) WithHistory(r commits.HistoryReader) *Builder {
	b.history = r
	return b
}

// Build compiles the tutorial described by opts without writing it.
// The returned error is non-nil when a fatal diagnostic was produced; the
// Result still carries every diagnostic collected up to that point.
func (b *Builder) Build(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	buildID := uuid.NewString()
	ctx = logging.WithBuildID(ctx, buildID)
	logger := logging.WithContext(ctx, b.logger)
	b.metrics.SetBuildID(buildID)

	ctx, span := b.tracer.Start(ctx, tracing.SpanBuild, tracing.AttrBuildID.String(buildID))
	defer span.End()

	res := &Result{BuildID: buildID, Diagnostics: buildErrors.NewErrorList()}

	logger.Info("Building tutorial",
		"dir", opts.Dir,
		"markdown", opts.Markdown,
		"skeleton", opts.Skeleton,
	)

	err := b.run(ctx, logger, opts, res)

	b.report(logger, res.Diagnostics)
	if err == nil {
		err = res.Diagnostics.ToError()
	}
	if err != nil {
		tracing.RecordError(span, err)
		return res, err
	}

	span.SetAttributes(tracing.AttrTutorial.String(res.Tutorial.ID))
	logger.Info("Built tutorial",
		"id", res.Tutorial.ID,
		"levels", len(res.Tutorial.Levels),
		"steps", res.Tutorial.StepCount(),
		"warnings", len(res.Diagnostics.Warnings()),
	)
	return res, nil
}

// Run builds the tutorial and writes it to the output file. Nothing is
// written when the build fails.
func (b *Builder) Run(ctx context.Context, opts Options) (*Result, error) {
	opts = opts.withDefaults()

	res, err := b.Build(ctx, opts)
	if err != nil {
		return res, err
	}

	start := time.Now()
	if err := WriteOutput(opts.OutputPath(), res.Tutorial); err != nil {
		return res, err
	}
	b.metrics.ObserveStage(metrics.StageWrite, time.Since(start))

	b.logger.Info("Wrote tutorial", "build_id", res.BuildID, "path", opts.OutputPath())
	return res, nil
}

func (b *Builder) run(ctx context.Context, logger *slog.Logger, opts Options, res *Result) error {
	frame, err := b.parseLesson(ctx, opts, res)
	if err != nil {
		return err
	}

	doc, err := b.loadSkeleton(ctx, opts, res)
	if err != nil {
		return err
	}

	branch := opts.Branch
	if branch == "" {
		branch = doc.Skeleton.Config.Repo.Branch
	}

	extraction, err := b.readHistory(ctx, logger, opts, branch, res)
	if err != nil {
		return err
	}

	b.mergeTutorial(ctx, doc.Skeleton, frame, extraction.Commits, res)

	return b.validateTutorial(ctx, opts, res)
}

func (b *Builder) parseLesson(ctx context.Context, opts Options, res *Result) (*lesson.Frame, error) {
	_, span := b.tracer.Start(ctx, tracing.SpanParse)
	defer span.End()

	path := opts.MarkdownPath()
	data, err := os.ReadFile(path)
	if err != nil {
		res.Diagnostics.AddError(buildErrors.ErrorTypeIO,
			fmt.Sprintf("failed to read lesson file: %v", err), tutorial.Location{File: path})
		return nil, res.Diagnostics.ToError()
	}

	start := time.Now()
	res.Diagnostics.Merge(lesson.Lint(data, path))
	b.metrics.ObserveStage(metrics.StageLint, time.Since(start))

	start = time.Now()
	frame, diags, err := b.parser.ParseBytes(data, path)
	b.metrics.ObserveStage(metrics.StageParse, time.Since(start))
	res.Diagnostics.Merge(diags)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, res.Diagnostics.ToError()
	}

	span.SetAttributes(tracing.AttrCount.Int(len(frame.Levels)))
	return frame, nil
}

func (b *Builder) loadSkeleton(ctx context.Context, opts Options, res *Result) (*skeleton.Document, error) {
	_, span := b.tracer.Start(ctx, tracing.SpanSkeleton)
	defer span.End()

	start := time.Now()
	defer func() { b.metrics.ObserveStage(metrics.StageSkeleton, time.Since(start)) }()

	doc, err := b.loader.Load(opts.SkeletonPath())
	if err != nil {
		var list *buildErrors.ErrorList
		if errors.As(err, &list) {
			res.Diagnostics.Merge(list)
		} else {
			res.Diagnostics.AddError(buildErrors.ErrorTypeIO, err.Error(), tutorial.Location{File: opts.SkeletonPath()})
		}
		tracing.RecordError(span, err)
		return nil, res.Diagnostics.ToError()
	}

	checks := skeleton.Check(doc, b.gate)
	res.Diagnostics.Merge(checks)
	if checks.HasErrors() {
		return nil, res.Diagnostics.ToError()
	}
	return doc, nil
}

func (b *Builder) readHistory(ctx context.Context, logger *slog.Logger, opts Options, branch string, res *Result) (*commits.Extraction, error) {
	ctx, span := b.tracer.Start(ctx, tracing.SpanHistory, tracing.AttrBranch.String(branch))
	defer span.End()

	start := time.Now()
	defer func() { b.metrics.ObserveStage(metrics.StageHistory, time.Since(start)) }()

	reader, cleanup, err := b.historyReader(ctx, logger, opts, branch)
	if err != nil {
		res.Diagnostics.AddError(buildErrors.ErrorTypeIO, err.Error(), tutorial.Location{File: opts.Dir})
		tracing.RecordError(span, err)
		return nil, res.Diagnostics.ToError()
	}
	defer cleanup()

	extraction, err := b.extractor.ExtractBranch(ctx, reader, branch)
	if err != nil {
		res.Diagnostics.AddError(buildErrors.ErrorTypeIO, err.Error(), tutorial.Location{File: opts.Dir})
		tracing.RecordError(span, err)
		return nil, res.Diagnostics.ToError()
	}

	res.Diagnostics.Merge(extraction.Diagnostics)
	res.Order = extraction.Order
	res.Commits = extraction.Commits

	if !extraction.Order.Valid() {
		logger.Warn("Commit positions are out of order", "trace", extraction.Order.Trace())
	}

	for token, hashes := range extraction.Commits {
		pos, err := commits.ParseToken(token)
		if err != nil {
			continue
		}
		b.metrics.RecordCommits(pos.Label(), len(hashes))
	}

	span.SetAttributes(tracing.AttrCount.Int(len(extraction.Tokens)))
	return extraction, nil
}

// historyReader picks the history source: an injected reader, a fresh clone
// of opts.Repo, or the repository containing opts.Dir.
func (b *Builder) historyReader(ctx context.Context, logger *slog.Logger, opts Options, branch string) (commits.HistoryReader, func(), error) {
	if b.history != nil {
		return b.history, func() {}, nil
	}

	if opts.Repo == "" {
		repo, err := git.Open(opts.Dir)
		if err != nil {
			return nil, nil, err
		}
		repo.SetLogger(logger)
		return repo, func() {}, nil
	}

	ws, err := git.NewWorkspace(opts.TempDir, "coderoad-build-*", false)
	if err != nil {
		return nil, nil, err
	}
	ws.SetLogger(logger)
	cleanup := func() {
		if err := ws.Close(); err != nil {
			logger.Warn("Failed to remove workspace", "error", err)
		}
	}

	repo, err := git.Clone(ctx, opts.Repo, ws.Dir, git.CloneOptions{
		Branch:  branch,
		Depth:   opts.CloneDepth,
		Auth:    opts.Auth,
		Timeout: opts.CloneTimeout,
	})
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	repo.SetLogger(logger)
	return repo, cleanup, nil
}

func (b *Builder) mergeTutorial(ctx context.Context, skel *tutorial.Skeleton, frame *lesson.Frame, cm commits.CommitMap, res *Result) {
	_, span := b.tracer.Start(ctx, tracing.SpanMerge)
	defer span.End()

	start := time.Now()
	t, diags := b.merger.Merge(skel, frame, cm)
	b.metrics.ObserveStage(metrics.StageMerge, time.Since(start))

	res.Tutorial = t
	res.Diagnostics.Merge(diags)
	b.metrics.RecordTutorial(len(t.Levels), t.StepCount())
	span.SetAttributes(tracing.AttrTutorial.String(t.ID), tracing.AttrCount.Int(len(t.Levels)))
}

func (b *Builder) validateTutorial(ctx context.Context, opts Options, res *Result) error {
	_, span := b.tracer.Start(ctx, tracing.SpanSchema)
	defer span.End()

	start := time.Now()
	defer func() { b.metrics.ObserveStage(metrics.StageSchema, time.Since(start)) }()

	result, err := b.gate.ValidateTutorial(res.Tutorial)
	if err != nil {
		res.Diagnostics.AddError(buildErrors.ErrorTypeSchema, err.Error(), tutorial.Location{File: opts.OutputPath()})
		tracing.RecordError(span, err)
		return res.Diagnostics.ToError()
	}
	res.Schema = result
	if result.Valid {
		return nil
	}

	severity := buildErrors.SeverityWarning
	if opts.Strict {
		severity = buildErrors.SeverityError
	}
	res.Diagnostics.Merge(result.ErrorList(severity, opts.OutputPath()))
	return res.Diagnostics.ToError()
}

// report logs every diagnostic and counts it.
func (b *Builder) report(logger *slog.Logger, diags *buildErrors.ErrorList) {
	for _, d := range diags.Errors {
		b.metrics.RecordDiagnostic(string(d.Type), string(d.Severity))

		attrs := []any{
			"type", d.Type,
			"location", d.Location.String(),
			"message", d.Message,
		}
		if d.IsFatal() {
			logger.Error("Build error", attrs...)
		} else {
			logger.Warn("Build warning", attrs...)
		}
	}
}
