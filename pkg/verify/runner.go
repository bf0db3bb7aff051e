package verify

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/coderoad/coderoad-cli/pkg/config"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/metrics"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/tracing"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// maxOutput bounds the command output kept on a check.
const maxOutput = 4096

// Progress receives the number of finished steps.
type Progress interface {
	Start(total int64)
	Update(current int64)
	Finish()
}

// Runner replays a tutorial in a prepared worktree.
type Runner struct {
	executor Executor
	picker   Picker
	timeout  time.Duration
	progress Progress

	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
}

// NewRunner creates a runner that applies commits with picker and runs
// commands and tests with executor.
func NewRunner(executor Executor, picker Picker) *Runner {
	return &Runner{
		executor: executor,
		picker:   picker,
		timeout:  config.DefaultCommandTimeout,
		logger:   slog.Default(),
		tracer:   tracing.Noop(),
	}
}

// WithTimeout bounds every cherry-pick, command and test run.
func (r *Runner) WithTimeout(d time.Duration) *Runner {
	if d > 0 {
		r.timeout = d
	}
	return r
}

// WithLogger sets the logger.
func (r *Runner) WithLogger(logger *slog.Logger) *Runner {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// WithMetrics counts checks into c.
func (r *Runner) WithMetrics(c *metrics.Collector) *Runner {
	r.metrics = c
	return r
}

// WithProgress reports finished steps to p.
func (r *Runner) WithProgress(p Progress) *Runner {
	r.progress = p
	return r
}

// WithTracer creates a span per step with t.
func (r *Runner) WithTracer(t *tracing.Tracer) *Runner {
	if t != nil {
		r.tracer = t
	}
	return r
}

// scope locates a check in the tutorial.
type scope struct {
	level string
	step  string
	phase Phase
}

func (s scope) check(kind Kind, target string) Check {
	return Check{Level: s.level, Step: s.step, Phase: s.phase, Kind: kind, Target: target}
}

// Run replays t in dir, which must hold a worktree the tutorial commits can
// be picked onto. Every check runs even after a failure; the returned error
// is non-nil only when ctx ends the run early.
func (r *Runner) Run(ctx context.Context, t *tutorial.Tutorial, dir string) (*Report, error) {
	start := time.Now()
	ctx, span := r.tracer.Start(ctx, tracing.SpanVerify, tracing.AttrTutorial.String(t.ID))
	defer span.End()

	report := &Report{TutorialID: t.ID}
	if r.progress != nil {
		r.progress.Start(int64(t.StepCount()))
	}
	finish := func(err error) (*Report, error) {
		if r.progress != nil {
			r.progress.Finish()
		}
		report.Duration = time.Since(start)
		report.Passed = err == nil && report.Failures == 0
		span.SetAttributes(tracing.AttrCount.Int(len(report.Checks)))
		if err != nil {
			tracing.RecordError(span, err)
		} else {
			tracing.RecordError(span, report.Err())
		}
		return report, err
	}

	r.logger.Info("Validating tutorial", "id", t.ID, "dir", dir)

	if setup := t.Config.Setup; setup != nil {
		is := scope{phase: PhaseInit}
		r.applyCommits(ctx, report, dir, is, setup.Commits)
		r.runCommands(ctx, report, dir, is, setup.Commands)
	}

	done := 0
	for _, lvl := range t.Levels {
		if err := ctx.Err(); err != nil {
			return finish(err)
		}
		if lvl.Setup != nil {
			ls := scope{level: lvl.ID, phase: PhaseLevel}
			r.applyCommits(ctx, report, dir, ls, lvl.Setup.Commits)
			r.runCommands(ctx, report, dir, ls, lvl.Setup.Commands)
		}

		for _, st := range lvl.Steps {
			if err := ctx.Err(); err != nil {
				return finish(err)
			}
			r.runStep(ctx, report, dir, t.Config.TestRunner, lvl.ID, st)

			done++
			if r.progress != nil {
				r.progress.Update(int64(done))
			}
		}
	}

	if err := ctx.Err(); err != nil {
		return finish(err)
	}

	report, err := finish(nil)
	r.logger.Info("Validation finished",
		"id", t.ID,
		"checks", len(report.Checks),
		"failures", report.Failures,
		"duration", report.Duration,
	)
	return report, err
}

func (r *Runner) runStep(ctx context.Context, report *Report, dir string, runner tutorial.TestRunnerConfig, levelID string, st tutorial.Step) {
	ctx, span := r.tracer.Start(ctx, tracing.SpanStep,
		tracing.AttrLevel.String(levelID),
		tracing.AttrStep.String(st.ID),
	)
	defer span.End()

	failures := report.Failures

	setup := scope{level: levelID, step: st.ID, phase: PhaseSetup}
	r.applyCommits(ctx, report, dir, setup, st.Setup.Commits)
	r.runCommands(ctx, report, dir, setup, st.Setup.Commands)

	if st.Solution != nil {
		filter := st.Setup.Filter
		if filter == "" {
			filter = st.Solution.Filter
		}
		command := TestCommand(runner, filter)
		testDir := filepath.Join(dir, runner.Directory)

		r.runTest(ctx, report, testDir, setup, command, ExpectFail)

		solution := scope{level: levelID, step: st.ID, phase: PhaseSolution}
		r.applyCommits(ctx, report, dir, solution, st.Solution.Commits)
		r.runCommands(ctx, report, dir, solution, st.Solution.Commands)

		r.runTest(ctx, report, testDir, solution, command, ExpectPass)
	}

	if n := report.Failures - failures; n > 0 {
		tracing.RecordError(span, fmt.Errorf("step %s: %d checks failed", st.ID, n))
	}
}

func (r *Runner) applyCommits(ctx context.Context, report *Report, dir string, s scope, hashes []string) {
	for _, hash := range hashes {
		c := s.check(KindCommit, hash)
		start := time.Now()

		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		err := r.picker.CherryPick(stepCtx, dir, hash)
		cancel()

		c.Duration = time.Since(start)
		c.Passed = err == nil
		if err != nil {
			c.Message = err.Error()
		}
		r.record(report, c)
	}
}

func (r *Runner) runCommands(ctx context.Context, report *Report, dir string, s scope, commands []string) {
	for _, command := range commands {
		c := s.check(KindCommand, command)
		start := time.Now()

		stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
		out, err := r.executor.Run(stepCtx, dir, command)
		cancel()

		c.Duration = time.Since(start)
		c.Passed = err == nil
		if err != nil {
			c.Message = err.Error()
			c.Output = truncateOutput(out.Combined())
		}
		r.record(report, c)
	}
}

func (r *Runner) runTest(ctx context.Context, report *Report, dir string, s scope, command string, expect Expectation) {
	c := s.check(KindTest, command)
	c.Expect = expect
	start := time.Now()

	stepCtx, cancel := context.WithTimeout(ctx, r.timeout)
	out, err := r.executor.Run(stepCtx, dir, command)
	cancel()

	c.Duration = time.Since(start)
	switch {
	case err != nil && out.ExitCode < 0:
		// Timed out or never started; neither outcome counts as a failing test.
		c.Passed = false
		c.Message = err.Error()
	case expect == ExpectPass:
		c.Passed = err == nil
		if !c.Passed {
			c.Message = "tests failed after the solution was applied"
		}
	default:
		c.Passed = err != nil
		if !c.Passed {
			c.Message = "tests passed before the solution was applied"
		}
	}
	if !c.Passed {
		c.Output = truncateOutput(out.Combined())
	}
	r.record(report, c)
}

func (r *Runner) record(report *Report, c Check) {
	report.add(c)
	r.metrics.RecordVerifyCheck(c.Passed)

	if c.Passed {
		r.logger.Debug("Check passed",
			"position", c.Position(),
			"phase", c.Phase,
			"kind", c.Kind,
			"target", c.Target,
		)
		return
	}
	r.logger.Warn("Check failed",
		"position", c.Position(),
		"phase", c.Phase,
		"kind", c.Kind,
		"target", c.Target,
		"message", c.Message,
	)
}

// TestCommand returns the shell command that runs the tutorial tests. The
// filter flag is added only when both the runner and the step define one.
func TestCommand(runner tutorial.TestRunnerConfig, filter string) string {
	parts := []string{runner.Command}
	if runner.Args.Tap != "" {
		parts = append(parts, runner.Args.Tap)
	}
	if filter != "" && runner.Args.Filter != "" {
		parts = append(parts, runner.Args.Filter, quote(filter))
	}
	return strings.Join(parts, " ")
}

// truncateOutput keeps the tail of long output, where test failures are
// usually reported.
func truncateOutput(s string) string {
	if len(s) <= maxOutput {
		return s
	}
	return "..." + s[len(s)-maxOutput:]
}
