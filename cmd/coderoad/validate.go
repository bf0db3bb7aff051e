package main

import (
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/coderoad/coderoad-cli/pkg/build"
	"github.com/coderoad/coderoad-cli/pkg/cli"
	"github.com/coderoad/coderoad-cli/pkg/git"
	"github.com/coderoad/coderoad-cli/pkg/verify"
)

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Replay a tutorial and run its tests",
	Long: `Build the tutorial, then replay it in a scratch clone of its repository.

Every commit is cherry-picked and every command is run in tutorial order.
For each step with a solution, the tests must fail after the step's setup
and pass after its solution. The clone is removed afterwards unless
--keep-temp is given.

Examples:
  # Validate the tutorial in the current directory
  coderoad validate

  # JUnit XML for CI
  coderoad validate --output-format junit > report.xml

  # Keep the scratch clone and allow slow installs
  coderoad validate --keep-temp --timeout 10m`,
	Args: cobra.MaximumNArgs(1),
	RunE: runValidate,
}

var validateFlags struct {
	input      inputFlags
	keepTemp   bool
	format     string
	timeout    time.Duration
	metricsOut string
	traceOut   string
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateFlags.input.register(validateCmd, true)
	validateCmd.Flags().BoolVar(&validateFlags.keepTemp, "keep-temp", false, "keep the scratch clone")
	validateCmd.Flags().StringVar(&validateFlags.format, "output-format", "text", "report format (text, json, junit)")
	validateCmd.Flags().DurationVar(&validateFlags.timeout, "timeout", 0, "timeout for each command and test run (default 2m)")
	validateCmd.Flags().StringVar(&validateFlags.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	validateCmd.Flags().StringVar(&validateFlags.traceOut, "trace-out", "", "write trace spans to this file")
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	validateFlags.input.apply(&cfg.Build, args)
	if validateFlags.keepTemp {
		cfg.Validate.KeepTemp = true
	}
	if validateFlags.timeout > 0 {
		cfg.Validate.CommandTimeout = validateFlags.timeout
	}

	format := cli.OutputFormat(validateFlags.format)
	formatter, err := cli.NewFormatter(format)
	if err != nil {
		return err
	}
	if err := validateConfig(&cfg); err != nil {
		return err
	}

	opts, err := build.OptionsFromConfig(&cfg)
	if err != nil {
		return cli.NewConfigError("git.auth", err.Error())
	}

	tel, err := newTelemetry(cfg.Telemetry, validateFlags.metricsOut, validateFlags.traceOut)
	if err != nil {
		return cli.NewConfigError("telemetry", err.Error())
	}
	defer func() {
		if err := tel.close(); err != nil {
			slog.Warn("Failed to flush telemetry", "error", err)
		}
	}()

	logger := slog.Default()
	builder, err := build.NewBuilder()
	if err != nil {
		return err
	}
	builder.WithLogger(logger).WithMetrics(tel.metrics).WithTracer(tel.tracer)

	runner := verify.NewRunner(verify.NewShellExecutor(), git.NewCherryPicker(logger)).
		WithTimeout(cfg.Validate.CommandTimeout).
		WithLogger(logger).
		WithMetrics(tel.metrics).
		WithTracer(tel.tracer)
	if format == cli.FormatText {
		runner.WithProgress(cli.NewProgressReporter(cmd.ErrOrStderr(), "steps"))
	}

	validator := verify.NewValidator(builder, runner).WithLogger(logger)
	report, res, err := validator.Validate(commandContext(cmd), verify.Options{
		Build:    opts,
		KeepTemp: cfg.Validate.KeepTemp,
		TempDir:  cfg.Validate.TempDir,
	})

	if report == nil {
		// The build or the clone failed; show the build diagnostics.
		if res != nil {
			view := cli.DiagnosticsView{Diagnostics: res.Diagnostics}
			if ferr := (&cli.TextFormatter{}).FormatTo(cmd.ErrOrStderr(), view); ferr != nil {
				logger.Warn("Failed to print diagnostics", "error", ferr)
			}
		}
		return cli.NewCommandError("validate", err)
	}

	if ferr := formatter.FormatTo(cmd.OutOrStdout(), cli.ReportView{Report: report}); ferr != nil {
		return ferr
	}
	if err == nil {
		err = report.Err()
	}
	return cli.NewCommandError("validate", err)
}
