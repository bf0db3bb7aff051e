package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/coderoad/coderoad-cli/pkg/build"
	"github.com/coderoad/coderoad-cli/pkg/cli"
	"github.com/coderoad/coderoad-cli/pkg/watch"
)

var buildCmd = &cobra.Command{
	Use:   "build [dir]",
	Short: "Compile a tutorial into tutorial.json",
	Long: `Compile a tutorial from its lesson text, YAML skeleton and git history.

The tutorial branch (config.repo.branch in the skeleton, or --branch) is read
from the repository in [dir], or from a temporary clone of --repo. Commits
are attached to the tutorial by the position token that starts each
message.

Examples:
  # Build the tutorial in the current directory
  coderoad build

  # Custom file names
  coderoad build -m LESSON.md -y skeleton.yaml -o out/tutorial.json

  # Build from a remote repository and refuse schema failures
  coderoad build --repo https://github.com/coderoad/fcc-learn-npm --strict

  # Rebuild whenever the lesson or skeleton changes
  coderoad build --watch`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

var buildFlags struct {
	input      inputFlags
	output     string
	strict     bool
	watch      bool
	format     string
	metricsOut string
	traceOut   string
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildFlags.input.register(buildCmd, true)
	buildCmd.Flags().StringVarP(&buildFlags.output, "output", "o", "", "output file (default tutorial.json)")
	buildCmd.Flags().BoolVar(&buildFlags.strict, "strict", false, "do not write output that fails the tutorial schema")
	buildCmd.Flags().BoolVarP(&buildFlags.watch, "watch", "w", false, "rebuild when the lesson or skeleton changes")
	buildCmd.Flags().StringVar(&buildFlags.format, "format", "text", "summary format (text, json)")
	buildCmd.Flags().StringVar(&buildFlags.metricsOut, "metrics-out", "", "write Prometheus metrics to this file")
	buildCmd.Flags().StringVar(&buildFlags.traceOut, "trace-out", "", "write trace spans to this file")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	buildFlags.input.apply(&cfg.Build, args)
	if buildFlags.output != "" {
		cfg.Build.Output = buildFlags.output
	}
	if buildFlags.strict {
		cfg.Build.Strict = true
	}

	formatter, err := textOrJSON(buildFlags.format)
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

	tel, err := newTelemetry(cfg.Telemetry, buildFlags.metricsOut, buildFlags.traceOut)
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

	ctx := commandContext(cmd)
	once := func() error {
		res, err := builder.Run(ctx, opts)
		if res != nil {
			view := cli.BuildView{Result: res}
			if err == nil {
				view.Output = opts.OutputPath()
			}
			if ferr := formatter.FormatTo(cmd.OutOrStdout(), view); ferr != nil {
				return ferr
			}
		}
		if werr := tel.writeMetrics(); werr != nil {
			logger.Warn("Failed to write metrics", "error", werr)
		}
		return cli.NewCommandError("build", err)
	}

	if !buildFlags.watch {
		return once()
	}
	return watchBuild(ctx, opts, cfg.Watch.Debounce, logger, once)
}

// watchBuild runs an initial build and then rebuilds on every change to the
// lesson or skeleton until ctx is cancelled. Build failures are logged and
// watching continues.
func watchBuild(ctx context.Context, opts build.Options, debounce time.Duration, logger *slog.Logger, rebuild func() error) error {
	if err := rebuild(); err != nil {
		logger.Error("Build failed", "error", err)
	}

	w, err := watch.New([]string{opts.MarkdownPath(), opts.SkeletonPath()}, debounce, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer w.Stop()

	return w.Watch(ctx, func(path string) error {
		logger.Info("Rebuilding", "changed", path)
		return rebuild()
	})
}
