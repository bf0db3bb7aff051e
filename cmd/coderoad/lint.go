package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/coderoad/coderoad-cli/pkg/build"
	"github.com/coderoad/coderoad-cli/pkg/cli"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/lesson"
	"github.com/coderoad/coderoad-cli/pkg/schema"
	"github.com/coderoad/coderoad-cli/pkg/skeleton"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

var lintCmd = &cobra.Command{
	Use:   "lint [dir]",
	Short: "Check the lesson text and skeleton",
	Long: `Check the lesson text and the YAML skeleton without reading git history.

The lesson is checked for header structure and parsed; the skeleton is
checked against the skeleton schema and for duplicate or malformed ids.

Examples:
  # Lint the tutorial in the current directory
  coderoad lint

  # Fail on warnings too
  coderoad lint --strict

  # Machine-readable diagnostics
  coderoad lint --format json ./my-tutorial`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLint,
}

var lintFlags struct {
	input  inputFlags
	strict bool
	format string
}

func init() {
	rootCmd.AddCommand(lintCmd)

	lintFlags.input.register(lintCmd, false)
	lintCmd.Flags().BoolVar(&lintFlags.strict, "strict", false, "treat warnings as errors")
	lintCmd.Flags().StringVar(&lintFlags.format, "format", "text", "output format (text, json)")
}

func runLint(cmd *cobra.Command, args []string) error {
	cfg := currentConfig()
	lintFlags.input.apply(&cfg.Build, args)

	formatter, err := textOrJSON(lintFlags.format)
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

	logger := slog.Default()
	diags := buildErrors.NewErrorList()
	lintLesson(opts.MarkdownPath(), logger, diags)
	if err := lintSkeleton(opts.SkeletonPath(), logger, diags); err != nil {
		return err
	}

	if err := formatter.FormatTo(cmd.OutOrStdout(), cli.DiagnosticsView{Diagnostics: diags}); err != nil {
		return err
	}

	fatal, warnings := len(diags.Fatal()), len(diags.Warnings())
	switch {
	case fatal > 0:
		return cli.NewCommandError("lint", fmt.Errorf("%d errors, %d warnings", fatal, warnings))
	case lintFlags.strict && warnings > 0:
		return cli.NewCommandError("lint", fmt.Errorf("%d warnings (strict)", warnings))
	}
	return nil
}

func lintLesson(path string, logger *slog.Logger, diags *buildErrors.ErrorList) {
	data, err := os.ReadFile(path)
	if err != nil {
		diags.AddError(buildErrors.ErrorTypeIO, fmt.Sprintf("failed to read lesson file: %v", err), tutorial.Location{File: path})
		return
	}

	diags.Merge(lesson.Lint(data, path))

	// Parse errors are already in the returned list.
	_, parsed, _ := lesson.NewParser().WithLogger(logger).ParseBytes(data, path)
	diags.Merge(parsed)
}

func lintSkeleton(path string, logger *slog.Logger, diags *buildErrors.ErrorList) error {
	doc, err := skeleton.NewLoader().WithLogger(logger).Load(path)
	if err != nil {
		var list *buildErrors.ErrorList
		if errors.As(err, &list) {
			diags.Merge(list)
		} else {
			diags.AddError(buildErrors.ErrorTypeIO, err.Error(), tutorial.Location{File: path})
		}
		return nil
	}

	gate, err := schema.NewGate()
	if err != nil {
		return fmt.Errorf("failed to load schemas: %w", err)
	}
	gate.SetLogger(logger)

	diags.Merge(skeleton.Check(doc, gate))
	return nil
}

// textOrJSON returns the formatter for commands without a JUnit rendering.
func textOrJSON(format string) (cli.Formatter, error) {
	if cli.OutputFormat(format) == cli.FormatJUnit {
		return nil, cli.NewConfigError("format", "junit output is only available for validate")
	}
	return cli.NewFormatter(cli.OutputFormat(format))
}
