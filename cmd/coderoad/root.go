package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/coderoad/coderoad-cli/pkg/cli"
	"github.com/coderoad/coderoad-cli/pkg/config"
	"github.com/coderoad/coderoad-cli/pkg/telemetry/logging"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "coderoad",
	Short: "Build and validate CodeRoad tutorials",
	Long: `coderoad compiles a CodeRoad tutorial from its lesson text, its YAML
skeleton and the commit history of its code repository.

Commit messages on the tutorial branch carry position tokens:
  INIT        tutorial setup
  1           level 1 setup
  1.2 / 1.2T  step 1.2 setup (tests for the learner)
  1.2S        step 1.2 solution

Legacy tokens (L1, L1S2, L1S2Q, L1S2A) are still accepted.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initCommand,
}

// Execute runs the root command under a context cancelled by SIGINT or
// SIGTERM and exits with the matching status.
func Execute() {
	ctx, stop := cli.SignalContext(context.Background())
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.DefaultConfigFile, "config file path (optional)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// initCommand loads the configuration and installs the default logger.
func initCommand(cmd *cobra.Command, args []string) error {
	if err := config.Initialize(cfgFile); err != nil {
		return cli.NewConfigError(cfgFile, err.Error())
	}
	cfg := config.GetConfig()

	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, verbose, cmd.ErrOrStderr()))
	if err != nil {
		return cli.NewConfigError("telemetry.logging", err.Error())
	}
	slog.SetDefault(logger)
	return nil
}

// currentConfig returns a copy of the loaded configuration, or the defaults
// when none was loaded. Commands apply their flags to the copy.
func currentConfig() config.Config {
	if cfg := config.GetConfig(); cfg != nil {
		return *cfg
	}
	return *config.Default()
}

func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}

// inputFlags are the tutorial location flags shared by every command.
type inputFlags struct {
	markdown string
	skeleton string
	branch   string
	repo     string
}

func (f *inputFlags) register(cmd *cobra.Command, withGit bool) {
	cmd.Flags().StringVarP(&f.markdown, "markdown", "m", "", "lesson file (default "+config.DefaultMarkdownFile+")")
	cmd.Flags().StringVarP(&f.skeleton, "yaml", "y", "", "skeleton file (default "+config.DefaultSkeletonFile+")")
	if withGit {
		cmd.Flags().StringVar(&f.branch, "branch", "", "tutorial branch (default config.repo.branch)")
		cmd.Flags().StringVar(&f.repo, "repo", "", "clone this repository instead of reading the tutorial directory")
	}
}

// apply overrides cfg with the flags set and the optional [dir] argument.
func (f *inputFlags) apply(cfg *config.BuildConfig, args []string) {
	if len(args) > 0 {
		cfg.Dir = args[0]
	}
	if f.markdown != "" {
		cfg.Markdown = f.markdown
	}
	if f.skeleton != "" {
		cfg.Skeleton = f.skeleton
	}
	if f.branch != "" {
		cfg.Branch = f.branch
	}
	if f.repo != "" {
		cfg.Repo = f.repo
	}
}

func validateConfig(cfg *config.Config) error {
	if err := config.Validate(cfg); err != nil {
		return cli.NewConfigError("configuration", err.Error())
	}
	return nil
}
