package verify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/coderoad/coderoad-cli/pkg/build"
	"github.com/coderoad/coderoad-cli/pkg/git"
)

// ReplayBranch is the branch the tutorial is replayed onto.
const ReplayBranch = "coderoad-validate"

// Options configures a validation run.
type Options struct {
	Build build.Options

	// KeepTemp leaves the scratch clone in place for inspection.
	KeepTemp bool

	// TempDir is the parent of the scratch clone; empty uses the OS default.
	TempDir string
}

// Validator builds a tutorial and replays it in a scratch clone.
type Validator struct {
	builder *build.Builder
	runner  *Runner
	logger  *slog.Logger
}

// NewValidator creates a validator.
func NewValidator(builder *build.Builder, runner *Runner) *Validator {
	return &Validator{builder: builder, runner: runner, logger: slog.Default()}
}

// WithLogger sets the logger.
func (v *Validator) WithLogger(logger *slog.Logger) *Validator {
	if logger != nil {
		v.logger = logger
	}
	return v
}

// Validate builds the tutorial, clones its repository and replays it. The
// build result is returned even when the build fails; the report is nil
// until the replay starts. The scratch clone is removed on return unless
// opts.KeepTemp is set.
func (v *Validator) Validate(ctx context.Context, opts Options) (*Report, *build.Result, error) {
	res, err := v.builder.Build(ctx, opts.Build)
	if err != nil {
		return nil, res, err
	}
	t := res.Tutorial

	uri := opts.Build.Repo
	if uri == "" {
		uri = t.Config.Repo.URI
	}
	branch := opts.Build.Branch
	if branch == "" {
		branch = t.Config.Repo.Branch
	}

	ws, err := git.NewWorkspace(opts.TempDir, "coderoad-validate-*", opts.KeepTemp)
	if err != nil {
		return nil, res, err
	}
	ws.SetLogger(v.logger)
	defer func() {
		if err := ws.Close(); err != nil {
			v.logger.Warn("Failed to remove workspace", "error", err)
		}
	}()

	repo, err := git.Clone(ctx, uri, ws.Dir, git.CloneOptions{
		Branch:     branch,
		Auth:       opts.Build.Auth,
		Timeout:    opts.Build.CloneTimeout,
		NoCheckout: true,
	})
	if err != nil {
		return nil, res, fmt.Errorf("failed to clone %s: %w", uri, err)
	}
	repo.SetLogger(v.logger)

	source, err := repo.ResolveBranch(branch)
	if err != nil {
		return nil, res, err
	}
	v.logger.Debug("Replaying tutorial", "branch", branch, "source", source)

	if err := repo.StartEmptyBranch(ReplayBranch); err != nil {
		return nil, res, err
	}

	report, err := v.runner.Run(ctx, t, repo.Path())
	report.SourceCommit = source
	if head, herr := repo.Head(); herr != nil {
		v.logger.Warn("Failed to read replay head", "error", herr)
	} else {
		report.Head = head
	}
	if opts.KeepTemp {
		report.Workspace = repo.Path()
	}
	return report, res, err
}
