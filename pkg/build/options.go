package build

import (
	"path/filepath"
	"time"

	"github.com/coderoad/coderoad-cli/pkg/config"
	"github.com/coderoad/coderoad-cli/pkg/git"
)

// Options describes the inputs and output of one build.
type Options struct {
	// Dir is the tutorial directory. Relative file names resolve against it
	// and, unless Repo is set, it is also the repository history is read from.
	Dir string

	Markdown string
	Skeleton string
	Output   string

	// Branch overrides config.repo.branch from the skeleton.
	Branch string

	// Repo is a remote repository cloned into a scratch workspace and used
	// for history instead of Dir.
	Repo string

	// Strict turns tutorial schema failures into fatal errors.
	Strict bool

	Auth         git.AuthProvider
	CloneDepth   int
	CloneTimeout time.Duration
	TempDir      string
}

// OptionsFromConfig builds Options from the build and git sections of cfg.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	auth, err := git.NewAuthProvider(cfg.Git.Auth)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Dir:          cfg.Build.Dir,
		Markdown:     cfg.Build.Markdown,
		Skeleton:     cfg.Build.Skeleton,
		Output:       cfg.Build.Output,
		Branch:       cfg.Build.Branch,
		Repo:         cfg.Build.Repo,
		Strict:       cfg.Build.Strict,
		Auth:         auth,
		CloneDepth:   cfg.Git.Clone.Depth,
		CloneTimeout: cfg.Git.Clone.Timeout,
		TempDir:      cfg.Validate.TempDir,
	}, nil
}

func (o Options) withDefaults() Options {
	if o.Dir == "" {
		o.Dir = config.DefaultBuildDir
	}
	if o.Markdown == "" {
		o.Markdown = config.DefaultMarkdownFile
	}
	if o.Skeleton == "" {
		o.Skeleton = config.DefaultSkeletonFile
	}
	if o.Output == "" {
		o.Output = config.DefaultOutputFile
	}
	return o
}

// MarkdownPath returns the lesson file path.
func (o Options) MarkdownPath() string {
	return o.resolve(o.Markdown)
}

// SkeletonPath returns the skeleton file path.
func (o Options) SkeletonPath() string {
	return o.resolve(o.Skeleton)
}

// OutputPath returns the output file path.
func (o Options) OutputPath() string {
	return o.resolve(o.Output)
}

func (o Options) resolve(name string) string {
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(o.Dir, name)
}
