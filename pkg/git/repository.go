package git

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"

	"github.com/coderoad/coderoad-cli/pkg/commits"
)

// DefaultRemote is the remote name used for clones.
const DefaultRemote = "origin"

// ErrBranchNotFound is returned when neither a local nor a remote-tracking
// branch of the requested name exists.
var ErrBranchNotFound = errors.New("branch not found")

// Repository is an opened tutorial code repository.
type Repository struct {
	path   string
	repo   *gogit.Repository
	logger *slog.Logger
	mu     sync.RWMutex
}

// Open opens the repository containing path. Parent directories are searched
// for the .git directory.
func Open(path string) (*Repository, error) {
	repo, err := gogit.PlainOpenWithOptions(path, &gogit.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open repository %s: %w", path, err)
	}
	return &Repository{path: path, repo: repo, logger: slog.Default()}, nil
}

// Clone clones url into dir and checks out opts.Branch.
func Clone(ctx context.Context, url, dir string, opts CloneOptions) (*Repository, error) {
	if url == "" {
		return nil, fmt.Errorf("repository URL cannot be empty")
	}

	cloneOpts := &gogit.CloneOptions{
		URL:        url,
		RemoteName: DefaultRemote,
		Depth:      opts.Depth,
		NoCheckout: opts.NoCheckout,
	}
	if opts.Branch != "" {
		cloneOpts.ReferenceName = plumbing.NewBranchReferenceName(opts.Branch)
		cloneOpts.SingleBranch = true
	}

	if opts.Auth != nil {
		auth, err := opts.Auth.GetAuth()
		if err != nil {
			return nil, fmt.Errorf("failed to get auth: %w", err)
		}
		cloneOpts.Auth = auth
	}

	if opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	repo, err := gogit.PlainCloneContext(ctx, dir, false, cloneOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to clone repository: %w", err)
	}

	r := &Repository{path: dir, repo: repo, logger: slog.Default()}
	r.logger.Debug("Cloned repository",
		"dir", dir,
		"branch", opts.Branch,
		"duration", time.Since(start),
	)
	return r, nil
}

// SetLogger replaces the repository logger.
func (r *Repository) SetLogger(logger *slog.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Path returns the directory the repository was opened or cloned at.
func (r *Repository) Path() string {
	return r.path
}

// History returns the commits reachable from branch, newest first. An empty
// branch reads from HEAD. The walk stops when ctx is cancelled.
func (r *Repository) History(ctx context.Context, branch string) ([]commits.Commit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	from, err := r.resolve(branch)
	if err != nil {
		return nil, err
	}

	iter, err := r.repo.Log(&gogit.LogOptions{From: from})
	if err != nil {
		return nil, fmt.Errorf("failed to get commit log: %w", err)
	}
	defer iter.Close()

	var history []commits.Commit
	err = iter.ForEach(func(c *object.Commit) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		history = append(history, commits.Commit{
			Hash:    c.Hash.String(),
			Message: c.Message,
		})
		return nil
	})
	if err != nil && !errors.Is(err, storer.ErrStop) {
		return nil, fmt.Errorf("failed to iterate commits: %w", err)
	}

	r.logger.Debug("Read history", "branch", branch, "commits", len(history))
	return history, nil
}

// ResolveBranch returns the commit a branch points to.
func (r *Repository) ResolveBranch(branch string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	h, err := r.resolve(branch)
	if err != nil {
		return "", err
	}
	return h.String(), nil
}

// resolve looks the branch up locally, then as a remote-tracking branch.
func (r *Repository) resolve(branch string) (plumbing.Hash, error) {
	if branch == "" {
		ref, err := r.repo.Head()
		if err != nil {
			return plumbing.ZeroHash, fmt.Errorf("failed to get HEAD: %w", err)
		}
		return ref.Hash(), nil
	}

	names := []plumbing.ReferenceName{
		plumbing.NewBranchReferenceName(branch),
		plumbing.NewRemoteReferenceName(DefaultRemote, branch),
	}
	for _, name := range names {
		ref, err := r.repo.Reference(name, true)
		if err == nil {
			return ref.Hash(), nil
		}
		if !errors.Is(err, plumbing.ErrReferenceNotFound) {
			return plumbing.ZeroHash, fmt.Errorf("failed to resolve %s: %w", name, err)
		}
	}
	return plumbing.ZeroHash, fmt.Errorf("%w: %s", ErrBranchNotFound, branch)
}

// StartEmptyBranch points HEAD at a new branch holding a single empty root
// commit. Commits of the fetched history can then be replayed onto it from
// scratch.
func (r *Repository) StartEmptyBranch(branch string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := plumbing.NewBranchReferenceName(branch)
	if _, err := r.repo.Reference(name, false); err == nil {
		return fmt.Errorf("branch %s already exists", branch)
	}

	if err := r.repo.Storer.SetReference(plumbing.NewSymbolicReference(plumbing.HEAD, name)); err != nil {
		return fmt.Errorf("failed to point HEAD at %s: %w", branch, err)
	}

	worktree, err := r.repo.Worktree()
	if err != nil {
		return fmt.Errorf("failed to get worktree: %w", err)
	}

	sig := &object.Signature{Name: committerName, Email: committerEmail, When: time.Now()}
	hash, err := worktree.Commit("Start "+branch, &gogit.CommitOptions{
		Author:            sig,
		Committer:         sig,
		AllowEmptyCommits: true,
	})
	if err != nil {
		return fmt.Errorf("failed to create root commit on %s: %w", branch, err)
	}

	r.logger.Debug("Started empty branch", "branch", branch, "hash", hash.String())
	return nil
}

// Head returns metadata about the current HEAD commit.
func (r *Repository) Head() (*CommitInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ref, err := r.repo.Head()
	if err != nil {
		return nil, fmt.Errorf("failed to get HEAD: %w", err)
	}

	c, err := r.repo.CommitObject(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("failed to get commit: %w", err)
	}

	info := &CommitInfo{
		SHA:       c.Hash.String(),
		Author:    c.Author.Name,
		Email:     c.Author.Email,
		Timestamp: c.Author.When,
		Message:   c.Message,
	}
	if ref.Name().IsBranch() {
		info.Branch = ref.Name().Short()
	}
	return info, nil
}
