package git

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

const (
	committerName  = "coderoad"
	committerEmail = "coderoad@localhost"
)

// committerEnv lets picks succeed in scratch clones without a git identity.
var committerEnv = []string{
	"GIT_COMMITTER_NAME=" + committerName,
	"GIT_COMMITTER_EMAIL=" + committerEmail,
}

// CherryPicker applies commits onto a worktree with the git binary.
type CherryPicker struct {
	binary string
	logger *slog.Logger
}

// NewCherryPicker returns a picker using "git" from PATH.
func NewCherryPicker(logger *slog.Logger) *CherryPicker {
	if logger == nil {
		logger = slog.Default()
	}
	return &CherryPicker{binary: "git", logger: logger}
}

// CherryPick applies hash in dir. Conflicts resolve in favor of the picked
// commit. A failed pick is aborted so the worktree is left clean.
func (c *CherryPicker) CherryPick(ctx context.Context, dir, hash string) error {
	out, err := c.run(ctx, dir, "cherry-pick", "-X", "theirs", "--allow-empty", "--keep-redundant-commits", hash)
	if err != nil {
		if _, abortErr := c.run(context.WithoutCancel(ctx), dir, "cherry-pick", "--abort"); abortErr != nil {
			c.logger.Debug("Cherry-pick abort failed", "dir", dir, "error", abortErr)
		}
		return fmt.Errorf("cherry-pick %s: %w: %s", hash, err, strings.TrimSpace(out))
	}

	c.logger.Debug("Cherry-picked commit", "dir", dir, "hash", hash)
	return nil
}

func (c *CherryPicker) run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, c.binary, args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), committerEnv...)

	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out

	err := cmd.Run()
	return out.String(), err
}
