package git

import (
	"fmt"
	"log/slog"
	"os"
)

// Workspace is a scratch directory owned by one run.
type Workspace struct {
	Dir    string
	keep   bool
	logger *slog.Logger
}

// NewWorkspace creates a temporary directory under parent (the OS default
// when empty). With keep set, Close leaves the directory in place.
func NewWorkspace(parent, pattern string, keep bool) (*Workspace, error) {
	dir, err := os.MkdirTemp(parent, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}
	return &Workspace{Dir: dir, keep: keep, logger: slog.Default()}, nil
}

// SetLogger replaces the workspace logger.
func (w *Workspace) SetLogger(logger *slog.Logger) {
	if logger != nil {
		w.logger = logger
	}
}

// Close removes the directory unless the workspace is kept.
func (w *Workspace) Close() error {
	if w.keep {
		w.logger.Info("Keeping workspace", "dir", w.Dir)
		return nil
	}
	if err := os.RemoveAll(w.Dir); err != nil {
		return fmt.Errorf("failed to remove workspace %s: %w", w.Dir, err)
	}
	w.logger.Debug("Removed workspace", "dir", w.Dir)
	return nil
}
