package git

import "time"

// CommitInfo contains metadata about a Git commit.
type CommitInfo struct {
	SHA       string    `json:"sha"`
	Author    string    `json:"author"`
	Email     string    `json:"email"`
	Timestamp time.Time `json:"timestamp"`
	Message   string    `json:"message"`
	Branch    string    `json:"branch,omitempty"`
}

// CloneOptions configures Clone.
type CloneOptions struct {
	// Branch to clone and check out. Empty uses the remote HEAD.
	Branch string

	// Depth limits history; 0 clones everything.
	Depth int

	// Auth authenticates against the remote. Nil means no authentication.
	Auth AuthProvider

	// Timeout bounds the clone. Zero means no limit beyond ctx.
	Timeout time.Duration

	// NoCheckout leaves the worktree empty after fetching.
	NoCheckout bool
}
