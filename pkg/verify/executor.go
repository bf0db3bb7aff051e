package verify

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"
)

// Output is what a command printed and how it exited.
type Output struct {
	Stdout   string
	Stderr   string
	ExitCode int // -1 when the command did not exit on its own
}

// Combined returns stdout followed by stderr.
func (o Output) Combined() string {
	switch {
	case o.Stderr == "":
		return o.Stdout
	case o.Stdout == "":
		return o.Stderr
	default:
		return o.Stdout + "\n" + o.Stderr
	}
}

// Executor runs shell commands.
type Executor interface {
	// Run executes command in dir. A non-zero exit is reported as an error
	// together with the captured Output.
	Run(ctx context.Context, dir, command string) (Output, error)
}

// Picker applies a commit onto the worktree in dir.
type Picker interface {
	CherryPick(ctx context.Context, dir, hash string) error
}

// waitDelay bounds how long a killed command's children may hold its output
// pipes open.
const waitDelay = time.Second

// ShellExecutor runs commands through "sh -c".
type ShellExecutor struct {
	Shell string
	Env   []string
}

// NewShellExecutor creates an executor using sh from PATH.
func NewShellExecutor() *ShellExecutor {
	return &ShellExecutor{Shell: "sh"}
}

// Run implements Executor.
func (e *ShellExecutor) Run(ctx context.Context, dir, command string) (Output, error) {
	cmd := exec.CommandContext(ctx, e.Shell, "-c", command)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), e.Env...)
	cmd.WaitDelay = waitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	out := Output{
		Stdout:   strings.TrimSpace(stdout.String()),
		Stderr:   strings.TrimSpace(stderr.String()),
		ExitCode: -1,
	}
	if cmd.ProcessState != nil {
		out.ExitCode = cmd.ProcessState.ExitCode()
	}
	if err == nil {
		return out, nil
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		return out, fmt.Errorf("command %q: %w", command, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return out, fmt.Errorf("command %q exited with status %d", command, out.ExitCode)
	}
	return out, fmt.Errorf("command %q: %w", command, err)
}

// quote wraps s in single quotes for sh.
func quote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
