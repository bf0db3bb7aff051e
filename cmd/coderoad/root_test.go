package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/coderoad/coderoad-cli/pkg/config"
)

const testLesson = `# Command Test

A tutorial used to exercise the command line.

## 1. Level One

> The first level

Level content

### Write a function

The first step
`

const testSkeleton = `id: command-test
version: "0.1.0"
config:
  testRunner:
    command: npm test
    args:
      tap: --reporter=mocha-tap-reporter
  repo:
    uri: https://github.com/coderoad/command-test.git
    branch: master
levels:
  - id: "1"
    steps:
      - id: "1.1"
        setup:
          files:
            - index.js
        solution:
          files:
            - index.js
`

func resetFlags() {
	buildFlags.input = inputFlags{}
	buildFlags.output = ""
	buildFlags.strict = false
	buildFlags.watch = false
	buildFlags.format = "text"
	buildFlags.metricsOut = ""
	buildFlags.traceOut = ""

	lintFlags.input = inputFlags{}
	lintFlags.strict = false
	lintFlags.format = "text"

	validateFlags.input = inputFlags{}
	validateFlags.keepTemp = false
	validateFlags.format = "text"
	validateFlags.timeout = 0
	validateFlags.metricsOut = ""
	validateFlags.traceOut = ""
}

// writeTutorial writes the lesson and skeleton into a fresh directory.
func writeTutorial(t *testing.T, lessonText, skeletonText string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, config.DefaultMarkdownFile), []byte(lessonText), 0644); err != nil {
		t.Fatalf("failed to write lesson: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, config.DefaultSkeletonFile), []byte(skeletonText), 0644); err != nil {
		t.Fatalf("failed to write skeleton: %v", err)
	}
	return dir
}

// commitHistory turns dir into a repository with one commit per message.
func commitHistory(t *testing.T, dir string, messages ...string) {
	t.Helper()
	repo, err := gogit.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("failed to init repo: %v", err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		t.Fatalf("failed to get worktree: %v", err)
	}

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, msg := range messages {
		if err := os.WriteFile(filepath.Join(dir, "index.js"), []byte(msg+"\n"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}
		if _, err := worktree.Add("index.js"); err != nil {
			t.Fatalf("failed to add file: %v", err)
		}
		if _, err := worktree.Commit(msg, &gogit.CommitOptions{
			Author: &object.Signature{Name: "Test User", Email: "test@example.com", When: base.Add(time.Duration(i) * time.Minute)},
		}); err != nil {
			t.Fatalf("failed to commit: %v", err)
		}
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := map[string]bool{"build": false, "lint": false, "validate": false, "version": false, "completion": false}
	for _, cmd := range rootCmd.Commands() {
		if _, ok := want[cmd.Name()]; ok {
			want[cmd.Name()] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("expected command %q to be registered", name)
		}
	}
}

func TestInputFlagsApply(t *testing.T) {
	tests := []struct {
		name  string
		flags inputFlags
		args  []string
		want  config.BuildConfig
	}{
		{
			name:  "defaults kept",
			flags: inputFlags{},
			want:  config.Default().Build,
		},
		{
			name:  "dir argument",
			flags: inputFlags{},
			args:  []string{"tutorials/npm"},
			want: func() config.BuildConfig {
				b := config.Default().Build
				b.Dir = "tutorials/npm"
				return b
			}(),
		},
		{
			name:  "every override",
			flags: inputFlags{markdown: "LESSON.md", skeleton: "skel.yaml", branch: "v2", repo: "https://example.com/t.git"},
			want: func() config.BuildConfig {
				b := config.Default().Build
				b.Markdown = "LESSON.md"
				b.Skeleton = "skel.yaml"
				b.Branch = "v2"
				b.Repo = "https://example.com/t.git"
				return b
			}(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := config.Default().Build
			tt.flags.apply(&got, tt.args)
			if got != tt.want {
				t.Errorf("apply() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestCommandContext(t *testing.T) {
	if commandContext(nil) == nil {
		t.Error("expected a background context for a nil command")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	buildCmd.SetContext(ctx)
	defer buildCmd.SetContext(context.Background())

	if commandContext(buildCmd) != ctx {
		t.Error("expected the command's own context")
	}
}
