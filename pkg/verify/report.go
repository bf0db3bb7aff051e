package verify

import (
	"fmt"
	"time"

	"github.com/coderoad/coderoad-cli/pkg/git"
)

// Phase is the part of the tutorial timeline a check belongs to.
type Phase string

const (
	PhaseInit     Phase = "init"
	PhaseLevel    Phase = "level"
	PhaseSetup    Phase = "setup"
	PhaseSolution Phase = "solution"
)

// Kind is what a check exercised.
type Kind string

const (
	KindCommit  Kind = "commit"
	KindCommand Kind = "command"
	KindTest    Kind = "test"
)

// Expectation is the outcome a test run must have.
type Expectation string

const (
	ExpectFail Expectation = "fail"
	ExpectPass Expectation = "pass"
)

// Check is one applied commit, command or test run.
type Check struct {
	Level    string        `json:"level,omitempty"`
	Step     string        `json:"step,omitempty"`
	Phase    Phase         `json:"phase"`
	Kind     Kind          `json:"kind"`
	Target   string        `json:"target"`
	Expect   Expectation   `json:"expect,omitempty"`
	Passed   bool          `json:"passed"`
	Message  string        `json:"message,omitempty"`
	Output   string        `json:"output,omitempty"`
	Duration time.Duration `json:"duration"`
}

// Position returns the step, level or "INIT" the check ran for.
func (c Check) Position() string {
	switch {
	case c.Step != "":
		return c.Step
	case c.Level != "":
		return c.Level
	default:
		return "INIT"
	}
}

// Report aggregates the checks of one validation run.
type Report struct {
	TutorialID string        `json:"tutorial"`
	Passed     bool          `json:"passed"`
	Checks     []Check       `json:"checks"`
	Failures   int           `json:"failures"`
	Duration   time.Duration `json:"duration"`

	// SourceCommit is the tip of the tutorial branch that was replayed.
	SourceCommit string `json:"source_commit,omitempty"`

	// Head is the last commit on the replay branch.
	Head *git.CommitInfo `json:"head,omitempty"`

	// Workspace is the kept scratch clone, empty when it was removed.
	Workspace string `json:"workspace,omitempty"`
}

func (r *Report) add(c Check) {
	r.Checks = append(r.Checks, c)
	if !c.Passed {
		r.Failures++
	}
}

// Failed returns the checks that did not pass.
func (r *Report) Failed() []Check {
	var failed []Check
	for _, c := range r.Checks {
		if !c.Passed {
			failed = append(failed, c)
		}
	}
	return failed
}

// Err returns an error summarizing the failures, or nil when every check
// passed.
func (r *Report) Err() error {
	if r.Failures == 0 {
		return nil
	}
	return fmt.Errorf("validation failed: %d of %d checks failed", r.Failures, len(r.Checks))
}
