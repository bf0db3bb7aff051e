package merge

import (
	"fmt"

	"github.com/coderoad/coderoad-cli/pkg/commits"
	"github.com/coderoad/coderoad-cli/pkg/lesson"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

type levelSources struct {
	prose    lesson.Level
	skeleton *tutorial.SkeletonLevel
}

type stepSources struct {
	prose    lesson.Step
	skeleton *tutorial.SkeletonStep
}

type tutorialRule func(dst *tutorial.Tutorial, m *merger, frame *lesson.Frame)

type levelRule func(dst *tutorial.Level, m *merger, src levelSources)

type stepRule func(dst *tutorial.Step, m *merger, src stepSources)

var tutorialPrecedence = []tutorialRule{
	// id <- skeleton
	func(dst *tutorial.Tutorial, m *merger, _ *lesson.Frame) {
		dst.ID = m.skel.ID
	},
	// version <- skeleton
	func(dst *tutorial.Tutorial, m *merger, _ *lesson.Frame) {
		dst.Version = m.skel.Version
	},
	// summary <- lesson
	func(dst *tutorial.Tutorial, _ *merger, frame *lesson.Frame) {
		dst.Summary = frame.Summary
	},
	// config <- skeleton
	func(dst *tutorial.Tutorial, m *merger, _ *lesson.Frame) {
		dst.Config = m.skel.Config.Clone()
	},
	// config.setup.commits <- commits
	func(dst *tutorial.Tutorial, m *merger, _ *lesson.Frame) {
		hashes, ok := m.lookup(commits.InitPosition().String())
		if !ok {
			return
		}
		if dst.Config.Setup == nil {
			dst.Config.Setup = &tutorial.ConfigActions{}
		}
		dst.Config.Setup.Commits = hashes
	},
}

var levelPrecedence = []levelRule{
	// id <- lesson
	func(dst *tutorial.Level, _ *merger, src levelSources) {
		dst.ID = src.prose.ID
	},
	// title <- lesson
	func(dst *tutorial.Level, _ *merger, src levelSources) {
		dst.Title = src.prose.Title
	},
	// summary <- lesson
	func(dst *tutorial.Level, _ *merger, src levelSources) {
		dst.Summary = src.prose.Summary
	},
	// content <- lesson
	func(dst *tutorial.Level, _ *merger, src levelSources) {
		dst.Content = src.prose.Content
	},
	// setup <- skeleton
	func(dst *tutorial.Level, _ *merger, src levelSources) {
		dst.Setup = actions(src.skeleton.Setup)
	},
	// setup.commits <- commits
	func(dst *tutorial.Level, m *merger, src levelSources) {
		hashes, ok := m.lookup(src.prose.ID, "L"+src.prose.ID)
		if !ok {
			return
		}
		if dst.Setup == nil {
			dst.Setup = &tutorial.StepActions{}
		}
		dst.Setup.Commits = hashes
	},
}

var stepPrecedence = []stepRule{
	// id <- lesson
	func(dst *tutorial.Step, _ *merger, src stepSources) {
		dst.ID = src.prose.ID
	},
	// content <- lesson
	func(dst *tutorial.Step, _ *merger, src stepSources) {
		dst.Content = src.prose.Content
	},
	// hints <- lesson
	func(dst *tutorial.Step, _ *merger, src stepSources) {
		dst.Hints = cloneStrings(src.prose.Hints)
	},
	// subtasks <- lesson
	func(dst *tutorial.Step, _ *merger, src stepSources) {
		dst.Subtasks = cloneStrings(src.prose.Subtasks)
	},
	// setup <- skeleton
	func(dst *tutorial.Step, _ *merger, src stepSources) {
		if setup := actions(src.skeleton.Setup); setup != nil {
			dst.Setup = *setup
		} else {
			dst.Setup = tutorial.StepActions{Commits: []string{}}
		}
	},
	// solution <- skeleton
	func(dst *tutorial.Step, _ *merger, src stepSources) {
		dst.Solution = actions(src.skeleton.Solution)
	},
	// setup.commits <- commits
	func(dst *tutorial.Step, m *merger, src stepSources) {
		if hashes, ok := m.lookup(stepKeys(src.prose.ID, commits.PhaseSetup)...); ok {
			dst.Setup.Commits = hashes
		}
	},
	// solution.commits <- commits
	func(dst *tutorial.Step, m *merger, src stepSources) {
		hashes, ok := m.lookup(stepKeys(src.prose.ID, commits.PhaseSolution)...)
		if !ok {
			return
		}
		if dst.Solution == nil {
			dst.Solution = &tutorial.StepActions{}
		}
		dst.Solution.Commits = hashes
	},
}

// actions copies skeleton metadata into a new bundle with no commits yet.
func actions(a *tutorial.Actions) *tutorial.StepActions {
	if a == nil {
		return nil
	}
	return &tutorial.StepActions{Commits: []string{}, Actions: *a.Clone()}
}

// stepKeys lists the commit map keys for a step phase: canonical first,
// then the legacy spellings.
func stepKeys(id string, phase commits.Phase) []string {
	pos, err := commits.ParseToken(id)
	if err != nil || pos.Kind != commits.KindStep {
		return nil
	}
	legacy := "Q"
	if phase == commits.PhaseSolution {
		legacy = "A"
	}
	return []string{
		commits.StepPosition(pos.Level, pos.Step, phase).String(),
		fmt.Sprintf("L%dS%d%s", pos.Level, pos.Step, legacy),
	}
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
