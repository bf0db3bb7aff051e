package merge

import (
	"fmt"
	"log/slog"

	"github.com/coderoad/coderoad-cli/pkg/commits"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/lesson"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// Engine merges skeleton, lesson frame and commit map into a Tutorial.
type Engine struct {
	logger *slog.Logger
}

// NewEngine creates a merge engine. A nil logger uses slog.Default().
func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Merge builds the tutorial. The returned list only holds warnings.
func (e *Engine) Merge(skel *tutorial.Skeleton, frame *lesson.Frame, cm commits.CommitMap) (*tutorial.Tutorial, *buildErrors.ErrorList) {
	m := &merger{
		skel:  skel,
		cm:    cm,
		used:  make(map[string]bool),
		diags: buildErrors.NewErrorList(),
	}

	out := m.tutorial(frame)
	m.reportUnmatchedSkeleton(frame)
	m.reportUnusedCommits()

	e.logger.Debug("Merged tutorial",
		"levels", len(out.Levels),
		"steps", out.StepCount(),
		"warnings", m.diags.Count(),
	)

	return out, m.diags
}

// merger holds the inputs of one Merge call and records which commit map
// keys were consumed.
type merger struct {
	skel  *tutorial.Skeleton
	cm    commits.CommitMap
	used  map[string]bool
	diags *buildErrors.ErrorList
}

func (m *merger) lookup(keys ...string) ([]string, bool) {
	for _, k := range keys {
		if _, ok := m.cm[k]; ok {
			m.used[k] = true
			return m.cm.Lookup(k)
		}
	}
	return nil, false
}

func (m *merger) tutorial(frame *lesson.Frame) *tutorial.Tutorial {
	out := &tutorial.Tutorial{}
	for _, rule := range tutorialPrecedence {
		rule(out, m, frame)
	}

	out.Levels = make([]tutorial.Level, 0, len(frame.Levels))
	seen := make(map[string]bool, len(frame.Levels))

	for _, prose := range frame.Levels {
		if seen[prose.ID] {
			m.diags.AddWarning(buildErrors.ErrorTypeReference,
				fmt.Sprintf("level %s appears more than once in the lesson; dropped", prose.ID), prose.Location)
			continue
		}
		seen[prose.ID] = true

		skelLevel, ok := m.skel.Level(prose.ID)
		if !ok {
			m.diags.AddWarning(buildErrors.ErrorTypeReference,
				fmt.Sprintf("level %s has no skeleton entry; dropped", prose.ID), prose.Location)
			continue
		}

		out.Levels = append(out.Levels, m.level(prose, skelLevel))
	}

	return out
}

func (m *merger) level(prose lesson.Level, skelLevel *tutorial.SkeletonLevel) tutorial.Level {
	src := levelSources{prose: prose, skeleton: skelLevel}

	var lvl tutorial.Level
	for _, rule := range levelPrecedence {
		rule(&lvl, m, src)
	}

	lvl.Steps = make([]tutorial.Step, 0, len(prose.Steps))
	for _, proseStep := range prose.Steps {
		skelStep, ok := skelLevel.Step(proseStep.ID)
		if !ok {
			m.diags.AddWarning(buildErrors.ErrorTypeReference,
				fmt.Sprintf("step %s has no skeleton entry; dropped", proseStep.ID), proseStep.Location)
			continue
		}
		lvl.Steps = append(lvl.Steps, m.step(proseStep, skelStep))
	}

	return lvl
}

func (m *merger) step(prose lesson.Step, skelStep *tutorial.SkeletonStep) tutorial.Step {
	src := stepSources{prose: prose, skeleton: skelStep}

	var st tutorial.Step
	for _, rule := range stepPrecedence {
		rule(&st, m, src)
	}
	return st
}

func (m *merger) reportUnmatchedSkeleton(frame *lesson.Frame) {
	proseLevels := make(map[string]lesson.Level, len(frame.Levels))
	for _, l := range frame.Levels {
		if _, ok := proseLevels[l.ID]; !ok {
			proseLevels[l.ID] = l
		}
	}

	for _, sl := range m.skel.Levels {
		pl, ok := proseLevels[sl.ID]
		if !ok {
			m.diags.AddWarning(buildErrors.ErrorTypeReference,
				fmt.Sprintf("skeleton level %s has no matching lesson level; dropped", sl.ID), sl.Location)
			continue
		}

		proseSteps := make(map[string]bool, len(pl.Steps))
		for _, ps := range pl.Steps {
			proseSteps[ps.ID] = true
		}
		for _, ss := range sl.Steps {
			if !proseSteps[ss.ID] {
				m.diags.AddWarning(buildErrors.ErrorTypeReference,
					fmt.Sprintf("skeleton step %s has no matching lesson step; dropped", ss.ID), ss.Location)
			}
		}
	}
}

func (m *merger) reportUnusedCommits() {
	for _, token := range m.cm.Tokens() {
		if m.used[token] {
			continue
		}
		m.diags.AddWarning(buildErrors.ErrorTypeReference,
			fmt.Sprintf("commits for position %s match no level or step in the tutorial", token), tutorial.Location{})
	}
}

// Merge is a convenience wrapper around Engine.Merge using the default logger.
func Merge(skel *tutorial.Skeleton, frame *lesson.Frame, cm commits.CommitMap) (*tutorial.Tutorial, *buildErrors.ErrorList) {
	return NewEngine(nil).Merge(skel, frame, cm)
}
