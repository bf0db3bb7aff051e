package merge

import (
	"reflect"
	"strings"
	"testing"

	"github.com/coderoad/coderoad-cli/pkg/commits"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/lesson"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

func basicFrame() *lesson.Frame {
	return &lesson.Frame{
		Summary: tutorial.Summary{Title: "Title", Description: "Description."},
		Levels: []lesson.Level{
			{
				ID:      "1",
				Title:   "Title",
				Summary: "First line",
				Content: "First line",
				Steps: []lesson.Step{
					{ID: "1.1", Content: "The first step"},
				},
			},
		},
	}
}

func basicSkeleton() *tutorial.Skeleton {
	return &tutorial.Skeleton{
		ID:      "tutorial-id",
		Version: "0.1.0",
		Levels: []tutorial.SkeletonLevel{
			{ID: "1", Steps: []tutorial.SkeletonStep{{ID: "1.1"}}},
		},
	}
}

func TestMergeBasicScenario(t *testing.T) {
	out, diags := Merge(basicSkeleton(), basicFrame(), commits.CommitMap{"1.1:T": {"abcdefg1"}})

	if diags.Count() != 0 {
		t.Fatalf("Merge() diagnostics = %v, want none", diags.Errors)
	}

	want := &tutorial.Tutorial{
		ID:      "tutorial-id",
		Version: "0.1.0",
		Summary: tutorial.Summary{Title: "Title", Description: "Description."},
		Levels: []tutorial.Level{
			{
				ID:      "1",
				Title:   "Title",
				Summary: "First line",
				Content: "First line",
				Steps: []tutorial.Step{
					{
						ID:      "1.1",
						Content: "The first step",
						Setup:   tutorial.StepActions{Commits: []string{"abcdefg1"}},
					},
				},
			},
		},
	}

	if !reflect.DeepEqual(out, want) {
		t.Errorf("Merge() = %+v, want %+v", out, want)
	}
}

func TestMergeDefaultsSetupCommits(t *testing.T) {
	out, _ := Merge(basicSkeleton(), basicFrame(), nil)

	step := out.Levels[0].Steps[0]
	if step.Setup.Commits == nil || len(step.Setup.Commits) != 0 {
		t.Errorf("setup.commits = %#v, want empty non-nil slice", step.Setup.Commits)
	}
	if step.Solution != nil {
		t.Errorf("solution = %+v, want nil", step.Solution)
	}
	if out.Levels[0].Setup != nil {
		t.Errorf("level setup = %+v, want nil", out.Levels[0].Setup)
	}
}

func TestMergeSolution(t *testing.T) {
	tests := []struct {
		name     string
		declared *tutorial.Actions
		commits  commits.CommitMap
		want     *tutorial.StepActions
	}{
		{
			name: "absent",
			want: nil,
		},
		{
			name:    "commits only",
			commits: commits.CommitMap{"1.1:S": {"bbb"}},
			want:    &tutorial.StepActions{Commits: []string{"bbb"}},
		},
		{
			name:     "declared without commits",
			declared: &tutorial.Actions{Files: []string{"index.js"}},
			want: &tutorial.StepActions{
				Commits: []string{},
				Actions: tutorial.Actions{Files: []string{"index.js"}},
			},
		},
		{
			name:     "declared with commits",
			declared: &tutorial.Actions{Commands: []string{"npm install"}},
			commits:  commits.CommitMap{"1.1:S": {"ccc", "ddd"}},
			want: &tutorial.StepActions{
				Commits: []string{"ccc", "ddd"},
				Actions: tutorial.Actions{Commands: []string{"npm install"}},
			},
		},
		{
			name:    "legacy key",
			commits: commits.CommitMap{"L1S1A": {"eee"}},
			want:    &tutorial.StepActions{Commits: []string{"eee"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			skel := basicSkeleton()
			skel.Levels[0].Steps[0].Solution = tt.declared

			out, _ := Merge(skel, basicFrame(), tt.commits)

			got := out.Levels[0].Steps[0].Solution
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("solution = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestMergeFieldPrecedence(t *testing.T) {
	skel := basicSkeleton()
	skel.Levels[0].Setup = &tutorial.Actions{Commands: []string{"npm install"}}
	skel.Levels[0].Steps[0].Setup = &tutorial.Actions{
		Files:    []string{"src/index.js"},
		Watchers: []string{"src/**/*.js"},
		Filter:   "^first",
		Subtasks: true,
	}

	frame := basicFrame()
	frame.Levels[0].Steps[0].Hints = []string{"hint one", "hint two"}
	frame.Levels[0].Steps[0].Subtasks = []string{"task"}

	out, _ := Merge(skel, frame, commits.CommitMap{
		"1":     {"level-hash"},
		"1.1:T": {"setup-hash"},
	})

	lvl := out.Levels[0]
	wantLevelSetup := &tutorial.StepActions{
		Commits: []string{"level-hash"},
		Actions: tutorial.Actions{Commands: []string{"npm install"}},
	}
	if !reflect.DeepEqual(lvl.Setup, wantLevelSetup) {
		t.Errorf("level setup = %+v, want %+v", lvl.Setup, wantLevelSetup)
	}
	if lvl.Title != "Title" || lvl.Content != "First line" {
		t.Errorf("level prose = (%q, %q), want lesson values", lvl.Title, lvl.Content)
	}

	step := lvl.Steps[0]
	wantSetup := tutorial.StepActions{
		Commits: []string{"setup-hash"},
		Actions: tutorial.Actions{
			Files:    []string{"src/index.js"},
			Watchers: []string{"src/**/*.js"},
			Filter:   "^first",
			Subtasks: true,
		},
	}
	if !reflect.DeepEqual(step.Setup, wantSetup) {
		t.Errorf("step setup = %+v, want %+v", step.Setup, wantSetup)
	}
	if !reflect.DeepEqual(step.Hints, []string{"hint one", "hint two"}) {
		t.Errorf("hints = %v", step.Hints)
	}
	if !reflect.DeepEqual(step.Subtasks, []string{"task"}) {
		t.Errorf("subtasks = %v", step.Subtasks)
	}
}

func TestMergeLevelCommits(t *testing.T) {
	tests := []struct {
		name    string
		commits commits.CommitMap
		want    []string
	}{
		{"canonical", commits.CommitMap{"1": {"aaa"}}, []string{"aaa"}},
		{"legacy", commits.CommitMap{"L1": {"bbb"}}, []string{"bbb"}},
		{"canonical wins", commits.CommitMap{"1": {"aaa"}, "L1": {"bbb"}}, []string{"aaa"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _ := Merge(basicSkeleton(), basicFrame(), tt.commits)
			setup := out.Levels[0].Setup
			if setup == nil {
				t.Fatal("level setup = nil, want commits")
			}
			if !reflect.DeepEqual(setup.Commits, tt.want) {
				t.Errorf("level commits = %v, want %v", setup.Commits, tt.want)
			}
		})
	}
}

func TestMergeInitCommits(t *testing.T) {
	skel := basicSkeleton()
	skel.Config.Setup = &tutorial.ConfigActions{Commands: []string{"npm install"}}

	out, _ := Merge(skel, basicFrame(), commits.CommitMap{"INIT": {"init1", "init2"}})

	want := &tutorial.ConfigActions{
		Commits:  []string{"init1", "init2"},
		Commands: []string{"npm install"},
	}
	if !reflect.DeepEqual(out.Config.Setup, want) {
		t.Errorf("config.setup = %+v, want %+v", out.Config.Setup, want)
	}

	out, _ = Merge(basicSkeleton(), basicFrame(), commits.CommitMap{"INIT": {"init1"}})
	if out.Config.Setup == nil || !reflect.DeepEqual(out.Config.Setup.Commits, []string{"init1"}) {
		t.Errorf("config.setup = %+v, want commits [init1]", out.Config.Setup)
	}
}

func TestMergeDropsMismatches(t *testing.T) {
	skel := basicSkeleton()
	skel.Levels = append(skel.Levels, tutorial.SkeletonLevel{
		ID:       "3",
		Location: tutorial.Location{File: "tutorial.yaml", Line: 12},
	})
	skel.Levels[0].Steps = append(skel.Levels[0].Steps, tutorial.SkeletonStep{ID: "1.9"})

	frame := basicFrame()
	frame.Levels[0].Steps = append(frame.Levels[0].Steps, lesson.Step{ID: "1.2", Content: "extra"})
	frame.Levels = append(frame.Levels, lesson.Level{
		ID:       "2",
		Title:    "Orphan",
		Location: tutorial.Location{File: "TUTORIAL.md", Line: 20},
	})

	out, diags := Merge(skel, frame, commits.CommitMap{"1.1:T": {"abc"}, "4.1:T": {"zzz"}})

	if len(out.Levels) != 1 || out.Levels[0].ID != "1" {
		t.Fatalf("levels = %+v, want only level 1", out.Levels)
	}
	if len(out.Levels[0].Steps) != 1 || out.Levels[0].Steps[0].ID != "1.1" {
		t.Errorf("steps = %+v, want only step 1.1", out.Levels[0].Steps)
	}

	if diags.HasErrors() {
		t.Errorf("HasErrors() = true, want only warnings")
	}

	wantMessages := []string{
		"level 2 has no skeleton entry",
		"step 1.2 has no skeleton entry",
		"skeleton level 3 has no matching lesson level",
		"skeleton step 1.9 has no matching lesson step",
		"commits for position 4.1:T match no level or step",
	}
	for _, msg := range wantMessages {
		if !containsMessage(diags, msg) {
			t.Errorf("diagnostics missing %q; got %v", msg, diags.Errors)
		}
	}
	for _, e := range diags.Errors {
		if e.Type != buildErrors.ErrorTypeReference {
			t.Errorf("diagnostic type = %s, want %s", e.Type, buildErrors.ErrorTypeReference)
		}
	}
}

func TestMergeDuplicateLessonLevel(t *testing.T) {
	frame := basicFrame()
	frame.Levels = append(frame.Levels, lesson.Level{ID: "1", Title: "Again"})

	out, diags := Merge(basicSkeleton(), frame, nil)

	if len(out.Levels) != 1 || out.Levels[0].Title != "Title" {
		t.Errorf("levels = %+v, want the first level 1 only", out.Levels)
	}
	if !containsMessage(diags, "appears more than once") {
		t.Errorf("diagnostics = %v, want duplicate warning", diags.Errors)
	}
}

func TestMergeIsIdempotentAndNonMutating(t *testing.T) {
	newSkeleton := func() *tutorial.Skeleton {
		skel := basicSkeleton()
		skel.Config.Setup = &tutorial.ConfigActions{Commands: []string{"npm install"}}
		skel.Levels[0].Steps[0].Setup = &tutorial.Actions{Files: []string{"a.js"}}
		skel.Levels[0].Steps[0].Solution = &tutorial.Actions{Files: []string{"a.js"}}
		return skel
	}
	newCommitMap := func() commits.CommitMap {
		return commits.CommitMap{"INIT": {"i"}, "1.1:T": {"t"}, "1.1:S": {"s"}}
	}
	skel, cm := newSkeleton(), newCommitMap()
	frame := basicFrame()
	frame.Levels[0].Steps[0].Hints = []string{"hint"}

	skelBefore := newSkeleton()
	frameBefore := cloneFrame(frame)
	cmBefore := newCommitMap()

	first, _ := Merge(skel, frame, cm)
	second, _ := Merge(skel, frame, cm)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("Merge() not deterministic:\n%+v\n%+v", first, second)
	}
	if first == second {
		t.Error("Merge() returned the same pointer twice")
	}

	// Writing through the output must not reach the inputs.
	first.Config.Setup.Commands[0] = "changed"
	first.Config.Setup.Commits[0] = "changed"
	first.Levels[0].Steps[0].Hints[0] = "changed"
	first.Levels[0].Steps[0].Setup.Files[0] = "changed"
	first.Levels[0].Steps[0].Setup.Commits[0] = "changed"
	first.Levels[0].Steps[0].Solution.Files[0] = "changed"

	if !reflect.DeepEqual(skel, skelBefore) {
		t.Errorf("skeleton mutated: %+v", skel)
	}
	if !reflect.DeepEqual(frame, frameBefore) {
		t.Errorf("frame mutated: %+v", frame)
	}
	if !reflect.DeepEqual(cm, cmBefore) {
		t.Errorf("commit map mutated: %v", cm)
	}
	if reflect.DeepEqual(first, second) {
		t.Error("second result shares state with the first")
	}
}

func cloneFrame(f *lesson.Frame) *lesson.Frame {
	out := &lesson.Frame{Summary: f.Summary}
	for _, l := range f.Levels {
		nl := l
		nl.Steps = nil
		for _, s := range l.Steps {
			ns := s
			ns.Hints = append([]string(nil), s.Hints...)
			ns.Subtasks = append([]string(nil), s.Subtasks...)
			nl.Steps = append(nl.Steps, ns)
		}
		out.Levels = append(out.Levels, nl)
	}
	return out
}

func containsMessage(list *buildErrors.ErrorList, substr string) bool {
	for _, e := range list.Errors {
		if strings.Contains(e.Message, substr) {
			return true
		}
	}
	return false
}
