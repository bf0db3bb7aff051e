package schema

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

func validTutorial() *tutorial.Tutorial {
	return &tutorial.Tutorial{
		ID:      "fcc-learn-npm",
		Version: "0.1.0",
		Summary: tutorial.Summary{
			Title:       "Learn NPM",
			Description: "Learn the basics of package management with NPM.",
		},
		Config: tutorial.TutorialConfig{
			TestRunner: tutorial.TestRunnerConfig{
				Command: "./node_modules/.bin/mocha",
				Args:    tutorial.TestRunnerArgs{Tap: "--reporter=mocha-tap-reporter", Filter: "--grep"},
			},
			Repo:  tutorial.RepoConfig{URI: "https://github.com/coderoad/fcc-learn-npm", Branch: "v0.1.0"},
			Setup: &tutorial.ConfigActions{Commits: []string{"abcdef1"}, Commands: []string{"npm install"}},
			Dependencies: []tutorial.Dependency{
				{Name: "node", Version: ">=10"},
			},
		},
		Levels: []tutorial.Level{{
			ID:      "1",
			Title:   "Introduction",
			Summary: "Create a package.json",
			Content: "Create a package.json",
			Setup:   &tutorial.StepActions{Commits: []string{}},
			Steps: []tutorial.Step{{
				ID:      "1.1",
				Content: "Run npm init",
				Setup: tutorial.StepActions{
					Commits: []string{"abcdef2"},
					Actions: tutorial.Actions{Files: []string{"package.json"}, Filter: "^Test npm init"},
				},
				Solution: &tutorial.StepActions{Commits: []string{"abcdef3"}},
				Hints:    []string{"Run `npm init -y`"},
			}},
		}},
	}
}

func newGate(t *testing.T) *Gate {
	t.Helper()
	gate, err := NewGate()
	if err != nil {
		t.Fatalf("NewGate() error = %v", err)
	}
	return gate
}

func hasDiagnostic(diags []Diagnostic, path, fragment string) bool {
	for _, d := range diags {
		if d.Path == path && strings.Contains(d.Message, fragment) {
			return true
		}
	}
	return false
}

func TestValidateTutorial(t *testing.T) {
	result, err := newGate(t).ValidateTutorial(validTutorial())
	if err != nil {
		t.Fatalf("ValidateTutorial() error = %v", err)
	}
	if !result.Valid {
		t.Errorf("Valid = false, want true: %+v", result.Diagnostics)
	}
	if len(result.Diagnostics) != 0 {
		t.Errorf("Diagnostics = %+v, want none", result.Diagnostics)
	}
}

func TestValidateTutorialFailures(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*tutorial.Tutorial)
		wantPath string
		wantText string
	}{
		{
			name:     "missing version",
			mutate:   func(tt *tutorial.Tutorial) { tt.Version = "" },
			wantPath: "/version",
		},
		{
			name:     "invalid commit hash",
			mutate:   func(tt *tutorial.Tutorial) { tt.Levels[0].Steps[0].Setup.Commits = []string{"not-a-hash"} },
			wantPath: "/levels/0/steps/0/setup/commits/0",
		},
		{
			name:     "description too short",
			mutate:   func(tt *tutorial.Tutorial) { tt.Summary.Description = "Short" },
			wantPath: "/summary/description",
		},
		{
			name:     "level without title",
			mutate:   func(tt *tutorial.Tutorial) { tt.Levels[0].Title = "" },
			wantPath: "/levels/0/title",
		},
		{
			name:     "repository uri",
			mutate:   func(tt *tutorial.Tutorial) { tt.Config.Repo.URI = "" },
			wantPath: "/config/repo/uri",
		},
	}

	gate := newGate(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := validTutorial()
			tt.mutate(doc)

			result, err := gate.ValidateTutorial(doc)
			if err != nil {
				t.Fatalf("ValidateTutorial() error = %v", err)
			}
			if result.Valid {
				t.Fatal("Valid = true, want false")
			}
			if !hasDiagnostic(result.Diagnostics, tt.wantPath, tt.wantText) {
				t.Errorf("Diagnostics = %+v, want one at %q", result.Diagnostics, tt.wantPath)
			}
		})
	}
}

func TestValidateTutorialMissingRequired(t *testing.T) {
	doc := validTutorial()
	doc.Levels = nil

	result, err := newGate(t).ValidateTutorial(doc)
	if err != nil {
		t.Fatalf("ValidateTutorial() error = %v", err)
	}
	if result.Valid {
		t.Fatal("Valid = true, want false for null levels")
	}
	if !hasDiagnostic(result.Diagnostics, "/levels", "") {
		t.Errorf("Diagnostics = %+v, want one at /levels", result.Diagnostics)
	}
}

func TestValidateTutorialDoesNotMutate(t *testing.T) {
	doc := validTutorial()
	doc.Version = "bad"

	if _, err := newGate(t).ValidateTutorial(doc); err != nil {
		t.Fatalf("ValidateTutorial() error = %v", err)
	}

	want := validTutorial()
	want.Version = "bad"
	if !reflect.DeepEqual(doc, want) {
		t.Error("ValidateTutorial() changed the document")
	}
}

func TestValidateSkeleton(t *testing.T) {
	raw := map[string]any{
		"id":      "fcc-learn-npm",
		"version": "0.1.0",
		"config": map[string]any{
			"testRunner": map[string]any{"command": "npm test", "args": map[string]any{"tap": "--tap"}},
			"repo":       map[string]any{"uri": "https://github.com/coderoad/fcc-learn-npm", "branch": "v0.1.0"},
		},
		"levels": []any{
			map[string]any{"id": "1", "steps": []any{map[string]any{"id": "1.1", "setup": map[string]any{"files": []any{"package.json"}}}}},
		},
	}
	doc, err := ToJSONValue(raw)
	if err != nil {
		t.Fatalf("ToJSONValue() error = %v", err)
	}

	gate := newGate(t)
	result, err := gate.ValidateSkeleton(doc)
	if err != nil {
		t.Fatalf("ValidateSkeleton() error = %v", err)
	}
	if !result.Valid {
		t.Errorf("Valid = false, want true: %+v", result.Diagnostics)
	}

	raw["levels"] = []any{map[string]any{"id": "1", "content": "prose belongs in the lesson"}}
	doc, _ = ToJSONValue(raw)
	result, err = gate.ValidateSkeleton(doc)
	if err != nil {
		t.Fatalf("ValidateSkeleton() error = %v", err)
	}
	if result.Valid {
		t.Error("Valid = true, want false for unknown level property")
	}
}

type fakeEngine struct {
	valid bool
	diags []Diagnostic
	err   error
	name  string
}

func (f *fakeEngine) Validate(schemaName string, _ any) (bool, []Diagnostic, error) {
	f.name = schemaName
	return f.valid, f.diags, f.err
}

func TestGateWithEngine(t *testing.T) {
	engine := &fakeEngine{diags: []Diagnostic{{Path: "/levels/0", Message: "bad level"}}}
	gate := NewGateWithEngine(engine)

	result, err := gate.ValidateTutorial(validTutorial())
	if err != nil {
		t.Fatalf("ValidateTutorial() error = %v", err)
	}
	if engine.name != Tutorial {
		t.Errorf("schema name = %q, want %q", engine.name, Tutorial)
	}
	if result.Valid || len(result.Diagnostics) != 1 {
		t.Errorf("Result = %+v, want one failure", result)
	}

	list := result.ErrorList(buildErrors.SeverityWarning, "tutorial.json")
	if list.HasErrors() {
		t.Error("warning severity list should not be fatal")
	}
	if got := list.Errors[0].Message; got != "/levels/0: bad level" {
		t.Errorf("Message = %q, want %q", got, "/levels/0: bad level")
	}

	engine.err = errors.New("engine down")
	if _, err := gate.ValidateSkeleton(map[string]any{}); err == nil {
		t.Error("ValidateSkeleton() error = nil, want engine error")
	}
}

func TestUnknownSchema(t *testing.T) {
	engine, err := NewJSONSchemaEngine()
	if err != nil {
		t.Fatalf("NewJSONSchemaEngine() error = %v", err)
	}
	if _, _, err := engine.Validate("missing", map[string]any{}); err == nil {
		t.Error("Validate() with unknown schema error = nil, want error")
	}
}
