package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

// grepSkeleton runs "grep -q <pattern> index.js" as the tutorial test.
func grepSkeleton(pattern string) string {
	s := strings.Replace(testSkeleton, "command: npm test", "command: grep -q", 1)
	return strings.Replace(s, "tap: --reporter=mocha-tap-reporter", "tap: "+pattern+" index.js", 1)
}

func TestRunValidate(t *testing.T) {
	tests := []struct {
		name       string
		pattern    string
		wantErr    bool
		wantPassed bool
	}{
		{name: "solution makes tests pass", pattern: "solution", wantPassed: true},
		{name: "tests never pass", pattern: "nothing-matches", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetFlags()
			validateFlags.format = "json"

			dir := writeTutorial(t, testLesson, grepSkeleton(tt.pattern))
			commitHistory(t, dir, "INIT", "1.1T setup", "1.1S solution")
			validateFlags.input.repo = dir

			var buf bytes.Buffer
			validateCmd.SetOut(&buf)
			defer validateCmd.SetOut(nil)

			err := runValidate(validateCmd, []string{dir})
			if tt.wantErr && err == nil {
				t.Fatalf("runValidate() expected error, output:\n%s", buf.String())
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("runValidate() error = %v, output:\n%s", err, buf.String())
			}

			var report struct {
				Tutorial string `json:"tutorial"`
				Passed   bool   `json:"passed"`
			}
			if err := json.Unmarshal(buf.Bytes(), &report); err != nil {
				t.Fatalf("expected JSON report, got %q: %v", buf.String(), err)
			}
			if report.Tutorial != "command-test" {
				t.Errorf("expected tutorial %q, got %q", "command-test", report.Tutorial)
			}
			if report.Passed != tt.wantPassed {
				t.Errorf("expected passed %v, got %v", tt.wantPassed, report.Passed)
			}
		})
	}
}

func TestRunValidateJUnit(t *testing.T) {
	resetFlags()
	validateFlags.format = "junit"

	dir := writeTutorial(t, testLesson, grepSkeleton("solution"))
	commitHistory(t, dir, "INIT", "1.1T setup", "1.1S solution")
	validateFlags.input.repo = dir

	var buf bytes.Buffer
	validateCmd.SetOut(&buf)
	defer validateCmd.SetOut(nil)

	if err := runValidate(validateCmd, []string{dir}); err != nil {
		t.Fatalf("runValidate() error = %v", err)
	}
	for _, want := range []string{"<?xml", "<testsuites", `name="command-test"`, `failures="0"`} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("expected JUnit output to contain %q, got:\n%s", want, buf.String())
		}
	}
}

func TestRunValidateBuildFailure(t *testing.T) {
	resetFlags()

	dir := writeTutorial(t, "no title here\n", testSkeleton)
	validateFlags.input.repo = dir

	var stderr bytes.Buffer
	validateCmd.SetErr(&stderr)
	defer validateCmd.SetErr(nil)

	if err := runValidate(validateCmd, []string{dir}); err == nil {
		t.Fatal("runValidate() with an invalid lesson should return error")
	}
	if !strings.Contains(stderr.String(), "missing tutorial title") {
		t.Errorf("expected build diagnostics on stderr, got %q", stderr.String())
	}
}

func TestRunValidateUnknownFormat(t *testing.T) {
	resetFlags()
	validateFlags.format = "yaml"

	if err := runValidate(validateCmd, []string{t.TempDir()}); err == nil {
		t.Error("runValidate() with an unknown format should return error")
	}
}
