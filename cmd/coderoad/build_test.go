package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/coderoad/coderoad-cli/pkg/build"
)

func TestRunBuild(t *testing.T) {
	resetFlags()
	dir := writeTutorial(t, testLesson, testSkeleton)
	commitHistory(t, dir, "INIT", "1.1T setup", "1.1S solution")

	var buf bytes.Buffer
	buildCmd.SetOut(&buf)
	defer buildCmd.SetOut(nil)

	if err := runBuild(buildCmd, []string{dir}); err != nil {
		t.Fatalf("runBuild() error = %v, output:\n%s", err, buf.String())
	}

	out := filepath.Join(dir, "tutorial.json")
	tut, err := build.ReadOutput(out)
	if err != nil {
		t.Fatalf("ReadOutput() error = %v", err)
	}
	if tut.ID != "command-test" {
		t.Errorf("expected id %q, got %q", "command-test", tut.ID)
	}
	if len(tut.Levels) != 1 || len(tut.Levels[0].Steps) != 1 {
		t.Fatalf("expected 1 level with 1 step, got %+v", tut.Levels)
	}
	if !strings.Contains(buf.String(), "Built command-test") {
		t.Errorf("expected build summary, got %q", buf.String())
	}
}

func TestRunBuildJSONSummary(t *testing.T) {
	resetFlags()
	buildFlags.format = "json"
	buildFlags.output = "compiled.json"

	dir := writeTutorial(t, testLesson, testSkeleton)
	commitHistory(t, dir, "INIT", "1.1T setup", "1.1S solution")

	var buf bytes.Buffer
	buildCmd.SetOut(&buf)
	defer buildCmd.SetOut(nil)

	if err := runBuild(buildCmd, []string{dir}); err != nil {
		t.Fatalf("runBuild() error = %v", err)
	}

	var summary struct {
		Output      string `json:"output"`
		SchemaValid bool   `json:"schema_valid"`
		OrderValid  bool   `json:"order_valid"`
	}
	if err := json.Unmarshal(buf.Bytes(), &summary); err != nil {
		t.Fatalf("expected JSON summary, got %q: %v", buf.String(), err)
	}
	if summary.Output != filepath.Join(dir, "compiled.json") {
		t.Errorf("expected output %q, got %q", filepath.Join(dir, "compiled.json"), summary.Output)
	}
	if !summary.SchemaValid || !summary.OrderValid {
		t.Errorf("expected a valid build, got %+v", summary)
	}
}

func TestRunBuildFailure(t *testing.T) {
	resetFlags()
	dir := writeTutorial(t, "no title here\n", testSkeleton)
	commitHistory(t, dir, "INIT")

	var buf bytes.Buffer
	buildCmd.SetOut(&buf)
	defer buildCmd.SetOut(nil)

	if err := runBuild(buildCmd, []string{dir}); err == nil {
		t.Fatal("runBuild() with an invalid lesson should return error")
	}
	if _, err := os.Stat(filepath.Join(dir, "tutorial.json")); !os.IsNotExist(err) {
		t.Errorf("expected no output file, stat error = %v", err)
	}
	if !strings.Contains(buf.String(), "Build failed") {
		t.Errorf("expected failure summary, got %q", buf.String())
	}
}

func TestRunBuildTelemetryFiles(t *testing.T) {
	resetFlags()
	dir := writeTutorial(t, testLesson, testSkeleton)
	commitHistory(t, dir, "INIT", "1.1T setup", "1.1S solution")

	telemetryDir := t.TempDir()
	buildFlags.metricsOut = filepath.Join(telemetryDir, "coderoad.prom")
	buildFlags.traceOut = filepath.Join(telemetryDir, "trace.json")

	var buf bytes.Buffer
	buildCmd.SetOut(&buf)
	defer buildCmd.SetOut(nil)

	if err := runBuild(buildCmd, []string{dir}); err != nil {
		t.Fatalf("runBuild() error = %v", err)
	}

	data, err := os.ReadFile(buildFlags.metricsOut)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	if !strings.Contains(string(data), "coderoad_build_levels_total 1") {
		t.Errorf("expected levels metric, got:\n%s", data)
	}

	trace, err := os.ReadFile(buildFlags.traceOut)
	if err != nil {
		t.Fatalf("failed to read trace: %v", err)
	}
	if len(trace) == 0 {
		t.Error("expected exported spans")
	}
}

func TestRunBuildRejectsJUnit(t *testing.T) {
	resetFlags()
	buildFlags.format = "junit"

	if err := runBuild(buildCmd, []string{t.TempDir()}); err == nil {
		t.Error("runBuild() with junit format should return error")
	}
}
