package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/coderoad/coderoad-cli/pkg/config"
)

func testConfig() config.MetricsConfig {
	return config.MetricsConfig{Enabled: true, Namespace: "coderoad"}
}

func TestCollector_RecordTutorial(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordTutorial(2, 5)
	c.RecordTutorial(1, 1)

	if got := testutil.ToFloat64(c.levels); got != 3 {
		t.Errorf("levels = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.steps); got != 6 {
		t.Errorf("steps = %v, want 6", got)
	}
}

func TestCollector_RecordCommits(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordCommits("setup", 3)
	c.RecordCommits("solution", 2)
	c.RecordCommits("setup", 0)

	if got := testutil.ToFloat64(c.commits.WithLabelValues("setup")); got != 3 {
		t.Errorf("setup commits = %v, want 3", got)
	}
	if got := testutil.ToFloat64(c.commits.WithLabelValues("solution")); got != 2 {
		t.Errorf("solution commits = %v, want 2", got)
	}
}

func TestCollector_RecordDiagnosticAndVerify(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.RecordDiagnostic("reference", "warning")
	c.RecordDiagnostic("reference", "warning")
	c.RecordVerifyCheck(true)
	c.RecordVerifyCheck(false)
	c.RecordVerifyCheck(false)

	if got := testutil.ToFloat64(c.diagnostics.WithLabelValues("reference", "warning")); got != 2 {
		t.Errorf("diagnostics = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.verifyChecks.WithLabelValues(ResultFail)); got != 2 {
		t.Errorf("failed checks = %v, want 2", got)
	}
	if got := testutil.ToFloat64(c.verifyChecks.WithLabelValues(ResultPass)); got != 1 {
		t.Errorf("passed checks = %v, want 1", got)
	}
}

func TestCollector_Disabled(t *testing.T) {
	c := NewCollector(config.MetricsConfig{Enabled: false}, nil)

	c.RecordTutorial(1, 1)
	c.ObserveStage(StageParse, time.Second)

	if got := testutil.ToFloat64(c.levels); got != 0 {
		t.Errorf("levels = %v, want 0 when disabled", got)
	}

	var nilCollector *Collector
	nilCollector.RecordTutorial(1, 1)
	nilCollector.SetBuildID("x")
	if err := nilCollector.WriteTextfile("unused"); err != nil {
		t.Errorf("WriteTextfile() on nil collector error = %v", err)
	}
}

func TestCollector_WriteTextfile(t *testing.T) {
	c := NewCollector(testConfig(), prometheus.NewRegistry())

	c.SetBuildID("first")
	c.SetBuildID("0b3e6c1e-build")
	c.RecordTutorial(1, 2)
	c.ObserveStage(StageMerge, 20*time.Millisecond)

	path := filepath.Join(t.TempDir(), "coderoad.prom")
	if err := c.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)

	for _, want := range []string{
		`coderoad_build_info{build_id="0b3e6c1e-build"} 1`,
		"coderoad_build_levels_total 1",
		"coderoad_build_steps_total 2",
		`coderoad_build_stage_duration_seconds_count{stage="merge"} 1`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("textfile missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, `build_id="first"`) {
		t.Errorf("textfile kept the replaced build id:\n%s", out)
	}
}
