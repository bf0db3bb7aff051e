package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/coderoad/coderoad-cli/pkg/config"
)

// Stage names used for the stage duration histogram.
const (
	StageLint     = "lint"
	StageParse    = "parse"
	StageSkeleton = "skeleton"
	StageHistory  = "history"
	StageMerge    = "merge"
	StageSchema   = "schema"
	StageWrite    = "write"
)

// Verify check results.
const (
	ResultPass = "pass"
	ResultFail = "fail"
)

// Collector holds the build metrics of one CLI invocation.
type Collector struct {
	enabled  bool
	registry *prometheus.Registry

	info          *prometheus.GaugeVec
	levels        prometheus.Counter
	steps         prometheus.Counter
	commits       *prometheus.CounterVec
	diagnostics   *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	verifyChecks  *prometheus.CounterVec
}

// NewCollector creates and registers the metrics. A nil registry gets a
// fresh one; the global default registry is never used.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		enabled:  cfg.Enabled,
		registry: registry,

		info: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "info",
			Help:      "Identifies the build the other series belong to.",
		}, []string{"build_id"}),

		levels: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "levels_total",
			Help:      "Levels written to the tutorial document.",
		}),

		steps: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "steps_total",
			Help:      "Steps written to the tutorial document.",
		}),

		commits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "commits_total",
			Help:      "Commits mapped to a tutorial position, by phase.",
		}, []string{"phase"}),

		diagnostics: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "diagnostics_total",
			Help:      "Diagnostics reported by the build, by type and severity.",
		}, []string{"type", "severity"}),

		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "build",
			Name:      "stage_duration_seconds",
			Help:      "Duration of each build stage.",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 30},
		}, []string{"stage"}),

		verifyChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "verify",
			Name:      "checks_total",
			Help:      "Validation run checks, by result.",
		}, []string{"result"}),
	}

	registry.MustRegister(
		c.info,
		c.levels,
		c.steps,
		c.commits,
		c.diagnostics,
		c.stageDuration,
		c.verifyChecks,
	)

	return c
}

// Registry returns the registry the metrics are registered with.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

func (c *Collector) active() bool {
	return c != nil && c.enabled
}

// SetBuildID replaces the build_id of the info series.
func (c *Collector) SetBuildID(id string) {
	if !c.active() {
		return
	}
	c.info.Reset()
	c.info.WithLabelValues(id).Set(1)
}

// RecordTutorial counts the levels and steps of a written document.
func (c *Collector) RecordTutorial(levels, steps int) {
	if !c.active() {
		return
	}
	c.levels.Add(float64(levels))
	c.steps.Add(float64(steps))
}

// RecordCommits counts n commits mapped to phase ("init", "level",
// "setup" or "solution").
func (c *Collector) RecordCommits(phase string, n int) {
	if !c.active() || n <= 0 {
		return
	}
	c.commits.WithLabelValues(phase).Add(float64(n))
}

// RecordDiagnostic counts one diagnostic.
func (c *Collector) RecordDiagnostic(errType, severity string) {
	if !c.active() {
		return
	}
	c.diagnostics.WithLabelValues(errType, severity).Inc()
}

// ObserveStage records the duration of a build stage.
func (c *Collector) ObserveStage(stage string, d time.Duration) {
	if !c.active() {
		return
	}
	c.stageDuration.WithLabelValues(stage).Observe(d.Seconds())
}

// RecordVerifyCheck counts one validation run check.
func (c *Collector) RecordVerifyCheck(passed bool) {
	if !c.active() {
		return
	}
	result := ResultFail
	if passed {
		result = ResultPass
	}
	c.verifyChecks.WithLabelValues(result).Inc()
}

// WriteTextfile writes every registered series to path in the Prometheus
// text format. The file is replaced atomically.
func (c *Collector) WriteTextfile(path string) error {
	if !c.active() {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
