package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/coderoad/coderoad-cli/pkg/build"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/verify"
)

// DiagnosticsView renders build diagnostics.
type DiagnosticsView struct {
	Diagnostics *buildErrors.ErrorList
}

type diagnosticJSON struct {
	Type       string `json:"type"`
	Severity   string `json:"severity"`
	Message    string `json:"message"`
	File       string `json:"file,omitempty"`
	Line       int    `json:"line,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

func diagnosticsJSON(list *buildErrors.ErrorList) []diagnosticJSON {
	out := []diagnosticJSON{}
	if list == nil {
		return out
	}
	for _, e := range list.Errors {
		out = append(out, diagnosticJSON{
			Type:       string(e.Type),
			Severity:   string(e.Severity),
			Message:    e.Message,
			File:       e.Location.File,
			Line:       e.Location.Line,
			Suggestion: e.Suggestion,
		})
	}
	return out
}

// MarshalJSON implements json.Marshaler.
func (v DiagnosticsView) MarshalJSON() ([]byte, error) {
	return json.Marshal(diagnosticsJSON(v.Diagnostics))
}

// WriteText implements TextWriter. Fatal diagnostics come first.
func (v DiagnosticsView) WriteText(w io.Writer) error {
	if v.Diagnostics == nil {
		return nil
	}
	for _, group := range [][]*buildErrors.Error{v.Diagnostics.Fatal(), v.Diagnostics.Warnings()} {
		for _, e := range group {
			if _, err := fmt.Fprintf(w, "%s: %s", e.Severity, e.Error()); err != nil {
				return err
			}
		}
	}
	return nil
}

// BuildView summarizes a build.
type BuildView struct {
	Result *build.Result
	Output string // written file, empty when nothing was written
}

// MarshalJSON implements json.Marshaler.
func (v BuildView) MarshalJSON() ([]byte, error) {
	out := struct {
		BuildID     string           `json:"build_id"`
		Tutorial    string           `json:"tutorial,omitempty"`
		Levels      int              `json:"levels"`
		Steps       int              `json:"steps"`
		Output      string           `json:"output,omitempty"`
		SchemaValid bool             `json:"schema_valid"`
		OrderValid  bool             `json:"order_valid"`
		Diagnostics []diagnosticJSON `json:"diagnostics"`
	}{
		BuildID:     v.Result.BuildID,
		Output:      v.Output,
		SchemaValid: v.Result.Schema.Valid,
		OrderValid:  v.Result.Order.Valid(),
		Diagnostics: diagnosticsJSON(v.Result.Diagnostics),
	}
	if t := v.Result.Tutorial; t != nil {
		out.Tutorial = t.ID
		out.Levels = len(t.Levels)
		out.Steps = t.StepCount()
	}
	return json.Marshal(out)
}

// WriteText implements TextWriter.
func (v BuildView) WriteText(w io.Writer) error {
	if err := (DiagnosticsView{Diagnostics: v.Result.Diagnostics}).WriteText(w); err != nil {
		return err
	}

	t := v.Result.Tutorial
	if t == nil || v.Result.Diagnostics.HasErrors() {
		_, err := fmt.Fprintf(w, "Build failed: %d errors\n", len(v.Result.Diagnostics.Fatal()))
		return err
	}

	line := fmt.Sprintf("Built %s: %d levels, %d steps, %d warnings",
		t.ID, len(t.Levels), t.StepCount(), len(v.Result.Diagnostics.Warnings()))
	if v.Output != "" {
		line += " -> " + v.Output
	}
	_, err := fmt.Fprintln(w, line)
	return err
}

// ReportView renders a validation report.
type ReportView struct {
	Report *verify.Report
}

// MarshalJSON implements json.Marshaler.
func (v ReportView) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Report)
}

// WriteText implements TextWriter.
func (v ReportView) WriteText(w io.Writer) error {
	r := v.Report
	for _, c := range r.Failed() {
		if _, err := fmt.Fprintf(w, "FAIL %s\n     %s\n", describe(c), c.Message); err != nil {
			return err
		}
		if c.Output != "" {
			if _, err := fmt.Fprintln(w, indent(c.Output, "     | ")); err != nil {
				return err
			}
		}
	}

	status := "PASSED"
	if !r.Passed {
		status = "FAILED"
	}
	if _, err := fmt.Fprintf(w, "Validation of %s %s: %d checks, %d failures (%s)\n",
		r.TutorialID, status, len(r.Checks), r.Failures, r.Duration.Round(time.Millisecond)); err != nil {
		return err
	}
	if r.SourceCommit != "" && r.Head != nil {
		if _, err := fmt.Fprintf(w, "Replayed %s onto %s at %s\n",
			shortHash(r.SourceCommit), r.Head.Branch, shortHash(r.Head.SHA)); err != nil {
			return err
		}
	}
	if r.Workspace != "" {
		if _, err := fmt.Fprintf(w, "Workspace kept at %s\n", r.Workspace); err != nil {
			return err
		}
	}
	return nil
}

// JUnit implements JUnitSource.
func (v ReportView) JUnit() JUnitSuites {
	r := v.Report
	suite := JUnitSuite{
		Name:     r.TutorialID,
		Tests:    len(r.Checks),
		Failures: r.Failures,
		Time:     r.Duration.Seconds(),
	}
	for _, c := range r.Checks {
		tc := JUnitCase{
			Name:      describe(c),
			ClassName: r.TutorialID + "." + c.Position(),
			Time:      c.Duration.Seconds(),
		}
		if !c.Passed {
			tc.Failure = &JUnitFailure{Message: c.Message, Text: c.Output}
		}
		suite.Cases = append(suite.Cases, tc)
	}
	return JUnitSuites{
		Tests:    suite.Tests,
		Failures: suite.Failures,
		Time:     suite.Time,
		Suites:   []JUnitSuite{suite},
	}
}

func describe(c verify.Check) string {
	s := fmt.Sprintf("%s %s %s %s", c.Position(), c.Phase, c.Kind, c.Target)
	if c.Expect != "" {
		s += fmt.Sprintf(" (expect %s)", c.Expect)
	}
	return s
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n")
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
