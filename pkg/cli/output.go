package cli

import (
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
)

// OutputFormat is the format command results are printed in.
type OutputFormat string

const (
	// FormatText is human-readable text (default).
	FormatText OutputFormat = "text"
	// FormatJSON is indented JSON.
	FormatJSON OutputFormat = "json"
	// FormatJUnit is JUnit XML, supported for validation reports.
	FormatJUnit OutputFormat = "junit"
)

// TextWriter is implemented by values with a text rendering.
type TextWriter interface {
	WriteText(w io.Writer) error
}

// JUnitSource is implemented by values that can be rendered as JUnit XML.
type JUnitSource interface {
	JUnit() JUnitSuites
}

// Formatter writes command results.
type Formatter interface {
	FormatTo(w io.Writer, data any) error
}

// TextFormatter writes TextWriter values through WriteText and anything
// else with fmt.
type TextFormatter struct{}

// FormatTo implements Formatter.
func (f *TextFormatter) FormatTo(w io.Writer, data any) error {
	if tw, ok := data.(TextWriter); ok {
		return tw.WriteText(w)
	}
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter writes JSON.
type JSONFormatter struct {
	Indent bool
}

// FormatTo implements Formatter.
func (f *JSONFormatter) FormatTo(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	if f.Indent {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(data)
}

// JUnitFormatter writes JUnitSource values as JUnit XML.
type JUnitFormatter struct{}

// FormatTo implements Formatter.
func (f *JUnitFormatter) FormatTo(w io.Writer, data any) error {
	src, ok := data.(JUnitSource)
	if !ok {
		return fmt.Errorf("junit output is not supported for %T", data)
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	encoder := xml.NewEncoder(w)
	encoder.Indent("", "  ")
	if err := encoder.Encode(src.JUnit()); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// NewFormatter returns the formatter for format.
func NewFormatter(format OutputFormat) (Formatter, error) {
	switch format {
	case FormatText, "":
		return &TextFormatter{}, nil
	case FormatJSON:
		return &JSONFormatter{Indent: true}, nil
	case FormatJUnit:
		return &JUnitFormatter{}, nil
	default:
		return nil, NewConfigError("output-format", fmt.Sprintf("unknown format %q (want text, json or junit)", format))
	}
}

// JUnitSuites is the root element of a JUnit report.
type JUnitSuites struct {
	XMLName  xml.Name     `xml:"testsuites"`
	Tests    int          `xml:"tests,attr"`
	Failures int          `xml:"failures,attr"`
	Time     float64      `xml:"time,attr"`
	Suites   []JUnitSuite `xml:"testsuite"`
}

// JUnitSuite groups the test cases of one tutorial.
type JUnitSuite struct {
	Name     string      `xml:"name,attr"`
	Tests    int         `xml:"tests,attr"`
	Failures int         `xml:"failures,attr"`
	Time     float64     `xml:"time,attr"`
	Cases    []JUnitCase `xml:"testcase"`
}

// JUnitCase is one check.
type JUnitCase struct {
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Time      float64       `xml:"time,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
}

// JUnitFailure describes a failed check.
type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Text    string `xml:",chardata"`
}
