package errors

import (
	"fmt"
	"strings"

	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// ErrorType categorizes a diagnostic.
type ErrorType string

const (
	ErrorTypeStructural ErrorType = "structural" // Missing title/description, invalid skeleton
	ErrorTypeSyntax     ErrorType = "syntax"     // YAML syntax error
	ErrorTypeReference  ErrorType = "reference"  // Skeleton and prose disagree
	ErrorTypePosition   ErrorType = "position"   // Commit message without position token
	ErrorTypeOrder      ErrorType = "order"      // Commit positions out of order
	ErrorTypeSchema     ErrorType = "schema"     // Schema validation failure
	ErrorTypeIO         ErrorType = "io"         // File or repository I/O error
)

// Severity decides whether a diagnostic halts the build.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Error is a single diagnostic with location, context and an optional
// suggested fix.
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Location   tutorial.Location
	Context    string
	Suggestion string
}

// Error implements the error interface.
func (e *Error) Error() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("[%s] %s\n", e.Type, e.Message))

	if e.Location.IsValid() {
		sb.WriteString(fmt.Sprintf("  --> %s\n", e.Location.String()))
	}

	if e.Context != "" {
		sb.WriteString("  |\n")
		sb.WriteString(e.Context)
		sb.WriteString("  |\n")
	}

	if e.Suggestion != "" {
		sb.WriteString(fmt.Sprintf("  = suggestion: %s\n", e.Suggestion))
	}

	return sb.String()
}

// IsFatal reports whether the diagnostic halts the build.
func (e *Error) IsFatal() bool {
	return e.Severity != SeverityWarning
}

// ErrorList accumulates diagnostics of both severities.
type ErrorList struct {
	Errors []*Error
}

// NewErrorList creates a new empty list.
func NewErrorList() *ErrorList {
	return &ErrorList{
		Errors: make([]*Error, 0),
	}
}

// Add appends a diagnostic. An empty severity is treated as an error.
func (el *ErrorList) Add(err *Error) {
	if err.Severity == "" {
		err.Severity = SeverityError
	}
	el.Errors = append(el.Errors, err)
}

// AddError records a fatal diagnostic.
func (el *ErrorList) AddError(errType ErrorType, message string, location tutorial.Location) {
	el.Add(&Error{
		Type:     errType,
		Severity: SeverityError,
		Message:  message,
		Location: location,
	})
}

// AddWarning records a non-fatal diagnostic.
func (el *ErrorList) AddWarning(errType ErrorType, message string, location tutorial.Location) {
	el.Add(&Error{
		Type:     errType,
		Severity: SeverityWarning,
		Message:  message,
		Location: location,
	})
}

// AddWarningWithSuggestion records a non-fatal diagnostic with a suggested fix.
func (el *ErrorList) AddWarningWithSuggestion(errType ErrorType, message string, location tutorial.Location, suggestion string) {
	el.Add(&Error{
		Type:       errType,
		Severity:   SeverityWarning,
		Message:    message,
		Location:   location,
		Suggestion: suggestion,
	})
}

// Merge appends every diagnostic of other. A nil other is ignored.
func (el *ErrorList) Merge(other *ErrorList) {
	if other == nil {
		return
	}
	el.Errors = append(el.Errors, other.Errors...)
}

// HasErrors returns true if the list contains a fatal diagnostic.
func (el *ErrorList) HasErrors() bool {
	for _, err := range el.Errors {
		if err.IsFatal() {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics of both severities.
func (el *ErrorList) Count() int {
	return len(el.Errors)
}

// Fatal returns the fatal diagnostics.
func (el *ErrorList) Fatal() []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.IsFatal() {
			result = append(result, err)
		}
	}
	return result
}

// Warnings returns the non-fatal diagnostics.
func (el *ErrorList) Warnings() []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if !err.IsFatal() {
			result = append(result, err)
		}
	}
	return result
}

// Error implements the error interface. Only fatal diagnostics are listed.
func (el *ErrorList) Error() string {
	fatal := el.Fatal()
	if len(fatal) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Found %d error(s):\n\n", len(fatal)))

	for i, err := range fatal {
		sb.WriteString(fmt.Sprintf("Error %d:\n", i+1))
		sb.WriteString(err.Error())
		sb.WriteString("\n")
	}

	return sb.String()
}

// ToError returns nil unless the list holds a fatal diagnostic.
func (el *ErrorList) ToError() error {
	if !el.HasErrors() {
		return nil
	}
	return el
}

// ByType returns all diagnostics of the given type.
func (el *ErrorList) ByType(errType ErrorType) []*Error {
	var result []*Error
	for _, err := range el.Errors {
		if err.Type == errType {
			result = append(result, err)
		}
	}
	return result
}

// HasErrorType returns true if the list contains a diagnostic of the given type.
func (el *ErrorList) HasErrorType(errType ErrorType) bool {
	for _, err := range el.Errors {
		if err.Type == errType {
			return true
		}
	}
	return false
}
