package errors

import (
	"fmt"
	"strings"

	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// ExtractContext renders the lines around location with line numbers and a
// "->" marker on the offending line. lines holds the whole source document.
func ExtractContext(lines []string, location tutorial.Location, contextLines int) string {
	if !location.IsValid() || location.Line > len(lines) {
		return ""
	}

	errorLine := location.Line - 1
	startLine := max(errorLine-contextLines, 0)
	endLine := min(errorLine+contextLines, len(lines)-1)

	var sb strings.Builder
	width := len(fmt.Sprintf("%d", endLine+1))

	for i := startLine; i <= endLine; i++ {
		prefix := "  "
		if i == errorLine {
			prefix = "->"
		}
		sb.WriteString(fmt.Sprintf("%s %*d | %s\n", prefix, width, i+1, lines[i]))
	}

	return sb.String()
}

// WithContext attaches source context to err and returns it.
func WithContext(err *Error, lines []string, contextLines int) *Error {
	if err.Location.IsValid() {
		err.Context = ExtractContext(lines, err.Location, contextLines)
	}
	return err
}
