package tutorial

import "fmt"

// Location points at a line in a source document (lesson text or skeleton).
type Location struct {
	File   string // Path to the source file
	Line   int    // Line number (1-based)
	Column int    // Column number (1-based, 0 when unknown)
}

// String returns "file:line" or "file:line:column".
func (l Location) String() string {
	if l.File == "" {
		return "<unknown>"
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// IsValid returns true if the location has file and line information.
func (l Location) IsValid() bool {
	return l.File != "" && l.Line > 0
}
