package lesson

import (
	"regexp"
	"strings"
)

// headerPattern marks the first line of a block: one to five '#' followed
// by whitespace.
var headerPattern = regexp.MustCompile(`^#{1,5}\s`)

// Block is a run of lines starting at a header, or the whole text when the
// document has no header.
type Block struct {
	Line  int // 1-based line number of Lines[0]
	Lines []string
}

// Heading returns the first line of the block.
func (b Block) Heading() string {
	if len(b.Lines) == 0 {
		return ""
	}
	return b.Lines[0]
}

// Body returns every line after the heading.
func (b Block) Body() []string {
	if len(b.Lines) < 2 {
		return nil
	}
	return b.Lines[1:]
}

// Text returns the block joined with newlines.
func (b Block) Text() string {
	return strings.Join(b.Lines, "\n")
}

// SplitLines normalizes line endings and splits text into lines.
func SplitLines(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.Split(text, "\n")
}

// Split cuts text into header-delimited blocks. Lines before the first
// header are dropped; the last block runs to the end of the text. A text
// without any header is returned as a single block.
func Split(text string) []Block {
	return splitLines(SplitLines(text))
}

func splitLines(lines []string) []Block {
	var blocks []Block
	start := -1

	for i, line := range lines {
		if !headerPattern.MatchString(line) {
			continue
		}
		if start >= 0 {
			blocks = append(blocks, Block{Line: start + 1, Lines: lines[start:i]})
		}
		start = i
	}

	if start >= 0 {
		blocks = append(blocks, Block{Line: start + 1, Lines: lines[start:]})
	} else if lead := firstNonBlank(lines); lead >= 0 {
		blocks = append(blocks, Block{Line: lead + 1, Lines: lines[lead:]})
	}

	return blocks
}

func firstNonBlank(lines []string) int {
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			return i
		}
	}
	return -1
}
