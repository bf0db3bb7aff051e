package lesson

import (
	"fmt"
	"strings"

	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// Lint checks the header structure of lesson text. Lines inside ``` fences
// are skipped. Every finding is a warning.
func Lint(data []byte, source string) *buildErrors.ErrorList {
	diags := buildErrors.NewErrorList()
	lines := SplitLines(string(data))

	inFence := false
	titles := 0
	seenContent := false
	awaitingDescription := false

	for i, line := range lines {
		loc := tutorial.Location{File: source, Line: i + 1}

		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}

		if !seenContent && !titleHeading.MatchString(line) {
			diags.AddWarningWithSuggestion(buildErrors.ErrorTypeStructural,
				"lesson should start with a '#' title header", loc, "Start the lesson with '# <title>'")
		}
		seenContent = true

		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			awaitingDescription = false
			continue
		}
		if inFence {
			continue
		}

		isHeader := headerPattern.MatchString(line)
		if awaitingDescription && isHeader {
			diags.AddWarning(buildErrors.ErrorTypeStructural, "missing tutorial description below the title", loc)
		}
		if !isHeader {
			awaitingDescription = false
			continue
		}
		awaitingDescription = false

		switch {
		case titleHeading.MatchString(line):
			titles++
			if titles > 1 {
				diags.AddWarning(buildErrors.ErrorTypeStructural, "multiple '#' title headers; only the first is used", loc)
			} else {
				awaitingDescription = true
			}

		case strings.HasPrefix(line, "## "), strings.HasPrefix(line, "##\t"):
			m := levelHeading.FindStringSubmatch(line)
			switch {
			case m == nil:
				diags.AddWarningWithSuggestion(buildErrors.ErrorTypeStructural,
					fmt.Sprintf("invalid level header %q", trimmed), loc, "Use '## <number>. <title>'")
			case m[1] == "L":
				diags.AddWarningWithSuggestion(buildErrors.ErrorTypeStructural,
					fmt.Sprintf("deprecated level header %q", trimmed), loc, fmt.Sprintf("Use '## %s. %s'", m[2], strings.TrimSpace(m[3])))
			}

		case sectionHeading.MatchString(line):
			keyword := strings.TrimSpace(sectionHeading.FindStringSubmatch(line)[1])
			if keyword != KeywordHints && keyword != KeywordSubtasks {
				diags.AddWarningWithSuggestion(buildErrors.ErrorTypeStructural,
					fmt.Sprintf("unrecognized '####' header %q", trimmed), loc,
					buildErrors.SuggestKeyword(strings.ToUpper(keyword), []string{KeywordHints, KeywordSubtasks}, 2))
			}
		}
	}

	if awaitingDescription {
		diags.AddWarning(buildErrors.ErrorTypeStructural, "missing tutorial description below the title",
			tutorial.Location{File: source, Line: len(lines)})
	}
	if inFence {
		diags.AddWarning(buildErrors.ErrorTypeStructural, "unterminated code fence",
			tutorial.Location{File: source, Line: len(lines)})
	}

	return diags
}
