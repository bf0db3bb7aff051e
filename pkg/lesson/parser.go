package lesson

import (
	"fmt"
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

const (
	// DefaultMaxFileSize is the largest lesson file Parse accepts (5MB).
	DefaultMaxFileSize = 5 * 1024 * 1024

	// SummaryMaxLength is the length of a level summary derived from content.
	SummaryMaxLength = 80

	// KeywordHints and KeywordSubtasks are the recognized "####" headings.
	KeywordHints    = "HINTS"
	KeywordSubtasks = "SUBTASKS"
)

var (
	titleHeading   = regexp.MustCompile(`^#\s+(.*)$`)
	levelHeading   = regexp.MustCompile(`^##\s+(L?)(\d+)\.?(?:\s+(.*))?$`)
	stepHeading    = regexp.MustCompile(`^###\s+(.*)$`)
	sectionHeading = regexp.MustCompile(`^####\s+(.*)$`)
	bulletLine     = regexp.MustCompile(`^[*-]\s+(.*)$`)
)

// Parser parses lesson text into a Frame.
type Parser struct {
	maxFileSize int64
	logger      *slog.Logger
}

// NewParser creates a parser with default settings.
func NewParser() *Parser {
	return &Parser{
		maxFileSize: DefaultMaxFileSize,
		logger:      slog.Default(),
	}
}

// WithMaxFileSize sets the maximum file size Parse accepts.
func (p *Parser) WithMaxFileSize(size int64) *Parser {
	p.maxFileSize = size
	return p
}

// WithLogger sets the logger.
func (p *Parser) WithLogger(logger *slog.Logger) *Parser {
	if logger != nil {
		p.logger = logger
	}
	return p
}

// Parse reads and parses the lesson file at path.
func (p *Parser) Parse(path string) (*Frame, *buildErrors.ErrorList, error) {
	diags := buildErrors.NewErrorList()

	info, err := os.Stat(path)
	if err != nil {
		diags.AddError(buildErrors.ErrorTypeIO, fmt.Sprintf("failed to stat lesson file: %v", err), tutorial.Location{File: path})
		return nil, diags, diags.ToError()
	}
	if info.Size() > p.maxFileSize {
		diags.AddError(buildErrors.ErrorTypeIO,
			fmt.Sprintf("lesson file too large: %d bytes (max %d bytes)", info.Size(), p.maxFileSize),
			tutorial.Location{File: path})
		return nil, diags, diags.ToError()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		diags.AddError(buildErrors.ErrorTypeIO, fmt.Sprintf("failed to read lesson file: %v", err), tutorial.Location{File: path})
		return nil, diags, diags.ToError()
	}

	return p.ParseBytes(data, path)
}

// ParseBytes parses lesson text. source names the text in diagnostics.
// Warnings are returned alongside the frame; a fatal diagnostic yields a nil
// frame and a non-nil error.
func (p *Parser) ParseBytes(data []byte, source string) (*Frame, *buildErrors.ErrorList, error) {
	diags := buildErrors.NewErrorList()
	lines := SplitLines(string(data))
	blocks := splitLines(lines)

	summary, fatal := parseSummary(blocks, source)
	if fatal != nil {
		diags.Add(buildErrors.WithContext(fatal, lines, 2))
		return nil, diags, diags.ToError()
	}

	state := parseState{level: -1, step: -1}
	var nodes []node
	for _, b := range blocks[1:] {
		next, n, diag := classify(state, b, source)
		state = next
		if diag != nil {
			diags.Add(diag)
		}
		if n != nil {
			nodes = append(nodes, *n)
		}
	}

	frame := assemble(summary, nodes)

	p.logger.Debug("Parsed lesson",
		"source", source,
		"levels", len(frame.Levels),
		"steps", frame.StepCount(),
		"warnings", diags.Count(),
	)

	return frame, diags, nil
}

func parseSummary(blocks []Block, source string) (tutorial.Summary, *buildErrors.Error) {
	if len(blocks) == 0 {
		return tutorial.Summary{}, &buildErrors.Error{
			Type:       buildErrors.ErrorTypeStructural,
			Severity:   buildErrors.SeverityError,
			Message:    "missing tutorial title",
			Location:   tutorial.Location{File: source},
			Suggestion: "Start the lesson with '# <title>'",
		}
	}

	first := blocks[0]
	loc := tutorial.Location{File: source, Line: first.Line}

	m := titleHeading.FindStringSubmatch(first.Heading())
	if m == nil || strings.TrimSpace(m[1]) == "" {
		return tutorial.Summary{}, &buildErrors.Error{
			Type:       buildErrors.ErrorTypeStructural,
			Severity:   buildErrors.SeverityError,
			Message:    "missing tutorial title",
			Location:   loc,
			Suggestion: "Start the lesson with '# <title>'",
		}
	}

	description := strings.TrimSpace(strings.Join(first.Body(), "\n"))
	if description == "" {
		return tutorial.Summary{}, &buildErrors.Error{
			Type:       buildErrors.ErrorTypeStructural,
			Severity:   buildErrors.SeverityError,
			Message:    "missing tutorial summary description",
			Location:   loc,
			Suggestion: "Add a description paragraph below the title",
		}
	}

	return tutorial.Summary{
		Title:       strings.TrimSpace(m[1]),
		Description: description,
	}, nil
}

// parseState is the position of the fold: the index of the current level
// in the frame and of the current step within it.
type parseState struct {
	level   int
	levelID string
	step    int
}

type nodeKind int

const (
	nodeLevel nodeKind = iota
	nodeStep
	nodeHints
	nodeSubtasks
)

// node is one classified block, addressed by the level and step indices it
// attaches to.
type node struct {
	kind  nodeKind
	level int
	step  int
	lvl   Level
	stp   Step
	items []string
}

func classify(state parseState, b Block, source string) (parseState, *node, *buildErrors.Error) {
	loc := tutorial.Location{File: source, Line: b.Line}
	heading := b.Heading()

	if m := levelHeading.FindStringSubmatch(heading); m != nil {
		lvl := parseLevel(levelID(m[2]), m[3], b.Body(), loc)
		next := parseState{level: state.level + 1, levelID: lvl.ID, step: -1}
		return next, &node{kind: nodeLevel, level: next.level, lvl: lvl}, nil
	}

	if m := stepHeading.FindStringSubmatch(heading); m != nil {
		if state.level < 0 {
			return state, nil, warning(fmt.Sprintf("step %q appears before any level; ignored", strings.TrimSpace(m[1])), loc, "")
		}
		next := state
		next.step = state.step + 1
		stp := Step{
			ID:       fmt.Sprintf("%s.%d", state.levelID, next.step+1),
			Title:    strings.TrimSpace(m[1]),
			Content:  strings.TrimSpace(strings.Join(b.Body(), "\n")),
			Location: loc,
		}
		return next, &node{kind: nodeStep, level: next.level, step: next.step, stp: stp}, nil
	}

	if m := sectionHeading.FindStringSubmatch(heading); m != nil {
		keyword := strings.TrimSpace(m[1])
		kind := nodeHints
		switch keyword {
		case KeywordHints:
		case KeywordSubtasks:
			kind = nodeSubtasks
		default:
			suggestion := buildErrors.SuggestKeyword(strings.ToUpper(keyword), []string{KeywordHints, KeywordSubtasks}, 2)
			return state, nil, warning(fmt.Sprintf("unrecognized block %q ignored", strings.TrimSpace(heading)), loc, suggestion)
		}
		if state.step < 0 {
			return state, nil, warning(fmt.Sprintf("%s block has no preceding step; ignored", keyword), loc, "")
		}
		return state, &node{kind: kind, level: state.level, step: state.step, items: parseBullets(b.Body())}, nil
	}

	return state, nil, warning(fmt.Sprintf("unrecognized block %q ignored", strings.TrimSpace(heading)), loc, "")
}

// levelID drops leading zeros so "01" matches skeleton id "1".
func levelID(digits string) string {
	if n, err := strconv.Atoi(digits); err == nil {
		return strconv.Itoa(n)
	}
	return digits
}

func parseLevel(id, title string, body []string, loc tutorial.Location) Level {
	i := firstNonBlank(body)

	summary := ""
	if i >= 0 {
		if line := strings.TrimSpace(body[i]); strings.HasPrefix(line, ">") {
			summary = strings.TrimSpace(strings.TrimPrefix(line, ">"))
			body = body[i+1:]
		}
	}

	content := strings.TrimSpace(strings.Join(body, "\n"))
	if summary == "" {
		summary = truncate(firstLineOf(content), SummaryMaxLength)
	}

	return Level{
		ID:       id,
		Title:    strings.TrimSpace(title),
		Summary:  summary,
		Content:  content,
		Steps:    []Step{},
		Location: loc,
	}
}

// parseBullets collects "*" or "-" items; lines up to the next bullet belong
// to the current item. Bullets inside code fences are not item boundaries.
func parseBullets(lines []string) []string {
	items := []string{}
	var current []string
	inFence := false

	flush := func() {
		if current == nil {
			return
		}
		if item := strings.TrimSpace(strings.Join(current, "\n")); item != "" {
			items = append(items, item)
		}
		current = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
		}
		if !inFence {
			if m := bulletLine.FindStringSubmatch(line); m != nil {
				flush()
				current = []string{m[1]}
				continue
			}
		}
		if current != nil {
			current = append(current, strings.TrimSpace(line))
		}
	}
	flush()

	return items
}

func assemble(summary tutorial.Summary, nodes []node) *Frame {
	frame := &Frame{Summary: summary, Levels: []Level{}}

	for _, n := range nodes {
		switch n.kind {
		case nodeLevel:
			frame.Levels = append(frame.Levels, n.lvl)
		case nodeStep:
			lvl := &frame.Levels[n.level]
			lvl.Steps = append(lvl.Steps, n.stp)
		case nodeHints:
			stp := &frame.Levels[n.level].Steps[n.step]
			stp.Hints = append(stp.Hints, n.items...)
		case nodeSubtasks:
			stp := &frame.Levels[n.level].Steps[n.step]
			stp.Subtasks = append(stp.Subtasks, n.items...)
		}
	}

	return frame
}

func warning(message string, loc tutorial.Location, suggestion string) *buildErrors.Error {
	return &buildErrors.Error{
		Type:       buildErrors.ErrorTypeStructural,
		Severity:   buildErrors.SeverityWarning,
		Message:    message,
		Location:   loc,
		Suggestion: suggestion,
	}
}

func firstLineOf(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}

// truncate shortens s to limit runes, ending in "..." when cut.
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-3]) + "..."
}
