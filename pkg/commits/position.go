package commits

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Kind is the granularity of a position.
type Kind int

const (
	KindInit Kind = iota
	KindLevel
	KindStep
)

// Phase is the step phase a commit belongs to.
type Phase string

const (
	PhaseNone     Phase = ""
	PhaseSetup    Phase = "T"
	PhaseSolution Phase = "S"
)

// Position is a canonical point in the tutorial timeline.
type Position struct {
	Kind  Kind
	Level int
	Step  int
	Phase Phase
}

// InitPosition returns the INIT position.
func InitPosition() Position {
	return Position{Kind: KindInit}
}

// LevelPosition returns the position of level n.
func LevelPosition(n int) Position {
	return Position{Kind: KindLevel, Level: n}
}

// StepPosition returns the position of a step phase.
func StepPosition(level, step int, phase Phase) Position {
	if phase == PhaseNone {
		phase = PhaseSetup
	}
	return Position{Kind: KindStep, Level: level, Step: step, Phase: phase}
}

// String returns the canonical token: "INIT", "3" or "3.2:T".
func (p Position) String() string {
	switch p.Kind {
	case KindInit:
		return "INIT"
	case KindLevel:
		return strconv.Itoa(p.Level)
	default:
		return fmt.Sprintf("%d.%d:%s", p.Level, p.Step, p.Phase)
	}
}

// ID returns the level or step id without a phase: "INIT", "3" or "3.2".
func (p Position) ID() string {
	if p.Kind == KindStep {
		return fmt.Sprintf("%d.%d", p.Level, p.Step)
	}
	return p.String()
}

// Label names the kind of commit group, used for metrics.
func (p Position) Label() string {
	switch {
	case p.Kind == KindInit:
		return "init"
	case p.Kind == KindLevel:
		return "level"
	case p.Phase == PhaseSolution:
		return "solution"
	default:
		return "setup"
	}
}

// Compare orders positions along the timeline:
// INIT < level N < step N.M:T <= step N.M:S < level N+1.
// It returns -1, 0 or +1.
func (p Position) Compare(o Position) int {
	a, b := p.rank(), o.rank()
	for i := range a {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

// CompareStep orders positions by level and step only, ignoring the phase.
func (p Position) CompareStep(o Position) int {
	a, b := p.rank(), o.rank()
	for i := 0; i < 3; i++ {
		switch {
		case a[i] < b[i]:
			return -1
		case a[i] > b[i]:
			return 1
		}
	}
	return 0
}

func (p Position) rank() [4]int {
	switch p.Kind {
	case KindInit:
		return [4]int{0, 0, 0, 0}
	case KindLevel:
		return [4]int{1, p.Level, 0, 0}
	default:
		phase := 1
		if p.Phase == PhaseSolution {
			phase = 2
		}
		return [4]int{1, p.Level, p.Step, phase}
	}
}

// CanonicalPhase maps a phase marker to its phase. T and Q mean setup, S and
// A mean solution, and no marker means setup.
func CanonicalPhase(marker string) (Phase, error) {
	switch marker {
	case "", "T", "Q":
		return PhaseSetup, nil
	case "S", "A":
		return PhaseSolution, nil
	default:
		return PhaseNone, fmt.Errorf("unknown phase marker %q", marker)
	}
}

// rule maps a pattern to a position constructor. Legacy rules accept
// deprecated spellings and build the same canonical positions.
type rule struct {
	name    string
	legacy  bool
	pattern *regexp.Regexp
	build   func(m []string) (Position, error)
}

// messageRules classify commit messages. Evaluated top to bottom.
var messageRules = []rule{
	{name: "init", pattern: regexp.MustCompile(`^INIT(?:\W|$)`), build: buildInit},
	{name: "level", pattern: regexp.MustCompile(`^(\d+)\.?(?:\s|$)`), build: buildLevel},
	{name: "level", legacy: true, pattern: regexp.MustCompile(`^L(\d+)\.?(?:\s|$)`), build: buildLevel},
	{name: "step", pattern: regexp.MustCompile(`^(\d+)\.(\d+):?([TQSA])?(?:\W|$)`), build: buildStep},
	{name: "step", legacy: true, pattern: regexp.MustCompile(`^L(\d+)S(\d+)([QA])?(?:\W|$)`), build: buildStep},
}

// tokenRules parse position tokens as stored in a CommitMap or handed to the
// order validator.
var tokenRules = []rule{
	{name: "init", pattern: regexp.MustCompile(`^INIT$`), build: buildInit},
	{name: "level", pattern: regexp.MustCompile(`^(\d+)$`), build: buildLevel},
	{name: "level", legacy: true, pattern: regexp.MustCompile(`^L(\d+)$`), build: buildLevel},
	{name: "step", pattern: regexp.MustCompile(`^(\d+)\.(\d+):?([TQSA])?$`), build: buildStep},
	{name: "step", legacy: true, pattern: regexp.MustCompile(`^L(\d+)S(\d+)([QA])?$`), build: buildStep},
}

func buildInit([]string) (Position, error) {
	return InitPosition(), nil
}

func buildLevel(m []string) (Position, error) {
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return Position{}, err
	}
	return LevelPosition(n), nil
}

func buildStep(m []string) (Position, error) {
	level, err := strconv.Atoi(m[1])
	if err != nil {
		return Position{}, err
	}
	step, err := strconv.Atoi(m[2])
	if err != nil {
		return Position{}, err
	}
	marker := ""
	if len(m) > 3 {
		marker = m[3]
	}
	phase, err := CanonicalPhase(marker)
	if err != nil {
		return Position{}, err
	}
	return StepPosition(level, step, phase), nil
}

// Match describes which rule classified a message.
type Match struct {
	Position Position
	Rule     string
	Legacy   bool
}

func apply(rules []rule, s string) (Match, bool) {
	for _, r := range rules {
		m := r.pattern.FindStringSubmatch(s)
		if m == nil {
			continue
		}
		pos, err := r.build(m)
		if err != nil {
			return Match{}, false
		}
		return Match{Position: pos, Rule: r.name, Legacy: r.legacy}, true
	}
	return Match{}, false
}

// ClassifyMessage extracts the position encoded at the start of a commit
// message's subject line.
func ClassifyMessage(message string) (Match, bool) {
	subject, _, _ := strings.Cut(message, "\n")
	return apply(messageRules, strings.TrimSpace(subject))
}

// ParseToken parses a canonical or legacy position token. A step token
// without a phase ("1.1") is a setup token.
func ParseToken(token string) (Position, error) {
	m, ok := apply(tokenRules, strings.TrimSpace(token))
	if !ok {
		return Position{}, fmt.Errorf("invalid position token %q", token)
	}
	return m.Position, nil
}

// NormalizeID canonicalizes a level or step id, accepting legacy spellings:
// "L1" becomes "1" and "L1S2" becomes "1.2".
func NormalizeID(id string) (string, error) {
	pos, err := ParseToken(id)
	if err != nil {
		return "", err
	}
	if pos.Kind == KindInit {
		return "", fmt.Errorf("INIT is not a level or step id")
	}
	return pos.ID(), nil
}
