package commits

import (
	"fmt"
	"strings"
)

// Violation is one offending entry of a position sequence.
type Violation struct {
	Index  int
	Token  string
	Reason string
}

// OrderReport is the outcome of checking a position sequence.
type OrderReport struct {
	Tokens     []string
	Violations []Violation
}

// Valid reports whether the sequence has no violations.
func (r OrderReport) Valid() bool {
	return len(r.Violations) == 0
}

// Trace renders the sequence one token per line, marking offending entries
// with "<-" and the reason.
func (r OrderReport) Trace() string {
	reasons := make(map[int]string, len(r.Violations))
	for _, v := range r.Violations {
		reasons[v.Index] = v.Reason
	}

	var sb strings.Builder
	for i, token := range r.Tokens {
		sb.WriteString(token)
		if reason, ok := reasons[i]; ok {
			sb.WriteString(" <- ")
			sb.WriteString(reason)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// ValidateCommitOrder reports whether tokens, oldest first, form a valid
// walk of the tutorial timeline.
func ValidateCommitOrder(tokens []string) bool {
	return CheckOrder(tokens).Valid()
}

// CheckOrder validates a chronological position sequence:
//   - INIT may repeat only before any level or step position
//   - (level, step) pairs never move backwards; repeats are allowed and a
//     setup may follow the solution of the same step
//   - a step's solution phase needs an earlier setup phase for that step
//   - every token must parse
func CheckOrder(tokens []string) OrderReport {
	report := OrderReport{Tokens: append([]string(nil), tokens...)}

	var (
		previous    Position
		previousTok string
		progressed  bool
		setupSeen   = make(map[string]bool)
	)

	for i, token := range tokens {
		pos, err := ParseToken(token)
		if err != nil {
			report.Violations = append(report.Violations, Violation{Index: i, Token: token, Reason: "malformed position"})
			continue
		}

		if pos.Kind == KindInit {
			if progressed {
				report.Violations = append(report.Violations, Violation{
					Index:  i,
					Token:  token,
					Reason: fmt.Sprintf("INIT after %s", previousTok),
				})
			}
			continue
		}

		var reasons []string
		if progressed && pos.CompareStep(previous) < 0 {
			reasons = append(reasons, fmt.Sprintf("comes after %s", previousTok))
		}
		if pos.Kind == KindStep {
			if pos.Phase == PhaseSetup {
				setupSeen[pos.ID()] = true
			} else if !setupSeen[pos.ID()] {
				reasons = append(reasons, fmt.Sprintf("solution before setup of step %s", pos.ID()))
			}
		}
		if len(reasons) > 0 {
			report.Violations = append(report.Violations, Violation{
				Index:  i,
				Token:  token,
				Reason: strings.Join(reasons, "; "),
			})
		}

		previous = pos
		previousTok = token
		progressed = true
	}

	return report
}
