package commits

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// Commit is one entry of a branch history.
type Commit struct {
	Hash    string
	Message string
}

// HistoryReader lists the commits of a branch, newest first, the way
// `git log` does.
type HistoryReader interface {
	History(ctx context.Context, branch string) ([]Commit, error)
}

// Extraction is the result of classifying a history.
type Extraction struct {
	// Commits maps canonical tokens to hashes, oldest first.
	Commits CommitMap

	// Tokens lists the position of every classified commit, oldest first.
	Tokens []string

	// Order is the advisory order-validation report for Tokens.
	Order OrderReport

	// Diagnostics holds position and order warnings. Never fatal.
	Diagnostics *buildErrors.ErrorList
}

// Extractor classifies commit histories into a CommitMap.
type Extractor struct {
	logger *slog.Logger
}

// NewExtractor creates an extractor. A nil logger uses slog.Default().
func NewExtractor(logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{logger: logger}
}

// ExtractBranch reads the history of branch and extracts it.
func (e *Extractor) ExtractBranch(ctx context.Context, reader HistoryReader, branch string) (*Extraction, error) {
	history, err := reader.History(ctx, branch)
	if err != nil {
		return nil, fmt.Errorf("failed to read history of branch %q: %w", branch, err)
	}
	return e.Extract(history), nil
}

// Extract classifies history, given newest first. The history is walked in
// chronological order, so hashes within each CommitMap entry and the token
// sequence handed to the order validator are both oldest first.
func (e *Extractor) Extract(history []Commit) *Extraction {
	result := &Extraction{
		Commits:     make(CommitMap),
		Tokens:      make([]string, 0, len(history)),
		Diagnostics: buildErrors.NewErrorList(),
	}

	for i := len(history) - 1; i >= 0; i-- {
		c := history[i]

		match, ok := ClassifyMessage(c.Message)
		if !ok {
			e.logger.Warn("Skipping commit without position",
				"hash", c.Hash,
				"message", firstLine(c.Message),
			)
			result.Diagnostics.AddWarning(buildErrors.ErrorTypePosition,
				fmt.Sprintf("commit %s has no position in its message %q", shortHash(c.Hash), firstLine(c.Message)),
				tutorial.Location{})
			continue
		}

		token := match.Position.String()
		if match.Legacy {
			e.logger.Debug("Legacy position format in commit message",
				"hash", c.Hash,
				"token", token,
			)
		}

		result.Commits[token] = append(result.Commits[token], c.Hash)
		result.Tokens = append(result.Tokens, token)
	}

	result.Order = CheckOrder(result.Tokens)
	if !result.Order.Valid() {
		e.logger.Warn("Commit order is invalid",
			"violations", len(result.Order.Violations),
			"trace", result.Order.Trace(),
		)
		for _, v := range result.Order.Violations {
			result.Diagnostics.AddWarning(buildErrors.ErrorTypeOrder,
				fmt.Sprintf("commit position %d (%s): %s", v.Index, v.Token, v.Reason),
				tutorial.Location{})
		}
	}

	e.logger.Debug("Extracted commit positions",
		"commits", len(history),
		"tokens", len(result.Commits),
	)

	return result
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}

func shortHash(h string) string {
	if len(h) > 7 {
		return h[:7]
	}
	return h
}
