package commits

import (
	"context"
	"errors"
	"reflect"
	"testing"

	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
)

type fakeHistory struct {
	commits []Commit
	err     error
	branch  string
}

func (f *fakeHistory) History(_ context.Context, branch string) ([]Commit, error) {
	f.branch = branch
	return f.commits, f.err
}

// newestFirst reverses a chronological list into git log order.
func newestFirst(chronological []Commit) []Commit {
	out := make([]Commit, len(chronological))
	for i, c := range chronological {
		out[len(chronological)-1-i] = c
	}
	return out
}

func TestExtract(t *testing.T) {
	history := newestFirst([]Commit{
		{Hash: "a000001", Message: "INIT"},
		{Hash: "a000002", Message: "INIT: add tests"},
		{Hash: "a000003", Message: "1. First Level"},
		{Hash: "a000004", Message: "1.1Q setup"},
		{Hash: "a000005", Message: "fix typo"},
		{Hash: "a000006", Message: "1.1A solution"},
		{Hash: "a000007", Message: "L1S2 legacy setup"},
		{Hash: "a000008", Message: "L1S2A legacy solution"},
	})

	result := NewExtractor(nil).Extract(history)

	want := CommitMap{
		"INIT":  {"a000001", "a000002"},
		"1":     {"a000003"},
		"1.1:T": {"a000004"},
		"1.1:S": {"a000006"},
		"1.2:T": {"a000007"},
		"1.2:S": {"a000008"},
	}
	if !reflect.DeepEqual(result.Commits, want) {
		t.Errorf("Commits = %v, want %v", result.Commits, want)
	}

	wantTokens := []string{"INIT", "INIT", "1", "1.1:T", "1.1:S", "1.2:T", "1.2:S"}
	if !reflect.DeepEqual(result.Tokens, wantTokens) {
		t.Errorf("Tokens = %v, want %v", result.Tokens, wantTokens)
	}

	if !result.Order.Valid() {
		t.Errorf("Order.Valid() = false, want true\n%s", result.Order.Trace())
	}

	positions := result.Diagnostics.ByType(buildErrors.ErrorTypePosition)
	if len(positions) != 1 {
		t.Fatalf("position warnings = %d, want 1", len(positions))
	}
	if result.Diagnostics.HasErrors() {
		t.Error("Diagnostics.HasErrors() = true, want only warnings")
	}
}

func TestExtractOrderIsAdvisory(t *testing.T) {
	history := newestFirst([]Commit{
		{Hash: "b1", Message: "INIT"},
		{Hash: "b2", Message: "1"},
		{Hash: "b3", Message: "1.1S"},
		{Hash: "b4", Message: "1.2T"},
	})

	result := NewExtractor(nil).Extract(history)

	if result.Order.Valid() {
		t.Fatal("Order.Valid() = true, want false")
	}
	if !result.Diagnostics.HasErrorType(buildErrors.ErrorTypeOrder) {
		t.Error("missing order diagnostic")
	}
	if result.Diagnostics.HasErrors() {
		t.Error("order findings must not be fatal")
	}
	if got := result.Commits["1.1:S"]; !reflect.DeepEqual(got, []string{"b3"}) {
		t.Errorf("Commits[1.1:S] = %v, want [b3]", got)
	}
}

func TestExtractBranch(t *testing.T) {
	reader := &fakeHistory{commits: []Commit{{Hash: "c2", Message: "1"}, {Hash: "c1", Message: "INIT"}}}

	result, err := NewExtractor(nil).ExtractBranch(context.Background(), reader, "v0.1.0")
	if err != nil {
		t.Fatalf("ExtractBranch() error = %v", err)
	}
	if reader.branch != "v0.1.0" {
		t.Errorf("branch = %q, want %q", reader.branch, "v0.1.0")
	}
	if !reflect.DeepEqual(result.Tokens, []string{"INIT", "1"}) {
		t.Errorf("Tokens = %v, want [INIT 1]", result.Tokens)
	}

	failing := &fakeHistory{err: errors.New("reference not found")}
	if _, err := NewExtractor(nil).ExtractBranch(context.Background(), failing, "missing"); err == nil {
		t.Error("ExtractBranch() error = nil, want error")
	}
}

func TestCommitMapLookup(t *testing.T) {
	m := CommitMap{"L2": {"legacy"}, "3": {"canonical"}}

	got, ok := m.Lookup("2", "L2")
	if !ok || !reflect.DeepEqual(got, []string{"legacy"}) {
		t.Errorf("Lookup(2, L2) = %v, %v, want [legacy], true", got, ok)
	}

	got[0] = "mutated"
	if m["L2"][0] != "legacy" {
		t.Error("Lookup returned an aliased slice")
	}

	if _, ok := m.Lookup("4", "L4"); ok {
		t.Error("Lookup(4, L4) found, want missing")
	}

	if got, ok := m.Lookup(LevelPosition(3).String(), "L3"); !ok || !reflect.DeepEqual(got, []string{"canonical"}) {
		t.Errorf("Lookup(3, L3) = %v, %v, want [canonical], true", got, ok)
	}
}

func TestCommitMapTokens(t *testing.T) {
	m := CommitMap{
		"2":      {"h"},
		"1.1:S":  {"h"},
		"INIT":   {"h"},
		"zzz":    {"h"},
		"1.1:T":  {"h"},
		"1":      {"h"},
		"1.10:T": {"h"},
		"1.2:T":  {"h"},
	}

	want := []string{"INIT", "1", "1.1:T", "1.1:S", "1.2:T", "1.10:T", "2", "zzz"}
	if got := m.Tokens(); !reflect.DeepEqual(got, want) {
		t.Errorf("Tokens() = %v, want %v", got, want)
	}
}
