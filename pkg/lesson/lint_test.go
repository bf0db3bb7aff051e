package lesson

import (
	"strings"
	"testing"
)

func TestLint(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantMsgs []string
	}{
		{
			name: "valid lesson",
			text: "# Title\n\nDescription.\n\n## 1. Level\n\n> summary\n\n### Step\n\ncontent\n\n#### HINTS\n\n* hint\n",
		},
		{
			name:     "does not start with title",
			text:     "Intro\n\n# Title\n\nDescription.\n",
			wantMsgs: []string{"lesson should start with a '#' title header"},
		},
		{
			name:     "multiple titles",
			text:     "# Title\n\nDescription.\n\n# Second\n",
			wantMsgs: []string{"multiple '#' title headers; only the first is used"},
		},
		{
			name:     "missing description",
			text:     "# Title\n\n## 1. Level\n",
			wantMsgs: []string{"missing tutorial description below the title"},
		},
		{
			name:     "missing description at end of file",
			text:     "# Title\n",
			wantMsgs: []string{"missing tutorial description below the title"},
		},
		{
			name:     "invalid level header",
			text:     "# Title\n\nDescription.\n\n## Introduction\n",
			wantMsgs: []string{`invalid level header "## Introduction"`},
		},
		{
			name:     "legacy level header",
			text:     "# Title\n\nDescription.\n\n## L1 Intro\n",
			wantMsgs: []string{`deprecated level header "## L1 Intro"`},
		},
		{
			name:     "unknown depth four header",
			text:     "# Title\n\nDescription.\n\n#### Notes\n",
			wantMsgs: []string{`unrecognized '####' header "#### Notes"`},
		},
		{
			name: "headers inside fences are ignored",
			text: "# Title\n\nDescription.\n\n```sh\n# install\n## 2 things\n#### nope\n```\n",
		},
		{
			name:     "unterminated fence",
			text:     "# Title\n\nDescription.\n\n```js\nconst a = 1;\n",
			wantMsgs: []string{"unterminated code fence"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			diags := Lint([]byte(tt.text), "TUTORIAL.md")

			if diags.HasErrors() {
				t.Errorf("Lint() produced fatal diagnostics: %v", diags.Errors)
			}

			var got []string
			for _, d := range diags.Errors {
				got = append(got, d.Message)
			}
			if strings.Join(got, "|") != strings.Join(tt.wantMsgs, "|") {
				t.Errorf("Lint() messages = %q, want %q", got, tt.wantMsgs)
			}
		})
	}
}

func TestLintSuggestions(t *testing.T) {
	diags := Lint([]byte("# T\n\nD.\n\n## L2 Setup\n\n#### SUBTASK\n"), "TUTORIAL.md")

	if len(diags.Errors) != 2 {
		t.Fatalf("len(Errors) = %d, want 2: %v", len(diags.Errors), diags.Errors)
	}
	if got := diags.Errors[0].Suggestion; got != "Use '## 2. Setup'" {
		t.Errorf("Suggestion = %q, want %q", got, "Use '## 2. Setup'")
	}
	if got := diags.Errors[1].Suggestion; got != "Did you mean 'SUBTASKS'?" {
		t.Errorf("Suggestion = %q, want %q", got, "Did you mean 'SUBTASKS'?")
	}
	if got := diags.Errors[1].Location.Line; got != 7 {
		t.Errorf("Location.Line = %d, want 7", got)
	}
}
