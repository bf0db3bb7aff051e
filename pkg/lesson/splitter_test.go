package lesson

import (
	"reflect"
	"testing"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Block
	}{
		{
			name: "header delimited blocks",
			text: "# Title\n\nDescription.\n## 1. Level\ncontent\n### Step\nstep content",
			want: []Block{
				{Line: 1, Lines: []string{"# Title", "", "Description."}},
				{Line: 4, Lines: []string{"## 1. Level", "content"}},
				{Line: 6, Lines: []string{"### Step", "step content"}},
			},
		},
		{
			name: "leading blank lines are dropped",
			text: "\n\n   \n# Title\nDescription.",
			want: []Block{
				{Line: 4, Lines: []string{"# Title", "Description."}},
			},
		},
		{
			name: "text before the first header is dropped",
			text: "<!-- generated -->\npreamble\n# Title\nDescription.",
			want: []Block{
				{Line: 3, Lines: []string{"# Title", "Description."}},
			},
		},
		{
			name: "no header yields the whole text",
			text: "just text\nmore text",
			want: []Block{
				{Line: 1, Lines: []string{"just text", "more text"}},
			},
		},
		{
			name: "blank document",
			text: "\n  \n",
			want: nil,
		},
		{
			name: "trailing tail is kept",
			text: "# Title\nDescription.\n\n",
			want: []Block{
				{Line: 1, Lines: []string{"# Title", "Description.", "", ""}},
			},
		},
		{
			name: "depth five splits, depth six does not",
			text: "# T\n##### five\n###### six\n#nospace",
			want: []Block{
				{Line: 1, Lines: []string{"# T"}},
				{Line: 2, Lines: []string{"##### five", "###### six", "#nospace"}},
			},
		},
		{
			name: "CRLF line endings",
			text: "# Title\r\nDescription.\r\n## 1. L\r\n",
			want: []Block{
				{Line: 1, Lines: []string{"# Title", "Description."}},
				{Line: 3, Lines: []string{"## 1. L", ""}},
			},
		},
		{
			name: "headers inside fences still split",
			text: "# T\n```sh\n# comment\n```",
			want: []Block{
				{Line: 1, Lines: []string{"# T", "```sh"}},
				{Line: 3, Lines: []string{"# comment", "```"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.text)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Split() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBlockAccessors(t *testing.T) {
	b := Block{Line: 1, Lines: []string{"## 1. Level", "a", "b"}}

	if got := b.Heading(); got != "## 1. Level" {
		t.Errorf("Heading() = %q, want %q", got, "## 1. Level")
	}
	if got := b.Body(); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Errorf("Body() = %v, want [a b]", got)
	}
	if got := b.Text(); got != "## 1. Level\na\nb" {
		t.Errorf("Text() = %q", got)
	}

	empty := Block{}
	if empty.Heading() != "" || empty.Body() != nil {
		t.Error("empty block accessors should return zero values")
	}
}
