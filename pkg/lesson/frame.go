package lesson

import "github.com/coderoad/coderoad-cli/pkg/tutorial"

// Frame is the parsed lesson text: the summary and the levels in document
// order. A Frame is not modified after Parse returns it.
type Frame struct {
	Summary tutorial.Summary
	Levels  []Level
}

// Level is a parsed "##" block.
type Level struct {
	ID       string // declared id from the heading
	Title    string
	Summary  string
	Content  string
	Steps    []Step
	Location tutorial.Location
}

// Step is a parsed "###" block with the hints and subtasks that follow it.
type Step struct {
	ID       string // "<level id>.<position>"
	Title    string
	Content  string
	Hints    []string
	Subtasks []string
	Location tutorial.Location
}

// StepCount returns the number of steps across all levels.
func (f *Frame) StepCount() int {
	n := 0
	for _, l := range f.Levels {
		n += len(l.Steps)
	}
	return n
}
