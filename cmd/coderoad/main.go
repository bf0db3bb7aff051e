// Coderoad compiles CodeRoad tutorials.
//
// A tutorial is authored as three inputs: lesson text (TUTORIAL.md), a YAML
// skeleton (coderoad.yaml) and a git branch whose commit messages carry
// position tokens. The build command merges them into tutorial.json; the
// validate command replays the tutorial in a scratch clone and checks that
// every step's tests fail before and pass after its solution.
//
// Usage:
//
//	# Build tutorial.json from the current directory
//	coderoad build
//
//	# Build with a custom lesson file and rebuild on change
//	coderoad build -m LESSON.md --watch
//
//	# Check the lesson and skeleton without touching git
//	coderoad lint
//
//	# Replay the tutorial and run its tests
//	coderoad validate --output-format junit > report.xml
package main

func main() {
	Execute()
}
