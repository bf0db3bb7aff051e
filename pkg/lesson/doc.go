/*
Package lesson parses the human-authored lesson text into a Frame.

The grammar is line oriented:

	# Tutorial title

	Description paragraphs.

	## 1. Level title
	> Optional one-line summary

	Level content.

	### Step title

	Step content.

	#### HINTS

	* first hint
	* second hint
	  continued on the next line

	#### SUBTASKS

	* first subtask

Parsing runs in two passes. Split cuts the text into header-delimited
blocks without looking inside them. Parser then folds over the blocks,
classifying each one and threading an immutable state that records the
current level and step; every classified block yields at most one node,
and the nodes are assembled into the Frame at the end.

Step ids are positional ("<level id>.<n>"), never taken from the heading,
so any numbering the author writes into step titles is ignored.

Lint performs fence-aware structural checks that the parser itself does not
need, such as duplicate titles or malformed level headers.
*/
package lesson
