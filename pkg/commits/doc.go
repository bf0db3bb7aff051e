/*
Package commits turns a branch history into position-tagged hash groups.

Commit messages encode where a commit belongs in the tutorial timeline:

	INIT                  tutorial-wide setup
	1. Intro              level 1
	1.1 Add a test        step 1.1, setup phase
	1.1T / 1.1Q           step 1.1, setup phase
	1.1S / 1.1A           step 1.1, solution phase
	L1, L1S1, L1S1Q       legacy spellings of the above

Each message is classified by an ordered rule table (first match wins) and
canonicalized to a Position whose String form ("INIT", "1", "1.1:T",
"1.1:S") keys the CommitMap. The order validator then checks that the
positions form a chronological walk of the tutorial.
*/
package commits
