// Package verify checks that a built tutorial behaves the way it claims.
//
// The tutorial repository is cloned into a scratch workspace and replayed
// from an empty branch: INIT commits and setup commands first, then every
// level and step in document order. For a step with a solution the tests
// must fail after the setup commits and pass after the solution commits.
// Mismatches are recorded and the run continues with the next step.
package verify
