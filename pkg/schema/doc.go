// Package schema validates documents against the embedded tutorial and
// skeleton JSON Schemas (draft-07).
//
// The Gate never changes the document it checks. It reports a boolean and a
// list of (path, message) diagnostics; whether a failure blocks writing the
// output is the caller's decision.
package schema
