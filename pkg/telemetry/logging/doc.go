// Package logging builds the slog.Logger used across the CLI.
//
// Output is JSON or text. Every string attribute passes through a Redactor
// that masks credentials: userinfo in URLs, GitHub tokens and bearer tokens.
// Repository URIs routinely carry tokens, and they are logged by the git
// and build packages.
//
//	logger, err := logging.New(logging.Config{Level: "info", Format: "text"})
package logging
