/*
Package errors provides the diagnostic types shared by every build stage.

A build never stops at the first problem it can recover from. Stages append
to an ErrorList instead: fatal entries (SeverityError) halt the build before
output is written, warnings are reported and the build continues.

	diags := errors.NewErrorList()
	diags.AddWarning(errors.ErrorTypeReference, "level 3 has no skeleton entry", loc)
	if err := diags.ToError(); err != nil {
		return err // only fatal entries make ToError non-nil
	}

Error types follow the build taxonomy:

  - structural: malformed lesson text or skeleton (fatal)
  - syntax: unparseable YAML (fatal)
  - reference: skeleton and prose disagree on a level or step (warning)
  - position: a commit message carries no position token (warning)
  - order: commit positions out of sequence (advisory warning)
  - schema: the tutorial or skeleton does not match its schema
  - io: unreadable file, unreachable repository, failed checkout (fatal)
*/
package errors
