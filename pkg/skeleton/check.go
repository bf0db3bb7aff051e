package skeleton

import (
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/coderoad/coderoad-cli/pkg/commits"
	buildErrors "github.com/coderoad/coderoad-cli/pkg/errors"
	"github.com/coderoad/coderoad-cli/pkg/schema"
	"github.com/coderoad/coderoad-cli/pkg/tutorial"
)

// SchemaValidator validates a generic skeleton document.
type SchemaValidator interface {
	ValidateSkeleton(doc any) (schema.Result, error)
}

// Check validates a loaded skeleton. Schema violations, duplicate ids and
// ids that are not level/step positions are fatal; questionable glob
// patterns and misplaced steps are warnings. A nil validator skips the
// schema check.
func Check(doc *Document, validator SchemaValidator) *buildErrors.ErrorList {
	diags := buildErrors.NewErrorList()

	if validator != nil {
		result, err := validator.ValidateSkeleton(doc.Raw)
		if err != nil {
			diags.AddError(buildErrors.ErrorTypeSchema, err.Error(), tutorial.Location{File: doc.Source})
		} else if !result.Valid {
			diags.Merge(result.ErrorList(buildErrors.SeverityError, doc.Source))
		}
	}

	checkIDs(doc.Skeleton, diags)
	checkPatterns(doc.Skeleton, diags)

	return diags
}

func checkIDs(skel *tutorial.Skeleton, diags *buildErrors.ErrorList) {
	levels := make(map[string]bool)
	steps := make(map[string]bool)

	for _, lvl := range skel.Levels {
		pos, err := commits.ParseToken(lvl.ID)
		if err != nil || pos.Kind != commits.KindLevel {
			diags.AddError(buildErrors.ErrorTypeStructural, fmt.Sprintf("invalid level id %q", lvl.ID), lvl.Location)
		} else if levels[lvl.ID] {
			diags.AddError(buildErrors.ErrorTypeStructural, fmt.Sprintf("duplicate level id %q", lvl.ID), lvl.Location)
		}
		levels[lvl.ID] = true

		for _, st := range lvl.Steps {
			spos, err := commits.ParseToken(st.ID)
			if err != nil || spos.Kind != commits.KindStep {
				diags.AddError(buildErrors.ErrorTypeStructural, fmt.Sprintf("invalid step id %q", st.ID), st.Location)
				continue
			}
			if steps[st.ID] {
				diags.AddError(buildErrors.ErrorTypeStructural, fmt.Sprintf("duplicate step id %q", st.ID), st.Location)
			}
			steps[st.ID] = true

			if !strings.HasPrefix(st.ID, lvl.ID+".") {
				diags.AddWarning(buildErrors.ErrorTypeReference,
					fmt.Sprintf("step %q is listed under level %q", st.ID, lvl.ID), st.Location)
			}
		}
	}
}

func checkPatterns(skel *tutorial.Skeleton, diags *buildErrors.ErrorList) {
	for _, lvl := range skel.Levels {
		checkActions(lvl.Setup, "level "+lvl.ID+" setup", lvl.Location, diags)
		for _, st := range lvl.Steps {
			checkActions(st.Setup, "step "+st.ID+" setup", st.Location, diags)
			checkActions(st.Solution, "step "+st.ID+" solution", st.Location, diags)
		}
	}
}

func checkActions(a *tutorial.Actions, where string, loc tutorial.Location, diags *buildErrors.ErrorList) {
	if a == nil {
		return
	}
	for _, p := range a.Watchers {
		if !doublestar.ValidatePattern(p) {
			diags.AddWarning(buildErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: invalid watcher pattern %q", where, p), loc)
		}
	}
	for _, f := range a.Files {
		if strings.HasPrefix(f, "/") || strings.Contains(f, "..") {
			diags.AddWarning(buildErrors.ErrorTypeStructural,
				fmt.Sprintf("%s: file %q should be relative to the repository root", where, f), loc)
		}
	}
}
