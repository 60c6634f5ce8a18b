package groundtruth

import (
	"strings"

	"github.com/starford/vitalis/internal/models"
)

// ConsolidationCheck compares ground truth ("should this note have merged,
// and into what") against observed extraction behavior.
type ConsolidationCheck struct {
	ShouldHaveConsolidated bool
	DidConsolidate         bool
	ConsolidatedCorrectly  bool
	ExpectedTarget         string
	// ExpectedIndex is the index into the scenario's expected consolidations
	// this note matched, or -1. The duplicate-detection calculator uses it to
	// find expectations no note ever matched.
	ExpectedIndex int
}

// CheckConsolidation determines whether the extracted note should have been
// merged into an existing note and whether the pipeline actually did so with
// the right target.
func CheckConsolidation(extracted models.ExtractedNoteResult, existing []models.ExistingNote, expected []models.ExpectedConsolidation) ConsolidationCheck {
	check := ConsolidationCheck{
		DidConsolidate: extracted.ConsolidatedWith != "",
		ExpectedIndex:  -1,
	}

	for i, exp := range expected {
		if titlesRefer(extracted.Title, exp.NoteTitle) {
			check.ShouldHaveConsolidated = true
			check.ExpectedTarget = exp.MergeInto
			check.ExpectedIndex = i
			break
		}
	}

	if check.DidConsolidate && check.ShouldHaveConsolidated {
		check.ConsolidatedCorrectly = titlesRefer(extracted.ConsolidatedWith, check.ExpectedTarget)
	}
	return check
}

// titlesRefer reports whether two titles refer to the same note: equal after
// normalization, or one contains the other (extraction often shortens or
// extends ground-truth titles).
func titlesRefer(a, b string) bool {
	na, nb := models.NormalizeTitle(a), models.NormalizeTitle(b)
	if na == "" || nb == "" {
		return false
	}
	return na == nb || strings.Contains(na, nb) || strings.Contains(nb, na)
}
