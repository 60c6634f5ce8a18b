package groundtruth

import (
	"strings"

	"github.com/starford/vitalis/internal/models"
)

// SynonymSet maps a canonical tag to the variants that should resolve to it.
// Keys and values are compared case-insensitively.
type SynonymSet map[string][]string

// canonicalFor returns the canonical tag for t, or "" when t is not a known
// variant.
func (s SynonymSet) canonicalFor(t string) string {
	lower := strings.ToLower(t)
	for canonical, variants := range s {
		if strings.EqualFold(canonical, lower) {
			return canonical
		}
		for _, v := range variants {
			if strings.EqualFold(v, lower) {
				return canonical
			}
		}
	}
	return ""
}

// ShouldReuseTag reports whether tag is a near-synonym of an existing tag,
// that is, whether creating it as a new tag was the wrong move. Near-synonym
// means case-insensitive equality or a configured synonym rule.
func ShouldReuseTag(tag string, existingTags []string, synonyms SynonymSet) bool {
	for _, existing := range existingTags {
		if strings.EqualFold(tag, existing) {
			return true
		}
	}
	canonical := synonyms.canonicalFor(tag)
	if canonical == "" {
		return false
	}
	for _, existing := range existingTags {
		if existingCanonical := synonyms.canonicalFor(existing); existingCanonical == canonical {
			return true
		}
		if strings.EqualFold(existing, canonical) {
			return true
		}
	}
	return false
}

// ReusedExactly reports whether the extracted tag is byte-for-byte an
// existing tag, i.e. the pipeline reused it rather than minting a variant.
func ReusedExactly(tag string, existingTags []string) bool {
	for _, existing := range existingTags {
		if tag == existing {
			return true
		}
	}
	return false
}

// ConnectionDiff is the set difference between extracted and expected
// connection targets.
type ConnectionDiff struct {
	Correct  int
	Missed   int
	Spurious int
}

// EvaluateConnections diffs the extracted note's connection targets against
// the expected ones, restricted to titles present in knownTitles. Targets
// outside the scenario's note set are ignored entirely: they are neither
// credit nor penalty.
func EvaluateConnections(extracted models.ExtractedNoteResult, expected models.ExpectedNote, knownTitles map[string]struct{}) ConnectionDiff {
	got := make(map[string]struct{})
	for _, conn := range extracted.Connections {
		key := models.NormalizeTitle(conn.TargetTitle)
		if _, ok := knownTitles[key]; ok {
			got[key] = struct{}{}
		}
	}
	want := make(map[string]struct{})
	for _, target := range expected.Connections {
		key := models.NormalizeTitle(target)
		if _, ok := knownTitles[key]; ok {
			want[key] = struct{}{}
		}
	}

	var diff ConnectionDiff
	for key := range got {
		if _, ok := want[key]; ok {
			diff.Correct++
		} else {
			diff.Spurious++
		}
	}
	for key := range want {
		if _, ok := got[key]; !ok {
			diff.Missed++
		}
	}
	return diff
}
