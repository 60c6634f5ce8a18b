package rubric

import (
	"regexp"
	"strings"

	"github.com/starford/vitalis/internal/classify"
	"github.com/starford/vitalis/internal/models"
)

// actionPhrases indicate the purpose statement names a concrete use for the
// note rather than a vague intention.
var actionPhrases = []string{
	"so that",
	"because i can",
	"in order to",
	"i can use",
	"helps me",
	"allows me to",
	"enables me to",
	"i will use",
}

// scoreWhy computes the 0–3 purpose component.
//
// The statement is only ever non-empty when field recovery matched a
// first-person phrasing or an explicit Purpose:/Why: label, so presence
// alone earns the first point.
func scoreWhy(statement string, goals []Goal) models.WhyScore {
	s := models.WhyScore{RawStatement: statement}
	if statement == "" {
		return s
	}
	s.HasFirstPerson = true
	s.Score++

	lower := strings.ToLower(statement)
	for _, g := range goals {
		if overlaps(lower, g.Title) || overlaps(lower, g.WhyRoot) {
			s.LinksToGoal = true
			s.Score++
			break
		}
	}

	for _, phrase := range actionPhrases {
		if strings.Contains(lower, phrase) {
			s.HasActionVerb = true
			s.Score++
			break
		}
	}
	return s
}

// overlaps reports whether the statement contains the phrase as a
// case-insensitive substring, or shares a significant keyword with it.
func overlaps(lowerStatement, phrase string) bool {
	p := strings.ToLower(strings.TrimSpace(phrase))
	if p == "" {
		return false
	}
	if strings.Contains(lowerStatement, p) {
		return true
	}
	for _, word := range strings.Fields(p) {
		word = strings.Trim(word, ".,;:!?")
		if len(word) <= 3 {
			continue
		}
		if strings.Contains(lowerStatement, word) {
			return true
		}
	}
	return false
}

// scoreMetadata computes the 0–2 metadata completeness component.
// 3–4 fields → 2, exactly 2 → 1, otherwise 0.
func scoreMetadata(note *models.QualityExtractedNote) models.MetadataScore {
	present := note.MetadataFieldsPresent()
	s := models.MetadataScore{FieldsPresent: present}
	switch {
	case present >= 3:
		s.Score = 2
	case present == 2:
		s.Score = 1
	}
	return s
}

// maxTags is the recommended tag ceiling. Exceeding it is recorded on the
// taxonomy score but does not change the numeric result.
const maxTags = 5

// scoreTaxonomy computes the 0–2 tag discipline component. All tags
// functional → 2, a mix → 1, all topic tags (or no tags at all) → 0.
func scoreTaxonomy(tags []string) models.TaxonomyScore {
	s := models.TaxonomyScore{ExceedsLimit: len(tags) > maxTags}
	for _, tag := range tags {
		if classify.IsFunctional(classify.Tag(tag)) {
			s.FunctionalCount++
		} else {
			s.TopicCount++
		}
	}
	switch {
	case s.FunctionalCount > 0 && s.TopicCount == 0:
		s.Score = 2
	case s.FunctionalCount > 0:
		s.Score = 1
	}
	return s
}

// scoreConnectivity computes the 0–2 Two-Link Minimum component: at least
// one upward and one sideways link → 2, one of the two directions → 1,
// neither → 0. Downward links are counted but do not satisfy the minimum.
func scoreConnectivity(conns []models.Connection, classifier *classify.ConnectionClassifier) models.ConnectivityScore {
	var s models.ConnectivityScore
	for _, conn := range conns {
		switch classifier.Classify(conn) {
		case classify.Upward:
			s.Upward++
		case classify.Sideways:
			s.Sideways++
		case classify.Downward:
			s.Downward++
		}
	}
	switch {
	case s.Upward > 0 && s.Sideways > 0:
		s.Score = 2
	case s.Upward > 0 || s.Sideways > 0:
		s.Score = 1
	}
	return s
}

// personalMarkers signal the author's own interpretation rather than a
// restated fact.
var personalMarkers = []string{
	"i ", "i'", "my ", "me ", "myself",
	"i think", "i believe", "this suggests", "this means",
	"in my experience", "it seems to me", "i noticed",
}

// encyclopedicOpener matches "X is a/an/the ..." style definitional openings.
var encyclopedicOpener = regexp.MustCompile(`(?i)^(the\s+)?[\w][\w\s.,'()-]*?\s+(is|are|was|were)\s+(a|an|the)\s+`)

// insightThreshold is the synthesis ratio at which content counts as having
// original insight.
const insightThreshold = 0.25

// scoreOriginality computes the 0–1 synthesis component. The point is earned
// only when the content carries original insight and does not read as an
// encyclopedic statement of fact.
func scoreOriginality(content string) models.OriginalityScore {
	var s models.OriginalityScore
	sentences := splitSentences(content)
	if len(sentences) == 0 {
		return s
	}

	personal := 0
	for _, sentence := range sentences {
		if hasPersonalMarker(sentence) {
			personal++
		}
	}
	s.SynthesisRatio = float64(personal) / float64(len(sentences))
	s.HasOriginalInsight = s.SynthesisRatio >= insightThreshold
	s.IsWikipediaFact = personal == 0 && encyclopedicOpener.MatchString(strings.TrimSpace(sentences[0]))

	if s.HasOriginalInsight && !s.IsWikipediaFact {
		s.Score = 1
	}
	return s
}

func hasPersonalMarker(sentence string) bool {
	lower := " " + strings.ToLower(strings.TrimSpace(sentence))
	for _, marker := range personalMarkers {
		if strings.Contains(lower, " "+marker) {
			return true
		}
	}
	return false
}

// splitSentences breaks content on terminal punctuation and newlines,
// dropping empty fragments.
func splitSentences(content string) []string {
	parts := strings.FieldsFunc(content, func(r rune) bool {
		return r == '.' || r == '!' || r == '?' || r == '\n'
	})
	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}
