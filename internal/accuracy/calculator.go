// Package accuracy builds extraction-accuracy metrics for one scenario and
// aggregates them across scenarios.
package accuracy

import (
	"github.com/starford/vitalis/internal/groundtruth"
	"github.com/starford/vitalis/internal/models"
)

// Calculator computes ExtractionMetrics for one scenario run. The matcher is
// pluggable; zero value uses the fuzzy matcher with no tag synonyms.
type Calculator struct {
	Matcher  groundtruth.Matcher
	Synonyms groundtruth.SynonymSet
}

// NewCalculator returns a calculator with the default fuzzy matcher.
func NewCalculator() *Calculator {
	return &Calculator{Matcher: groundtruth.FuzzyMatcher{}}
}

func (c *Calculator) matcher() groundtruth.Matcher {
	if c.Matcher == nil {
		return groundtruth.FuzzyMatcher{}
	}
	return c.Matcher
}

// Calculate runs all four metric groups over one scenario and its extracted
// batch. Timing is caller-measured and passed through untouched.
func (c *Calculator) Calculate(scenario models.TestScenario, notes []models.ExtractedNoteResult, timing models.Timing) models.ExtractionMetrics {
	return models.ExtractionMetrics{
		DuplicateDetection: c.duplicateDetection(scenario, notes),
		Consolidation:      c.consolidation(scenario, notes),
		TagReuse:           c.tagReuse(scenario, notes),
		Connections:        c.connections(scenario, notes),
		Timing:             timing,
	}
}

// duplicateDetection classifies every note on the "should this note have
// consolidated" question. A note that consolidated with the wrong target is
// double-penalized: one false positive for the wrong pairing plus one false
// negative for the correct pairing it missed. Expected consolidations that
// no note ever matched each add one more false negative.
func (c *Calculator) duplicateDetection(scenario models.TestScenario, notes []models.ExtractedNoteResult) models.DuplicateDetectionMetrics {
	var m models.DuplicateDetectionMetrics
	matched := make(map[int]struct{}, len(scenario.ExpectedConsolidations))

	for _, note := range notes {
		check := groundtruth.CheckConsolidation(note, scenario.ExistingNotes, scenario.ExpectedConsolidations)
		if check.ExpectedIndex >= 0 {
			matched[check.ExpectedIndex] = struct{}{}
		}
		switch {
		case check.ShouldHaveConsolidated && check.DidConsolidate && check.ConsolidatedCorrectly:
			m.TruePositives++
		case check.ShouldHaveConsolidated && check.DidConsolidate:
			m.FalsePositives++
			m.FalseNegatives++
		case check.ShouldHaveConsolidated:
			m.FalseNegatives++
		case check.DidConsolidate:
			m.FalsePositives++
		default:
			m.TrueNegatives++
		}
	}

	for i := range scenario.ExpectedConsolidations {
		if _, ok := matched[i]; !ok {
			m.FalseNegatives++
		}
	}

	m.Precision = ratio(m.TruePositives, m.TruePositives+m.FalsePositives)
	m.Recall = ratio(m.TruePositives, m.TruePositives+m.FalseNegatives)
	m.F1 = f1(m.Precision, m.Recall)
	return m
}

// consolidation orients the same classification as outcome counts.
func (c *Calculator) consolidation(scenario models.TestScenario, notes []models.ExtractedNoteResult) models.ConsolidationMetrics {
	var m models.ConsolidationMetrics
	for _, note := range notes {
		check := groundtruth.CheckConsolidation(note, scenario.ExistingNotes, scenario.ExpectedConsolidations)
		switch {
		case check.ShouldHaveConsolidated && check.DidConsolidate && check.ConsolidatedCorrectly:
			m.Correct++
		case check.DidConsolidate && !check.ConsolidatedCorrectly:
			m.Wrong++
		case check.ShouldHaveConsolidated:
			m.Missed++
		default:
			m.CorrectlyNew++
		}
	}
	m.Accuracy = ratio(m.Correct+m.CorrectlyNew, len(notes))
	return m
}

// tagReuse examines every tag on every note. "Did reuse" means the tag is
// byte-identical to an existing one; "should reuse" allows case variants and
// configured synonyms.
func (c *Calculator) tagReuse(scenario models.TestScenario, notes []models.ExtractedNoteResult) models.TagReuseMetrics {
	var m models.TagReuseMetrics
	for _, note := range notes {
		for _, tag := range note.Tags {
			shouldReuse := groundtruth.ShouldReuseTag(tag, scenario.ExistingTags, c.Synonyms)
			switch {
			case shouldReuse && groundtruth.ReusedExactly(tag, scenario.ExistingTags):
				m.ReusedExisting++
			case shouldReuse:
				m.ShouldHaveReused++
			default:
				m.CorrectlyCreatedNew++
			}
		}
	}
	m.ReuseRate = ratio(m.ReusedExisting, m.ReusedExisting+m.ShouldHaveReused)
	return m
}

// connections sums per-note connection diffs. Notes with no trusted match
// contribute every connection as spurious.
func (c *Calculator) connections(scenario models.TestScenario, notes []models.ExtractedNoteResult) models.ConnectionMetrics {
	var m models.ConnectionMetrics
	known := scenario.KnownTitles()
	matcher := c.matcher()

	for _, note := range notes {
		match := matcher.Match(note, scenario.ExpectedNotes)
		if !match.Trusted() {
			m.Spurious += len(note.Connections)
			continue
		}
		diff := groundtruth.EvaluateConnections(note, *match.Note, known)
		m.Correct += diff.Correct
		m.Missed += diff.Missed
		m.Spurious += diff.Spurious
	}

	m.Precision = ratio(m.Correct, m.Correct+m.Spurious)
	m.Recall = ratio(m.Correct, m.Correct+m.Missed)
	return m
}

// ratio divides num by den, defaulting to 1 when the denominator is zero:
// with nothing to get wrong, the rate is optimistically perfect.
func ratio(num, den int) float64 {
	if den == 0 {
		return 1
	}
	return float64(num) / float64(den)
}

// f1 is the harmonic mean of precision and recall, 0 when both are zero.
func f1(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
