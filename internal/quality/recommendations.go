package quality

import "github.com/starford/vitalis/internal/models"

// Failure-rate thresholds above which a component earns a recommendation.
// Originality is noisier (a one-point heuristic component), so its bar is
// higher.
const (
	recommendThreshold            = 0.3
	recommendThresholdOriginality = 0.5
)

var componentAdvice = map[string]string{
	models.ComponentWhy:          "Most notes lack a purpose statement. Prompt the extractor for an explicit \"I am keeping this because...\" line.",
	models.ComponentMetadata:     "Metadata fields are frequently missing. Require Project/Status/Type/Stakeholder labels in the note template.",
	models.ComponentTaxonomy:     "Tags are mostly topic tags. Prefer functional prefixes (action/, skill/, evolution/, project/).",
	models.ComponentConnectivity: "Notes are under-linked. Enforce the Two-Link Minimum: one upward link to a MOC or project plus one sideways link.",
	models.ComponentOriginality:  "Notes read as restated facts. Ask the extractor to add the author's own interpretation.",
}

// recommendations emits advice for every component whose failure rate
// crosses its threshold.
func recommendations(evaluations []models.NoteEvaluation) []string {
	if len(evaluations) == 0 {
		return []string{}
	}
	n := float64(len(evaluations))

	out := []string{}
	for _, name := range models.ComponentNames {
		failed := 0
		for _, ev := range evaluations {
			if ev.Score.Breakdown.ComponentScore(name) == 0 {
				failed++
			}
		}
		threshold := recommendThreshold
		if name == models.ComponentOriginality {
			threshold = recommendThresholdOriginality
		}
		if float64(failed)/n > threshold {
			out = append(out, componentAdvice[name])
		}
	}
	return out
}
