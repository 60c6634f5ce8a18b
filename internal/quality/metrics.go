package quality

import (
	"fmt"
	"sort"

	"github.com/starford/vitalis/internal/models"
)

// reduceMetrics folds a batch of evaluations into NoteQualityMetrics. The
// failure rate per component counts scores of exactly zero, matching the
// FailingComponents rule.
func reduceMetrics(evaluations []models.NoteEvaluation) models.NoteQualityMetrics {
	m := models.NoteQualityMetrics{
		NoteCount:             len(evaluations),
		ComponentFailureRates: make(map[string]float64, len(models.ComponentNames)),
		ScoreHistograms:       make(map[string]map[int]int, len(models.ComponentNames)),
		TopFailureReasons:     []models.FailureReason{},
	}
	for _, name := range models.ComponentNames {
		m.ComponentFailureRates[name] = 0
		m.ScoreHistograms[name] = make(map[int]int)
	}
	if len(evaluations) == 0 {
		return m
	}

	totals := make([]int, 0, len(evaluations))
	failures := make(map[string]int, len(models.ComponentNames))
	passing := 0

	m.MinScore = evaluations[0].Score.Total
	m.MaxScore = evaluations[0].Score.Total

	for _, ev := range evaluations {
		score := ev.Score
		totals = append(totals, score.Total)
		m.MeanScore += float64(score.Total)
		if score.Total < m.MinScore {
			m.MinScore = score.Total
		}
		if score.Total > m.MaxScore {
			m.MaxScore = score.Total
		}
		if score.Passing {
			passing++
		}

		for _, name := range models.ComponentNames {
			value := score.Breakdown.ComponentScore(name)
			m.ScoreHistograms[name][value]++
			if value == 0 {
				failures[name]++
			}
		}

		b := score.Breakdown
		if b.Why.RawStatement != "" {
			m.Diagnostics.HasPurpose++
		}
		if b.Metadata.FieldsPresent >= 3 {
			m.Diagnostics.CompleteMetadata++
		}
		if b.Taxonomy.FunctionalCount > b.Taxonomy.TopicCount {
			m.Diagnostics.FunctionalTagMajority++
		}
		if b.Connectivity.Score == 2 {
			m.Diagnostics.MeetsTwoLinkMinimum++
		}
		if b.Originality.HasOriginalInsight {
			m.Diagnostics.HasSynthesis++
		}
	}

	n := float64(len(evaluations))
	m.MeanScore /= n
	m.PassingRate = float64(passing) / n
	for name, count := range failures {
		m.ComponentFailureRates[name] = float64(count) / n
	}
	m.MedianScore = median(totals)
	m.TopFailureReasons = topFailureReasons(evaluations, 10)
	return m
}

func median(values []int) float64 {
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return float64(sorted[mid])
	}
	return float64(sorted[mid-1]+sorted[mid]) / 2
}

// failureReason names the concrete defect behind a zero component score.
func failureReasons(score models.NVQScore) []string {
	var out []string
	b := score.Breakdown
	if b.Why.Score == 0 {
		out = append(out, "why: no purpose statement recovered")
	}
	if b.Metadata.Score == 0 {
		out = append(out, fmt.Sprintf("metadata: only %d of 4 fields present", b.Metadata.FieldsPresent))
	}
	if b.Taxonomy.Score == 0 {
		if b.Taxonomy.FunctionalCount == 0 && b.Taxonomy.TopicCount == 0 {
			out = append(out, "taxonomy: no tags")
		} else {
			out = append(out, "taxonomy: only topic tags, no functional tags")
		}
	}
	if b.Connectivity.Score == 0 {
		out = append(out, "connectivity: neither an upward nor a sideways link")
	}
	if b.Originality.Score == 0 {
		if b.Originality.IsWikipediaFact {
			out = append(out, "originality: reads as an encyclopedic fact")
		} else {
			out = append(out, "originality: no personal synthesis detected")
		}
	}
	return out
}

// topFailureReasons ranks reasons by frequency, ties broken alphabetically
// for deterministic output, and keeps the first limit entries.
func topFailureReasons(evaluations []models.NoteEvaluation, limit int) []models.FailureReason {
	counts := make(map[string]int)
	for _, ev := range evaluations {
		for _, reason := range failureReasons(ev.Score) {
			counts[reason]++
		}
	}

	out := make([]models.FailureReason, 0, len(counts))
	for reason, count := range counts {
		out = append(out, models.FailureReason{Reason: reason, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Reason < out[j].Reason
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
