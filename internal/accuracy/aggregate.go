package accuracy

import "github.com/starford/vitalis/internal/models"

// Aggregate combines per-scenario metrics into one. The raw integer counts
// are summed first and every derived ratio is recomputed from the sums;
// averaging the per-scenario ratios would bias the result toward small
// scenarios. Timing fields are the arithmetic mean across scenarios.
//
// With zero inputs all counts are zero and the ratios take their
// zero-denominator defaults.
func Aggregate(results []models.ExtractionMetrics) models.ExtractionMetrics {
	var agg models.ExtractionMetrics

	for _, r := range results {
		agg.DuplicateDetection.TruePositives += r.DuplicateDetection.TruePositives
		agg.DuplicateDetection.FalsePositives += r.DuplicateDetection.FalsePositives
		agg.DuplicateDetection.FalseNegatives += r.DuplicateDetection.FalseNegatives
		agg.DuplicateDetection.TrueNegatives += r.DuplicateDetection.TrueNegatives

		agg.Consolidation.Correct += r.Consolidation.Correct
		agg.Consolidation.Missed += r.Consolidation.Missed
		agg.Consolidation.Wrong += r.Consolidation.Wrong
		agg.Consolidation.CorrectlyNew += r.Consolidation.CorrectlyNew

		agg.TagReuse.ReusedExisting += r.TagReuse.ReusedExisting
		agg.TagReuse.ShouldHaveReused += r.TagReuse.ShouldHaveReused
		agg.TagReuse.CorrectlyCreatedNew += r.TagReuse.CorrectlyCreatedNew

		agg.Connections.Correct += r.Connections.Correct
		agg.Connections.Missed += r.Connections.Missed
		agg.Connections.Spurious += r.Connections.Spurious

		agg.Timing.TotalMs += r.Timing.TotalMs
		agg.Timing.ContextRetrievalMs += r.Timing.ContextRetrievalMs
		agg.Timing.ExtractionMs += r.Timing.ExtractionMs
	}

	if n := len(results); n > 0 {
		agg.Timing.TotalMs /= float64(n)
		agg.Timing.ContextRetrievalMs /= float64(n)
		agg.Timing.ExtractionMs /= float64(n)
	}

	dd := &agg.DuplicateDetection
	dd.Precision = ratio(dd.TruePositives, dd.TruePositives+dd.FalsePositives)
	dd.Recall = ratio(dd.TruePositives, dd.TruePositives+dd.FalseNegatives)
	dd.F1 = f1(dd.Precision, dd.Recall)

	cons := &agg.Consolidation
	cons.Accuracy = ratio(cons.Correct+cons.CorrectlyNew, cons.Correct+cons.Missed+cons.Wrong+cons.CorrectlyNew)

	tr := &agg.TagReuse
	tr.ReuseRate = ratio(tr.ReusedExisting, tr.ReusedExisting+tr.ShouldHaveReused)

	conn := &agg.Connections
	conn.Precision = ratio(conn.Correct, conn.Correct+conn.Spurious)
	conn.Recall = ratio(conn.Correct, conn.Correct+conn.Missed)

	return agg
}
