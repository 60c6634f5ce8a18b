// Package report renders extraction metrics for console, CI, and JSON
// consumers. Formatting only; nothing here computes a metric.
package report

import (
	"fmt"
	"strings"

	"github.com/starford/vitalis/internal/models"
)

// PassingF1 is the overall best-strategy F1 at or above which a run passes.
const PassingF1 = 0.7

// CISummary renders the fixed-format machine-readable summary block. The
// layout is a text contract consumed by CI pipelines; do not reorder or
// reformat the lines.
func CISummary(summary models.ReportSummary) string {
	status := "FAIL"
	if summary.Passed {
		status = "PASS"
	}
	var b strings.Builder
	b.WriteString("EXTRACTION_ACCURACY_TEST_RESULTS\n")
	fmt.Fprintf(&b, "STATUS=%s\n", status)
	fmt.Fprintf(&b, "BEST_STRATEGY=%s\n", summary.BestStrategy)
	fmt.Fprintf(&b, "F1_SCORE=%s\n", percent(summary.OverallF1))
	fmt.Fprintf(&b, "CONSOLIDATION_ACCURACY=%s\n", percent(summary.ConsolidationAccuracy))
	fmt.Fprintf(&b, "TAG_REUSE_RATE=%s\n", percent(summary.TagReuseRate))
	return b.String()
}

// Summarize derives the run summary from the best strategy's aggregate.
func Summarize(bestStrategy string, aggregate models.ExtractionMetrics) models.ReportSummary {
	return models.ReportSummary{
		BestStrategy:          bestStrategy,
		OverallF1:             aggregate.DuplicateDetection.F1,
		ConsolidationAccuracy: aggregate.Consolidation.Accuracy,
		TagReuseRate:          aggregate.TagReuse.ReuseRate,
		Passed:                aggregate.DuplicateDetection.F1 >= PassingF1,
	}
}

// percent formats a 0..1 ratio as a one-decimal percentage.
func percent(v float64) string {
	return fmt.Sprintf("%.1f", v*100)
}
