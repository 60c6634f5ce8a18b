package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/starford/vitalis/internal/models"
)

// Color thresholds for rate-type metrics.
const (
	goodThreshold = 0.8
	okThreshold   = 0.6
)

var (
	goodStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	okStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	poorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	headerStyle = lipgloss.NewStyle().Bold(true)
	dimStyle    = lipgloss.NewStyle().Faint(true)
)

// Formatter renders human-readable console output. With Plain set, styling
// is skipped (non-TTY and CI logs).
type Formatter struct {
	Plain bool
}

func (f *Formatter) colorize(value float64, text string) string {
	if f.Plain {
		return text
	}
	switch {
	case value >= goodThreshold:
		return goodStyle.Render(text)
	case value >= okThreshold:
		return okStyle.Render(text)
	default:
		return poorStyle.Render(text)
	}
}

func (f *Formatter) header(text string) string {
	if f.Plain {
		return text
	}
	return headerStyle.Render(text)
}

func (f *Formatter) dim(text string) string {
	if f.Plain {
		return text
	}
	return dimStyle.Render(text)
}

// Metrics renders one ExtractionMetrics block as an aligned table.
func (f *Formatter) Metrics(name string, m models.ExtractionMetrics) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", f.header(name))

	dd := m.DuplicateDetection
	fmt.Fprintf(&b, "  duplicate detection  precision %s  recall %s  f1 %s  (tp=%d fp=%d fn=%d tn=%d)\n",
		f.colorize(dd.Precision, percent(dd.Precision)+"%"),
		f.colorize(dd.Recall, percent(dd.Recall)+"%"),
		f.colorize(dd.F1, percent(dd.F1)+"%"),
		dd.TruePositives, dd.FalsePositives, dd.FalseNegatives, dd.TrueNegatives)

	cons := m.Consolidation
	fmt.Fprintf(&b, "  consolidation        accuracy %s  (correct=%d missed=%d wrong=%d new=%d)\n",
		f.colorize(cons.Accuracy, percent(cons.Accuracy)+"%"),
		cons.Correct, cons.Missed, cons.Wrong, cons.CorrectlyNew)

	tr := m.TagReuse
	fmt.Fprintf(&b, "  tag reuse            rate %s  (reused=%d shouldHave=%d new=%d)\n",
		f.colorize(tr.ReuseRate, percent(tr.ReuseRate)+"%"),
		tr.ReusedExisting, tr.ShouldHaveReused, tr.CorrectlyCreatedNew)

	conn := m.Connections
	fmt.Fprintf(&b, "  connections          precision %s  recall %s  (correct=%d missed=%d spurious=%d)\n",
		f.colorize(conn.Precision, percent(conn.Precision)+"%"),
		f.colorize(conn.Recall, percent(conn.Recall)+"%"),
		conn.Correct, conn.Missed, conn.Spurious)

	fmt.Fprintf(&b, "  %s\n", f.dim(fmt.Sprintf("timing total=%.0fms retrieval=%.0fms extraction=%.0fms",
		m.Timing.TotalMs, m.Timing.ContextRetrievalMs, m.Timing.ExtractionMs)))
	return b.String()
}

// Report renders the whole run: per-strategy aggregates, the winner, and the
// quality section when present.
func (f *Formatter) Report(r *models.TestReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n\n", f.header("run "+r.RunID), r.Timestamp.Format("2006-01-02 15:04:05"))

	names := make([]string, 0, len(r.Strategies))
	for name := range r.Strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		b.WriteString(f.Metrics("strategy "+name, r.Strategies[name].Aggregate))
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "best strategy: %s (f1 %s%%)\n", r.Summary.BestStrategy, percent(r.Summary.OverallF1))
	if r.Quality != nil {
		b.WriteString("\n")
		b.WriteString(f.Quality(r.Quality))
	}
	return b.String()
}

// Note renders one scored note with its component breakdown.
func (f *Formatter) Note(ev *models.NoteEvaluation) string {
	var b strings.Builder
	title := ev.Note.Title
	if title == "" {
		title = "(untitled)"
	}
	fmt.Fprintf(&b, "%s\n", f.header(title))

	fmt.Fprintf(&b, "  total %s  passing %v\n",
		f.colorize(float64(ev.Score.Total)/10, fmt.Sprintf("%d/10", ev.Score.Total)),
		ev.Score.Passing)

	bd := ev.Score.Breakdown
	fmt.Fprintf(&b, "  why %d/3  metadata %d/2  taxonomy %d/2  connectivity %d/2  originality %d/1\n",
		bd.Why.Score, bd.Metadata.Score, bd.Taxonomy.Score, bd.Connectivity.Score, bd.Originality.Score)

	if len(ev.Score.FailingComponents) > 0 {
		fmt.Fprintf(&b, "  %s\n", f.dim("failing: "+strings.Join(ev.Score.FailingComponents, ", ")))
	}
	return b.String()
}

// Quality renders batch NVQ diagnostics.
func (f *Formatter) Quality(q *models.QualityEvaluationResults) string {
	var b strings.Builder
	m := q.Metrics
	fmt.Fprintf(&b, "%s\n", f.header("note quality"))
	fmt.Fprintf(&b, "  notes %d  mean %.1f  median %.1f  min %d  max %d  passing %s\n",
		m.NoteCount, m.MeanScore, m.MedianScore, m.MinScore, m.MaxScore,
		f.colorize(m.PassingRate, percent(m.PassingRate)+"%"))

	for _, name := range models.ComponentNames {
		rate := m.ComponentFailureRates[name]
		// Failure rate colors invert: low is good.
		fmt.Fprintf(&b, "  %-13s failure rate %s\n", name, f.colorize(1-rate, percent(rate)+"%"))
	}

	if len(m.TopFailureReasons) > 0 {
		fmt.Fprintf(&b, "  top failure reasons:\n")
		for _, fr := range m.TopFailureReasons {
			fmt.Fprintf(&b, "    %3d  %s\n", fr.Count, fr.Reason)
		}
	}
	for _, rec := range q.Recommendations {
		fmt.Fprintf(&b, "  recommendation: %s\n", rec)
	}
	for _, name := range q.UnmetExpectations {
		fmt.Fprintf(&b, "  unmet expectation: %s\n", name)
	}
	return b.String()
}
