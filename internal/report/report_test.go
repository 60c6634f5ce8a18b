package report

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/starford/vitalis/internal/models"
)

func TestCISummary_Pass(t *testing.T) {
	out := CISummary(models.ReportSummary{
		BestStrategy:          "two-pass",
		OverallF1:             0.85,
		ConsolidationAccuracy: 0.9,
		TagReuseRate:          0.75,
		Passed:                true,
	})
	want := "EXTRACTION_ACCURACY_TEST_RESULTS\n" +
		"STATUS=PASS\n" +
		"BEST_STRATEGY=two-pass\n" +
		"F1_SCORE=85.0\n" +
		"CONSOLIDATION_ACCURACY=90.0\n" +
		"TAG_REUSE_RATE=75.0\n"
	if out != want {
		t.Errorf("summary =\n%s\nwant\n%s", out, want)
	}
}

func TestCISummary_Fail(t *testing.T) {
	out := CISummary(Summarize("baseline", models.ExtractionMetrics{
		DuplicateDetection: models.DuplicateDetectionMetrics{F1: 0.65},
	}))
	if !strings.Contains(out, "STATUS=FAIL\n") {
		t.Errorf("expected FAIL:\n%s", out)
	}
	if !strings.Contains(out, "F1_SCORE=65.0\n") {
		t.Errorf("expected one-decimal percent:\n%s", out)
	}
}

func TestSummarize_ThresholdBoundary(t *testing.T) {
	s := Summarize("x", models.ExtractionMetrics{
		DuplicateDetection: models.DuplicateDetectionMetrics{F1: PassingF1},
	})
	if !s.Passed {
		t.Error("f1 exactly at threshold must pass")
	}
}

func TestWrite_ReportFile(t *testing.T) {
	dir := t.TempDir()
	r := &models.TestReport{
		RunID:     "abc123",
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary:   models.ReportSummary{BestStrategy: "baseline", Passed: true},
		Strategies: map[string]models.StrategyResult{
			"baseline": {Strategy: "baseline"},
		},
	}

	path, err := Write(dir, r)
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if filepath.Base(path) != "extraction-accuracy-abc123.json" {
		t.Errorf("filename = %s", filepath.Base(path))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	var got models.TestReport
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.RunID != "abc123" || got.Summary.BestStrategy != "baseline" {
		t.Errorf("round trip = %+v", got.Summary)
	}

	// No stray temp files left behind.
	entries, _ := os.ReadDir(dir)
	if len(entries) != 1 {
		t.Errorf("dir entries = %d, want 1", len(entries))
	}
}

func TestFormatter_PlainMetrics(t *testing.T) {
	f := &Formatter{Plain: true}
	out := f.Metrics("scenario-a", models.ExtractionMetrics{
		DuplicateDetection: models.DuplicateDetectionMetrics{TruePositives: 2, Precision: 1, Recall: 0.5, F1: 2.0 / 3.0},
		Consolidation:      models.ConsolidationMetrics{Accuracy: 0.75, Correct: 3, CorrectlyNew: 3},
		TagReuse:           models.TagReuseMetrics{ReuseRate: 1},
		Connections:        models.ConnectionMetrics{Precision: 0.5, Recall: 1},
	})
	for _, want := range []string{"scenario-a", "precision 100.0%", "recall 50.0%", "accuracy 75.0%", "rate 100.0%"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("plain output must carry no ANSI escapes")
	}
}

func TestFormatter_QualitySection(t *testing.T) {
	f := &Formatter{Plain: true}
	out := f.Quality(&models.QualityEvaluationResults{
		Metrics: models.NoteQualityMetrics{
			NoteCount:   2,
			MeanScore:   5,
			MedianScore: 5,
			MaxScore:    10,
			PassingRate: 0.5,
			ComponentFailureRates: map[string]float64{
				"why": 0.5, "metadata": 0.5, "taxonomy": 0.5, "connectivity": 0.5, "originality": 0.5,
			},
			TopFailureReasons: []models.FailureReason{{Reason: "why: no purpose statement recovered", Count: 1}},
		},
		Recommendations: []string{"add purpose statements"},
	})
	for _, want := range []string{"notes 2", "why", "failure rate 50.0%", "recommendation: add purpose statements"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}
