package quality

import (
	"context"
	"strings"
	"testing"

	"github.com/starford/vitalis/internal/models"
	"github.com/starford/vitalis/internal/rubric"
)

func testOrchestrator(t *testing.T) *Orchestrator {
	t.Helper()
	o, err := New(rubric.Config{
		MOCs:             []string{"Learning MOC"},
		Goals:            []rubric.Goal{{Title: "learn spaced repetition", WhyRoot: "memory"}},
		PassingThreshold: rubric.DefaultPassingThreshold,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return o
}

func goodNote() models.ExtractedNoteResult {
	return models.ExtractedNoteResult{
		Title: "Spaced Repetition Intervals",
		Content: "I am keeping this because it helps me learn spaced repetition, so that I retain more.\n" +
			"Project: Memory\nStatus: sapling\nType: technical\nStakeholder: self\n" +
			"I think expanding intervals beat fixed ones.\n",
		Tags: []string{"skill/learning"},
		Connections: []models.Connection{
			{TargetTitle: "Learning MOC"},
			{TargetTitle: "Forgetting Curve"},
		},
	}
}

func badNote() models.ExtractedNoteResult {
	return models.ExtractedNoteResult{
		Title:   "Ebbinghaus",
		Content: "Hermann Ebbinghaus was a German psychologist.",
		Tags:    []string{"psychology"},
	}
}

func TestEvaluate_ScoresEveryNote(t *testing.T) {
	o := testOrchestrator(t)
	res, err := o.Evaluate(context.Background(), []models.ExtractedNoteResult{goodNote(), badNote()}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Evaluations) != 2 {
		t.Fatalf("evaluations = %d", len(res.Evaluations))
	}
	// Order must follow the input batch regardless of parallel scheduling.
	if res.Evaluations[0].Note.Title != "Spaced Repetition Intervals" {
		t.Errorf("order not preserved: %q", res.Evaluations[0].Note.Title)
	}
	if res.Evaluations[0].Score.Total != 10 {
		t.Errorf("good note total = %d, want 10", res.Evaluations[0].Score.Total)
	}
	if res.Evaluations[1].Score.Total != 0 {
		t.Errorf("bad note total = %d, want 0", res.Evaluations[1].Score.Total)
	}
}

func TestEvaluate_Metrics(t *testing.T) {
	o := testOrchestrator(t)
	res, err := o.Evaluate(context.Background(), []models.ExtractedNoteResult{goodNote(), badNote()}, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}

	m := res.Metrics
	if m.NoteCount != 2 {
		t.Errorf("note count = %d", m.NoteCount)
	}
	if m.MeanScore != 5 || m.MedianScore != 5 {
		t.Errorf("mean = %v median = %v, want 5/5", m.MeanScore, m.MedianScore)
	}
	if m.MinScore != 0 || m.MaxScore != 10 {
		t.Errorf("min/max = %d/%d", m.MinScore, m.MaxScore)
	}
	if m.PassingRate != 0.5 {
		t.Errorf("passing rate = %v", m.PassingRate)
	}
	if m.ComponentFailureRates[models.ComponentWhy] != 0.5 {
		t.Errorf("why failure rate = %v", m.ComponentFailureRates[models.ComponentWhy])
	}
	if m.ScoreHistograms[models.ComponentWhy][3] != 1 || m.ScoreHistograms[models.ComponentWhy][0] != 1 {
		t.Errorf("why histogram = %v", m.ScoreHistograms[models.ComponentWhy])
	}
	if m.Diagnostics.HasPurpose != 1 || m.Diagnostics.CompleteMetadata != 1 || m.Diagnostics.MeetsTwoLinkMinimum != 1 {
		t.Errorf("diagnostics = %+v", m.Diagnostics)
	}
	if len(m.TopFailureReasons) == 0 {
		t.Error("expected failure reasons for the bad note")
	}
}

func TestEvaluate_EmptyBatch(t *testing.T) {
	o := testOrchestrator(t)
	res, err := o.Evaluate(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Metrics.NoteCount != 0 || len(res.Evaluations) != 0 {
		t.Errorf("results = %+v", res.Metrics)
	}
	if len(res.Recommendations) != 0 {
		t.Errorf("recommendations on empty batch: %v", res.Recommendations)
	}
}

func TestEvaluate_ExpectationMatching(t *testing.T) {
	o := testOrchestrator(t)
	expectations := []models.QualityExpectation{
		{Name: "intervals-note", TitlePattern: "spaced repetition", MustContain: []string{"expanding intervals"}},
		{Name: "never-extracted", TitlePattern: "method of loci"},
	}

	res, err := o.Evaluate(context.Background(), []models.ExtractedNoteResult{goodNote(), badNote()}, expectations)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Evaluations[0].Expectation != "intervals-note" || !res.Evaluations[0].MeetsExpectation {
		t.Errorf("good note expectation = %+v", res.Evaluations[0])
	}
	if res.Evaluations[1].Expectation != "" {
		t.Errorf("bad note matched %q", res.Evaluations[1].Expectation)
	}
	if len(res.UnmetExpectations) != 1 || res.UnmetExpectations[0] != "never-extracted" {
		t.Errorf("unmet = %v", res.UnmetExpectations)
	}
}

func TestEvaluate_ContentRequirementBlocksMatch(t *testing.T) {
	o := testOrchestrator(t)
	expectations := []models.QualityExpectation{
		{Name: "strict", TitlePattern: "spaced repetition", MustContain: []string{"something absent"}},
	}
	res, err := o.Evaluate(context.Background(), []models.ExtractedNoteResult{goodNote()}, expectations)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if res.Evaluations[0].Expectation != "" {
		t.Error("content requirement must block the title match")
	}
	if len(res.UnmetExpectations) != 1 {
		t.Errorf("unmet = %v", res.UnmetExpectations)
	}
}

func TestRecommendations_Thresholds(t *testing.T) {
	o := testOrchestrator(t)
	// Three factual notes: every component fails for all of them.
	batch := []models.ExtractedNoteResult{badNote(), badNote(), badNote()}
	res, err := o.Evaluate(context.Background(), batch, nil)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if len(res.Recommendations) != 5 {
		t.Fatalf("recommendations = %d, want all five: %v", len(res.Recommendations), res.Recommendations)
	}
	for _, r := range res.Recommendations {
		if strings.TrimSpace(r) == "" {
			t.Error("empty recommendation")
		}
	}
}

func TestMedian_Even(t *testing.T) {
	if got := median([]int{0, 10, 4, 6}); got != 5 {
		t.Errorf("median = %v, want 5", got)
	}
	if got := median([]int{3, 9, 5}); got != 5 {
		t.Errorf("odd median = %v, want 5", got)
	}
}
