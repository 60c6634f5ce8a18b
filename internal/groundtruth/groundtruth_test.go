package groundtruth

import (
	"testing"

	"github.com/starford/vitalis/internal/models"
)

func TestFuzzyMatch_ExactTitle(t *testing.T) {
	var m FuzzyMatcher
	extracted := models.ExtractedNoteResult{Title: "Spaced Repetition", Content: "intervals and recall"}
	candidates := []models.ExpectedNote{
		{Title: "Spaced Repetition", ContentKeywords: []string{"intervals", "recall"}},
		{Title: "Pomodoro Technique"},
	}
	match := m.Match(extracted, candidates)
	if match.Note == nil || match.Note.Title != "Spaced Repetition" {
		t.Fatalf("match = %+v", match)
	}
	if match.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", match.Confidence)
	}
	if !match.Trusted() {
		t.Error("exact match must be trusted")
	}
}

func TestFuzzyMatch_SubstringTitle(t *testing.T) {
	var m FuzzyMatcher
	extracted := models.ExtractedNoteResult{Title: "Spaced Repetition Basics", Content: ""}
	match := m.Match(extracted, []models.ExpectedNote{{Title: "spaced repetition"}})
	// 0.6*0.8 title + 0.4*1 keywords (none declared).
	if match.Confidence < 0.87 || match.Confidence > 0.89 {
		t.Errorf("confidence = %v, want 0.88", match.Confidence)
	}
}

func TestFuzzyMatch_MissingKeywordsLowerConfidence(t *testing.T) {
	var m FuzzyMatcher
	extracted := models.ExtractedNoteResult{Title: "Spaced Repetition", Content: "only intervals here"}
	match := m.Match(extracted, []models.ExpectedNote{
		{Title: "Spaced Repetition", ContentKeywords: []string{"intervals", "forgetting curve"}},
	})
	// 0.6*1 + 0.4*0.5
	if match.Confidence != 0.8 {
		t.Errorf("confidence = %v, want 0.8", match.Confidence)
	}
}

func TestFuzzyMatch_Unrelated(t *testing.T) {
	var m FuzzyMatcher
	extracted := models.ExtractedNoteResult{Title: "Sourdough Starter", Content: "flour and water"}
	match := m.Match(extracted, []models.ExpectedNote{
		{Title: "Kubernetes Operators", ContentKeywords: []string{"reconcile", "crd"}},
	})
	if match.Trusted() {
		t.Errorf("unrelated note must not be trusted: %+v", match)
	}
}

func TestFuzzyMatch_NoCandidates(t *testing.T) {
	var m FuzzyMatcher
	match := m.Match(models.ExtractedNoteResult{Title: "x"}, nil)
	if match.Note != nil || match.Trusted() {
		t.Errorf("match = %+v, want none", match)
	}
}

func TestCheckConsolidation_CorrectMerge(t *testing.T) {
	extracted := models.ExtractedNoteResult{
		Title:            "Retry Pattern",
		ConsolidatedWith: "Resilience Patterns",
	}
	expected := []models.ExpectedConsolidation{{NoteTitle: "Retry Pattern", MergeInto: "Resilience Patterns"}}

	check := CheckConsolidation(extracted, nil, expected)
	if !check.ShouldHaveConsolidated || !check.DidConsolidate || !check.ConsolidatedCorrectly {
		t.Errorf("check = %+v", check)
	}
	if check.ExpectedIndex != 0 {
		t.Errorf("expected index = %d", check.ExpectedIndex)
	}
}

func TestCheckConsolidation_WrongTarget(t *testing.T) {
	extracted := models.ExtractedNoteResult{Title: "Retry Pattern", ConsolidatedWith: "Unrelated Note"}
	expected := []models.ExpectedConsolidation{{NoteTitle: "Retry Pattern", MergeInto: "Resilience Patterns"}}

	check := CheckConsolidation(extracted, nil, expected)
	if !check.ShouldHaveConsolidated || !check.DidConsolidate || check.ConsolidatedCorrectly {
		t.Errorf("check = %+v", check)
	}
	if check.ExpectedTarget != "Resilience Patterns" {
		t.Errorf("target = %q", check.ExpectedTarget)
	}
}

func TestCheckConsolidation_NotExpected(t *testing.T) {
	check := CheckConsolidation(models.ExtractedNoteResult{Title: "Fresh Idea"}, nil, nil)
	if check.ShouldHaveConsolidated || check.DidConsolidate {
		t.Errorf("check = %+v", check)
	}
	if check.ExpectedIndex != -1 {
		t.Errorf("expected index = %d, want -1", check.ExpectedIndex)
	}
}

func TestShouldReuseTag_CaseInsensitive(t *testing.T) {
	if !ShouldReuseTag("Productivity", []string{"productivity"}, nil) {
		t.Error("case variant must be flagged for reuse")
	}
	if ShouldReuseTag("cooking", []string{"productivity"}, nil) {
		t.Error("unrelated tag must not be flagged")
	}
}

func TestShouldReuseTag_Synonyms(t *testing.T) {
	syn := SynonymSet{"productivity": {"efficiency", "gtd"}}
	if !ShouldReuseTag("gtd", []string{"productivity"}, syn) {
		t.Error("synonym of an existing tag must be flagged for reuse")
	}
	if !ShouldReuseTag("efficiency", []string{"GTD"}, syn) {
		t.Error("two variants of the same canonical tag must be flagged")
	}
	if ShouldReuseTag("gtd", []string{"cooking"}, syn) {
		t.Error("synonym with no existing counterpart must not be flagged")
	}
}

func TestReusedExactly(t *testing.T) {
	if !ReusedExactly("productivity", []string{"productivity"}) {
		t.Error("exact tag must count as reused")
	}
	if ReusedExactly("Productivity", []string{"productivity"}) {
		t.Error("case variant is a new tag, not a reuse")
	}
}

func TestEvaluateConnections(t *testing.T) {
	known := map[string]struct{}{
		"alpha": {}, "beta": {}, "gamma": {},
	}
	extracted := models.ExtractedNoteResult{Connections: []models.Connection{
		{TargetTitle: "Alpha"},
		{TargetTitle: "Beta"},
		{TargetTitle: "Outside The Scenario"},
	}}
	expected := models.ExpectedNote{Connections: []string{"alpha", "gamma"}}

	diff := EvaluateConnections(extracted, expected, known)
	if diff.Correct != 1 {
		t.Errorf("correct = %d, want 1 (alpha)", diff.Correct)
	}
	if diff.Spurious != 1 {
		t.Errorf("spurious = %d, want 1 (beta)", diff.Spurious)
	}
	if diff.Missed != 1 {
		t.Errorf("missed = %d, want 1 (gamma)", diff.Missed)
	}
}
