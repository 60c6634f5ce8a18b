package models

import "time"

// FailureReason is one ranked entry in the failure frequency table.
type FailureReason struct {
	Reason string `json:"reason"`
	Count  int    `json:"count"`
}

// QualityDiagnostics counts notes satisfying each diagnostic condition.
type QualityDiagnostics struct {
	HasPurpose            int `json:"has_purpose"`
	CompleteMetadata      int `json:"complete_metadata"`
	FunctionalTagMajority int `json:"functional_tag_majority"`
	MeetsTwoLinkMinimum   int `json:"meets_two_link_minimum"`
	HasSynthesis          int `json:"has_synthesis"`
}

// NoteQualityMetrics aggregates a batch of NVQ scores.
type NoteQualityMetrics struct {
	NoteCount             int                    `json:"note_count"`
	MeanScore             float64                `json:"mean_score"`
	MedianScore           float64                `json:"median_score"`
	MinScore              int                    `json:"min_score"`
	MaxScore              int                    `json:"max_score"`
	PassingRate           float64                `json:"passing_rate"`
	ComponentFailureRates map[string]float64     `json:"component_failure_rates"`
	ScoreHistograms       map[string]map[int]int `json:"score_histograms"`
	Diagnostics           QualityDiagnostics     `json:"diagnostics"`
	TopFailureReasons     []FailureReason        `json:"top_failure_reasons"`
}

// NoteEvaluation pairs one note with its score and the quality expectation it
// matched, if any.
type NoteEvaluation struct {
	Note             QualityExtractedNote `json:"note"`
	Score            NVQScore             `json:"score"`
	Expectation      string               `json:"expectation,omitempty"`
	MeetsExpectation bool                 `json:"meets_expectation"`
}

// QualityEvaluationResults is the full output of a batch NVQ evaluation.
type QualityEvaluationResults struct {
	Evaluations       []NoteEvaluation   `json:"evaluations"`
	Metrics           NoteQualityMetrics `json:"metrics"`
	Recommendations   []string           `json:"recommendations"`
	UnmetExpectations []string           `json:"unmet_expectations,omitempty"`
}

// StrategyResult holds the per-scenario and aggregate accuracy for one
// extraction strategy.
type StrategyResult struct {
	Strategy  string                       `json:"strategy"`
	Scenarios map[string]ExtractionMetrics `json:"scenarios"`
	Aggregate ExtractionMetrics            `json:"aggregate"`
}

// ReportSummary is the headline of a run.
type ReportSummary struct {
	BestStrategy          string  `json:"best_strategy"`
	OverallF1             float64 `json:"overall_f1"`
	ConsolidationAccuracy float64 `json:"consolidation_accuracy"`
	TagReuseRate          float64 `json:"tag_reuse_rate"`
	Passed                bool    `json:"passed"`
}

// TestReport is the complete artifact of one evaluation run, written as
// extraction-accuracy-<RunID>.json.
type TestReport struct {
	RunID         string                    `json:"run_id"`
	Timestamp     time.Time                 `json:"timestamp"`
	InputChecksum string                    `json:"input_checksum,omitempty"`
	Summary       ReportSummary             `json:"summary"`
	Strategies    map[string]StrategyResult `json:"strategies"`
	Quality       *QualityEvaluationResults `json:"quality,omitempty"`
}
