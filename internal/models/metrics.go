package models

// DuplicateDetectionMetrics is the confusion matrix over "should this note
// have consolidated", with derived precision/recall/F1.
type DuplicateDetectionMetrics struct {
	TruePositives  int     `json:"true_positives"`
	FalsePositives int     `json:"false_positives"`
	FalseNegatives int     `json:"false_negatives"`
	TrueNegatives  int     `json:"true_negatives"`
	Precision      float64 `json:"precision"`
	Recall         float64 `json:"recall"`
	F1             float64 `json:"f1"`
}

// ConsolidationMetrics orients the same classification as outcome counts.
type ConsolidationMetrics struct {
	Correct      int     `json:"correct"`
	Missed       int     `json:"missed"`
	Wrong        int     `json:"wrong"`
	CorrectlyNew int     `json:"correctly_new"`
	Accuracy     float64 `json:"accuracy"`
}

// TagReuseMetrics counts tag reuse decisions across every tag on every note.
type TagReuseMetrics struct {
	ReusedExisting      int     `json:"reused_existing"`
	ShouldHaveReused    int     `json:"should_have_reused"`
	CorrectlyCreatedNew int     `json:"correctly_created_new"`
	ReuseRate           float64 `json:"reuse_rate"`
}

// ConnectionMetrics sums connection correctness across all notes.
type ConnectionMetrics struct {
	Correct   int     `json:"correct"`
	Missed    int     `json:"missed"`
	Spurious  int     `json:"spurious"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
}

// Timing holds caller-measured wall-clock durations around the external
// extraction call. Never computed internally.
type Timing struct {
	TotalMs            float64 `json:"total_ms"`
	ContextRetrievalMs float64 `json:"context_retrieval_ms"`
	ExtractionMs       float64 `json:"extraction_ms"`
}

// ExtractionMetrics is the full accuracy result for one scenario (or, after
// aggregation, for a whole run). Immutable once computed; aggregation builds
// a new instance from summed counts.
type ExtractionMetrics struct {
	DuplicateDetection DuplicateDetectionMetrics `json:"duplicate_detection"`
	Consolidation      ConsolidationMetrics      `json:"consolidation"`
	TagReuse           TagReuseMetrics           `json:"tag_reuse"`
	Connections        ConnectionMetrics         `json:"connections"`
	Timing             Timing                    `json:"timing"`
}
