package models

// NVQ component names as they appear in FailingComponents, failure-rate maps,
// and histograms.
const (
	ComponentWhy          = "why"
	ComponentMetadata     = "metadata"
	ComponentTaxonomy     = "taxonomy"
	ComponentConnectivity = "connectivity"
	ComponentOriginality  = "originality"
)

// ComponentNames lists the five NVQ components in rubric order.
var ComponentNames = []string{
	ComponentWhy,
	ComponentMetadata,
	ComponentTaxonomy,
	ComponentConnectivity,
	ComponentOriginality,
}

// WhyScore is the 0–3 purpose component.
type WhyScore struct {
	Score          int    `json:"score"`
	HasFirstPerson bool   `json:"has_first_person"`
	LinksToGoal    bool   `json:"links_to_goal"`
	HasActionVerb  bool   `json:"has_action_verb"`
	RawStatement   string `json:"raw_statement,omitempty"`
}

// MetadataScore is the 0–2 metadata completeness component.
type MetadataScore struct {
	Score         int `json:"score"`
	FieldsPresent int `json:"fields_present"`
}

// TaxonomyScore is the 0–2 tag discipline component. ExceedsLimit flags more
// than five tags; it is informational and does not change Score.
type TaxonomyScore struct {
	Score           int  `json:"score"`
	FunctionalCount int  `json:"functional_count"`
	TopicCount      int  `json:"topic_count"`
	ExceedsLimit    bool `json:"exceeds_limit"`
}

// ConnectivityScore is the 0–2 Two-Link Minimum component.
type ConnectivityScore struct {
	Score    int `json:"score"`
	Upward   int `json:"upward"`
	Sideways int `json:"sideways"`
	Downward int `json:"downward"`
}

// OriginalityScore is the 0–1 synthesis component.
type OriginalityScore struct {
	Score              int     `json:"score"`
	SynthesisRatio     float64 `json:"synthesis_ratio"`
	IsWikipediaFact    bool    `json:"is_wikipedia_fact"`
	HasOriginalInsight bool    `json:"has_original_insight"`
}

// NVQBreakdown holds the five component sub-scores.
type NVQBreakdown struct {
	Why          WhyScore          `json:"why"`
	Metadata     MetadataScore     `json:"metadata"`
	Taxonomy     TaxonomyScore     `json:"taxonomy"`
	Connectivity ConnectivityScore `json:"connectivity"`
	Originality  OriginalityScore  `json:"originality"`
}

// ComponentScore returns the numeric score of the named component.
func (b *NVQBreakdown) ComponentScore(name string) int {
	switch name {
	case ComponentWhy:
		return b.Why.Score
	case ComponentMetadata:
		return b.Metadata.Score
	case ComponentTaxonomy:
		return b.Taxonomy.Score
	case ComponentConnectivity:
		return b.Connectivity.Score
	case ComponentOriginality:
		return b.Originality.Score
	}
	return 0
}

// NVQScore is the Note Vitality Quotient for a single note.
//
// Invariant: Total equals the sum of the five breakdown scores and lies in
// [0,10]. FailingComponents lists components scoring exactly zero (not merely
// below max); the distinction drives refinement urgency downstream.
type NVQScore struct {
	Total             int          `json:"total"`
	Breakdown         NVQBreakdown `json:"breakdown"`
	Passing           bool         `json:"passing"`
	FailingComponents []string     `json:"failing_components"`
}
