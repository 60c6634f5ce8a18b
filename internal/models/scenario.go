package models

// ExpectedNote is a hand-authored ground-truth note the extraction pipeline
// is expected to produce for a scenario.
type ExpectedNote struct {
	Title           string   `json:"title" yaml:"title"`
	ContentKeywords []string `json:"content_keywords,omitempty" yaml:"content_keywords,omitempty"`
	Tags            []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	Connections     []string `json:"connections,omitempty" yaml:"connections,omitempty"`
}

// ExpectedConsolidation declares that an incoming note should have been
// merged into an existing note instead of being created fresh.
type ExpectedConsolidation struct {
	NoteTitle string `json:"note_title" yaml:"note_title"`
	MergeInto string `json:"merge_into" yaml:"merge_into"`
}

// ExistingNote is a note already present in the vault before extraction ran.
type ExistingNote struct {
	Title   string   `json:"title" yaml:"title"`
	Content string   `json:"content,omitempty" yaml:"content,omitempty"`
	Tags    []string `json:"tags,omitempty" yaml:"tags,omitempty"`
}

// QualityExpectation declares a note the batch must contain and the shape it
// must have. A note matches when its title contains TitlePattern and its
// content contains every MustContain entry; an empty MustContain list matches
// on title alone.
type QualityExpectation struct {
	Name         string   `json:"name" yaml:"name"`
	TitlePattern string   `json:"title_pattern" yaml:"title_pattern"`
	MustContain  []string `json:"must_contain,omitempty" yaml:"must_contain,omitempty"`
	MinScore     int      `json:"min_score,omitempty" yaml:"min_score,omitempty"`
}

// TestScenario bundles the ground truth for one evaluation run. Loaded once,
// never mutated.
type TestScenario struct {
	Name                   string                  `json:"name" yaml:"name"`
	ExpectedNotes          []ExpectedNote          `json:"expected_notes,omitempty" yaml:"expected_notes,omitempty"`
	ExpectedConsolidations []ExpectedConsolidation `json:"expected_consolidations,omitempty" yaml:"expected_consolidations,omitempty"`
	ExistingNotes          []ExistingNote          `json:"existing_notes,omitempty" yaml:"existing_notes,omitempty"`
	ExistingTags           []string                `json:"existing_tags,omitempty" yaml:"existing_tags,omitempty"`
	Expectations           []QualityExpectation    `json:"expectations,omitempty" yaml:"expectations,omitempty"`
}

// KnownTitles returns the titles of every note that exists in the scenario
// (expected plus pre-existing). Connection evaluation is restricted to this
// set so that links to notes outside the scenario never count as spurious.
func (s *TestScenario) KnownTitles() map[string]struct{} {
	out := make(map[string]struct{}, len(s.ExpectedNotes)+len(s.ExistingNotes))
	for _, n := range s.ExpectedNotes {
		out[normalizeTitle(n.Title)] = struct{}{}
	}
	for _, n := range s.ExistingNotes {
		out[normalizeTitle(n.Title)] = struct{}{}
	}
	return out
}
