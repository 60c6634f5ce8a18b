// Package models defines the domain types for Vitalis.
package models

// Connection is a directed edge from an extracted note to another note.
type Connection struct {
	TargetTitle string  `json:"target_title" yaml:"target_title"`
	Type        string  `json:"type" yaml:"type"`
	Strength    float64 `json:"strength" yaml:"strength"` // 0..1
}

// ExtractedNoteResult is one note produced by the extraction pipeline under
// test. Immutable once handed to the evaluators.
type ExtractedNoteResult struct {
	Title            string       `json:"title" yaml:"title"`
	Content          string       `json:"content" yaml:"content"`
	Tags             []string     `json:"tags,omitempty" yaml:"tags,omitempty"`
	Connections      []Connection `json:"connections,omitempty" yaml:"connections,omitempty"`
	ConsolidatedWith string       `json:"consolidated_with,omitempty" yaml:"consolidated_with,omitempty"`
	MergedContent    string       `json:"merged_content,omitempty" yaml:"merged_content,omitempty"`
}

// Note status values recovered from content.
const (
	StatusSeed      = "Seed"
	StatusSapling   = "Sapling"
	StatusEvergreen = "Evergreen"
)

// Note type values recovered from content.
const (
	NoteTypeLogic      = "Logic"
	NoteTypeTechnical  = "Technical"
	NoteTypeReflection = "Reflection"
)

// Stakeholder values recovered from content.
const (
	StakeholderSelf        = "Self"
	StakeholderFutureUsers = "Future Users"
	StakeholderAIAgent     = "AI Agent"
)

// QualityExtractedNote is an ExtractedNoteResult enriched with the quality
// fields recovered from its content. Empty string means the field is absent;
// an absent field contributes 0 to its rubric component, it never errors.
type QualityExtractedNote struct {
	ExtractedNoteResult

	PurposeStatement string `json:"purpose_statement,omitempty"`
	Project          string `json:"project,omitempty"`
	Status           string `json:"status,omitempty"`
	NoteType         string `json:"note_type,omitempty"`
	Stakeholder      string `json:"stakeholder,omitempty"`
}

// MetadataFieldsPresent counts how many of the four metadata fields were
// recovered.
func (n *QualityExtractedNote) MetadataFieldsPresent() int {
	count := 0
	for _, f := range []string{n.Project, n.Status, n.NoteType, n.Stakeholder} {
		if f != "" {
			count++
		}
	}
	return count
}
