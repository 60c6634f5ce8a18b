// Package notefields recovers quality fields (purpose statement, project
// link, status, note type, stakeholder) from raw note content.
//
// The matching rules form an explicit, versioned grammar: an ordered list of
// label patterns per field, tried top to bottom, first match wins. Keeping
// the grammar separate from the scorers lets the matching rules be tested on
// their own.
package notefields

import "regexp"

// GrammarVersion identifies the current pattern set. Bump when a pattern is
// added, removed, or reordered.
const GrammarVersion = 1

// pattern is one entry in the grammar: a compiled regexp whose first capture
// group is the recovered value, plus the source kind it represents.
type pattern struct {
	re     *regexp.Regexp
	source string
}

// Purpose statement sources.
const (
	SourceFirstPerson = "first-person"
	SourceLabel       = "label"
)

var purposePatterns = []pattern{
	{regexp.MustCompile(`(?i)\bI\s*am keeping this because\s+([^\n]+)`), SourceFirstPerson},
	{regexp.MustCompile(`(?i)\bI'm keeping this because\s+([^\n]+)`), SourceFirstPerson},
	{regexp.MustCompile(`(?im)^\s*purpose:\s*(.+)$`), SourceLabel},
	{regexp.MustCompile(`(?im)^\s*why:\s*(.+)$`), SourceLabel},
}

var projectPatterns = []pattern{
	{regexp.MustCompile(`\[\[Project/([^\]|]+)\]\]`), SourceLabel},
	{regexp.MustCompile(`(?im)^\s*project:\s*(?:\[\[)?([^\n\]]+?)(?:\]\])?\s*$`), SourceLabel},
}

var (
	statusPattern      = regexp.MustCompile(`(?im)^\s*status:\s*(seed|sapling|evergreen)\b`)
	noteTypePattern    = regexp.MustCompile(`(?im)^\s*(?:note\s+)?type:\s*(logic|technical|reflection)\b`)
	stakeholderPattern = regexp.MustCompile(`(?im)^\s*stakeholder:\s*(self|future users|ai agent)\b`)
)
