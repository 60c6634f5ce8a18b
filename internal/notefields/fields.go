package notefields

import (
	"regexp"
	"strings"

	"github.com/starford/vitalis/internal/models"
)

// Purpose is a recovered purpose statement with the grammar source that
// produced it.
type Purpose struct {
	Statement string
	Source    string
}

// RecoverPurpose returns the first purpose statement the grammar finds in
// content, or a zero Purpose when none matches.
func RecoverPurpose(content string) Purpose {
	for _, p := range purposePatterns {
		if m := p.re.FindStringSubmatch(content); m != nil {
			return Purpose{Statement: strings.TrimSpace(m[1]), Source: p.source}
		}
	}
	return Purpose{}
}

// RecoverProject returns the linked project title, or "".
func RecoverProject(content string) string {
	for _, p := range projectPatterns {
		if m := p.re.FindStringSubmatch(content); m != nil {
			return strings.TrimSpace(m[1])
		}
	}
	return ""
}

// RecoverStatus returns the canonical status value, or "".
func RecoverStatus(content string) string {
	return canonical(statusPattern, content, map[string]string{
		"seed":      models.StatusSeed,
		"sapling":   models.StatusSapling,
		"evergreen": models.StatusEvergreen,
	})
}

// RecoverNoteType returns the canonical note type, or "".
func RecoverNoteType(content string) string {
	return canonical(noteTypePattern, content, map[string]string{
		"logic":      models.NoteTypeLogic,
		"technical":  models.NoteTypeTechnical,
		"reflection": models.NoteTypeReflection,
	})
}

// RecoverStakeholder returns the canonical stakeholder, or "".
func RecoverStakeholder(content string) string {
	return canonical(stakeholderPattern, content, map[string]string{
		"self":         models.StakeholderSelf,
		"future users": models.StakeholderFutureUsers,
		"ai agent":     models.StakeholderAIAgent,
	})
}

// Recover runs the full grammar over one extracted note. Missing fields stay
// empty; recovery never fails.
func Recover(note models.ExtractedNoteResult) models.QualityExtractedNote {
	content := note.Content
	if note.MergedContent != "" {
		// Consolidated notes carry their final text in MergedContent.
		content = note.MergedContent
	}
	return models.QualityExtractedNote{
		ExtractedNoteResult: note,
		PurposeStatement:    RecoverPurpose(content).Statement,
		Project:             RecoverProject(content),
		Status:              RecoverStatus(content),
		NoteType:            RecoverNoteType(content),
		Stakeholder:         RecoverStakeholder(content),
	}
}

func canonical(re *regexp.Regexp, content string, values map[string]string) string {
	m := re.FindStringSubmatch(content)
	if m == nil {
		return ""
	}
	return values[strings.ToLower(m[1])]
}
