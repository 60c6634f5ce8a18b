// Package parser turns a raw Markdown note into an ExtractedNoteResult so
// single files can be scored outside a scenario run.
package parser

import (
	"bytes"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/starford/vitalis/internal/models"
)

var (
	wikilinkRe = regexp.MustCompile(`\[\[(.*?)\]\]`)
	tagRe      = regexp.MustCompile(`(?:^|\s)#([A-Za-z][A-Za-z0-9_/-]*)`)
)

// frontmatter is the recognized YAML header of a note file. Unknown keys are
// ignored.
type frontmatter struct {
	Title            string            `yaml:"title"`
	Tags             []string          `yaml:"tags"`
	ConsolidatedWith string            `yaml:"consolidated_with"`
	ConnectionTypes  map[string]string `yaml:"connection_types"`
}

// ParseNote extracts title, tags, wikilink connections, and consolidation
// metadata from raw Markdown bytes. Wikilinks become connections; their type
// is looked up in the frontmatter connection_types map when declared.
func ParseNote(data []byte) (models.ExtractedNoteResult, error) {
	fm, body := splitFrontmatter(data)

	note := models.ExtractedNoteResult{
		Title:            deriveTitle(fm, body),
		Content:          body,
		Tags:             extractTags(body, fm),
		ConsolidatedWith: fm.ConsolidatedWith,
	}
	for _, target := range extractLinks(body) {
		note.Connections = append(note.Connections, models.Connection{
			TargetTitle: target,
			Type:        connectionType(fm, target),
		})
	}
	return note, nil
}

// splitFrontmatter separates a YAML header between leading --- delimiters
// from the Markdown body. Missing or invalid frontmatter degrades to an
// all-body note, never an error.
func splitFrontmatter(data []byte) (frontmatter, string) {
	const delim = "---"
	var fm frontmatter

	trimmed := bytes.TrimLeft(data, "\n\r")
	if !bytes.HasPrefix(trimmed, []byte(delim)) {
		return fm, string(data)
	}

	rest := trimmed[len(delim):]
	idx := bytes.Index(rest, []byte("\n"+delim))
	if idx < 0 {
		return fm, string(data)
	}

	if err := yaml.Unmarshal(rest[:idx], &fm); err != nil {
		return frontmatter{}, string(data)
	}
	body := strings.TrimLeft(string(rest[idx+1+len(delim):]), "\n\r")
	return fm, body
}

// extractLinks returns deduplicated wikilink targets. Aliased links
// [[Target|Alias]] resolve to Target.
func extractLinks(body string) []string {
	matches := wikilinkRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		target := m[1]
		if i := strings.Index(target, "|"); i >= 0 {
			target = target[:i]
		}
		target = strings.TrimSpace(target)
		if target == "" {
			continue
		}
		if _, dup := seen[target]; dup {
			continue
		}
		seen[target] = struct{}{}
		out = append(out, target)
	}
	return out
}

// extractTags merges frontmatter tags with inline #tags, frontmatter first,
// deduplicated.
func extractTags(body string, fm frontmatter) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, t := range fm.Tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}

	for _, m := range tagRe.FindAllStringSubmatch(body, -1) {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

func connectionType(fm frontmatter, target string) string {
	if t, ok := fm.ConnectionTypes[target]; ok {
		return t
	}
	return ""
}

// deriveTitle prefers the frontmatter title, then the first H1 heading.
func deriveTitle(fm frontmatter, body string) string {
	if fm.Title != "" {
		return fm.Title
	}
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "# ") {
			return strings.TrimSpace(trimmed[2:])
		}
	}
	return ""
}
