// Package classify categorizes tags and note connections for rubric scoring.
package classify

import (
	"strings"

	"github.com/starford/vitalis/internal/models"
)

// TagCategory is the functional category of a tag, or Topic for generic tags.
type TagCategory string

const (
	TagAction    TagCategory = "action"
	TagSkill     TagCategory = "skill"
	TagEvolution TagCategory = "evolution"
	TagProject   TagCategory = "project"
	TagTopic     TagCategory = "topic"
)

// functionalPrefixes are the recognized functional categories. A tag is
// functional when it equals a category name or is prefixed by one with a
// "/" or "-" separator (e.g. "action/review", "skill-go").
var functionalPrefixes = []TagCategory{TagAction, TagSkill, TagEvolution, TagProject}

// Tag classifies a single tag string. Unrecognized tags are topic tags.
func Tag(tag string) TagCategory {
	t := strings.ToLower(strings.TrimSpace(tag))
	t = strings.TrimPrefix(t, "#")
	for _, cat := range functionalPrefixes {
		name := string(cat)
		if t == name || strings.HasPrefix(t, name+"/") || strings.HasPrefix(t, name+"-") {
			return cat
		}
	}
	return TagTopic
}

// IsFunctional reports whether a category is one of the functional ones.
func IsFunctional(c TagCategory) bool {
	return c != TagTopic
}

// Direction is the orientation of a connection relative to the vault's
// Maps of Content and projects.
type Direction string

const (
	Upward   Direction = "upward"   // target is a MOC or a project
	Sideways Direction = "sideways" // same-level related concept
	Downward Direction = "downward" // target is a child/detail note
)

// ConnectionClassifier classifies connections against a fixed set of MOC and
// project titles. Immutable after construction, safe for concurrent use.
type ConnectionClassifier struct {
	hubs map[string]struct{}
}

// NewConnectionClassifier builds a classifier over the configured MOC and
// project titles.
func NewConnectionClassifier(mocs, projects []string) *ConnectionClassifier {
	hubs := make(map[string]struct{}, len(mocs)+len(projects))
	for _, m := range mocs {
		hubs[models.NormalizeTitle(m)] = struct{}{}
	}
	for _, p := range projects {
		hubs[models.NormalizeTitle(p)] = struct{}{}
	}
	return &ConnectionClassifier{hubs: hubs}
}

// Classify returns the direction of a connection. Membership in the MOC or
// project set wins over the connection's declared type; otherwise a declared
// "child"/"downward" type maps to Downward and everything else is a
// same-level Sideways link.
func (c *ConnectionClassifier) Classify(conn models.Connection) Direction {
	if _, ok := c.hubs[models.NormalizeTitle(conn.TargetTitle)]; ok {
		return Upward
	}
	switch strings.ToLower(strings.TrimSpace(conn.Type)) {
	case "child", "downward", "detail":
		return Downward
	case "parent", "upward":
		return Upward
	}
	return Sideways
}
