// Package groundtruth matches extraction output against hand-authored
// expected notes, consolidations, and tags.
package groundtruth

import (
	"strings"

	"github.com/starford/vitalis/internal/models"
)

// TrustThreshold is the confidence above which a fuzzy match is trusted by
// the metric calculators. At or below it the note is treated as unmatched.
const TrustThreshold = 0.5

// Match is the result of matching one extracted note against the expected
// set. Note is nil when no candidate scored above zero.
type Match struct {
	Note       *models.ExpectedNote
	Confidence float64
}

// Trusted reports whether downstream calculators may rely on this match.
func (m Match) Trusted() bool {
	return m.Note != nil && m.Confidence > TrustThreshold
}

// Matcher finds the expected note an extracted note corresponds to. The
// fuzzy implementation is the default; alternatives (edit distance,
// embedding similarity) can be swapped in without touching the calculators.
type Matcher interface {
	Match(extracted models.ExtractedNoteResult, candidates []models.ExpectedNote) Match
}

// FuzzyMatcher scores candidates by title similarity and content keyword
// overlap. Stateless and safe for concurrent use.
type FuzzyMatcher struct{}

var _ Matcher = FuzzyMatcher{}

// Title similarity weights. Keyword overlap fills the remainder.
const (
	titleWeight   = 0.6
	keywordWeight = 0.4
)

// Match returns the highest-scoring candidate and its confidence in [0,1].
func (FuzzyMatcher) Match(extracted models.ExtractedNoteResult, candidates []models.ExpectedNote) Match {
	var best Match
	for i := range candidates {
		cand := &candidates[i]
		score := titleWeight*titleSimilarity(extracted.Title, cand.Title) +
			keywordWeight*keywordOverlap(extracted.Content, cand.ContentKeywords)
		if score > best.Confidence {
			best = Match{Note: cand, Confidence: score}
		}
	}
	return best
}

// titleSimilarity returns 1 for equal titles (case-insensitive), 0.8 when
// one contains the other, and otherwise the word-overlap Jaccard scaled by
// 0.7 so pure word overlap alone never reaches the exact-match band.
func titleSimilarity(a, b string) float64 {
	na, nb := models.NormalizeTitle(a), models.NormalizeTitle(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	if strings.Contains(na, nb) || strings.Contains(nb, na) {
		return 0.8
	}
	wa, wb := wordSet(na), wordSet(nb)
	inter := 0
	for w := range wa {
		if _, ok := wb[w]; ok {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0
	}
	return 0.7 * float64(inter) / float64(union)
}

// keywordOverlap returns the fraction of expected keywords present in the
// extracted content. No keywords means nothing to check: full credit.
func keywordOverlap(content string, keywords []string) float64 {
	if len(keywords) == 0 {
		return 1
	}
	lower := strings.ToLower(content)
	found := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			found++
		}
	}
	return float64(found) / float64(len(keywords))
}

func wordSet(s string) map[string]struct{} {
	out := make(map[string]struct{})
	for _, w := range strings.Fields(s) {
		out[w] = struct{}{}
	}
	return out
}
