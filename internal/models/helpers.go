package models

import "strings"

// normalizeTitle folds case and surrounding whitespace so that title
// comparisons across ground truth and extraction output are forgiving.
func normalizeTitle(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}

// TitlesEqual reports whether two note titles refer to the same note.
func TitlesEqual(a, b string) bool {
	return normalizeTitle(a) == normalizeTitle(b)
}

// NormalizeTitle exposes the canonical title form used in KnownTitles keys.
func NormalizeTitle(title string) string {
	return normalizeTitle(title)
}
