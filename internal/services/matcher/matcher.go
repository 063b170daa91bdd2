// Package matcher maps external category titles onto internal catalog
// categories. Matching is a pure function over the title and the category
// list, so results are deterministic given identical inputs.
package matcher

import (
	"strings"

	"github.com/ternarybob/vendo/internal/models"
)

// Match resolves an external category title to an internal category. Tiers,
// first hit wins: exact normalized match, compound-label containment,
// per-segment match, fuzzy containment score, then the keyword/first
// fallback. Returns nil only when no categories exist.
func Match(externalTitle string, categories []*models.Category, fallbackKeywords []string) *models.Category {
	if len(categories) == 0 {
		return nil
	}

	title := normalize(externalTitle)

	// Tier 1: exact match.
	for _, category := range categories {
		if normalize(category.Name) == title {
			return category
		}
	}

	segments := splitSegments(externalTitle)

	// Tier 2: compound label, with and without the hyphen, containment in
	// either direction.
	if len(segments) >= 2 {
		joined := strings.Join(segments, "")
		for _, candidate := range []string{title, joined} {
			for _, category := range categories {
				if containsEither(normalize(category.Name), candidate) {
					return category
				}
			}
		}
	}

	// Tier 3: first segment by equality or containment, then the second
	// segment as a substring of an internal name. A single-segment title's
	// first segment is the whole title, so its containment candidates are
	// exactly those of the score scan below; the score rule decides there.
	if len(segments) >= 2 {
		first := segments[0]
		for _, category := range categories {
			name := normalize(category.Name)
			if name == first || containsEither(name, first) {
				return category
			}
		}
		second := segments[1]
		for _, category := range categories {
			if strings.Contains(normalize(category.Name), second) {
				return category
			}
		}
	}

	// Tier 4: fuzzy containment score; the contained string's length wins.
	var best *models.Category
	bestScore := 0
	for _, category := range categories {
		score := containmentScore(normalize(category.Name), title)
		if score > bestScore {
			best = category
			bestScore = score
		}
	}
	if best != nil {
		return best
	}

	// Tier 5: keyword fallback, then the first category.
	for _, keyword := range fallbackKeywords {
		needle := normalize(keyword)
		for _, category := range categories {
			if strings.Contains(normalize(category.Name), needle) {
				return category
			}
		}
	}
	return categories[0]
}

// normalize strips all whitespace and case-folds.
func normalize(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), ""))
}

// splitSegments splits a compound label on hyphens into normalized non-empty
// segments.
func splitSegments(title string) []string {
	var segments []string
	for _, part := range strings.Split(title, "-") {
		if normalized := normalize(part); normalized != "" {
			segments = append(segments, normalized)
		}
	}
	return segments
}

func containsEither(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// containmentScore returns the length of whichever string is contained in
// the other, or 0 when neither contains the other.
func containmentScore(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	if strings.Contains(a, b) {
		return len(b)
	}
	if strings.Contains(b, a) {
		return len(a)
	}
	return 0
}
