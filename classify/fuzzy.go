package classify

import (
	"strings"

	"github.com/finsight/cardpilot/core"
)

// NormalizeName canonicalizes a product name or query fragment for fuzzy
// matching: lowercase, trademark glyphs stripped, runs of non-alphanumerics
// collapsed to single spaces.
func NormalizeName(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r == '™' || r == '®' || r == '©':
			continue
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
			lastSpace = false
		default:
			if !lastSpace {
				b.WriteByte(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// MatchScore scores how well a query names a product:
//
//	1.0  exact normalized match
//	0.8  one normalized string contains the other
//	else Jaccard overlap of word sets, counting only words longer than 2
func MatchScore(query, name string) float64 {
	q := NormalizeName(query)
	n := NormalizeName(name)
	if q == "" || n == "" {
		return 0
	}
	if q == n {
		return 1.0
	}
	if strings.Contains(q, n) || strings.Contains(n, q) {
		return 0.8
	}

	qWords := significantWords(q)
	nWords := significantWords(n)
	if len(qWords) == 0 || len(nWords) == 0 {
		return 0
	}

	intersection := 0
	for word := range nWords {
		if qWords[word] {
			intersection++
		}
	}
	union := len(qWords) + len(nWords) - intersection
	return float64(intersection) / float64(union)
}

// significantWords returns the set of words longer than 2 characters.
func significantWords(s string) map[string]bool {
	words := make(map[string]bool)
	for _, word := range strings.Fields(s) {
		if len(word) > 2 {
			words[word] = true
		}
	}
	return words
}

// NameMatch is one catalog item scored against a query.
type NameMatch struct {
	Product *core.Product
	Score   float64
}

// BestMatches returns every product scoring at or above threshold, ordered
// best first with catalog order breaking ties.
func BestMatches(query string, products []core.Product, threshold float64) []NameMatch {
	var matches []NameMatch
	for i := range products {
		score := MatchScore(query, products[i].Name)
		if score >= threshold {
			matches = append(matches, NameMatch{Product: &products[i], Score: score})
		}
	}
	// Insertion sort keeps ties in catalog order; the list is tiny.
	for i := 1; i < len(matches); i++ {
		for j := i; j > 0 && matches[j].Score > matches[j-1].Score; j-- {
			matches[j], matches[j-1] = matches[j-1], matches[j]
		}
	}
	return matches
}
