package retrieval

import (
	"strings"

	"github.com/kailas-cloud/unirag/internal/domain"
)

// longTermLen is the keyword length above which a match counts double.
// Longer terms are more specific, so their occurrences are worth more than
// short generic ones.
const longTermLen = 4

// Score computes the blended relevance score for a candidate:
// word-boundary lexical overlap, plus similarity*100 for vector-sourced
// candidates, plus a flat bonus for PDFs (official fee schedules and
// brochures tend to be more authoritative than crawled pages).
// The result is always >= 0.
func Score(c domain.Candidate, kws []string, pdfBonus float64) float64 {
	s := lexicalScore(c.Content, kws)
	if c.Source == domain.SourceVector {
		s += c.Similarity * 100
	}
	if c.Source == domain.SourcePDF {
		s += pdfBonus
	}
	return s
}

// lexicalScore sums word-boundary occurrence counts of each keyword,
// weighting keywords longer than longTermLen double.
func lexicalScore(content string, kws []string) float64 {
	if content == "" || len(kws) == 0 {
		return 0
	}
	lower := strings.ToLower(content)

	var score float64
	for _, kw := range kws {
		if kw == "" {
			continue
		}
		weight := 1.0
		if len(kw) > longTermLen {
			weight = 2.0
		}
		score += float64(countWordOccurrences(lower, strings.ToLower(kw))) * weight
	}
	return score
}

// countWordOccurrences counts non-overlapping occurrences of word in text
// that sit on word boundaries (neighbors must not be alphanumeric).
func countWordOccurrences(text, word string) int {
	count := 0
	for off := 0; ; {
		i := strings.Index(text[off:], word)
		if i < 0 {
			break
		}
		start := off + i
		end := start + len(word)
		if boundary(text, start-1) && boundary(text, end) {
			count++
		}
		off = end
	}
	return count
}

// boundary reports whether position i in text is outside a word: either
// past the string's edges or a non-alphanumeric byte.
func boundary(text string, i int) bool {
	if i < 0 || i >= len(text) {
		return true
	}
	b := text[i]
	return !(b >= 'a' && b <= 'z') && !(b >= 'A' && b <= 'Z') && !(b >= '0' && b <= '9')
}
