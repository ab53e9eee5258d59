// Package keywords turns a raw question into a small set of discriminative
// search terms. No language model or POS analysis: longer tokens are
// heuristically more specific, which is enough for OR-matched lexical search.
package keywords

import (
	"sort"
	"strings"
)

const (
	// MaxKeywords caps how many terms a single query contributes.
	MaxKeywords = 8
	minTokenLen = 2
)

// Extract returns at most MaxKeywords normalized keywords, ordered by
// descending token length, ties kept in first-seen order. The function is
// pure and deterministic: identical input always yields the identical list.
func Extract(text string) []string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	seen := make(map[string]struct{})
	var tokens []string
	for _, tok := range strings.Fields(b.String()) {
		if len(tok) < minTokenLen {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		if _, dup := seen[tok]; dup {
			continue
		}
		seen[tok] = struct{}{}
		tokens = append(tokens, tok)
	}

	sort.SliceStable(tokens, func(i, j int) bool {
		return len(tokens[i]) > len(tokens[j])
	})

	if len(tokens) > MaxKeywords {
		tokens = tokens[:MaxKeywords]
	}
	return tokens
}
