package retrieval

import "github.com/kailas-cloud/unirag/internal/domain"

// SelectWithinBudget greedily walks the ranked list and keeps every
// candidate that still fits the character budget. A candidate that would
// overflow is skipped, not a stop signal: later, smaller candidates may
// still fit. No reordering happens here -- simplicity over optimal packing
// is a deliberate tradeoff.
//
// Each entry costs len(content) + len(title) + entryOverhead to account for
// the labels and separators added during assembly.
func SelectWithinBudget(
	ranked []domain.ScoredCandidate, maxChars, entryOverhead int,
) ([]domain.ScoredCandidate, int) {
	var out []domain.ScoredCandidate
	total := 0
	for _, c := range ranked {
		cost := len(c.Content) + len(c.Title) + entryOverhead
		if total+cost > maxChars {
			continue
		}
		out = append(out, c)
		total += cost
	}
	return out, total
}
