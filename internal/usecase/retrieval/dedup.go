package retrieval

import (
	"sort"
	"strings"

	"github.com/kailas-cloud/unirag/internal/domain"
	"github.com/kailas-cloud/unirag/internal/textutil"
)

// DedupRank sorts candidates by score descending (stable, so discovery
// order breaks ties) and keeps only the first occurrence of each content
// prefix key. Because iteration is already score-sorted, the
// highest-scoring representative of any duplicate group survives.
//
// The key is the normalized (lowercased, whitespace-collapsed) prefix of
// the content, prefixLen bytes long. Two genuinely distinct documents that
// share boilerplate headers can collide; this mirrors the observed
// behavior of the upstream corpus and is accepted.
func DedupRank(cands []domain.ScoredCandidate, prefixLen int) []domain.ScoredCandidate {
	ranked := make([]domain.ScoredCandidate, len(cands))
	copy(ranked, cands)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	seen := make(map[string]struct{}, len(ranked))
	out := make([]domain.ScoredCandidate, 0, len(ranked))
	for _, c := range ranked {
		key := dedupKey(c.Content, prefixLen)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, c)
	}
	return out
}

func dedupKey(content string, prefixLen int) string {
	k := strings.ToLower(textutil.CollapseWhitespace(content))
	if prefixLen > 0 && len(k) > prefixLen {
		k = k[:snapLeft(k, prefixLen)]
	}
	return k
}
