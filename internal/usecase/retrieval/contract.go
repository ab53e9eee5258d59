package retrieval

import (
	"context"
	"time"

	"github.com/kailas-cloud/unirag/internal/domain"
)

// Embedder vectorizes the query text.
type Embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// VectorSearcher queries the embedding index for semantically similar
// chunks, strictly scoped to one tenant.
type VectorSearcher interface {
	SearchVector(
		ctx context.Context, tenantID string,
		vector []float32, threshold float64, limit int,
	) ([]domain.Candidate, error)
}

// ChunkSearcher OR-matches keywords against chunk content, scoped to one tenant.
type ChunkSearcher interface {
	SearchChunks(ctx context.Context, tenantID string, kws []string, limit int) ([]domain.Candidate, error)
}

// PageSearcher OR-matches keywords against page title/body, scoped to one
// tenant and ordered by recency. Returned candidate content is the page's
// usable plain-text representation.
type PageSearcher interface {
	SearchPages(ctx context.Context, tenantID string, kws []string, limit int) ([]domain.Candidate, error)
}

// Params holds every tuning knob of the pipeline. All thresholds and
// bonuses live here so they can be tuned and property-tested independently
// of the pipeline logic.
type Params struct {
	VectorThreshold    float64       // minimum cosine similarity for a vector match
	VectorLimit        int           // max rows from the vector stage
	ChunkKeywordLimit  int           // max rows from the chunk keyword stage
	PageKeywordLimit   int           // max rows from the page keyword stage
	ChunkSearchTrigger int           // run chunk keyword search below this candidate count
	PageSearchTrigger  int           // run page keyword search below this candidate count
	MaxContextChars    int           // hard character budget of the assembled context
	VectorSnippetChars int           // snippet window for vector candidates
	ChunkSnippetChars  int           // snippet window for chunk keyword candidates
	PageSnippetChars   int           // snippet window for page candidates
	MinPageChars       int           // pages with less usable text than this are dropped
	DedupPrefixLen     int           // normalized content prefix length used as dedup key
	PDFSourceBonus     float64       // flat score bonus for PDF-sourced candidates
	EntryOverheadChars int           // per-entry budget overhead for labels/separators
	MaxEmbedChars      int           // embedding provider input cap
	StageTimeout       time.Duration // per-stage deadline for external calls
}

// DefaultParams returns the production defaults.
func DefaultParams() Params {
	return Params{
		VectorThreshold:    0.18,
		VectorLimit:        40,
		ChunkKeywordLimit:  60,
		PageKeywordLimit:   18,
		ChunkSearchTrigger: 10,
		PageSearchTrigger:  15,
		MaxContextChars:    30000,
		VectorSnippetChars: 2800,
		ChunkSnippetChars:  2400,
		PageSnippetChars:   2600,
		MinPageChars:       30,
		DedupPrefixLen:     200,
		PDFSourceBonus:     8,
		EntryOverheadChars: 120,
		MaxEmbedChars:      8000,
		StageTimeout:       5 * time.Second,
	}
}
