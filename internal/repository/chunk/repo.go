// Package chunk adapts the chunk index (content slices with precomputed
// embeddings, written by the external indexing pipeline) to the retrieval
// pipeline's searcher contracts.
package chunk

import (
	"context"
	"fmt"

	"github.com/kailas-cloud/unirag/internal/db"
	"github.com/kailas-cloud/unirag/internal/domain"
)

const (
	// IndexName is the FT index over chunk hashes.
	IndexName = domain.KeyPrefix + "chunks:idx"
	// KeyPrefix is the hash key prefix the index covers.
	KeyPrefix = domain.KeyPrefix + "chunk:"
)

// store is the consumer interface for chunk search operations.
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
}

// HNSWConfig tunes the vector index created by EnsureIndex.
type HNSWConfig struct {
	M           int
	EFConstruct int
}

// Repo implements retrieval.VectorSearcher and retrieval.ChunkSearcher.
type Repo struct {
	store     store
	vectorDim int
	hnsw      HNSWConfig
}

// New creates a chunk repository.
func New(s store, vectorDim int) *Repo {
	return &Repo{store: s, vectorDim: vectorDim}
}

// WithHNSW overrides HNSW index parameters.
func (r *Repo) WithHNSW(cfg HNSWConfig) *Repo {
	r.hnsw = cfg
	return r
}

// EnsureIndex creates the chunk FT index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context) error {
	def := &db.IndexDefinition{
		Name:   IndexName,
		Prefix: KeyPrefix,
		Fields: []db.IndexField{
			{Name: "tenant", Type: db.FieldTag},
			{Name: "content", Type: db.FieldText, WithSuffixTrie: true},
			{Name: "embedding", Type: db.FieldVector,
				VectorDim:         r.vectorDim,
				VectorM:           r.hnsw.M,
				VectorEFConstruct: r.hnsw.EFConstruct},
		},
	}
	if err := r.store.CreateIndex(ctx, def); err != nil && err != db.ErrIndexExists {
		return fmt.Errorf("create chunk index: %w", err)
	}
	return nil
}

// SearchVector returns chunks whose cosine similarity to vector exceeds
// threshold, ordered by similarity descending, capped at limit. Tenant
// scoping is a tag pre-filter inside the KNN query itself.
func (r *Repo) SearchVector(
	ctx context.Context, tenantID string,
	vector []float32, threshold float64, limit int,
) ([]domain.Candidate, error) {
	q := &db.KNNQuery{
		Index:  IndexName,
		Filter: db.TagFilter("tenant", tenantID),
		Vector: vector,
		K:      limit,
		Return: []string{"content", "title", "url"},
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search chunks knn: %w", err)
	}

	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		// The engine has no native similarity cut-off; apply it here.
		if e.Score < threshold {
			continue
		}
		out = append(out, candidateFromEntry(e, tenantID, domain.SourceVector, e.Score))
	}
	return out, nil
}

// SearchChunks OR-matches keywords against chunk content (case-insensitive
// infix wildcards), scoped to tenantID, capped at limit.
func (r *Repo) SearchChunks(
	ctx context.Context, tenantID string, kws []string, limit int,
) ([]domain.Candidate, error) {
	match := db.WildcardOr("content", kws)
	if match == "" {
		return nil, nil
	}

	q := &db.TextQuery{
		Index:  IndexName,
		Filter: db.TagFilter("tenant", tenantID),
		Match:  match,
		Limit:  limit,
		Return: []string{"content", "title", "url"},
	}

	sr, err := r.store.SearchText(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search chunks by keyword: %w", err)
	}

	out := make([]domain.Candidate, 0, len(sr.Entries))
	for _, e := range sr.Entries {
		out = append(out, candidateFromEntry(e, tenantID, domain.SourceChunk, 0))
	}
	return out, nil
}

func candidateFromEntry(
	e db.SearchEntry, tenantID string, src domain.SourceType, similarity float64,
) domain.Candidate {
	title := e.Fields["title"]
	if title == "" {
		title = "Document"
	}
	return domain.Candidate{
		TenantID:   tenantID,
		Content:    e.Fields["content"],
		Title:      title,
		URL:        e.Fields["url"],
		Source:     src,
		Similarity: similarity,
	}
}
