// Package retrieval implements the hybrid retrieval and context-assembly
// pipeline: vector search first, keyword fallbacks over chunks and pages
// when candidates run short, then scoring, dedup, budgeting, and assembly
// into a grounding context. Every stage is attempted once per query; a
// failing stage contributes an empty candidate set instead of failing the
// whole query.
package retrieval

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kailas-cloud/unirag/internal/domain"
	"github.com/kailas-cloud/unirag/internal/logger"
	"github.com/kailas-cloud/unirag/internal/metrics"
	"github.com/kailas-cloud/unirag/internal/usecase/keywords"
)

// Keyword caps per fallback stage. Chunk content is OR-matched with more
// terms than pages because page queries also fan out over title and body.
const (
	maxChunkSearchTerms = 6
	maxPageSearchTerms  = 4
)

// Service orchestrates one retrieval pipeline run per query. Instances are
// stateless between queries and safe for concurrent use.
type Service struct {
	embed   Embedder
	vectors VectorSearcher
	chunks  ChunkSearcher
	pages   PageSearcher
	params  Params
}

// New creates a retrieval service.
func New(
	embed Embedder, vectors VectorSearcher, chunks ChunkSearcher, pages PageSearcher,
	params Params,
) *Service {
	return &Service{embed: embed, vectors: vectors, chunks: chunks, pages: pages, params: params}
}

// Retrieve runs the full pipeline for one query and returns the assembled
// context. The only error it returns is context cancellation; upstream
// failures degrade individual stages to empty results.
func (s *Service) Retrieve(ctx context.Context, q domain.Query) (domain.Assembled, error) {
	queryID := uuid.NewString()[:8]
	log := logger.FromContext(ctx).With(
		zap.String("query_id", queryID),
		zap.String("tenant_id", q.TenantID),
	)

	// Keyword extraction is CPU-only and has no data dependency on the
	// embedding request, so the embedding call runs concurrently with it.
	var vec []float32
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		vec = s.embedQuery(gctx, log, q.Text)
		return nil
	})
	kws := keywords.Extract(q.Text)
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return domain.Assembled{}, err
	}

	log.Debug("keywords extracted", zap.Strings("keywords", kws))

	var all []domain.ScoredCandidate
	all = s.searchVector(ctx, log, q.TenantID, vec, kws, all)
	if len(all) < s.params.ChunkSearchTrigger && len(kws) > 0 {
		all = s.searchChunks(ctx, log, q.TenantID, kws, all)
	}
	if len(all) < s.params.PageSearchTrigger && len(kws) > 0 {
		all = s.searchPages(ctx, log, q.TenantID, kws, all)
	}

	ranked := DedupRank(all, s.params.DedupPrefixLen)
	selected, totalChars := SelectWithinBudget(ranked, s.params.MaxContextChars, s.params.EntryOverheadChars)
	assembled := Assemble(selected, totalChars)

	metrics.RetrievalContextChars.Observe(float64(totalChars))
	if !assembled.HasSources {
		metrics.RetrievalEmptyTotal.Inc()
	}

	log.Info("retrieval_done",
		zap.Int("candidates", len(all)),
		zap.Int("unique", len(ranked)),
		zap.Int("selected", len(selected)),
		zap.Int("context_chars", totalChars),
		zap.Bool("has_sources", assembled.HasSources),
	)
	return assembled, nil
}

// embedQuery obtains the query vector. Any failure is a soft failure: the
// vector stage is simply skipped.
func (s *Service) embedQuery(ctx context.Context, log *zap.Logger, text string) []float32 {
	ectx, cancel := s.stageContext(ctx)
	defer cancel()

	input := text
	if len(input) > s.params.MaxEmbedChars {
		input = input[:snapLeft(input, s.params.MaxEmbedChars)]
	}

	start := time.Now()
	res, err := s.embed.Embed(ectx, input)
	metrics.RetrievalStageDuration.WithLabelValues("embed").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalStageFailuresTotal.WithLabelValues("embed").Inc()
		log.Warn("embedding unavailable, vector stage will be skipped", zap.Error(err))
		return nil
	}
	return res.Embedding
}

func (s *Service) searchVector(
	ctx context.Context, log *zap.Logger, tenantID string,
	vec []float32, kws []string, all []domain.ScoredCandidate,
) []domain.ScoredCandidate {
	if len(vec) == 0 {
		return all
	}
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	start := time.Now()
	found, err := s.vectors.SearchVector(sctx, tenantID, vec, s.params.VectorThreshold, s.params.VectorLimit)
	metrics.RetrievalStageDuration.WithLabelValues("vector").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalStageFailuresTotal.WithLabelValues("vector").Inc()
		log.Warn("vector search failed", zap.Error(err))
		return all
	}

	kept := 0
	for _, c := range found {
		// Score on the raw content, then bound it: the snippet window may
		// cut off occurrences that still count as relevance evidence.
		score := Score(c, kws, s.params.PDFSourceBonus)
		c.Content = ExtractSnippet(c.Content, kws, s.params.VectorSnippetChars)
		if c.Content == "" {
			continue
		}
		all = append(all, domain.ScoredCandidate{Candidate: c, Score: score})
		kept++
	}
	metrics.RetrievalCandidatesTotal.WithLabelValues("vector").Add(float64(kept))
	log.Debug("vector stage done", zap.Int("found", len(found)), zap.Int("kept", kept))
	return all
}

func (s *Service) searchChunks(
	ctx context.Context, log *zap.Logger, tenantID string,
	kws []string, all []domain.ScoredCandidate,
) []domain.ScoredCandidate {
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	terms := kws
	if len(terms) > maxChunkSearchTerms {
		terms = terms[:maxChunkSearchTerms]
	}

	start := time.Now()
	found, err := s.chunks.SearchChunks(sctx, tenantID, terms, s.params.ChunkKeywordLimit)
	metrics.RetrievalStageDuration.WithLabelValues("chunks").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalStageFailuresTotal.WithLabelValues("chunks").Inc()
		log.Warn("chunk keyword search failed", zap.Error(err))
		return all
	}

	kept := 0
	for _, c := range found {
		// A substring match alone is not evidence of relevance: require a
		// positive word-boundary lexical score against the full keyword set.
		score := Score(c, kws, s.params.PDFSourceBonus)
		if score <= 0 {
			continue
		}
		c.Content = ExtractSnippet(c.Content, kws, s.params.ChunkSnippetChars)
		if c.Content == "" {
			continue
		}
		all = append(all, domain.ScoredCandidate{Candidate: c, Score: score})
		kept++
	}
	metrics.RetrievalCandidatesTotal.WithLabelValues("chunks").Add(float64(kept))
	log.Debug("chunk keyword stage done", zap.Int("found", len(found)), zap.Int("kept", kept))
	return all
}

func (s *Service) searchPages(
	ctx context.Context, log *zap.Logger, tenantID string,
	kws []string, all []domain.ScoredCandidate,
) []domain.ScoredCandidate {
	sctx, cancel := s.stageContext(ctx)
	defer cancel()

	terms := kws
	if len(terms) > maxPageSearchTerms {
		terms = terms[:maxPageSearchTerms]
	}

	start := time.Now()
	found, err := s.pages.SearchPages(sctx, tenantID, terms, s.params.PageKeywordLimit)
	metrics.RetrievalStageDuration.WithLabelValues("pages").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RetrievalStageFailuresTotal.WithLabelValues("pages").Inc()
		log.Warn("page keyword search failed", zap.Error(err))
		return all
	}

	kept := 0
	for _, c := range found {
		score := Score(c, kws, s.params.PDFSourceBonus)
		c.Content = ExtractSnippet(c.Content, kws, s.params.PageSnippetChars)
		if len(c.Content) < s.params.MinPageChars {
			continue
		}
		all = append(all, domain.ScoredCandidate{Candidate: c, Score: score})
		kept++
	}
	metrics.RetrievalCandidatesTotal.WithLabelValues("pages").Add(float64(kept))
	log.Debug("page keyword stage done", zap.Int("found", len(found)), zap.Int("kept", kept))
	return all
}

// stageContext bounds one external call. Timeouts degrade the stage to an
// empty result; they never fail the pipeline.
func (s *Service) stageContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.params.StageTimeout > 0 {
		return context.WithTimeout(ctx, s.params.StageTimeout)
	}
	return context.WithCancel(ctx)
}
