// Package embcache decorates an embedder with a two-tier cache: an
// in-process LRU in front of a shared Redis tier. Identical query texts
// are embedded once per TTL across all replicas.
package embcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"

	"github.com/kailas-cloud/unirag/internal/db"
	"github.com/kailas-cloud/unirag/internal/domain"
	"github.com/kailas-cloud/unirag/internal/logger"
	"github.com/kailas-cloud/unirag/internal/metrics"
)

// KeyPrefix namespaces cached embeddings in the shared store.
const KeyPrefix = domain.KeyPrefix + "emb_cache:"

// DefaultTTL bounds staleness of the shared tier. Embeddings for the same
// model never change, so the TTL only caps cache growth.
const DefaultTTL = 24 * time.Hour

// embedder is the wrapped provider.
type embedder interface {
	Embed(ctx context.Context, text string) (domain.EmbeddingResult, error)
}

// kvStore is the consumer interface for the shared cache tier.
type kvStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Embedder implements retrieval.Embedder with caching.
type Embedder struct {
	next  embedder
	store kvStore
	local *lru.Cache[string, []float32]
	ttl   time.Duration
}

// New creates a caching embedder. localSize is the LRU entry capacity.
func New(next embedder, store kvStore, localSize int) (*Embedder, error) {
	if localSize <= 0 {
		localSize = 256
	}
	cache, err := lru.New[string, []float32](localSize)
	if err != nil {
		return nil, fmt.Errorf("create embedding lru: %w", err)
	}
	return &Embedder{next: next, store: store, local: cache, ttl: DefaultTTL}, nil
}

// WithTTL overrides the shared-tier expiry.
func (e *Embedder) WithTTL(ttl time.Duration) *Embedder {
	if ttl > 0 {
		e.ttl = ttl
	}
	return e
}

// Embed returns a cached vector when one exists, consulting the local LRU
// first and the shared store second. Cache failures never fail the request;
// the provider is the fallback.
func (e *Embedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	key := cacheKey(text)

	if vec, ok := e.local.Get(key); ok {
		metrics.EmbeddingCacheTotal.WithLabelValues("lru", "hit").Inc()
		return domain.EmbeddingResult{Embedding: vec}, nil
	}
	metrics.EmbeddingCacheTotal.WithLabelValues("lru", "miss").Inc()

	if e.store != nil {
		data, err := e.store.Get(ctx, key)
		switch {
		case err == nil:
			vec, decErr := decodeVector(data)
			if decErr == nil {
				metrics.EmbeddingCacheTotal.WithLabelValues("store", "hit").Inc()
				e.local.Add(key, vec)
				return domain.EmbeddingResult{Embedding: vec}, nil
			}
			logger.FromContext(ctx).Warn("embedding cache entry corrupt",
				zap.String("key", key), zap.Error(decErr))
		case errors.Is(err, db.ErrKeyNotFound):
			// fall through to the provider
		default:
			logger.FromContext(ctx).Warn("embedding cache read failed",
				zap.String("key", key), zap.Error(err))
		}
		metrics.EmbeddingCacheTotal.WithLabelValues("store", "miss").Inc()
	}

	res, err := e.next.Embed(ctx, text)
	if err != nil {
		return domain.EmbeddingResult{}, err
	}

	e.local.Add(key, res.Embedding)
	if e.store != nil {
		if err := e.store.SetWithTTL(ctx, key, encodeVector(res.Embedding), e.ttl); err != nil {
			logger.FromContext(ctx).Warn("embedding cache write failed",
				zap.String("key", key), zap.Error(err))
		}
	}
	return res, nil
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return KeyPrefix + hex.EncodeToString(sum[:])
}

func encodeVector(v []float32) []byte {
	buf := make([]byte, len(v)*4)
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeVector(data []byte) ([]float32, error) {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil, fmt.Errorf("bad vector payload length %d", len(data))
	}
	v := make([]float32, len(data)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return v, nil
}
