package chunk

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kailas-cloud/unirag/internal/db"
	"github.com/kailas-cloud/unirag/internal/domain"
)

type mockStore struct {
	knnFn    func(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	textFn   func(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	createFn func(ctx context.Context, def *db.IndexDefinition) error
}

func (m *mockStore) SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
	return m.knnFn(ctx, q)
}

func (m *mockStore) SearchText(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error) {
	return m.textFn(ctx, q)
}

func (m *mockStore) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	return m.createFn(ctx, def)
}

func TestSearchVector_TenantFilterAndThreshold(t *testing.T) {
	store := &mockStore{knnFn: func(_ context.Context, q *db.KNNQuery) (*db.SearchResult, error) {
		if q.Index != IndexName {
			t.Errorf("index = %q, want %q", q.Index, IndexName)
		}
		if q.Filter != "@tenant:{uni\\-042}" {
			t.Errorf("filter = %q, tenant tag pre-filter missing", q.Filter)
		}
		if q.K != 40 {
			t.Errorf("k = %d, want 40", q.K)
		}
		return &db.SearchResult{Total: 3, Entries: []db.SearchEntry{
			{Key: "unirag:chunk:1", Score: 0.9, Fields: map[string]string{"content": "strong match", "title": "Doc A"}},
			{Key: "unirag:chunk:2", Score: 0.17, Fields: map[string]string{"content": "weak match"}},
			{Key: "unirag:chunk:3", Score: 0.18, Fields: map[string]string{"content": "borderline", "url": "https://x"}},
		}}, nil
	}}

	repo := New(store, 1536)
	got, err := repo.SearchVector(context.Background(), "uni-042", []float32{0.1}, 0.18, 40)
	if err != nil {
		t.Fatalf("SearchVector failed: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("candidates = %d, want 2 (below-threshold dropped)", len(got))
	}
	if got[0].Similarity != 0.9 || got[0].Title != "Doc A" {
		t.Errorf("candidate 0 = %+v", got[0])
	}
	if got[0].Source != domain.SourceVector {
		t.Errorf("source = %s, want vector", got[0].Source)
	}
	if got[1].Title != "Document" {
		t.Errorf("missing title fallback, got %q", got[1].Title)
	}
	if got[1].TenantID != "uni-042" {
		t.Errorf("tenant id = %q", got[1].TenantID)
	}
}

func TestSearchChunks_WildcardQuery(t *testing.T) {
	store := &mockStore{textFn: func(_ context.Context, q *db.TextQuery) (*db.SearchResult, error) {
		if q.Filter != "@tenant:{uni\\-042}" {
			t.Errorf("filter = %q, tenant tag pre-filter missing", q.Filter)
		}
		if !strings.Contains(q.Match, "*admission*") || !strings.Contains(q.Match, "*fees*") {
			t.Errorf("match = %q, wildcard terms missing", q.Match)
		}
		if q.Limit != 60 {
			t.Errorf("limit = %d, want 60", q.Limit)
		}
		return &db.SearchResult{Total: 1, Entries: []db.SearchEntry{
			{Key: "unirag:chunk:9", Fields: map[string]string{"content": "admission fees info", "title": "Fees"}},
		}}, nil
	}}

	repo := New(store, 1536)
	got, err := repo.SearchChunks(context.Background(), "uni-042", []string{"admission", "fees"}, 60)
	if err != nil {
		t.Fatalf("SearchChunks failed: %v", err)
	}

	if len(got) != 1 {
		t.Fatalf("candidates = %d, want 1", len(got))
	}
	if got[0].Source != domain.SourceChunk {
		t.Errorf("source = %s, want chunk", got[0].Source)
	}
	if got[0].Similarity != 0 {
		t.Errorf("similarity = %g, want 0 for keyword matches", got[0].Similarity)
	}
}

func TestSearchChunks_NoUsableKeywords(t *testing.T) {
	called := false
	store := &mockStore{textFn: func(context.Context, *db.TextQuery) (*db.SearchResult, error) {
		called = true
		return &db.SearchResult{}, nil
	}}

	repo := New(store, 1536)
	got, err := repo.SearchChunks(context.Background(), "uni-042", []string{"!!", ""}, 60)
	if err != nil {
		t.Fatalf("SearchChunks failed: %v", err)
	}
	if called {
		t.Error("store must not be queried without usable keywords")
	}
	if got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestSearchVector_ErrorWrapped(t *testing.T) {
	store := &mockStore{knnFn: func(context.Context, *db.KNNQuery) (*db.SearchResult, error) {
		return nil, errors.New("boom")
	}}

	repo := New(store, 1536)
	if _, err := repo.SearchVector(context.Background(), "uni-042", []float32{0.1}, 0.18, 40); err == nil {
		t.Fatal("expected error")
	}
}

func TestEnsureIndex(t *testing.T) {
	var captured *db.IndexDefinition
	store := &mockStore{createFn: func(_ context.Context, def *db.IndexDefinition) error {
		captured = def
		return nil
	}}

	repo := New(store, 1536).WithHNSW(HNSWConfig{M: 32, EFConstruct: 400})
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("EnsureIndex failed: %v", err)
	}

	if captured.Name != IndexName || captured.Prefix != KeyPrefix {
		t.Errorf("def = %q / %q", captured.Name, captured.Prefix)
	}

	fields := make(map[string]db.IndexField, len(captured.Fields))
	for _, f := range captured.Fields {
		fields[f.Name] = f
	}
	if fields["tenant"].Type != db.FieldTag {
		t.Error("tenant must be a TAG field")
	}
	if f := fields["content"]; f.Type != db.FieldText || !f.WithSuffixTrie {
		t.Error("content must be TEXT with suffix trie for infix wildcards")
	}
	if f := fields["embedding"]; f.Type != db.FieldVector || f.VectorDim != 1536 || f.VectorM != 32 {
		t.Errorf("embedding field = %+v", f)
	}
}

func TestEnsureIndex_AlreadyExists(t *testing.T) {
	store := &mockStore{createFn: func(context.Context, *db.IndexDefinition) error {
		return db.ErrIndexExists
	}}

	repo := New(store, 1536)
	if err := repo.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("existing index must not be an error: %v", err)
	}
}
