package redis

import (
	"fmt"
	"strconv"

	"context"

	"github.com/kailas-cloud/unirag/internal/db"
)

// CreateIndex creates an FT index over HASH keys. Returns db.ErrIndexExists
// if the index is already there.
func (s *Store) CreateIndex(ctx context.Context, def *db.IndexDefinition) error {
	if err := def.Validate(); err != nil {
		return fmt.Errorf("invalid index definition: %w", err)
	}

	args := []string{
		def.Name,
		"ON", "HASH",
		"PREFIX", "1", def.Prefix,
		"SCHEMA",
	}
	for _, f := range def.Fields {
		args = append(args, fieldArgs(f)...)
	}

	cmd := s.b().Arbitrary("FT.CREATE").Args(args...).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "index already exists") {
			return db.ErrIndexExists
		}
		return &db.Error{Op: db.OpCreateIndex, Err: err}
	}
	return nil
}

// DropIndex removes an FT index (documents are kept).
func (s *Store) DropIndex(ctx context.Context, name string) error {
	cmd := s.b().Arbitrary("FT.DROPINDEX").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index") || isRedisErr(err, "no such index") {
			return db.ErrIndexNotFound
		}
		return &db.Error{Op: db.OpDropIndex, Err: err}
	}
	return nil
}

// IndexExists checks index presence via FT.INFO.
func (s *Store) IndexExists(ctx context.Context, name string) (bool, error) {
	cmd := s.b().Arbitrary("FT.INFO").Args(name).Build()
	if err := s.do(ctx, cmd).Error(); err != nil {
		if isRedisErr(err, "unknown index") || isRedisErr(err, "no such index") {
			return false, nil
		}
		return false, &db.Error{Op: db.OpIndexInfo, Err: err}
	}
	return true, nil
}

// fieldArgs renders one schema field into FT.CREATE arguments.
func fieldArgs(f db.IndexField) []string {
	switch f.Type {
	case db.FieldVector:
		m := f.VectorM
		if m <= 0 {
			m = 16
		}
		ef := f.VectorEFConstruct
		if ef <= 0 {
			ef = 200
		}
		return []string{
			f.Name, "VECTOR", "HNSW", "10",
			"TYPE", "FLOAT32",
			"DIM", strconv.Itoa(f.VectorDim),
			"DISTANCE_METRIC", "COSINE",
			"M", strconv.Itoa(m),
			"EF_CONSTRUCTION", strconv.Itoa(ef),
		}
	case db.FieldText:
		args := []string{f.Name, "TEXT"}
		if f.WithSuffixTrie {
			args = append(args, "WITHSUFFIXTRIE")
		}
		return args
	case db.FieldNumeric:
		args := []string{f.Name, "NUMERIC"}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
		return args
	default: // db.FieldTag
		args := []string{f.Name, "TAG"}
		if f.Sortable {
			args = append(args, "SORTABLE")
		}
		return args
	}
}
